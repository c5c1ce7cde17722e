package utils

import (
	"fmt"
	"math/big"
)

// FormatBigInt renders an ERC-1155 quantity. Quantities have no decimals; nil is "0".
func FormatBigInt(amount *big.Int) string {
	if amount == nil {
		return "0"
	}
	return amount.String()
}

// HexTokenID renders a token id the way ERC-1155 substitutes {id} in URIs:
// lowercase hex, zero-padded to 64 characters, no 0x prefix.
func HexTokenID(id *big.Int) string {
	if id == nil {
		id = new(big.Int)
	}
	return fmt.Sprintf("%064x", id)
}

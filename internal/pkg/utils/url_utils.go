package utils

import (
	"math/big"
	"strings"
)

const ipfsScheme = "ipfs://"

// TxURL builds the block explorer link of a transaction.
func TxURL(explorerURL, txHash string) string {
	return strings.TrimRight(explorerURL, "/") + "/tx/" + txHash
}

// ResolveIPFS rewrites ipfs:// URIs onto an HTTP gateway. Other URIs are returned as-is.
func ResolveIPFS(uri, gatewayURL string) string {
	if !strings.HasPrefix(uri, ipfsScheme) || gatewayURL == "" {
		return uri
	}
	path := strings.TrimPrefix(uri, ipfsScheme)
	path = strings.TrimPrefix(path, "ipfs/")
	return strings.TrimRight(gatewayURL, "/") + "/" + path
}

// SubstituteTokenID replaces the ERC-1155 {id} placeholder with the padded hex id.
func SubstituteTokenID(uri string, id *big.Int) string {
	return strings.ReplaceAll(uri, "{id}", HexTokenID(id))
}

// SubstituteDecimalTokenID replaces {id} with the decimal id. Some collections
// publish URIs that expect this form instead of the standard hex one.
func SubstituteDecimalTokenID(uri string, id *big.Int) string {
	return strings.ReplaceAll(uri, "{id}", id.String())
}

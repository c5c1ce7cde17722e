package utils

import "strings"

const (
	addressDisplayPrefix = 4
	addressDisplaySuffix = 2
)

// TruncateAddress shortens an address for display: the first four and last two
// characters around "...". Strings too short to shorten are returned unchanged.
func TruncateAddress(address string) string {
	if len(address) <= addressDisplayPrefix+addressDisplaySuffix {
		return address
	}
	return address[:addressDisplayPrefix] + "..." + address[len(address)-addressDisplaySuffix:]
}

// SameAddress compares two hex addresses case-insensitively.
func SameAddress(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

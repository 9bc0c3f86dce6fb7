// internal/utils/address.go
package utils

import "strings"

// NormalizeAddress lowercases a wallet address before it is stored or
// compared. Checksum casing is a display concern; the ledger treats
// 0xAbC... and 0xabc... as the same actor.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

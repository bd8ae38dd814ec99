package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns the hex SHA-256 digest of s. It is used to index long
// free-text keys such as job descriptions.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

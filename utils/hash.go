package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash returns the lowercase 64-hex-char SHA-256 digest of data.
// Scan deduplication keys on this hash over the canonical serialization
// of the uploaded rows.
func ContentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

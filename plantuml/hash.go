package plantuml

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash computes the SHA-256 digest of text as a 64-character hex string.
// Artifact filenames are derived from it, so it must stay stable across
// releases.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

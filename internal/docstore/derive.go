package docstore

import (
	"crypto/sha256"
	"encoding/hex"
)

// DeriveDocumentName deterministically derives the per-user document name
// from the master key, so any device holding the same credential names the
// same document. SHA-256 truncated to 16 bytes keeps the name well within
// the store's length limits while remaining collision resistant.
func DeriveDocumentName(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return "fund-records-" + hex.EncodeToString(sum[:16])
}

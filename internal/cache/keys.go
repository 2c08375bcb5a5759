package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// Cache key operations.
const (
	OpParse = "parse"
	OpLint  = "lint"
)

// Key builds "<op>:<fileID>:<contentHash>", the key form for content-derived
// results: a changed file naturally misses and leaves the stale entry to age
// out.
func Key(op, fileID, contentHash string) string {
	return op + ":" + fileID + ":" + contentHash
}

// FilePrefix builds "<op>:<fileID>", the prefix covering every hash variant
// of one file. Used with InvalidateByPrefix when a file is closed or removed.
func FilePrefix(op, fileID string) string {
	return op + ":" + fileID
}

// HashContent returns the hex sha256 digest of content, the content hash used
// in cache keys and by the symbol index's change gate.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

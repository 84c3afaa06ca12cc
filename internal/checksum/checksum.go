// Package checksum produces the content digests used as HTTP ETags on note
// responses. The corpus is read-only, so a digest changes only when the
// underlying file changes and the snapshot is rebuilt.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ETag wraps the digest of data in the quoted form HTTP expects.
func ETag(data []byte) string {
	return `"` + Sum(data) + `"`
}

package token

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a stable opaque key for a token. Session entries and
// sign-out broadcasts are keyed by fingerprint so raw tokens never sit in
// maps or logs.
func Fingerprint(tok string) string {
	if tok == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:])
}

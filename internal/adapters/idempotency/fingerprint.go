package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint hashes a request body so reuse of a key with a different
// body can be detected.
func Fingerprint(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

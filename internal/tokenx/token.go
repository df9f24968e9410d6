// Package tokenx provides the primitives behind every opaque token the
// server issues: generation from a cryptographically secure random source
// and a deterministic one-way digest for at-rest storage. Only the digest
// is ever persisted; the plaintext exists between generation and delivery.
package tokenx

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// TokenBytes is the number of random bytes per opaque token (256 bits).
const TokenBytes = 32

// Generate returns a new opaque token: TokenBytes of randomness rendered
// as a fixed-length hex string. It returns an error only if the random
// number generator fails.
func Generate() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Digest returns the hex-encoded SHA-256 of token. It is deterministic on
// purpose: stored rows are looked up by digest equality. Password hashing
// uses bcrypt elsewhere; this digest is only for high-entropy random
// tokens, where a salt would add nothing.
func Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

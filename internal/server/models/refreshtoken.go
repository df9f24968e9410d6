package models

import "time"

// RefreshToken stores only the digest of the issued token; the plaintext
// leaves the server once, at issuance.
type RefreshToken struct {
	ID          string
	UserID      string
	SessionID   string
	TokenDigest string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

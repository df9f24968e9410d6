package models

import "time"

// ActionToken is the shared shape of the one-shot tokens (email
// verification, password reset): digest at rest, single active row per
// user, lazily expired.
type ActionToken struct {
	ID          string
	UserID      string
	TokenDigest string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

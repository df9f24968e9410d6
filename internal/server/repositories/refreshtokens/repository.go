// Package refreshtokens declares the repository contract for single-use
// refresh tokens bound to a session. Rows store digests only.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// Repository defines operations for issuing and consuming refresh tokens.
type Repository interface {
	// Create stores a new refresh token digest for the user/session pair.
	Create(ctx context.Context, userID, sessionID, tokenDigest string, expiresAt time.Time) error

	// TakeByDigest atomically removes the row matching the digest and
	// returns it. When no row matches it returns common.ErrorNotFound; a
	// replayed or forged token is indistinguishable from one that never
	// existed, and of two concurrent redeemers exactly one gets the row.
	TakeByDigest(ctx context.Context, tokenDigest string) (*models.RefreshToken, error)

	// DeleteForSession removes every token bound to a session.
	DeleteForSession(ctx context.Context, sessionID string) error

	// DeleteForUser removes every token belonging to a user.
	DeleteForUser(ctx context.Context, userID string) error
}

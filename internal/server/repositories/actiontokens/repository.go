// Package actiontokens implements storage for the one-shot tokens the
// server issues: email verification and password reset. Both tables have
// the same shape and the same lifecycle (issued → redeemed | expired), so
// one repository serves both, bound to its table at construction.
package actiontokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// Repository defines operations for one-shot, single-active-row tokens.
type Repository interface {
	// Replace removes any outstanding token rows for the user and inserts
	// a new one — at most one live token per user. Callers run it inside a
	// transaction so the delete and the insert land together.
	Replace(ctx context.Context, userID, tokenDigest string, expiresAt time.Time) error

	// TakeByDigest atomically removes and returns the row matching the
	// digest, or common.ErrorNotFound. The consuming read makes redemption
	// single-use and doubles as lazy cleanup when the row turns out to be
	// expired.
	TakeByDigest(ctx context.Context, tokenDigest string) (*models.ActionToken, error)

	// DeleteForUser removes every token row of a user.
	DeleteForUser(ctx context.Context, userID string) error
}

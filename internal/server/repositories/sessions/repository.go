// Package sessions declares the repository contract for device/browser
// sessions. Expiry is enforced at read time: expired rows may physically
// remain but are never returned.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// Repository defines operations over session rows. The caller supplies the
// evaluation clock so every expiry comparison in the system uses the
// application's notion of "now".
type Repository interface {
	// Create inserts a session row. ID and timestamps are set by the caller.
	Create(ctx context.Context, session *models.Session) error

	// FindActive returns the session if it exists and has not expired at
	// the given instant, common.ErrorNotFound otherwise.
	FindActive(ctx context.Context, id string, now time.Time) (*models.Session, error)

	// ListActiveForUser returns the user's non-expired sessions.
	ListActiveForUser(ctx context.Context, userID string, now time.Time) ([]*models.Session, error)

	// Delete removes a session row. Dependent refresh tokens must already
	// be gone or removed in the same unit of work.
	Delete(ctx context.Context, id string) error

	// DeleteAllForUser removes every session row of a user.
	DeleteAllForUser(ctx context.Context, userID string) error
}

// Package users declares the credential store contract: user identity and
// password digest persistence.
package users

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// Repository defines operations over user rows. Emails reaching this layer
// are already normalized (trimmed, lowercased) by the caller.
type Repository interface {
	// Create inserts a new user. A unique-constraint violation on email
	// maps to common.ErrorDuplicateEmail, closing the TOCTOU window a
	// prior existence check leaves open.
	Create(ctx context.Context, email string, passwordDigest string) (*models.User, error)

	// FindByEmail returns the user with the given email or common.ErrorNotFound.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByID returns the user with the given id or common.ErrorNotFound.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// UpdatePasswordDigest replaces the stored password digest.
	UpdatePasswordDigest(ctx context.Context, userID string, newDigest string) error

	// MarkEmailVerified flips email_verified to true. Idempotent.
	MarkEmailVerified(ctx context.Context, userID string) error
}

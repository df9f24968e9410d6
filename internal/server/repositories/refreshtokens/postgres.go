// Package refreshtokens provides a PostgreSQL-backed repository for the
// refresh tokens used in the rotation flow.
package refreshtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID, sessionID, tokenDigest string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (user_id, session_id, token_digest, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	if _, err := r.db.ExecContext(ctx, query, userID, sessionID, tokenDigest, expiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// TakeByDigest is a single conditional delete: the row is consumed in the
// same statement that reads it, so a second redeemer of the same plaintext
// observes common.ErrorNotFound.
func (r *PostgresRepository) TakeByDigest(ctx context.Context, tokenDigest string) (*models.RefreshToken, error) {
	query := `
		DELETE FROM refresh_tokens
		WHERE token_digest = $1
		RETURNING id, user_id, session_id, expires_at, created_at
	`
	token := &models.RefreshToken{TokenDigest: tokenDigest}
	err := r.db.QueryRowContext(ctx, query, tokenDigest).Scan(
		&token.ID, &token.UserID, &token.SessionID, &token.ExpiresAt, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

func (r *PostgresRepository) DeleteForSession(ctx context.Context, sessionID string) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE session_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, sessionID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteForUser(ctx context.Context, userID string) error {
	query := `
		DELETE FROM refresh_tokens
		WHERE user_id = $1
	`
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

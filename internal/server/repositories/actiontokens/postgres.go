package actiontokens

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

// Table names served by this repository. Only these constants ever reach
// the SQL text.
const (
	VerificationTable  = "verification_tokens"
	PasswordResetTable = "password_reset_tokens"
)

// PostgresRepository implements Repository over dbx.DBTX for one of the
// one-shot token tables.
type PostgresRepository struct {
	db    dbx.DBTX
	table string
}

// NewVerificationRepository constructs a repository over verification_tokens.
func NewVerificationRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, table: VerificationTable}
}

// NewPasswordResetRepository constructs a repository over password_reset_tokens.
func NewPasswordResetRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, table: PasswordResetTable}
}

func (r *PostgresRepository) Replace(ctx context.Context, userID, tokenDigest string, expiresAt time.Time) error {
	deleteQuery := fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1
	`, r.table)
	if _, err := r.db.ExecContext(ctx, deleteQuery, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (user_id, token_digest, expires_at)
		VALUES ($1, $2, $3)
	`, r.table)
	if _, err := r.db.ExecContext(ctx, insertQuery, userID, tokenDigest, expiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) TakeByDigest(ctx context.Context, tokenDigest string) (*models.ActionToken, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE token_digest = $1
		RETURNING id, user_id, expires_at, created_at
	`, r.table)
	token := &models.ActionToken{TokenDigest: tokenDigest}
	err := r.db.QueryRowContext(ctx, query, tokenDigest).Scan(
		&token.ID, &token.UserID, &token.ExpiresAt, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return token, nil
}

func (r *PostgresRepository) DeleteForUser(ctx context.Context, userID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE user_id = $1
	`, r.table)
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
)

// SessionService manages the lifecycle of device sessions. Deletes cascade
// over dependent refresh tokens inside one transaction, dependents first.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

// NewSessionService constructs a SessionService.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *SessionService {
	return &SessionService{db: db, repomanager: m, logger: logger.With("module", "sessions")}
}

// ActiveSessions lists the user's non-expired sessions.
func (s *SessionService) ActiveSessions(ctx context.Context, userID string) ([]*models.Session, error) {
	sessions, err := s.repomanager.Sessions(s.db).ListActiveForUser(ctx, userID, time.Now())
	if err != nil {
		s.logger.Error(ctx, "session list failed", "error", err.Error())
		return nil, common.ErrorInternal
	}
	return sessions, nil
}

// Logout ends one session: its refresh tokens go first, then the session
// row, in a single transaction.
func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).DeleteForSession(ctx, sessionID); err != nil {
			return err
		}
		return s.repomanager.Sessions(tx).Delete(ctx, sessionID)
	})
	if err != nil {
		s.logger.Error(ctx, "logout failed", "session_id", sessionID, "error", err.Error())
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "session ended", "session_id", sessionID)
	return nil
}

// LogoutAll ends every session of the user.
func (s *SessionService) LogoutAll(ctx context.Context, userID string) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).DeleteForUser(ctx, userID); err != nil {
			return err
		}
		return s.repomanager.Sessions(tx).DeleteAllForUser(ctx, userID)
	})
	if err != nil {
		s.logger.Error(ctx, "logout-all failed", "user_id", userID, "error", err.Error())
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "all sessions ended", "user_id", userID)
	return nil
}

// Package services contains the server-side business logic. This file
// implements UserService, which composes the credential store, the token
// repositories, the session manager, the access-token issuer, and the
// mailer into the user-facing auth operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/mail"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/tokenx"
)

// TokenPair bundles a short-lived access token and a long-lived refresh
// token. The refresh token is plaintext here and nowhere else; the caller
// delivers it and it cannot be recovered again.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// SessionMetadata is the best-effort device information captured at login.
type SessionMetadata struct {
	Device    string
	IP        string
	UserAgent string
}

// LoginResult is what a successful login hands back to the transport layer.
type LoginResult struct {
	User      *models.User
	SessionID string
	Tokens    *TokenPair
}

// UserService provides the authentication operations:
// register, login, refresh-token rotation, email verification,
// and the password reset flow.
type UserService struct {
	db                   *sql.DB
	repomanager          repomanager.RepositoryManager
	mailer               mail.Mailer
	logger               logging.Logger
	jwtSecret            []byte
	accessTokenTTL       time.Duration
	refreshTokenTTL      time.Duration
	sessionTTL           time.Duration
	verificationTokenTTL time.Duration
	passwordResetTTL     time.Duration
}

// NewUserService constructs a UserService from repositories, the mailer,
// and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, mailer mail.Mailer, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:                   db,
		repomanager:          m,
		mailer:               mailer,
		logger:               logger.With("module", "users"),
		jwtSecret:            []byte(cfg.SecretKey),
		accessTokenTTL:       cfg.AccessTokenTTL,
		refreshTokenTTL:      cfg.RefreshTokenTTL,
		sessionTTL:           cfg.SessionTTL,
		verificationTokenTTL: cfg.VerificationTokenTTL,
		passwordResetTTL:     cfg.PasswordResetTTL,
	}
}

// NormalizeEmail lowercases and trims an email before any storage lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user and issues a verification token. The uniqueness
// constraint, not a pre-check, decides duplicates; a concurrent
// registration of the same email loses with ErrorDuplicateEmail.
// Verification-mail delivery failure is logged, never surfaced.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, email, string(digest))
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateEmail) {
			return nil, common.ErrorDuplicateEmail
		}
		s.logger.Error(ctx, "user create failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)

	if err := s.sendVerification(ctx, user); err != nil {
		s.logger.Warn(ctx, "verification mail not delivered", "user_id", user.ID, "error", err.Error())
	}

	return user, nil
}

// Login verifies credentials and opens a new session. An unknown email
// and a wrong password are indistinguishable by design.
func (s *UserService) Login(ctx context.Context, email, password string, meta SessionMetadata) (*LoginResult, error) {
	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, common.ErrorInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordDigest), []byte(password)) != nil {
		s.logger.Warn(ctx, "failed login attempt", "user_id", user.ID)
		return nil, common.ErrorInvalidCredentials
	}

	now := time.Now()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Device:    meta.Device,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.repomanager.Sessions(s.db).Create(ctx, session); err != nil {
		s.logger.Error(ctx, "session create failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	pair, err := s.generateTokenPair(ctx, user, session.ID, s.db)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user logged in", "user_id", user.ID, "session_id", session.ID)
	return &LoginResult{User: user, SessionID: session.ID, Tokens: pair}, nil
}

// RefreshToken rotates a refresh token: the stored row is consumed by a
// single conditional delete, so of two concurrent redeemers exactly one
// wins and the other observes ErrorNotFound — a replayed token looks the
// same as a forged one. Late failures (expired token, dead session,
// missing user) leave the stale row consumed, which is the lazy cleanup.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, string, error) {
	token, err := s.repomanager.RefreshTokens(s.db).TakeByDigest(ctx, tokenx.Digest(refreshToken))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "unknown or replayed refresh token")
			return nil, "", common.ErrorNotFound
		}
		return nil, "", common.ErrorInternal
	}

	now := time.Now()
	if token.ExpiresAt.Before(now) {
		s.logger.Warn(ctx, "expired refresh token", "user_id", token.UserID)
		return nil, "", common.ErrRefreshTokenExpired
	}

	if _, err := s.repomanager.Sessions(s.db).FindActive(ctx, token.SessionID, now); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "refresh token for inactive session", "session_id", token.SessionID)
			return nil, "", common.ErrorSessionInactive
		}
		return nil, "", common.ErrorInternal
	}

	user, err := s.repomanager.Users(s.db).FindByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorUserMissing
		}
		return nil, "", common.ErrorInternal
	}

	pair, err := s.generateTokenPair(ctx, user, token.SessionID, s.db)
	if err != nil {
		return nil, "", err
	}
	return pair, token.SessionID, nil
}

// VerifyEmail redeems a verification token and marks the user verified.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	row, err := s.repomanager.VerificationTokens(s.db).TakeByDigest(ctx, tokenx.Digest(token))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	if row.ExpiresAt.Before(time.Now()) {
		return common.ErrTokenExpired
	}

	usersRepo := s.repomanager.Users(s.db)
	if _, err := usersRepo.FindByID(ctx, row.UserID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUserMissing
		}
		return common.ErrorInternal
	}
	if err := usersRepo.MarkEmailVerified(ctx, row.UserID); err != nil {
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "email verified", "user_id", row.UserID)
	return nil
}

// ForgotPassword issues a reset token when the email is registered.
// Callers must present the identical response either way; an unknown
// email is not an error here.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "password reset requested for unknown email")
			return nil
		}
		return common.ErrorInternal
	}

	token, err := tokenx.Generate()
	if err != nil {
		return common.ErrorInternal
	}
	expires := time.Now().Add(s.passwordResetTTL)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.PasswordResetTokens(tx).Replace(ctx, user.ID, tokenx.Digest(token), expires)
	})
	if err != nil {
		s.logger.Error(ctx, "reset token store failed", "error", err.Error())
		return common.ErrorInternal
	}

	if err := s.mailer.Send(ctx, user.Email, mail.PurposeReset, token); err != nil {
		s.logger.Warn(ctx, "reset mail not delivered", "user_id", user.ID, "error", err.Error())
	}
	return nil
}

// ResetPassword redeems a reset token, replaces the password digest, and
// revokes every session and refresh token of the user in one transaction.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	row, err := s.repomanager.PasswordResetTokens(s.db).TakeByDigest(ctx, tokenx.Digest(token))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	if row.ExpiresAt.Before(time.Now()) {
		return common.ErrTokenExpired
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return common.ErrorInternal
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePasswordDigest(ctx, row.UserID, string(digest)); err != nil {
			return err
		}
		// dependents first, then their sessions
		if err := s.repomanager.RefreshTokens(tx).DeleteForUser(ctx, row.UserID); err != nil {
			return err
		}
		return s.repomanager.Sessions(tx).DeleteAllForUser(ctx, row.UserID)
	})
	if err != nil {
		s.logger.Error(ctx, "password reset failed", "error", err.Error())
		return common.ErrorInternal
	}

	s.logger.Info(ctx, "password reset, all sessions revoked", "user_id", row.UserID)
	return nil
}

// ResendVerification re-issues the verification token. An unknown email
// is reported as success; a verified user gets ErrorAlreadyVerified,
// which unauthenticated transports collapse into the same success shape.
func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return common.ErrorInternal
	}
	if user.EmailVerified {
		return common.ErrorAlreadyVerified
	}

	if err := s.sendVerification(ctx, user); err != nil {
		s.logger.Warn(ctx, "verification mail not delivered", "user_id", user.ID, "error", err.Error())
	}
	return nil
}

// --- helpers below ---

func (s *UserService) sendVerification(ctx context.Context, user *models.User) error {
	token, err := tokenx.Generate()
	if err != nil {
		return err
	}
	expires := time.Now().Add(s.verificationTokenTTL)

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.VerificationTokens(tx).Replace(ctx, user.ID, tokenx.Digest(token), expires)
	})
	if err != nil {
		return err
	}

	return s.mailer.Send(ctx, user.Email, mail.PurposeVerify, token)
}

func (s *UserService) generateTokenPair(ctx context.Context, user *models.User, sessionID string, db dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Email, sessionID, s.jwtSecret, s.accessTokenTTL)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refresh, err := tokenx.Generate()
	if err != nil {
		return nil, common.ErrorInternal
	}

	expires := time.Now().Add(s.refreshTokenTTL)
	if err := s.repomanager.RefreshTokens(db).Create(ctx, user.ID, sessionID, tokenx.Digest(refresh), expires); err != nil {
		return nil, common.ErrorInternal
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

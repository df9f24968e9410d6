package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/authkeeper/internal/dbx"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/mail"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/actiontokens"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/users"
)

// --- test plumbing ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:            "test-secret-key-thats-long-enough-!!",
		AccessTokenTTL:       time.Hour,
		RefreshTokenTTL:      24 * time.Hour,
		SessionTTL:           24 * time.Hour,
		VerificationTokenTTL: 24 * time.Hour,
		PasswordResetTTL:     time.Hour,
	}
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- fake repositories ---

type fakeUsersRepo struct {
	createOut   *models.User
	createErr   error
	createEmail string

	byEmailOut *models.User
	byEmailErr error
	byIDOut    *models.User
	byIDErr    error

	updatedDigest  string
	updateErr      error
	verifiedUserID string
}

func (f *fakeUsersRepo) Create(ctx context.Context, email, passwordDigest string) (*models.User, error) {
	f.createEmail = email
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmailOut, nil
}

func (f *fakeUsersRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byIDOut, nil
}

func (f *fakeUsersRepo) UpdatePasswordDigest(ctx context.Context, userID, newDigest string) error {
	f.updatedDigest = newDigest
	return f.updateErr
}

func (f *fakeUsersRepo) MarkEmailVerified(ctx context.Context, userID string) error {
	f.verifiedUserID = userID
	return nil
}

type fakeSessionsRepo struct {
	created   *models.Session
	createErr error

	findOut *models.Session
	findErr error
	listOut []*models.Session
	listErr error

	deletedID      string
	deletedUserID  string
	deleteErr      error
	deleteAllErr   error
	deletionEvents *[]string
}

func (f *fakeSessionsRepo) Create(ctx context.Context, session *models.Session) error {
	f.created = session
	return f.createErr
}

func (f *fakeSessionsRepo) FindActive(ctx context.Context, id string, now time.Time) (*models.Session, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeSessionsRepo) ListActiveForUser(ctx context.Context, userID string, now time.Time) ([]*models.Session, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeSessionsRepo) Delete(ctx context.Context, id string) error {
	f.deletedID = id
	if f.deletionEvents != nil {
		*f.deletionEvents = append(*f.deletionEvents, "session:"+id)
	}
	return f.deleteErr
}

func (f *fakeSessionsRepo) DeleteAllForUser(ctx context.Context, userID string) error {
	f.deletedUserID = userID
	if f.deletionEvents != nil {
		*f.deletionEvents = append(*f.deletionEvents, "sessions-of:"+userID)
	}
	return f.deleteAllErr
}

type fakeRefreshRepo struct {
	createdDigest string
	createCount   int
	createErr     error

	takeOut *models.RefreshToken
	takeErr error

	deletedSessionID string
	deletedUserID    string
	deleteErr        error
	deletionEvents   *[]string
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID, sessionID, tokenDigest string, expiresAt time.Time) error {
	f.createdDigest = tokenDigest
	f.createCount++
	return f.createErr
}

func (f *fakeRefreshRepo) TakeByDigest(ctx context.Context, tokenDigest string) (*models.RefreshToken, error) {
	if f.takeErr != nil {
		return nil, f.takeErr
	}
	return f.takeOut, nil
}

func (f *fakeRefreshRepo) DeleteForSession(ctx context.Context, sessionID string) error {
	f.deletedSessionID = sessionID
	if f.deletionEvents != nil {
		*f.deletionEvents = append(*f.deletionEvents, "tokens-of-session:"+sessionID)
	}
	return f.deleteErr
}

func (f *fakeRefreshRepo) DeleteForUser(ctx context.Context, userID string) error {
	f.deletedUserID = userID
	if f.deletionEvents != nil {
		*f.deletionEvents = append(*f.deletionEvents, "tokens-of:"+userID)
	}
	return f.deleteErr
}

type fakeActionRepo struct {
	replacedUserID string
	replacedDigest string
	replaceErr     error

	takeOut *models.ActionToken
	takeErr error

	deletedUserID string
}

func (f *fakeActionRepo) Replace(ctx context.Context, userID, tokenDigest string, expiresAt time.Time) error {
	f.replacedUserID = userID
	f.replacedDigest = tokenDigest
	return f.replaceErr
}

func (f *fakeActionRepo) TakeByDigest(ctx context.Context, tokenDigest string) (*models.ActionToken, error) {
	if f.takeErr != nil {
		return nil, f.takeErr
	}
	return f.takeOut, nil
}

func (f *fakeActionRepo) DeleteForUser(ctx context.Context, userID string) error {
	f.deletedUserID = userID
	return nil
}

// --- fake repository manager / mailer ---

type fakeRepoManager struct {
	users        *fakeUsersRepo
	sessions     *fakeSessionsRepo
	refresh      *fakeRefreshRepo
	verification *fakeActionRepo
	reset        *fakeActionRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:        &fakeUsersRepo{},
		sessions:     &fakeSessionsRepo{},
		refresh:      &fakeRefreshRepo{},
		verification: &fakeActionRepo{},
		reset:        &fakeActionRepo{},
	}
}

func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository { return m.users }

func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessions.Repository { return m.sessions }

func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository { return m.refresh }

func (m *fakeRepoManager) VerificationTokens(db dbx.DBTX) actiontokens.Repository {
	return m.verification
}

func (m *fakeRepoManager) PasswordResetTokens(db dbx.DBTX) actiontokens.Repository { return m.reset }

type sentMail struct {
	to      string
	purpose mail.Purpose
	token   string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, destination string, purpose mail.Purpose, token string) error {
	f.sent = append(f.sent, sentMail{to: destination, purpose: purpose, token: token})
	return f.err
}

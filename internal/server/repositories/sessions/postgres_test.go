package sessions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+sessions\b.*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7\)\s*$`

	now := time.Now()
	s := &models.Session{
		ID: "s1", UserID: "u1", Device: "Laptop", IP: "127.0.0.1", UserAgent: "go-test",
		CreatedAt: now, ExpiresAt: now.Add(24 * time.Hour),
	}

	mock.ExpectExec(q).
		WithArgs("s1", "u1", "Laptop", "127.0.0.1", "go-test", s.CreatedAt, s.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindActive_FiltersOnClock(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+.*FROM\s+sessions\s+WHERE\s+id\s*=\s*\$1\s+AND\s+expires_at\s*>\s*\$2\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "device", "ip", "user_agent", "created_at", "expires_at"}).
		AddRow("s1", "u1", "Laptop", "127.0.0.1", "go-test", now.Add(-time.Hour), now.Add(time.Hour))

	mock.ExpectQuery(q).WithArgs("s1", now).WillReturnRows(rows)

	got, err := repo.FindActive(context.Background(), "s1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "s1" || got.UserID != "u1" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestFindActive_ExpiredIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+.*FROM\s+sessions\s+WHERE\s+id\s*=\s*\$1\s+AND\s+expires_at\s*>\s*\$2\s*$`

	mock.ExpectQuery(q).
		WithArgs("s1", sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindActive(context.Background(), "s1", time.Now())
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestListActiveForUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*SELECT\s+.*FROM\s+sessions\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+expires_at\s*>\s*\$2\s*$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "device", "ip", "user_agent", "created_at", "expires_at"}).
		AddRow("s1", "u1", "Laptop", "127.0.0.1", "go-test", now, now.Add(time.Hour)).
		AddRow("s2", "u1", "Phone", "10.0.0.2", "go-test", now, now.Add(2*time.Hour))

	mock.ExpectQuery(q).WithArgs("u1", now).WillReturnRows(rows)

	got, err := repo.ListActiveForUser(context.Background(), "u1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[1].ID != "s2" {
		t.Fatalf("unexpected sessions: %+v", got)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*DELETE\s+FROM\s+sessions\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).WithArgs("s1").WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteAllForUser_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*DELETE\s+FROM\s+sessions\s+WHERE\s+user_id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).WithArgs("u1").WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.DeleteAllForUser(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

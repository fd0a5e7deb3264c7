package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ticketbari/marketplace/internal/model"
)

func newUserMock(t *testing.T) (*UserRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	return NewUserRepo(db), mock, func() { db.Close() }
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo, mock, done := newUserMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("dup@example.com", "Dup", "", "", model.RoleUser, model.StatusActive).
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry 'dup@example.com' for key 'uq_users_email'"))

	_, err := repo.Create(context.Background(), "Dup@Example.com", "Dup", "", "", 10)
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestCreateUserWithoutPasswordStoresEmptyHash(t *testing.T) {
	repo, mock, done := newUserMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO users").
		WithArgs("new@example.com", "New", "https://img.example/p.png", "", model.RoleUser, model.StatusActive).
		WillReturnResult(sqlmock.NewResult(5, 1))

	id, err := repo.Create(context.Background(), "new@example.com", "New", "https://img.example/p.png", "", 10)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != 5 {
		t.Fatalf("expected id 5, got %d", id)
	}
}

func TestRoleByEmailDefaultsForUnknownIdentity(t *testing.T) {
	repo, mock, done := newUserMock(t)
	defer done()

	mock.ExpectQuery("SELECT role FROM users WHERE email=?").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"role"}))

	role, err := repo.RoleByEmail(context.Background(), "ghost@example.com")
	if err != nil {
		t.Fatalf("role lookup: %v", err)
	}
	if role != model.RoleUser {
		t.Fatalf("expected default role %q, got %q", model.RoleUser, role)
	}
}

func TestBanReturnsEmailForCascade(t *testing.T) {
	repo, mock, done := newUserMock(t)
	defer done()

	mock.ExpectQuery("SELECT email FROM users WHERE id=?").
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"email"}).AddRow("crook@example.com"))
	mock.ExpectExec("UPDATE users SET role=").
		WithArgs(model.RoleFraud, model.StatusBanned, uint64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, email, err := repo.Ban(context.Background(), 4)
	if err != nil {
		t.Fatalf("ban: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 row affected, got %d", n)
	}
	if email != "crook@example.com" {
		t.Fatalf("expected banned email back, got %q", email)
	}
}

func TestBanMissingUser(t *testing.T) {
	repo, mock, done := newUserMock(t)
	defer done()

	mock.ExpectQuery("SELECT email FROM users WHERE id=?").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"email"}))

	_, _, err := repo.Ban(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

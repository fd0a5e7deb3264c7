package handler

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ticketbari/marketplace/internal/config"
	"github.com/ticketbari/marketplace/internal/model"
	"github.com/ticketbari/marketplace/internal/repository"
	"github.com/ticketbari/marketplace/internal/utils"
)

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	cfg := config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}
	h := NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db))
	return h, mock, func() { db.Close() }
}

func storedUserRow(t *testing.T, role, status, password string) *sqlmock.Rows {
	t.Helper()
	hash, err := utils.HashPassword(password, 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return sqlmock.NewRows([]string{"id", "email", "name", "photo", "password_hash", "role", "status", "created_at"}).
		AddRow(1, "user@example.com", "User", "", hash, role, status, time.Now())
}

func TestRegisterIssuesTokenPair(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WillReturnResult(sqlmock.NewResult(1, 1))

	c, rec := jsonCtx(t, http.MethodPost, "/auth/register",
		`{"email":"user@example.com","name":"User","password":"s3cret"}`, "")
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"role":"user"`) {
		t.Fatalf("registration must default to the base role, got %s", body)
	}
	if !strings.Contains(body, `"access"`) || !strings.Contains(body, `"refresh"`) {
		t.Fatalf("expected both tokens, got %s", body)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("Error 1062 (23000): Duplicate entry"))

	c, rec := jsonCtx(t, http.MethodPost, "/auth/register",
		`{"email":"dup@example.com","password":"s3cret"}`, "")
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectQuery("SELECT .+ FROM users WHERE email=?").
		WithArgs("user@example.com").
		WillReturnRows(storedUserRow(t, model.RoleUser, model.StatusActive, "right-pass"))

	c, rec := jsonCtx(t, http.MethodPost, "/auth/login",
		`{"email":"user@example.com","password":"wrong-pass"}`, "")
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginBannedAccountForbidden(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectQuery("SELECT .+ FROM users WHERE email=?").
		WithArgs("user@example.com").
		WillReturnRows(storedUserRow(t, model.RoleFraud, model.StatusBanned, "s3cret"))

	c, rec := jsonCtx(t, http.MethodPost, "/auth/login",
		`{"email":"user@example.com","password":"s3cret"}`, "")
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for banned account, got %d", rec.Code)
	}
}

func TestRefreshRotatesPresentedToken(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	raw := "raw-refresh-token"
	hash := utils.HashRefreshRaw(raw)

	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens").
		WithArgs(hash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}).
			AddRow(1, time.Now().Add(time.Hour), nil))
	mock.ExpectQuery("SELECT .+ FROM users WHERE id=?").
		WithArgs(uint64(1)).
		WillReturnRows(storedUserRow(t, model.RoleUser, model.StatusActive, "s3cret"))
	mock.ExpectExec("UPDATE refresh_tokens SET revoked_at=NOW").
		WithArgs(hash).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO refresh_tokens").
		WillReturnResult(sqlmock.NewResult(2, 1))

	c, rec := jsonCtx(t, http.MethodPost, "/auth/refresh",
		`{"refresh_token":"`+raw+`"}`, "")
	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
	if strings.Contains(rec.Body.String(), raw) {
		t.Fatalf("rotated response must not echo the burned token")
	}
}

func TestRefreshUnknownTokenUnauthorized(t *testing.T) {
	h, mock, done := newAuthHandler(t)
	defer done()

	mock.ExpectQuery("SELECT user_id, expires_at, revoked_at FROM refresh_tokens").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at", "revoked_at"}))

	c, rec := jsonCtx(t, http.MethodPost, "/auth/refresh",
		`{"refresh_token":"never-issued"}`, "")
	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

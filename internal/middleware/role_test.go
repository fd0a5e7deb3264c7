package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"

	"github.com/ticketbari/marketplace/internal/model"
	"github.com/ticketbari/marketplace/internal/repository"
)

func userRow(role, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "name", "photo", "password_hash", "role", "status", "created_at"}).
		AddRow(1, "caller@example.com", "Caller", "", "", role, status, time.Now())
}

func runRoleGate(t *testing.T, rows *sqlmock.Rows, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()
	mock.ExpectQuery("SELECT .+ FROM users WHERE email=?").
		WithArgs("caller@example.com").
		WillReturnRows(rows)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("email", "caller@example.com")

	h := RequireRole(repository.NewUserRepo(db), allowed...)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

func TestRequireRoleAllowsStoredRole(t *testing.T) {
	rec := runRoleGate(t, userRow(model.RoleVendor, model.StatusActive), model.RoleVendor, model.RoleAdmin)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRoleBlocksWrongStoredRole(t *testing.T) {
	// The token may still claim vendor; only the stored role counts.
	rec := runRoleGate(t, userRow(model.RoleUser, model.StatusActive), model.RoleVendor)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRoleBlocksBannedVendorImmediately(t *testing.T) {
	rec := runRoleGate(t, userRow(model.RoleFraud, model.StatusBanned), model.RoleVendor)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRoleBlocksMissingIdentity(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequireRole(nil, model.RoleAdmin)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

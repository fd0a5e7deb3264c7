package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ticketbari/marketplace/internal/utils"
)

func runAuth(t *testing.T, secret, header string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := Auth(secret)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec, c
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	rec, _ := runAuth(t, "secret", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 1, "a@b.c", "user", 5)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec, _ := runAuth(t, "secret", "Bearer "+at.Token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthInjectsVerifiedIdentity(t *testing.T) {
	at, err := utils.NewAccessToken("secret", 7, "Buyer@Example.com", "vendor", 5)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec, c := runAuth(t, "secret", "Bearer "+at.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := CallerEmail(c); got != "buyer@example.com" {
		t.Fatalf("expected normalized email, got %q", got)
	}
	id, err := CallerID(c)
	if err != nil {
		t.Fatalf("caller id: %v", err)
	}
	if id != 7 {
		t.Fatalf("expected caller id 7, got %d", id)
	}
	if c.Get("role") != "vendor" {
		t.Fatalf("role claim missing from context")
	}
}

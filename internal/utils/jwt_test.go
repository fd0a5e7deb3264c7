package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestAccessTokenCarriesIdentityClaims(t *testing.T) {
	at, err := NewAccessToken("test-secret", 42, "buyer@example.com", "vendor", 15)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parsed, err := jwt.Parse(at.Token, func(token *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		t.Fatalf("token did not validate")
	}
	if claims["email"] != "buyer@example.com" {
		t.Fatalf("email claim: got %v", claims["email"])
	}
	if claims["role"] != "vendor" {
		t.Fatalf("role claim: got %v", claims["role"])
	}
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Fatalf("sub claim: got %v", claims["sub"])
	}
	if at.Exp.Before(time.Now()) {
		t.Fatalf("expiry already in the past: %v", at.Exp)
	}
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	at, err := NewAccessToken("right-secret", 1, "a@b.c", "user", 15)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, err = jwt.Parse(at.Token, func(token *jwt.Token) (any, error) {
		return []byte("wrong-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err == nil {
		t.Fatalf("expected signature validation failure")
	}
}

func TestRefreshTokenHashIsStableAndOpaque(t *testing.T) {
	rt, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(rt.Raw) != 96 {
		t.Fatalf("expected 96 hex chars, got %d", len(rt.Raw))
	}
	h1 := HashRefreshRaw(rt.Raw)
	h2 := HashRefreshRaw(rt.Raw)
	if h1 != h2 {
		t.Fatalf("hash not deterministic")
	}
	if h1 == rt.Raw {
		t.Fatalf("hash must differ from the raw token")
	}
	if len(h1) != 64 {
		t.Fatalf("expected 64 hex chars of SHA-256, got %d", len(h1))
	}
}

func TestRefreshTokensAreUnique(t *testing.T) {
	a, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	b, err := NewRefreshToken(7)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if a.Raw == b.Raw {
		t.Fatalf("two issued tokens collided")
	}
}

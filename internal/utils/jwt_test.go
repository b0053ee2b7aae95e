package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewAccessTokenRoundTrip(t *testing.T) {
	const secret = "test-secret"
	tok, err := NewAccessToken(secret, 42, "STAFF", 15)
	if err != nil {
		t.Fatalf("NewAccessToken failed: %v", err)
	}
	if tok.Token == "" {
		t.Fatalf("expected non-empty token")
	}
	if until := time.Until(tok.Exp); until < 14*time.Minute || until > 16*time.Minute {
		t.Fatalf("unexpected expiry window: %v", until)
	}

	parsed, err := jwt.Parse(tok.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token failed to parse: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("unexpected claims type")
	}
	if claims["role"] != "STAFF" {
		t.Fatalf("expected role STAFF, got %v", claims["role"])
	}
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Fatalf("expected sub 42, got %v", claims["sub"])
	}
}

func TestNewRefreshToken(t *testing.T) {
	tok, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("NewRefreshToken failed: %v", err)
	}
	if len(tok.Raw) != 96 {
		t.Fatalf("expected 96 hex chars, got %d", len(tok.Raw))
	}
	other, err := NewRefreshToken(30)
	if err != nil {
		t.Fatalf("NewRefreshToken failed: %v", err)
	}
	if tok.Raw == other.Raw {
		t.Fatalf("expected distinct refresh tokens")
	}
}

func TestHashRefreshRawStable(t *testing.T) {
	a := HashRefreshRaw("abc")
	b := HashRefreshRaw("abc")
	if a != b {
		t.Fatalf("expected stable hash")
	}
	if len(a) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(a))
	}
	if a == HashRefreshRaw("abd") {
		t.Fatalf("expected different inputs to hash differently")
	}
}

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !VerifyPassword(hash, "hunter2") {
		t.Fatalf("expected password to verify")
	}
	if VerifyPassword(hash, "hunter3") {
		t.Fatalf("expected wrong password to fail")
	}
}

package utils

import (
	"testing"
	"time"
)

const testSecret = "test-secret-key-that-is-at-least-32-characters-long"

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(testSecret, 15*time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("user-123")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}

	if claims.UserID != "user-123" {
		t.Errorf("UserID = %q, want user-123", claims.UserID)
	}
	if claims.Type != "access" {
		t.Errorf("Type = %q, want access", claims.Type)
	}
	if claims.IsExpired() {
		t.Error("fresh token reported expired")
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	m := NewJWTManager(testSecret, 15*time.Minute, 24*time.Hour)
	other := NewJWTManager("another-secret-key-with-enough-length-0", 15*time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("user-123")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := other.ValidateAccessToken(token); err == nil {
		t.Error("expected validation to fail with a different secret")
	}
}

func TestAccessTokenExpired(t *testing.T) {
	m := NewJWTManager(testSecret, -time.Minute, 24*time.Hour)

	token, err := m.GenerateAccessToken("user-123")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := m.ValidateAccessToken(token); err == nil {
		t.Error("expected validation to fail for an expired token")
	}
}

func TestRefreshTokenIsOpaqueAndUnique(t *testing.T) {
	m := NewJWTManager(testSecret, 15*time.Minute, 24*time.Hour)

	t1, exp, err := m.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	t2, _, err := m.GenerateRefreshToken()
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	if t1 == t2 {
		t.Error("two refresh tokens should never collide")
	}
	if !exp.After(time.Now()) {
		t.Error("refresh token expiry should be in the future")
	}

	// A refresh token must not validate as an access token.
	if _, err := m.ValidateAccessToken(t1); err == nil {
		t.Error("opaque refresh token validated as an access token")
	}
}

func TestHashTokenIsStable(t *testing.T) {
	h1 := HashToken("some-token")
	h2 := HashToken("some-token")
	h3 := HashToken("other-token")

	if h1 != h2 {
		t.Error("hashing the same token twice should match")
	}
	if h1 == h3 {
		t.Error("different tokens should hash differently")
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}
}

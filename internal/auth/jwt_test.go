package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer", time.Hour, Claims{
		UserID: 42,
		Email:  "user@example.com",
		Role:   "student",
	})
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "user@example.com" {
		t.Fatalf("Email = %q", claims.Email)
	}
	if claims.Role != "student" {
		t.Fatalf("Role = %q", claims.Role)
	}
	if claims.Issuer != "issuer" {
		t.Fatalf("Issuer = %q", claims.Issuer)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer", time.Hour, Claims{UserID: 1})
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := ParseToken("other-secret", token); err == nil {
		t.Fatalf("token signed with a different secret must not parse")
	}
}

func TestParseTokenRejectsExpiredToken(t *testing.T) {
	token, err := NewAccessToken("secret", "issuer", -time.Minute, Claims{UserID: 1})
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatalf("expired token must not parse")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseToken("secret", "not-a-jwt"); err == nil {
		t.Fatalf("malformed token must not parse")
	}
}

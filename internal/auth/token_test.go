package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret-a", 60)

	token, expiresAt, err := tm.GenerateToken("user@example.com", []string{"USER"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("expiry not in the future")
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "user@example.com" {
		t.Errorf("subject = %s, want email", claims.Subject)
	}
	if len(claims.Authorities) != 1 || claims.Authorities[0] != "USER" {
		t.Errorf("authorities = %v, want [USER]", claims.Authorities)
	}
}

func TestParseTokenWrongKey(t *testing.T) {
	issuer := NewTokenManager("secret-a", 60)
	verifier := NewTokenManager("secret-b", 60)

	token, _, err := issuer.GenerateToken("user@example.com", []string{"USER"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Error("token signed with a different key accepted")
	}
}

func TestParseTokenExpired(t *testing.T) {
	tm := NewTokenManager("secret-a", 60)

	claims := &Claims{
		Authorities: []string{"USER"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret-a"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := tm.ParseToken(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestParseTokenWrongAlgorithm(t *testing.T) {
	tm := NewTokenManager("secret-a", 60)

	claims := &Claims{
		Authorities: []string{"ADMIN"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret-a"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := tm.ParseToken(token); err == nil {
		t.Error("token with unexpected signing method accepted")
	}
}

func TestParseTokenGarbage(t *testing.T) {
	tm := NewTokenManager("secret-a", 60)
	if _, err := tm.ParseToken("not.a.token"); err == nil {
		t.Error("malformed token accepted")
	}
}

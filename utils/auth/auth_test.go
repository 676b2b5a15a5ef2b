package auth

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager(JWTConfig{Secret: "s3cret", Issuer: "co-teacher"})

	token, jti, err := m.GenerateAccessToken(7, "t@school.edu", "teacher", 2)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if jti == "" {
		t.Error("expected a jti")
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "t@school.edu" || claims.Role != "teacher" || claims.TokenVersion != 2 {
		t.Errorf("claims = %+v", claims)
	}
	if claims.ID != jti {
		t.Errorf("claims.ID = %q, want %q", claims.ID, jti)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	m := NewJWTManager(JWTConfig{Secret: "s3cret", Issuer: "co-teacher"})

	other := NewJWTManager(JWTConfig{Secret: "different", Issuer: "co-teacher"})
	forged, _, _ := other.GenerateAccessToken(1, "a@b.c", "teacher", 0)
	if _, err := m.ValidateToken(forged); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: err = %v", err)
	}

	expired := NewJWTManager(JWTConfig{Secret: "s3cret", Issuer: "co-teacher"})
	expired.config.Expiry = -time.Minute
	old, _, _ := expired.GenerateAccessToken(1, "a@b.c", "teacher", 0)
	if _, err := m.ValidateToken(old); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expired: err = %v", err)
	}

	foreign := NewJWTManager(JWTConfig{Secret: "s3cret", Issuer: "someone-else"})
	tok, _, _ := foreign.GenerateAccessToken(1, "a@b.c", "teacher", 0)
	if _, err := m.ValidateToken(tok); !errors.Is(err, ErrInvalidClaims) {
		t.Errorf("issuer: err = %v", err)
	}

	if _, err := m.ValidateToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage: err = %v", err)
	}
}

func TestGenerateWithoutSecret(t *testing.T) {
	if _, _, err := NewJWTManager(JWTConfig{}).GenerateAccessToken(1, "a", "teacher", 0); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("err = %v", err)
	}
}

func TestPasswords(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("short password: err = %v", err)
	}

	hash, err := hashWithCost("correct horse", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := VerifyPassword(hash, "correct horse"); err != nil {
		t.Errorf("verify: %v", err)
	}
	if err := VerifyPassword(hash, "wrong horse"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("mismatch: err = %v", err)
	}
	if err := VerifyPassword("", "anything"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("empty hash: err = %v", err)
	}
}

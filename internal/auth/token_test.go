package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Minute)

	token, err := svc.GenerateToken(42, "admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user id 42, got %d", claims.UserID)
	}
	if claims.Role != "admin" {
		t.Fatalf("expected role admin, got %s", claims.Role)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a", time.Minute).GenerateToken(1, "admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := NewTokenService("secret-b", time.Minute).ValidateToken(token); err == nil {
		t.Fatalf("expected validation failure with wrong secret")
	}
}

func TestTokenRequiresUserID(t *testing.T) {
	if _, err := NewTokenService("secret", time.Minute).GenerateToken(0, "admin"); err == nil {
		t.Fatalf("expected error for zero user id")
	}
}

func TestHasherRoundTrip(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := hasher.Compare(hash, "hunter2"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := hasher.Compare(hash, "wrong"); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

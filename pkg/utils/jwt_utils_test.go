package utils

import (
	"testing"
	"time"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	if err := InitJWT("test-secret-for-unit-tests", time.Hour); err != nil {
		t.Fatalf("InitJWT: %v", err)
	}

	token, err := GenerateAccessToken(7, "alice", "Alice Uwase", "Manager", "br-001")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 7 || claims.Role != "Manager" || claims.BranchID != "br-001" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ActorName() != "Alice Uwase" {
		t.Fatalf("ActorName = %q", claims.ActorName())
	}
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	if err := InitJWT("test-secret-for-unit-tests", time.Hour); err != nil {
		t.Fatalf("InitJWT: %v", err)
	}
	token, err := GenerateAccessToken(1, "bob", "", "Staff", "")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := ValidateToken(token + "x"); err == nil {
		t.Fatal("expected tampered token to fail validation")
	}
}

func TestInitJWTRejectsShortSecret(t *testing.T) {
	if err := InitJWT("short", 0); err == nil {
		t.Fatal("expected error for short secret")
	}
}

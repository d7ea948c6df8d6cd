package services

import (
	"strings"
	"testing"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewUserService(nil, "test-secret")

	token, err := svc.GenerateJWT("user-123")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	userID, err := svc.ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("userID = %q, want %q", userID, "user-123")
	}
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := NewUserService(nil, "secret-a").GenerateJWT("user-123")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := NewUserService(nil, "secret-b").ValidateJWT(token); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestValidateJWTGarbage(t *testing.T) {
	svc := NewUserService(nil, "test-secret")
	if _, err := svc.ValidateJWT("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := generateCode()
		if len(code) != codeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), codeLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeChars, c) {
				t.Fatalf("code %q contains unexpected character %q", code, c)
			}
		}
		seen[code] = true
	}
	// 100 draws from 36^6 should not all collide.
	if len(seen) < 2 {
		t.Error("generateCode returned the same code 100 times")
	}
}

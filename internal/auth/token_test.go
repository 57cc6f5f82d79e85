package auth

import (
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	ti := NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)

	pair, err := ti.Issue(42, "alice@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	userID, err := ti.Verify(pair.AccessToken, TokenAccess)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if userID != 42 {
		t.Errorf("user id = %d, want 42", userID)
	}

	userID, err = ti.Verify(pair.RefreshToken, TokenRefresh)
	if err != nil {
		t.Fatalf("verify refresh: %v", err)
	}
	if userID != 42 {
		t.Errorf("user id = %d, want 42", userID)
	}
}

func TestVerifyRejectsWrongType(t *testing.T) {
	ti := NewTokenIssuer("test-secret", time.Hour, 24*time.Hour)
	pair, err := ti.Issue(1, "bob@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := ti.Verify(pair.RefreshToken, TokenAccess); err == nil {
		t.Error("refresh token accepted as access token")
	}
	if _, err := ti.Verify(pair.AccessToken, TokenRefresh); err == nil {
		t.Error("access token accepted as refresh token")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	ti := NewTokenIssuer("test-secret", -time.Minute, -time.Minute)
	pair, err := ti.Issue(1, "carol@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := ti.Verify(pair.AccessToken, TokenAccess); err == nil {
		t.Error("expired token accepted")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	ti := NewTokenIssuer("secret-a", time.Hour, time.Hour)
	other := NewTokenIssuer("secret-b", time.Hour, time.Hour)

	pair, err := ti.Issue(1, "dave@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := other.Verify(pair.AccessToken, TokenAccess); err == nil {
		t.Error("token verified with wrong secret")
	}
}

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "hunter2!" {
		t.Fatal("password stored in the clear")
	}
	if !VerifyPassword("hunter2!", hash) {
		t.Error("correct password rejected")
	}
	if VerifyPassword("wrong", hash) {
		t.Error("wrong password accepted")
	}
}

package auth

import (
	"posta/internal/entity"
	"posta/internal/entity/db"
	"strings"
	"testing"
	"time"
)

func TestNewManagerAndTokenLifecycle(t *testing.T) {
	mgr, err := NewManager("test-secret", "issuer", time.Minute*30)
	if err != nil {
		t.Fatalf("unexpected error creating manager: %v", err)
	}

	user := &db.User{ID: entity.NewUserID(), Email: "user@example.com"}
	token, expiresAt, err := mgr.GenerateToken(user)
	if err != nil {
		t.Fatalf("unexpected error generating token: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if expiresAt.Before(time.Now()) {
		t.Fatal("expected future expiry time")
	}

	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error parsing token: %v", err)
	}
	if claims.UserID() != user.ID {
		t.Fatalf("expected user id %s, got %s", user.ID, claims.UserID())
	}
	if !strings.EqualFold(claims.Email, user.Email) {
		t.Fatalf("expected email %s, got %s", user.Email, claims.Email)
	}
}

func TestGenerateTokenRequiresUserID(t *testing.T) {
	mgr, err := NewManager("test-secret", "", time.Hour)
	if err != nil {
		t.Fatalf("unexpected error creating manager: %v", err)
	}
	if _, _, err := mgr.GenerateToken(&db.User{Email: "nobody@example.com"}); err == nil {
		t.Fatal("expected error for user without id")
	}
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	issuer, _ := NewManager("secret-a", "posta", time.Hour)
	verifier, _ := NewManager("secret-b", "posta", time.Hour)

	token, _, err := issuer.GenerateToken(&db.User{ID: entity.NewUserID(), Email: "a@example.com"})
	if err != nil {
		t.Fatalf("unexpected error generating token: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager("   ", "", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

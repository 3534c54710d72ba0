package service_test

import (
	"errors"
	"testing"
	"time"

	"aspiro-server/internal/domain"
	"aspiro-server/internal/service"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestTokenService_IssueAndVerify(t *testing.T) {
	tokens := service.NewTokenService(testSecret, time.Hour)

	token, err := tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	userID, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("expected user-123, got %s", userID)
	}
}

func TestTokenService_Verify_Malformed(t *testing.T) {
	tokens := service.NewTokenService(testSecret, time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := tokens.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestTokenService_Verify_Tampered(t *testing.T) {
	tokens := service.NewTokenService(testSecret, time.Hour)

	token, err := tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	tampered := token[:len(token)-5] + "XXXXX"
	if _, err := tokens.Verify(tampered); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	tokens := service.NewTokenService(testSecret, time.Hour)
	other := service.NewTokenService("a-different-secret", time.Hour)

	token, err := tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestTokenService_Verify_Expired(t *testing.T) {
	tokens := service.NewTokenService(testSecret, time.Hour)

	token, err := tokens.IssueWithTTL("user-123", -time.Minute)
	if err != nil {
		t.Fatalf("IssueWithTTL: %v", err)
	}

	if _, err := tokens.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

package service

import (
	"errors"
	"testing"
	"time"

	"barter-auth/internal/domain"
)

func TestTokenServiceSessionRoundTrip(t *testing.T) {
	svc := NewTokenService("session-secret", "verify-secret", time.Hour, time.Minute, "test")
	account := domain.Account{ID: "acc-1", LoginName: "alice", Email: "a@x.com"}

	token, err := svc.IssueSessionToken(account)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	claims, err := svc.ParseSessionToken(token)
	if err != nil {
		t.Fatalf("expected valid token, got %v", err)
	}
	if claims.AccountID != "acc-1" || claims.LoginName != "alice" || claims.Email != "a@x.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatalf("expected exp and iat claims")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("expected ttl %s, got %s", time.Hour, got)
	}
}

func TestTokenServiceDefaultTTLs(t *testing.T) {
	svc := NewTokenService("s", "v", 0, 0, "")
	if svc.sessionTTL != DefaultSessionTTL {
		t.Fatalf("expected default session ttl, got %s", svc.sessionTTL)
	}
	if svc.verificationTTL != DefaultVerificationTTL {
		t.Fatalf("expected default verification ttl, got %s", svc.verificationTTL)
	}
	if svc.issuer == "" {
		t.Fatalf("expected default issuer")
	}
}

func TestTokenServiceSessionExpired(t *testing.T) {
	svc := NewTokenService("session-secret", "verify-secret", time.Minute, time.Minute, "test")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	token, err := svc.IssueSessionToken(domain.Account{ID: "acc-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	svc.now = func() time.Time { return base.Add(2 * time.Minute) }
	if _, err := svc.ParseSessionToken(token); !errors.Is(err, ErrJWTExpired) {
		t.Fatalf("expected ErrJWTExpired, got %v", err)
	}
}

func TestTokenServiceRejectsForeignTokens(t *testing.T) {
	svc := NewTokenService("session-secret", "verify-secret", time.Hour, time.Hour, "test")
	other := NewTokenService("other-secret", "other-verify", time.Hour, time.Hour, "test")

	foreign, err := other.IssueSessionToken(domain.Account{ID: "acc-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.ParseSessionToken(foreign); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected ErrJWTInvalid for wrong secret, got %v", err)
	}

	// Un token de verificacion no sirve como sesion ni viceversa.
	verify, err := svc.IssueVerificationToken("acc-1")
	if err != nil {
		t.Fatalf("issue verification: %v", err)
	}
	if _, err := svc.ParseSessionToken(verify); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected verification token rejected as session, got %v", err)
	}
	session, err := svc.IssueSessionToken(domain.Account{ID: "acc-1"})
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	if _, err := svc.ParseVerificationToken(session); !errors.Is(err, ErrVerificationTokenInvalid) {
		t.Fatalf("expected session token rejected as verification, got %v", err)
	}

	otherIssuer := NewTokenService("session-secret", "verify-secret", time.Hour, time.Hour, "someone-else")
	token, err := otherIssuer.IssueSessionToken(domain.Account{ID: "acc-1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := svc.ParseSessionToken(token); !errors.Is(err, ErrJWTInvalid) {
		t.Fatalf("expected issuer mismatch rejected, got %v", err)
	}
}

func TestTokenServiceVerificationToken(t *testing.T) {
	svc := NewTokenService("session-secret", "verify-secret", time.Hour, time.Hour, "test")
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	token, err := svc.IssueVerificationToken("acc-9")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	id, err := svc.ParseVerificationToken(token)
	if err != nil || id != "acc-9" {
		t.Fatalf("expected acc-9, got %q (%v)", id, err)
	}

	svc.now = func() time.Time { return base.Add(2 * time.Hour) }
	if _, err := svc.ParseVerificationToken(token); !errors.Is(err, ErrVerificationTokenExpired) {
		t.Fatalf("expected ErrVerificationTokenExpired, got %v", err)
	}

	if _, err := svc.ParseVerificationToken(""); !errors.Is(err, ErrVerificationTokenInvalid) {
		t.Fatalf("expected ErrVerificationTokenInvalid, got %v", err)
	}
}

func TestTokenServiceMissingSecret(t *testing.T) {
	svc := NewTokenService("", "", time.Hour, time.Hour, "test")

	if _, err := svc.IssueSessionToken(domain.Account{ID: "acc-1"}); !errors.Is(err, ErrSigning) {
		t.Fatalf("expected ErrSigning, got %v", err)
	}
	if _, err := svc.IssueVerificationToken("acc-1"); !errors.Is(err, ErrSigning) {
		t.Fatalf("expected ErrSigning, got %v", err)
	}
}

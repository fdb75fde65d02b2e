package service

import (
	"errors"
	"testing"
	"time"
)

func TestAdminGatePlainSecret(t *testing.T) {
	gate := NewAdminGate("s3cret", "")
	if !gate.Enabled() {
		t.Fatalf("gate should be enabled")
	}
	cases := map[string]bool{
		"s3cret":  true,
		"s3cret ": false,
		"S3CRET":  false,
		"":        false,
	}
	for candidate, want := range cases {
		if got := gate.Authorize(candidate); got != want {
			t.Errorf("Authorize(%q) = %v, want %v", candidate, got, want)
		}
	}
}

func TestAdminGateHashedSecret(t *testing.T) {
	hash, err := HashSecret("hunter2")
	if err != nil {
		t.Fatalf("HashSecret failed: %v", err)
	}
	gate := NewAdminGate("ignored-when-hash-set", hash)
	if !gate.Authorize("hunter2") {
		t.Fatalf("hashed secret should authorize")
	}
	if gate.Authorize("ignored-when-hash-set") {
		t.Fatalf("plain secret must not be used when a hash is configured")
	}
}

func TestAdminGateDisabled(t *testing.T) {
	gate := NewAdminGate("", "")
	if gate.Enabled() || gate.Authorize("anything") {
		t.Fatalf("an unconfigured gate must refuse everything")
	}
}

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService("secret-a")
	token, expires, err := svc.Issue("session-1", "topic-1")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if time.Until(expires) < 24*time.Hour {
		t.Fatalf("unexpected expiry %v", expires)
	}

	claims, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.ID != "session-1" || claims.TopicID != "topic-1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := NewTokenService("secret-b").Validate(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("wrong key: expected ErrTokenInvalid, got %v", err)
	}
	if _, err := svc.Validate("garbage"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("garbage: expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenServiceExpiry(t *testing.T) {
	svc := NewTokenService("secret")
	issued := time.Now().Add(-2 * maxSessionAge)
	svc.now = func() time.Time { return issued }
	token, _, err := svc.Issue("s", "t")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

package utils

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tok, err := NewToken("secret", 42, time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if !tok.Exp.After(time.Now().UTC()) {
		t.Fatalf("expiry not in the future: %v", tok.Exp)
	}

	uid, err := ParseToken("secret", tok.Token)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if uid != 42 {
		t.Fatalf("expected user 42, got %d", uid)
	}
}

func TestTokenExpired(t *testing.T) {
	tok, err := NewToken("secret", 7, -time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("secret", tok.Token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenTampered(t *testing.T) {
	tok, err := NewToken("secret", 7, time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	raw := tok.Token
	// Flip a character in the signature segment.
	last := raw[len(raw)-1]
	if last == 'A' {
		raw = raw[:len(raw)-1] + "B"
	} else {
		raw = raw[:len(raw)-1] + "A"
	}
	if _, err := ParseToken("secret", raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	tok, err := NewToken("secret", 7, time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if _, err := ParseToken("other-secret", tok.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

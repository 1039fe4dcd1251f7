package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestNewHMACStrategyTTL(t *testing.T) {
	if s := NewHMACStrategy("secret", Options{}); s.ttl != 24*time.Hour {
		t.Fatalf("expected default ttl, got %s", s.ttl)
	}
	if s := NewHMACStrategy("secret", Options{TTL: 2 * time.Hour}); s.ttl != 2*time.Hour {
		t.Fatalf("expected custom ttl, got %s", s.ttl)
	}
	if name := NewHMACStrategy("secret", Options{}).Name(); name != "hmac" {
		t.Fatalf("unexpected name %q", name)
	}
}

func TestHMACStrategyRoundTrip(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	const id = "6f1c2f1e-4c1a-4b0e-9d55-0d3c1f0f3a11"

	token, err := strategy.IssueToken(id)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	got, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if got != id {
		t.Fatalf("expected %s, got %s", id, got)
	}
}

func TestHMACStrategyIssueRejectsUnencodableID(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{})
	for _, id := range []string{"", "a:b"} {
		if _, err := strategy.IssueToken(id); err == nil {
			t.Fatalf("expected error for id %q", id)
		}
	}
}

func TestHMACStrategyParseRejects(t *testing.T) {
	strategy := NewHMACStrategy("secret", Options{TTL: time.Minute})
	encode := func(raw string) string { return base64.StdEncoding.EncodeToString([]byte(raw)) }
	signed := func(payload string) string { return encode(payload + ":" + strategy.sign(payload)) }

	valid, err := strategy.IssueToken("s1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	raw, _ := base64.StdEncoding.DecodeString(valid)
	parts := strings.Split(string(raw), ":")
	parts[2] = "tampered"
	foreign, _ := NewHMACStrategy("other", Options{}).IssueToken("s1")

	cases := map[string]string{
		"not base64":       "%%%",
		"two parts":        encode("only:two"),
		"empty session":    signed(fmt.Sprintf(":%d", time.Now().Add(time.Minute).Unix())),
		"tampered":         encode(strings.Join(parts, ":")),
		"foreign secret":   foreign,
		"malformed expiry": signed("s1:soon"),
		"expired":          signed(fmt.Sprintf("s1:%d", time.Now().Add(-time.Minute).Unix())),
		"empty token":      "",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := strategy.ParseToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

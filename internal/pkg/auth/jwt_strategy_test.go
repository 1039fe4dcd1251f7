package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTStrategy_IssueAndParse(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{TTL: time.Minute})
	token, err := strategy.IssueToken("s1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	sid, err := strategy.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if sid != "s1" {
		t.Fatalf("unexpected session id: %s", sid)
	}
}

func TestJWTStrategy_RejectsEmptyID(t *testing.T) {
	if _, err := NewJWTStrategy("secret", Options{}).IssueToken(""); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestJWTStrategy_ParseRejectsBadTokens(t *testing.T) {
	strategy := NewJWTStrategy("secret", Options{})
	now := time.Now()

	sign := func(method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return token
	}

	cases := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "foreign secret", token: sign(jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{
			"sid": "s1", "exp": now.Add(time.Minute).Unix(), "iat": now.Unix(),
		})},
		{name: "expired", token: sign(jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
			"sid": "s1", "exp": now.Add(-time.Minute).Unix(), "iat": now.Add(-2 * time.Minute).Unix(),
		})},
		{name: "missing expiry", token: sign(jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
			"sid": "s1", "iat": now.Unix(),
		})},
		{name: "other algorithm", token: sign(jwt.SigningMethodHS512, []byte("secret"), jwt.MapClaims{
			"sid": "s1", "exp": now.Add(time.Minute).Unix(), "iat": now.Unix(),
		})},
		{name: "missing sid", token: sign(jwt.SigningMethodHS256, []byte("secret"), jwt.MapClaims{
			"exp": now.Add(time.Minute).Unix(), "iat": now.Unix(),
		})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := strategy.ParseToken(tc.token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestJWTStrategy_Name(t *testing.T) {
	if name := NewJWTStrategy("secret", Options{}).Name(); name != "jwt" {
		t.Fatalf("unexpected name: %s", name)
	}
}

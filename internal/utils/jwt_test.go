package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestIssueAccessToken(t *testing.T) {
	t.Parallel()

	t.Run("round trips the caller claim", func(t *testing.T) {
		t.Parallel()

		before := time.Now()
		tok, err := IssueAccessToken(testSecret, map[string]any{"email": "a@x.com", "name": "Ann"}, 0)
		if err != nil {
			t.Fatalf("IssueAccessToken: %v", err)
		}
		claims, err := ParseAccessToken(testSecret, tok.Token)
		if err != nil {
			t.Fatalf("ParseAccessToken: %v", err)
		}
		if claims["email"] != "a@x.com" || claims["name"] != "Ann" {
			t.Errorf("claims = %v", claims)
		}

		want := before.Add(DefaultTokenTTL)
		if tok.Exp.Before(want.Add(-time.Minute)) || tok.Exp.After(want.Add(time.Minute)) {
			t.Errorf("Exp = %v, want about %v", tok.Exp, want)
		}
	})

	t.Run("caller cannot choose exp", func(t *testing.T) {
		t.Parallel()

		past := time.Now().Add(-time.Hour).Unix()
		tok, err := IssueAccessToken(testSecret, map[string]any{"email": "a@x.com", "exp": past}, time.Hour)
		if err != nil {
			t.Fatalf("IssueAccessToken: %v", err)
		}
		if _, err := ParseAccessToken(testSecret, tok.Token); err != nil {
			t.Errorf("token should be valid, got %v", err)
		}
	})

	t.Run("requires email", func(t *testing.T) {
		t.Parallel()

		cases := []map[string]any{
			nil,
			{},
			{"email": ""},
			{"email": "   "},
			{"email": 42},
			{"name": "no email"},
		}
		for _, c := range cases {
			if _, err := IssueAccessToken(testSecret, c, 0); !errors.Is(err, ErrMissingIdentity) {
				t.Errorf("IssueAccessToken(%v) err = %v, want ErrMissingIdentity", c, err)
			}
		}
	})

	t.Run("signs with HS256", func(t *testing.T) {
		t.Parallel()

		tok, err := IssueAccessToken(testSecret, map[string]any{"email": "a@x.com"}, 0)
		if err != nil {
			t.Fatalf("IssueAccessToken: %v", err)
		}
		parsed, _, err := new(jwt.Parser).ParseUnverified(tok.Token, jwt.MapClaims{})
		if err != nil {
			t.Fatalf("ParseUnverified: %v", err)
		}
		if parsed.Method.Alg() != "HS256" {
			t.Errorf("alg = %q, want HS256", parsed.Method.Alg())
		}
	})
}

func TestParseAccessToken(t *testing.T) {
	t.Parallel()

	sign := func(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		return s
	}
	future := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name string
		raw  func(t *testing.T) string
	}{
		{"empty", func(*testing.T) string { return "" }},
		{"garbage", func(*testing.T) string { return "not.a.jwt" }},
		{"wrong secret", func(t *testing.T) string {
			return sign(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"email": "a@x.com", "exp": future})
		}},
		{"expired", func(t *testing.T) string {
			return sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"email": "a@x.com", "exp": time.Now().Add(-time.Minute).Unix()})
		}},
		{"no expiry", func(t *testing.T) string {
			return sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"email": "a@x.com"})
		}},
		{"alg none", func(t *testing.T) string {
			return sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"email": "a@x.com", "exp": future})
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseAccessToken(testSecret, tt.raw(t)); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

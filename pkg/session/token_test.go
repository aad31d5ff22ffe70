package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const secret = "test-secret-with-enough-bytes"

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens(secret, time.Hour)

	signed, err := tokens.Issue("sid-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	sid, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if sid != "sid-123" {
		t.Fatalf("sid = %q, want sid-123", sid)
	}
	if tokens.TTL() != time.Hour {
		t.Fatalf("ttl = %v", tokens.TTL())
	}
}

func TestTokensRejectTampering(t *testing.T) {
	tokens := NewTokens(secret, time.Hour)
	signed, err := tokens.Issue("sid-123")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(signed, ".")
	forged, _ := NewTokens("another-secret-of-same-size", time.Hour).Issue("sid-999")
	forgedParts := strings.Split(forged, ".")

	tests := map[string]string{
		"empty":          "",
		"garbage":        "not-a-token",
		"swapped claims": parts[0] + "." + forgedParts[1] + "." + parts[2],
		"wrong secret":   forged,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := tokens.Parse(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestTokensExpire(t *testing.T) {
	tokens := NewTokens(secret, time.Minute)
	now := time.Now()
	tokens.now = func() time.Time { return now }

	signed, err := tokens.Issue("sid")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := tokens.Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token: err = %v, want ErrInvalidToken", err)
	}
}

func TestTokensRejectOtherAlgorithms(t *testing.T) {
	tokens := NewTokens(secret, time.Hour)
	claims := &Claims{
		SessionID: "sid",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := tokens.Parse(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("alg none accepted: err = %v", err)
	}

	wrongIssuer := &Claims{SessionID: "sid", RegisteredClaims: jwt.RegisteredClaims{Issuer: "someone-else"}}
	signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, wrongIssuer).SignedString([]byte(secret))
	if _, err := tokens.Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign issuer accepted: err = %v", err)
	}
}

package auth

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhub-io/taskhub/pkg/observability"
)

var testKey = []byte("test-signing-key-for-token-tests")

func newTestTokenService(t *testing.T, ttl time.Duration) *TokenService {
	t.Helper()
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	svc, err := NewTokenService(testKey, ttl, logger)
	if err != nil {
		t.Fatalf("NewTokenService failed: %v", err)
	}
	return svc
}

func TestNewTokenService_EmptyKey(t *testing.T) {
	_, err := NewTokenService(nil, time.Minute, nil)
	if err == nil {
		t.Fatal("Expected error for empty signing key")
	}
}

func TestTokenService_IssueVerifyRoundtrip(t *testing.T) {
	svc := newTestTokenService(t, 30*time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tok, err := svc.Issue("alice", now)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if tok == "" {
		t.Fatal("Expected non-empty token")
	}

	claims, err := svc.Verify(tok, now)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if claims.Subject != "alice" {
		t.Errorf("Expected subject alice, got %q", claims.Subject)
	}
	if !claims.ExpiresAt.Equal(now.Add(30 * time.Minute)) {
		t.Errorf("Expected expiry at issued_at+TTL, got %v", claims.ExpiresAt)
	}
}

func TestTokenService_ExpiryBoundaries(t *testing.T) {
	ttl := 30 * time.Minute
	svc := newTestTokenService(t, ttl)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tok, err := svc.Issue("alice", t0)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Not expired one second before the TTL elapses
	if _, err := svc.Verify(tok, t0.Add(ttl-time.Second)); err != nil {
		t.Errorf("Expected token valid at t0+TTL-1s, got %v", err)
	}

	// Expired one second after
	if _, err := svc.Verify(tok, t0.Add(ttl+time.Second)); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken at t0+TTL+1s, got %v", err)
	}
}

func TestTokenService_TamperedToken(t *testing.T) {
	svc := newTestTokenService(t, 30*time.Minute)
	now := time.Now()

	tok, err := svc.Issue("alice", now)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Flip one byte at every position; verification must always fail
	for i := 0; i < len(tok); i++ {
		b := []byte(tok)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		tampered := string(b)
		if tampered == tok {
			continue
		}
		if _, err := svc.Verify(tampered, now); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("Expected ErrInvalidToken for byte %d tampered, got %v", i, err)
		}
	}
}

func TestTokenService_WrongKey(t *testing.T) {
	svc := newTestTokenService(t, 30*time.Minute)
	now := time.Now()

	other, err := NewTokenService([]byte("a-completely-different-key"), 30*time.Minute, nil)
	if err != nil {
		t.Fatalf("NewTokenService failed: %v", err)
	}

	tok, err := other.Issue("alice", now)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := svc.Verify(tok, now); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for token signed with another key, got %v", err)
	}
}

func TestTokenService_RejectsUnsignedToken(t *testing.T) {
	svc := newTestTokenService(t, 30*time.Minute)
	now := time.Now()

	claims := jwt.RegisteredClaims{
		Subject:   "alice",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("Failed to build alg=none token: %v", err)
	}

	if _, err := svc.Verify(tok, now); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for alg=none token, got %v", err)
	}
}

func TestTokenService_UniformFailure(t *testing.T) {
	svc := newTestTokenService(t, 30*time.Minute)
	now := time.Now()

	expired, err := svc.Issue("alice", now.Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// Expired, malformed and garbage tokens must all yield the same error
	cases := map[string]string{
		"expired":   expired,
		"malformed": "not.a.token",
		"garbage":   strings.Repeat("x", 64),
		"empty":     "",
	}

	for name, tok := range cases {
		_, err := svc.Verify(tok, now)
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
		if err.Error() != ErrInvalidToken.Error() {
			t.Errorf("%s: error message leaks failure detail: %q", name, err)
		}
	}
}

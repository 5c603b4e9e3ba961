package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taskhub-io/taskhub/pkg/observability"
)

// SigningAlgorithm identifies the symmetric signature algorithm for tokens
type SigningAlgorithm string

// AlgorithmHS256 is the only supported signing algorithm
const AlgorithmHS256 SigningAlgorithm = "HS256"

// DefaultTokenTTL is the token lifetime when none is configured
const DefaultTokenTTL = 30 * time.Minute

// TokenService issues and verifies signed, time-limited bearer tokens.
// The signing key is loaded once at startup and treated as immutable for
// the process lifetime; rotating it invalidates all outstanding tokens.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	logger     *observability.Logger
}

// NewTokenService creates a token service. A non-positive ttl falls back
// to DefaultTokenTTL.
func NewTokenService(signingKey []byte, ttl time.Duration, logger *observability.Logger) (*TokenService, error) {
	if len(signingKey) == 0 {
		return nil, fmt.Errorf("signing key must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &TokenService{
		signingKey: signingKey,
		ttl:        ttl,
		logger:     logger,
	}, nil
}

// TTL returns the configured token lifetime
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue creates a signed token for the given subject with
// exp = now + TTL.
func (s *TokenService) Issue(subject string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature first, then expiry against the supplied
// clock reading, and returns the claims. Every failure collapses to
// ErrInvalidToken so callers cannot distinguish expired from forged from
// malformed; the underlying cause goes to the internal log only.
func (s *TokenService) Verify(tokenString string, now time.Time) (*Claims, error) {
	var claims jwt.RegisteredClaims

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{string(AlgorithmHS256)}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		s.logger.WithError(err).Debug("token verification failed")
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		s.logger.Debug("token verification failed: token not valid")
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		s.logger.Debug("token verification failed: empty subject")
		return nil, ErrInvalidToken
	}

	out := &Claims{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

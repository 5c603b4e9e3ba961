// Package middleware provides the HTTP authentication middleware gating
// user-scoped endpoints.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/taskhub-io/taskhub/pkg/auth"
	"github.com/taskhub-io/taskhub/pkg/contextkeys"
	"github.com/taskhub-io/taskhub/pkg/httputil"
	"github.com/taskhub-io/taskhub/pkg/observability"
)

// AuthMiddleware resolves the bearer token on each request and injects
// the authenticated user into the request context.
type AuthMiddleware struct {
	resolver *auth.Resolver
	metrics  *observability.Metrics
}

// NewAuthMiddleware creates the authentication middleware. Metrics may
// be nil.
func NewAuthMiddleware(resolver *auth.Resolver, metrics *observability.Metrics) *AuthMiddleware {
	return &AuthMiddleware{
		resolver: resolver,
		metrics:  metrics,
	}
}

// Handler wraps an HTTP handler with authentication. Every failure is
// answered with the same 401 body; the internal reason goes to the log
// and the auth failure counter only.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := ExtractBearerToken(r)
		if err != nil {
			m.reject(w, r, err)
			return
		}

		user, err := m.resolver.Resolve(r.Context(), token)
		if err != nil {
			m.reject(w, r, err)
			return
		}

		ctx := contextkeys.WithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ExtractBearerToken pulls the token from the Authorization header.
// A missing header or a non-Bearer scheme is auth.ErrMissingCredential,
// kept distinct from token verification failures for diagnostics.
func ExtractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", auth.ErrMissingCredential
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", auth.ErrMissingCredential
	}

	return parts[1], nil
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, err error) {
	reason := "internal"
	switch {
	case errors.Is(err, auth.ErrMissingCredential):
		reason = "missing_credential"
	case errors.Is(err, auth.ErrInvalidToken):
		reason = "invalid_token"
	case errors.Is(err, auth.ErrUnknownSubject):
		reason = "unknown_subject"
	default:
		// Storage failure during lookup, not an auth decision
		observability.FromContext(r.Context()).WithError(err).Error("identity resolution failed")
		httputil.WriteInternalError(w)
		return
	}

	observability.FromContext(r.Context()).WithField("reason", reason).Debug("request rejected")
	if m.metrics != nil {
		m.metrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	}

	// Uniform response: the caller cannot distinguish expired from forged
	// from unknown-subject
	httputil.WriteUnauthorized(w, "unauthorized")
}

// GetUser extracts the authenticated user injected by Handler, or nil
func GetUser(r *http.Request) *auth.User {
	user, ok := contextkeys.GetUser(r.Context()).(*auth.User)
	if !ok {
		return nil
	}
	return user
}

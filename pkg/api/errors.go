package api

import (
	"errors"
	"net/http"

	"github.com/taskhub-io/taskhub/pkg/auth"
	"github.com/taskhub-io/taskhub/pkg/httputil"
	"github.com/taskhub-io/taskhub/pkg/observability"
	"github.com/taskhub-io/taskhub/pkg/storage"
)

// writeServiceError maps domain errors to HTTP responses. Anything
// unrecognized is logged and reported as a generic 500 without detail.
func writeServiceError(w http.ResponseWriter, logger *observability.Logger, err error) {
	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		httputil.WriteValidationError(w, verr.Field, verr.Message)
	case errors.Is(err, auth.ErrDuplicateUsername):
		httputil.WriteConflict(w, "username already taken")
	case errors.Is(err, storage.ErrDuplicateCategory):
		httputil.WriteConflict(w, "category already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		httputil.WriteUnauthorized(w, "invalid credentials")
	case errors.Is(err, auth.ErrInvalidReference):
		httputil.WriteBadRequest(w, "invalid category reference")
	case errors.Is(err, auth.ErrNotFound):
		httputil.WriteNotFoundError(w, "not found")
	default:
		logger.WithError(err).Error("request failed")
		httputil.WriteInternalError(w)
	}
}

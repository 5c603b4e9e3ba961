package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/taskhub-io/taskhub/pkg/auth"
	"github.com/taskhub-io/taskhub/pkg/httputil"
	"github.com/taskhub-io/taskhub/pkg/middleware"
	"github.com/taskhub-io/taskhub/pkg/observability"
)

// UserHandlers handles registration, login and account deletion
type UserHandlers struct {
	auth    *auth.Service
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewUserHandlers creates a new user handlers instance
func NewUserHandlers(authService *auth.Service, logger *observability.Logger, metrics *observability.Metrics) *UserHandlers {
	return &UserHandlers{
		auth:    authService,
		logger:  logger,
		metrics: metrics,
	}
}

// RegisterPublicRoutes registers the routes reachable without a token
func (h *UserHandlers) RegisterPublicRoutes(router *mux.Router) {
	router.HandleFunc("/users/register", h.register).Methods("POST")
	router.HandleFunc("/users/login", h.login).Methods("POST")
}

// RegisterProtectedRoutes registers the routes behind the auth middleware
func (h *UserHandlers) RegisterProtectedRoutes(router *mux.Router) {
	router.HandleFunc("/users/{id}", h.deleteUser).Methods("DELETE")
}

// register handles POST /api/v1/users/register
func (h *UserHandlers) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	userID, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RegistrationsTotal.Inc()
	}
	httputil.WriteCreated(w, RegisterResponse{UserID: userID})
}

// login handles POST /api/v1/users/login
func (h *UserHandlers) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	token, tokenType, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	if h.metrics != nil {
		h.metrics.LoginsTotal.Inc()
	}
	httputil.WriteSuccess(w, LoginResponse{AccessToken: token, TokenType: tokenType})
}

// deleteUser handles DELETE /api/v1/users/{id}. A user may only delete
// their own account; outstanding tokens for the deleted account are
// rejected by the resolver on their next use.
func (h *UserHandlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	if !auth.Owns(user, id) {
		httputil.WriteForbidden(w, "cannot delete another user's account")
		return
	}

	if err := h.auth.DeleteUser(r.Context(), id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	httputil.WriteNoContent(w)
}

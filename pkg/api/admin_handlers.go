package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/taskhub-io/taskhub/pkg/httputil"
	"github.com/taskhub-io/taskhub/pkg/observability"
	"github.com/taskhub-io/taskhub/pkg/storage"
)

// Pagination bounds for the administrative listing
const (
	defaultAdminPageSize = 100
	maxAdminPageSize     = 1000
)

// AdminHandlers serves the administrative todo listing.
//
// The listing is intentionally reachable without a token: it is meant to
// sit behind network-level access control (internal ingress only), not
// behind user auth, and it crosses every user's data on purpose. Do not
// attach the auth middleware to these routes.
type AdminHandlers struct {
	store  *storage.Store
	logger *observability.Logger
}

// NewAdminHandlers creates a new admin handlers instance
func NewAdminHandlers(store *storage.Store, logger *observability.Logger) *AdminHandlers {
	return &AdminHandlers{
		store:  store,
		logger: logger,
	}
}

// RegisterRoutes registers admin routes on the public router
func (h *AdminHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/admin/todos", h.listAllTodos).Methods("GET")
}

// listAllTodos handles GET /api/v1/admin/todos?limit=N&offset=M
func (h *AdminHandlers) listAllTodos(w http.ResponseWriter, r *http.Request) {
	limit, err := httputil.ParseQueryInt(r, "limit", defaultAdminPageSize)
	if err != nil || limit <= 0 {
		httputil.WriteBadRequest(w, "limit must be a positive integer")
		return
	}
	if limit > maxAdminPageSize {
		limit = maxAdminPageSize
	}

	offset, err := httputil.ParseQueryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		httputil.WriteBadRequest(w, "offset must be a non-negative integer")
		return
	}

	todos, err := h.store.ListAllTodos(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if todos == nil {
		todos = []*storage.Todo{}
	}

	httputil.WriteSuccess(w, todos)
}

package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/taskhub-io/taskhub/pkg/httputil"
	"github.com/taskhub-io/taskhub/pkg/middleware"
	"github.com/taskhub-io/taskhub/pkg/observability"
	"github.com/taskhub-io/taskhub/pkg/storage"
)

// CategoryHandlers handles category requests
type CategoryHandlers struct {
	store  *storage.Store
	logger *observability.Logger
}

// NewCategoryHandlers creates a new category handlers instance
func NewCategoryHandlers(store *storage.Store, logger *observability.Logger) *CategoryHandlers {
	return &CategoryHandlers{
		store:  store,
		logger: logger,
	}
}

// RegisterRoutes registers category routes; all require authentication
func (h *CategoryHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/categories", h.createCategory).Methods("POST")
	router.HandleFunc("/categories", h.listCategories).Methods("GET")
	router.HandleFunc("/categories/{id}/todos", h.listCategoryTodos).Methods("GET")
	router.HandleFunc("/categories/{id}", h.deleteCategory).Methods("DELETE")
}

// createCategory handles POST /api/v1/categories
func (h *CategoryHandlers) createCategory(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	var req CreateCategoryRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	if req.Name == "" {
		httputil.WriteValidationError(w, "name", "name is required")
		return
	}

	category, err := h.store.CreateCategory(r.Context(), user.ID, req.Name)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	httputil.WriteCreated(w, category)
}

// listCategories handles GET /api/v1/categories
func (h *CategoryHandlers) listCategories(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	categories, err := h.store.ListCategories(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if categories == nil {
		categories = []*storage.Category{}
	}

	httputil.WriteSuccess(w, categories)
}

// listCategoryTodos handles GET /api/v1/categories/{id}/todos. Both the
// category and the todos are scoped to the caller, so an unowned
// category reads as not found.
func (h *CategoryHandlers) listCategoryTodos(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	categoryID, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	owned, err := h.store.CategoryOwnedBy(r.Context(), categoryID, user.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if !owned {
		httputil.WriteNotFoundError(w, "category not found")
		return
	}

	todos, err := h.store.ListTodosByCategory(r.Context(), user.ID, categoryID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if todos == nil {
		todos = []*storage.Todo{}
	}

	httputil.WriteSuccess(w, todos)
}

// deleteCategory handles DELETE /api/v1/categories/{id}
func (h *CategoryHandlers) deleteCategory(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	categoryID, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	deleted, err := h.store.DeleteCategory(r.Context(), user.ID, categoryID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if !deleted {
		httputil.WriteNotFoundError(w, "category not found")
		return
	}

	httputil.WriteNoContent(w)
}

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/taskhub-io/taskhub/pkg/auth"
	"github.com/taskhub-io/taskhub/pkg/httputil"
	"github.com/taskhub-io/taskhub/pkg/middleware"
	"github.com/taskhub-io/taskhub/pkg/observability"
	"github.com/taskhub-io/taskhub/pkg/storage"
)

// DefaultUpcomingDays is the window for GET /todos/upcoming when the
// days query parameter is absent.
const DefaultUpcomingDays = 7

// TodoHandlers handles todo CRUD requests
type TodoHandlers struct {
	store  *storage.Store
	cache  *storage.TodoCache // nil disables caching
	logger *observability.Logger
}

// NewTodoHandlers creates a new todo handlers instance
func NewTodoHandlers(store *storage.Store, cache *storage.TodoCache, logger *observability.Logger) *TodoHandlers {
	return &TodoHandlers{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// RegisterRoutes registers todo routes; all require authentication
func (h *TodoHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/todos", h.createTodo).Methods("POST")
	router.HandleFunc("/todos", h.listTodos).Methods("GET")
	router.HandleFunc("/todos/upcoming", h.listUpcoming).Methods("GET")
	router.HandleFunc("/todos/{id}", h.updateTodo).Methods("PUT")
	router.HandleFunc("/todos/{id}", h.deleteTodo).Methods("DELETE")
}

// createTodo handles POST /api/v1/todos
func (h *TodoHandlers) createTodo(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	var req CreateTodoRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	if req.Title == "" {
		httputil.WriteValidationError(w, "title", "title is required")
		return
	}

	// A category reference must belong to the caller; cross-user
	// references are rejected outright rather than silently cleared.
	if err := auth.ValidateCategoryRef(r.Context(), h.store, user, req.CategoryID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	todo, err := h.store.CreateTodo(r.Context(), storage.CreateTodoParams{
		Title:       req.Title,
		Description: req.Description,
		UserID:      user.ID,
		CategoryID:  req.CategoryID,
		Deadline:    req.Deadline,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.invalidateCache(r, user.ID)
	httputil.WriteCreated(w, todo)
}

// listTodos handles GET /api/v1/todos
func (h *TodoHandlers) listTodos(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	if h.cache != nil {
		cached, err := h.cache.GetUserTodos(r.Context(), user.ID)
		if err != nil {
			// Cache trouble is never fatal to a read
			h.logger.WithError(err).Debug("todo cache read failed")
		}
		if cached != nil {
			httputil.WriteSuccess(w, cached)
			return
		}
	}

	todos, err := h.store.ListTodosByUser(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if todos == nil {
		todos = []*storage.Todo{}
	}

	if h.cache != nil {
		if err := h.cache.SetUserTodos(r.Context(), user.ID, todos); err != nil {
			h.logger.WithError(err).Debug("todo cache write failed")
		}
	}

	httputil.WriteSuccess(w, todos)
}

// listUpcoming handles GET /api/v1/todos/upcoming?days=N
func (h *TodoHandlers) listUpcoming(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	days, err := httputil.ParseQueryInt(r, "days", DefaultUpcomingDays)
	if err != nil || days <= 0 {
		httputil.WriteBadRequest(w, "days must be a positive integer")
		return
	}

	todos, err := h.store.ListUpcomingTodos(r.Context(), user.ID, time.Duration(days)*24*time.Hour)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if todos == nil {
		todos = []*storage.Todo{}
	}

	httputil.WriteSuccess(w, todos)
}

// updateTodo handles PUT /api/v1/todos/{id}. The update is scoped to the
// caller's own todos; a todo owned by someone else reads as not found.
func (h *TodoHandlers) updateTodo(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	todoID, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTodoRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}

	if req.Title != nil && *req.Title == "" {
		httputil.WriteValidationError(w, "title", "title cannot be empty")
		return
	}

	if err := auth.ValidateCategoryRef(r.Context(), h.store, user, req.CategoryID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	todo, err := h.store.UpdateTodo(r.Context(), user.ID, todoID, storage.UpdateTodoParams{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		CategoryID:  req.CategoryID,
		Deadline:    req.Deadline,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if todo == nil {
		httputil.WriteNotFoundError(w, "todo not found")
		return
	}

	h.invalidateCache(r, user.ID)
	httputil.WriteSuccess(w, todo)
}

// deleteTodo handles DELETE /api/v1/todos/{id}
func (h *TodoHandlers) deleteTodo(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	todoID, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	deleted, err := h.store.DeleteTodo(r.Context(), user.ID, todoID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if !deleted {
		httputil.WriteNotFoundError(w, "todo not found")
		return
	}

	h.invalidateCache(r, user.ID)
	httputil.WriteNoContent(w)
}

func (h *TodoHandlers) invalidateCache(r *http.Request, userID int64) {
	if h.cache == nil {
		return
	}
	if err := h.cache.InvalidateUserTodos(r.Context(), userID); err != nil {
		h.logger.WithError(err).Warnf("failed to invalidate todo cache for user %d", userID)
	}
}

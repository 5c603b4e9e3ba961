package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/taskhub-io/taskhub/pkg/auth"
	"github.com/taskhub-io/taskhub/pkg/httputil"
	"github.com/taskhub-io/taskhub/pkg/middleware"
	"github.com/taskhub-io/taskhub/pkg/observability"
	"github.com/taskhub-io/taskhub/pkg/storage"
)

// Deps carries everything the API server needs
type Deps struct {
	Store       *storage.Store
	Cache       *storage.TodoCache // nil disables the todo-list cache
	Blobs       storage.BlobStore
	AuthService *auth.Service
	Resolver    *auth.Resolver
	Logger      *observability.Logger
	Metrics     *observability.Metrics // nil disables instrumentation
	MaxFileSize int64
}

// Server is the TaskHub API server
type Server struct {
	router *mux.Router
	logger *observability.Logger
}

// NewServer assembles the router with all handlers and middleware
func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}

	s := &Server{
		router: mux.NewRouter(),
		logger: logger,
	}

	s.router.Use(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(logger),
		httputil.RecoveryMiddleware(logger),
	)
	if deps.Metrics != nil {
		s.router.Use(deps.Metrics.Middleware)
	}

	v1 := s.router.PathPrefix("/api/v1").Subrouter()

	userHandlers := NewUserHandlers(deps.AuthService, logger, deps.Metrics)
	userHandlers.RegisterPublicRoutes(v1)

	// The admin listing is registered on the public subrouter on purpose;
	// see AdminHandlers.
	NewAdminHandlers(deps.Store, logger).RegisterRoutes(v1)

	authMW := middleware.NewAuthMiddleware(deps.Resolver, deps.Metrics)
	protected := s.router.PathPrefix("/api/v1").Subrouter()
	protected.Use(authMW.Handler)

	userHandlers.RegisterProtectedRoutes(protected)
	NewTodoHandlers(deps.Store, deps.Cache, logger).RegisterRoutes(protected)
	NewCategoryHandlers(deps.Store, logger).RegisterRoutes(protected)
	NewAttachmentHandlers(deps.Store, deps.Blobs, logger, deps.MaxFileSize).RegisterRoutes(protected)

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the underlying mux router
func (s *Server) Router() *mux.Router {
	return s.router
}

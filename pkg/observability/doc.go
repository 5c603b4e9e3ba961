// Package observability provides structured logging, Prometheus metrics,
// health checks, and graceful shutdown for the TaskHub service.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("user_id", id).Info("todo created")
//
// Request-scoped logging:
//
//	logger := observability.FromContext(r.Context())
//	logger.WithError(err).Warn("token rejected")
//
// # Prometheus Metrics
//
// Initialize and serve metrics:
//
//	metrics := observability.NewMetrics(nil)
//	healthMux.Handle("/metrics", metrics.Handler())
//	metrics.AuthFailuresTotal.WithLabelValues("expired").Inc()
//	metrics.CacheHitsTotal.WithLabelValues("todos").Inc()
//	metrics.TodosOverdue.Set(float64(count))
//
// # Health Checks
//
// Configure health checker (redis client may be nil):
//
//	checker := observability.NewHealthChecker(db, redisClient)
//	healthMux.HandleFunc("/healthz", checker.Liveness)
//	healthMux.HandleFunc("/readyz", checker.Readiness)
//
// A database failure reports unhealthy; an unreachable Redis only degrades
// readiness because the todo cache fails open.
//
// # Graceful Shutdown
//
//	sm := observability.NewShutdownManager(logger, server, 30*time.Second)
//	sm.RegisterShutdownFunc(func(ctx context.Context) error { cron.Stop(); return nil })
//	sm.RegisterShutdownFunc(func(ctx context.Context) error { return db.Close() })
//	sm.WaitForShutdown()
//
// Shutdown functions run in registration order after the HTTP server drains.
package observability

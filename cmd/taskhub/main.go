package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"

	"github.com/taskhub-io/taskhub/pkg/api"
	"github.com/taskhub-io/taskhub/pkg/auth"
	"github.com/taskhub-io/taskhub/pkg/config"
	"github.com/taskhub-io/taskhub/pkg/observability"
	"github.com/taskhub-io/taskhub/pkg/overdue"
	"github.com/taskhub-io/taskhub/pkg/storage"
)

var scanSchedule = flag.String("scan-schedule", "@every 1m", "Cron schedule for the in-process overdue scan")

func main() {
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)

	var metrics *observability.Metrics
	if cfg.Observability.MetricsEnabled {
		metrics = observability.NewMetrics(nil)
	}

	store, err := storage.NewStore(cfg.Storage, logger)
	if err != nil {
		logger.WithError(err).Error("failed to connect to database")
		os.Exit(1)
	}

	ctx := context.Background()
	if err := storage.RunMigrations(ctx, store.DB()); err != nil {
		logger.WithError(err).Error("failed to run migrations")
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	var redisClient *redis.Client
	var cache *storage.TodoCache
	if cfg.Storage.CacheEnabled {
		redisClient, err = storage.NewRedisClient(cfg.Storage)
		if err != nil {
			logger.WithError(err).Error("failed to connect to redis")
			os.Exit(1)
		}
		cache = storage.NewTodoCache(redisClient, cfg.Storage.CacheTTL, metrics)
		logger.Info("todo-list cache enabled")
	}

	blobs, err := storage.NewBlobStore(cfg.Storage)
	if err != nil {
		logger.WithError(err).Error("failed to initialize attachment storage")
		os.Exit(1)
	}

	tokens, err := auth.NewTokenService([]byte(cfg.Auth.SigningKey), cfg.Auth.TokenTTL, logger)
	if err != nil {
		logger.WithError(err).Error("failed to initialize token service")
		os.Exit(1)
	}
	authService := auth.NewService(store, tokens, nil, logger)
	resolver := auth.NewResolver(tokens, store, nil)

	server := api.NewServer(api.Deps{
		Store:       store,
		Cache:       cache,
		Blobs:       blobs,
		AuthService: authService,
		Resolver:    resolver,
		Logger:      logger,
		Metrics:     metrics,
		MaxFileSize: cfg.Storage.MaxFileSize,
	})

	// In-process overdue scan on a cron schedule
	scanner := overdue.NewScanner(store, logger, metrics)
	runner := cron.New()
	if _, err := runner.AddFunc(*scanSchedule, func() {
		scanCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if _, err := scanner.Run(scanCtx); err != nil {
			logger.WithError(err).Error("overdue scan failed")
		}
	}); err != nil {
		logger.WithError(err).Errorf("invalid scan schedule %q", *scanSchedule)
		os.Exit(1)
	}
	runner.Start()
	logger.Infof("overdue scanner scheduled: %s", *scanSchedule)

	// Health and metrics on a separate port so k8s probes never compete
	// with API traffic
	healthChecker := observability.NewHealthChecker(store.DB(), redisClient)
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", healthChecker.Liveness)
	healthMux.HandleFunc("/readyz", healthChecker.Readiness)
	if metrics != nil {
		healthMux.Handle("/metrics", metrics.Handler())
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}
	go func() {
		logger.Infof("health server listening on %s", healthServer.Addr)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("health server failed")
		}
	}()

	httpServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		return healthServer.Shutdown(ctx)
	})
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		// Let any in-flight scan finish before storage goes away
		select {
		case <-runner.Stop().Done():
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	})
	if cache != nil {
		shutdown.RegisterShutdownFunc(func(context.Context) error {
			return cache.Close()
		})
	}
	shutdown.RegisterShutdownFunc(func(context.Context) error {
		return store.Close()
	})

	go func() {
		logger.Infof("TaskHub API listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	if err := shutdown.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("shutdown finished with errors")
		os.Exit(1)
	}
}

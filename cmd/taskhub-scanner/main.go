package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/taskhub-io/taskhub/pkg/observability"
	"github.com/taskhub-io/taskhub/pkg/overdue"
	"github.com/taskhub-io/taskhub/pkg/storage"
)

var (
	dbURL        = flag.String("db-url", getEnv("TASKHUB_POSTGRES_URL", "postgres://localhost/taskhub?sslmode=disable"), "PostgreSQL connection URL")
	scanSchedule = flag.String("schedule", "@every 1m", "Cron schedule for the overdue scan")
	logLevel     = flag.String("log-level", getEnv("TASKHUB_LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	runOnce      = flag.Bool("run-once", false, "Run one scan pass and exit (for testing or backfilling)")
)

func main() {
	flag.Parse()

	logger := observability.NewLogger(observability.ParseLogLevel(*logLevel), os.Stdout)

	db, err := sql.Open("postgres", *dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	store := storage.NewStoreWithDB(db, logger)
	scanner := overdue.NewScanner(store, logger, nil)

	// Run once mode (for testing or backfilling)
	if *runOnce {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		flagged, err := scanner.Run(ctx)
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		log.Printf("Scan completed, flagged %d todos", flagged)
		return
	}

	// Scheduled mode
	c := cron.New()
	_, err = c.AddFunc(*scanSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if _, err := scanner.Run(ctx); err != nil {
			log.Printf("Scan failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule scan: %v", err)
	}

	c.Start()
	log.Println("TaskHub overdue scanner started")
	log.Printf("Scan schedule: %s", *scanSchedule)

	// Wait for termination signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop the cron scheduler and let an in-flight scan finish
	ctx := c.Stop()
	<-ctx.Done()

	log.Println("Scanner stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

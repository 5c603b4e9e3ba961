package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq" // also registers the postgres driver

	"github.com/taskhub-io/taskhub/pkg/observability"
)

// Store provides repository functions over the relational database. All
// queries are explicit; records come back as plain structs.
type Store struct {
	db     *sql.DB
	logger *observability.Logger
	clock  func() time.Time
}

// NewStore connects to PostgreSQL and configures the connection pool
func NewStore(cfg Config, logger *observability.Logger) (*Store, error) {
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.PostgresMaxConns)
	db.SetMaxIdleConns(cfg.PostgresMinConns)
	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PostgresTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return NewStoreWithDB(db, logger), nil
}

// NewStoreWithDB wraps an existing database handle. Used by tests with
// sqlmock or in-memory SQLite.
func NewStoreWithDB(db *sql.DB, logger *observability.Logger) *Store {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Store{
		db:     db,
		logger: logger,
		clock:  time.Now,
	}
}

// SetClock overrides the store's clock for deterministic tests
func (s *Store) SetClock(clock func() time.Time) {
	if clock != nil {
		s.clock = clock
	}
}

// DB exposes the underlying handle for health checks and stats
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database handle
func (s *Store) Close() error {
	return s.db.Close()
}

// isUniqueViolation detects a unique index violation from PostgreSQL
// (class 23505) or SQLite (used by storage tests).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

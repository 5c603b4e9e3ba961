package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration is a single schema change applied in order
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// GetMigrations returns the schema migrations in order. PostgreSQL
// dialect; storage tests build an equivalent SQLite schema inline.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_users",
			SQL: `
				CREATE TABLE IF NOT EXISTS users (
					id BIGSERIAL PRIMARY KEY,
					username TEXT NOT NULL UNIQUE,
					password_hash TEXT NOT NULL,
					created_at TIMESTAMPTZ NOT NULL
				);
			`,
		},
		{
			Version: 2,
			Name:    "create_categories",
			SQL: `
				CREATE TABLE IF NOT EXISTS categories (
					id BIGSERIAL PRIMARY KEY,
					name TEXT NOT NULL,
					user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					UNIQUE(user_id, name)
				);
				CREATE INDEX IF NOT EXISTS idx_categories_user ON categories(user_id);
			`,
		},
		{
			Version: 3,
			Name:    "create_todos",
			SQL: `
				CREATE TABLE IF NOT EXISTS todos (
					id BIGSERIAL PRIMARY KEY,
					title TEXT NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					completed BOOLEAN NOT NULL DEFAULT FALSE,
					user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,
					deadline TIMESTAMPTZ,
					overdue_at TIMESTAMPTZ,
					attachment_name TEXT NOT NULL DEFAULT '',
					attachment_key TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMPTZ NOT NULL,
					updated_at TIMESTAMPTZ NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_todos_user ON todos(user_id);
				CREATE INDEX IF NOT EXISTS idx_todos_deadline ON todos(deadline) WHERE deadline IS NOT NULL;
			`,
		},
	}
}

// RunMigrations applies pending migrations, tracking progress in a
// schema_migrations table.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	for _, m := range GetMigrations() {
		var applied bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, m.Version,
		).Scan(&applied)
		if err != nil {
			return fmt.Errorf("failed to check migration %d: %w", m.Version, err)
		}
		if applied {
			continue
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

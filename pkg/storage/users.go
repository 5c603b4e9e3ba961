package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taskhub-io/taskhub/pkg/auth"
)

// Store implements auth.CredentialStore.
var _ auth.CredentialStore = (*Store)(nil)

// FindUserByUsername returns the user record, or (nil, nil) when no such
// user exists.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*auth.User, error) {
	user := &auth.User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM users WHERE username = $1
	`, username).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return user, nil
}

// InsertUser stores a new credential row. The unique index on username is
// the second line of defense against registration races; a violation maps
// to auth.ErrDuplicateUsername.
func (s *Store) InsertUser(ctx context.Context, username, passwordHash string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, username, passwordHash, s.clock().UTC()).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, auth.ErrDuplicateUsername
		}
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return id, nil
}

// DeleteUser removes the user row; owned todos and categories go with it
// via ON DELETE CASCADE. Reports whether a row was removed.
func (s *Store) DeleteUser(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskhub-io/taskhub/pkg/auth"
)

// ErrDuplicateCategory is returned when a user already has a category
// with the same name.
var ErrDuplicateCategory = errors.New("category already exists")

// Store implements auth.CategoryResolver.
var _ auth.CategoryResolver = (*Store)(nil)

// CreateCategory inserts a category owned by the user. Duplicate names
// within one user's scope map to ErrDuplicateCategory via the
// (user_id, name) unique index.
func (s *Store) CreateCategory(ctx context.Context, userID int64, name string) (*Category, error) {
	c := &Category{Name: name, UserID: userID}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, user_id)
		VALUES ($1, $2)
		RETURNING id
	`, name, userID).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateCategory
		}
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}
	return c, nil
}

// ListCategories returns the user's categories
func (s *Store) ListCategories(ctx context.Context, userID int64) ([]*Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, user_id
		FROM categories WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// CategoryOwnedBy reports whether the category exists under the given
// owner. The ownership-scoped lookup backing cross-entity reference
// validation.
func (s *Store) CategoryOwnedBy(ctx context.Context, categoryID, userID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1 AND user_id = $2)
	`, categoryID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category ownership: %w", err)
	}
	return exists, nil
}

// DeleteCategory removes the user's category. Todos referencing it keep
// existing with category_id cleared by the schema. Reports whether a row
// was removed.
func (s *Store) DeleteCategory(ctx context.Context, userID, categoryID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM categories WHERE id = $1 AND user_id = $2
	`, categoryID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

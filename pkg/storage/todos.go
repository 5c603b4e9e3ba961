package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const todoColumns = `id, title, description, completed, user_id, category_id,
	deadline, overdue_at, attachment_name, attachment_key, created_at, updated_at`

func scanTodo(row interface{ Scan(dest ...interface{}) error }) (*Todo, error) {
	t := &Todo{}
	var categoryID sql.NullInt64
	var deadline, overdueAt sql.NullTime
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Completed, &t.UserID, &categoryID,
		&deadline, &overdueAt, &t.AttachmentName, &t.AttachmentKey,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		t.CategoryID = &categoryID.Int64
	}
	if deadline.Valid {
		d := deadline.Time
		t.Deadline = &d
	}
	if overdueAt.Valid {
		o := overdueAt.Time
		t.OverdueAt = &o
	}
	return t, nil
}

func collectTodos(rows *sql.Rows) ([]*Todo, error) {
	defer rows.Close()
	todos := make([]*Todo, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

// CreateTodo inserts a new todo. Category reference validation happens in
// the auth layer before this is called.
func (s *Store) CreateTodo(ctx context.Context, params CreateTodoParams) (*Todo, error) {
	now := s.clock().UTC()

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO todos (title, description, completed, user_id, category_id, deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, params.Title, params.Description, false, params.UserID,
		nullableInt64(params.CategoryID), nullableTime(params.Deadline), now, now,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert todo: %w", err)
	}

	return s.getTodo(ctx, id)
}

func (s *Store) getTodo(ctx context.Context, id int64) (*Todo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1`, id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query todo: %w", err)
	}
	return t, nil
}

// GetTodoOwned loads a todo scoped by owner. Returns (nil, nil) when no
// todo with that id belongs to the user; a todo owned by someone else is
// indistinguishable from a missing one.
func (s *Store) GetTodoOwned(ctx context.Context, userID, todoID int64) (*Todo, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE id = $1 AND user_id = $2`, todoID, userID)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query todo: %w", err)
	}
	return t, nil
}

// ListTodosByUser returns all todos owned by the user
func (s *Store) ListTodosByUser(ctx context.Context, userID int64) ([]*Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	return collectTodos(rows)
}

// ListTodosByCategory returns the user's todos within one category
func (s *Store) ListTodosByCategory(ctx context.Context, userID, categoryID int64) ([]*Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE user_id = $1 AND category_id = $2 ORDER BY id`,
		userID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	return collectTodos(rows)
}

// ListUpcomingTodos returns the user's todos with a deadline in
// [now, now+window].
func (s *Store) ListUpcomingTodos(ctx context.Context, userID int64, window time.Duration) ([]*Todo, error) {
	now := s.clock().UTC()
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos
		 WHERE user_id = $1 AND deadline IS NOT NULL AND deadline >= $2 AND deadline <= $3
		 ORDER BY deadline`,
		userID, now, now.Add(window))
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming todos: %w", err)
	}
	return collectTodos(rows)
}

// ListAllTodos returns todos across every user with pagination. Backs the
// deliberately unauthenticated administrative listing; no ownership scope
// applies here.
func (s *Store) ListAllTodos(ctx context.Context, limit, offset int) ([]*Todo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todos ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	return collectTodos(rows)
}

// UpdateTodo applies a partial update to the user's todo. Returns
// (nil, nil) when the todo does not exist under that owner.
func (s *Store) UpdateTodo(ctx context.Context, userID, todoID int64, params UpdateTodoParams) (*Todo, error) {
	sets := make([]string, 0, 6)
	args := make([]interface{}, 0, 8)
	arg := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, arg))
		args = append(args, value)
		arg++
	}

	if params.Title != nil {
		add("title", *params.Title)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Completed != nil {
		add("completed", *params.Completed)
	}
	if params.Deadline != nil {
		add("deadline", params.Deadline.UTC())
	}
	if params.CategoryID != nil {
		add("category_id", *params.CategoryID)
	}
	add("updated_at", s.clock().UTC())

	query := fmt.Sprintf(
		"UPDATE todos SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(sets, ", "), arg, arg+1,
	)
	args = append(args, todoID, userID)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	return s.getTodo(ctx, todoID)
}

// DeleteTodo removes the user's todo; reports whether a row was removed
func (s *Store) DeleteTodo(ctx context.Context, userID, todoID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM todos WHERE id = $1 AND user_id = $2`, todoID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// SetAttachment records the uploaded attachment's display name and
// storage key on the todo.
func (s *Store) SetAttachment(ctx context.Context, userID, todoID int64, name, key string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE todos SET attachment_name = $1, attachment_key = $2, updated_at = $3
		WHERE id = $4 AND user_id = $5
	`, name, key, s.clock().UTC(), todoID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to set attachment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

// FlagOverdueTodos stamps overdue_at on every incomplete todo whose
// deadline has passed and that is not yet flagged. Returns the todos
// flagged by this pass.
func (s *Store) FlagOverdueTodos(ctx context.Context) ([]*Todo, error) {
	now := s.clock().UTC()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+todoColumns+` FROM todos
		WHERE deadline IS NOT NULL AND deadline < $1 AND completed = $2 AND overdue_at IS NULL
		ORDER BY deadline
	`, now, false)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue todos: %w", err)
	}
	todos, err := collectTodos(rows)
	if err != nil {
		return nil, err
	}

	for _, t := range todos {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE todos SET overdue_at = $1 WHERE id = $2`, now, t.ID); err != nil {
			return nil, fmt.Errorf("failed to flag todo %d overdue: %w", t.ID, err)
		}
		stamped := now
		t.OverdueAt = &stamped
	}

	return todos, nil
}

// CountOverdueTodos counts todos currently flagged overdue and still
// incomplete. Feeds the overdue gauge.
func (s *Store) CountOverdueTodos(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM todos WHERE overdue_at IS NOT NULL AND completed = $1`, false,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count overdue todos: %w", err)
	}
	return n, nil
}

func nullableInt64(v *int64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTime(v *time.Time) interface{} {
	if v == nil {
		return nil
	}
	return v.UTC()
}

package storage

import "time"

// Todo is a plain record for a to-do item row. No lazy loading: the
// category reference is just the foreign key, resolved explicitly where
// needed.
type Todo struct {
	ID             int64      `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Completed      bool       `json:"completed"`
	UserID         int64      `json:"user_id"`
	CategoryID     *int64     `json:"category_id,omitempty"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	OverdueAt      *time.Time `json:"overdue_at,omitempty"`
	AttachmentName string     `json:"attachment_name,omitempty"`
	AttachmentKey  string     `json:"-"` // Storage key, never exposed
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Category is a plain record for a category row
type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	UserID int64  `json:"user_id"`
}

// CreateTodoParams carries the fields for a new todo
type CreateTodoParams struct {
	Title       string
	Description string
	UserID      int64
	CategoryID  *int64
	Deadline    *time.Time
}

// UpdateTodoParams carries a partial todo update. Nil pointers leave the
// corresponding column unchanged.
type UpdateTodoParams struct {
	Title       *string
	Description *string
	Completed   *bool
	Deadline    *time.Time
	CategoryID  *int64
}

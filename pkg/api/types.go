package api

import "time"

// RegisterRequest is the body for POST /api/v1/users/register
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterResponse is returned on successful registration
type RegisterResponse struct {
	UserID int64 `json:"user_id"`
}

// LoginRequest is the body for POST /api/v1/users/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// CreateTodoRequest is the body for POST /api/v1/todos
type CreateTodoRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CategoryID  *int64     `json:"category_id"`
	Deadline    *time.Time `json:"deadline"`
}

// UpdateTodoRequest is the body for PUT /api/v1/todos/{id}. Absent
// fields leave the stored value unchanged.
type UpdateTodoRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	CategoryID  *int64     `json:"category_id"`
	Deadline    *time.Time `json:"deadline"`
}

// CreateCategoryRequest is the body for POST /api/v1/categories
type CreateCategoryRequest struct {
	Name string `json:"name"`
}

// AttachmentResponse is returned after a successful upload
type AttachmentResponse struct {
	TodoID         int64  `json:"todo_id"`
	AttachmentName string `json:"attachment_name"`
}

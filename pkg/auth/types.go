package auth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// User represents a registered account
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose the hash
	CreatedAt    time.Time `json:"created_at"`
}

// Claims is the verified content of a bearer token
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenType is the fixed token-type tag returned by login
const TokenType = "bearer"

// Sentinel errors for the auth core. Token and subject failures are
// surfaced uniformly to clients; the distinction exists for internal
// diagnostics only.
var (
	// ErrDuplicateUsername is returned by Register when the username is taken
	ErrDuplicateUsername = errors.New("username already exists")

	// ErrInvalidCredentials is returned by Login for both unknown user and
	// wrong password. Deliberately uninformative.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrMissingCredential means no bearer token was presented at all
	ErrMissingCredential = errors.New("missing credential")

	// ErrInvalidToken covers forged, malformed, mis-signed and expired tokens
	ErrInvalidToken = errors.New("invalid token")

	// ErrUnknownSubject means the token verified but its subject no longer
	// exists (user deleted after issuance)
	ErrUnknownSubject = errors.New("unknown subject")

	// ErrInvalidReference means a cross-entity reference (todo -> category)
	// does not resolve under the caller's ownership scope
	ErrInvalidReference = errors.New("invalid reference")

	// ErrNotFound is returned for operations on a nonexistent resource
	ErrNotFound = errors.New("not found")
)

// ValidationError carries field-level detail for bad input
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CredentialStore persists username + password hash pairs. Implementations
// must enforce username uniqueness with a unique index as the second line
// of defense against races between the existence check and the insert.
type CredentialStore interface {
	// FindUserByUsername returns (nil, nil) when the user does not exist
	FindUserByUsername(ctx context.Context, username string) (*User, error)
	// InsertUser returns ErrDuplicateUsername when the unique index fires
	InsertUser(ctx context.Context, username, passwordHash string) (int64, error)
	// DeleteUser reports whether a row was removed
	DeleteUser(ctx context.Context, id int64) (bool, error)
}

// CategoryResolver answers ownership-scoped category lookups for
// cross-entity reference validation.
type CategoryResolver interface {
	CategoryOwnedBy(ctx context.Context, categoryID, userID int64) (bool, error)
}

// Clock returns the current time; injectable for deterministic tests
type Clock func() time.Time

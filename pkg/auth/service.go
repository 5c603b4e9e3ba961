package auth

import (
	"context"
	"time"

	"github.com/taskhub-io/taskhub/pkg/observability"
)

// Service implements the registration/login lifecycle:
//
//	Anonymous -> register -> Registered -> login -> Authenticated(token)
//	-> token expires or is discarded -> Registered
//
// Tokens are never persisted and cannot be revoked before expiry; a
// deleted user's outstanding tokens are rejected by the resolver on the
// next lookup via ErrUnknownSubject.
type Service struct {
	store  CredentialStore
	tokens *TokenService
	clock  Clock
	logger *observability.Logger
}

// NewService creates the registration/login service. A nil clock uses
// time.Now.
func NewService(store CredentialStore, tokens *TokenService, clock Clock, logger *observability.Logger) *Service {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Service{
		store:  store,
		tokens: tokens,
		clock:  clock,
		logger: logger,
	}
}

// Register validates the credentials, hashes the password and stores the
// new user. Returns the new user's id, ErrDuplicateUsername when the name
// is taken, or *ValidationError when format rules fail.
func (s *Service) Register(ctx context.Context, username, password string) (int64, error) {
	if err := ValidateUsername(username); err != nil {
		return 0, err
	}
	if err := ValidatePassword(password); err != nil {
		return 0, err
	}

	existing, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, ErrDuplicateUsername
	}

	hash, err := HashPassword(password)
	if err != nil {
		return 0, err
	}

	// The unique index backs up this check against concurrent registrations;
	// InsertUser maps a unique violation to ErrDuplicateUsername.
	id, err := s.store.InsertUser(ctx, username, hash)
	if err != nil {
		return 0, err
	}

	s.logger.WithField("user_id", id).Info("user registered")
	return id, nil
}

// Login verifies the credentials and issues a bearer token. Unknown user
// and wrong password both return ErrInvalidCredentials; the response never
// reveals which one failed.
func (s *Service) Login(ctx context.Context, username, password string) (string, string, error) {
	user, err := s.store.FindUserByUsername(ctx, username)
	if err != nil {
		return "", "", err
	}
	if user == nil {
		s.logger.Debug("login failed: unknown username")
		return "", "", ErrInvalidCredentials
	}
	if !CheckPassword(password, user.PasswordHash) {
		s.logger.WithField("user_id", user.ID).Debug("login failed: password mismatch")
		return "", "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username, s.clock())
	if err != nil {
		return "", "", err
	}

	s.logger.WithField("user_id", user.ID).Info("user logged in")
	return token, TokenType, nil
}

// DeleteUser removes the user. Returns ErrNotFound when no such user
// exists. Outstanding tokens for the user are not invalidated here; the
// resolver rejects them with ErrUnknownSubject on the next lookup.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	deleted, err := s.store.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotFound
	}

	s.logger.WithField("user_id", id).Info("user deleted")
	return nil
}

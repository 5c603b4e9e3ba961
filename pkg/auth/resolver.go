package auth

import (
	"context"
	"fmt"
	"time"
)

// Resolver turns a bearer token into a concrete user record. It is the
// only gate between an anonymous request and a request carrying an
// identity.
type Resolver struct {
	tokens *TokenService
	store  CredentialStore
	clock  Clock
}

// NewResolver creates an identity resolver. A nil clock uses time.Now;
// the clock is read per call so expiry is evaluated at request time.
func NewResolver(tokens *TokenService, store CredentialStore, clock Clock) *Resolver {
	if clock == nil {
		clock = time.Now
	}
	return &Resolver{
		tokens: tokens,
		store:  store,
		clock:  clock,
	}
}

// Resolve verifies the token and loads the subject's user record.
// Verification failure returns ErrInvalidToken. A token that verifies but
// whose subject no longer exists returns ErrUnknownSubject: the token is
// technically valid but the user was deleted after issuance.
func (r *Resolver) Resolve(ctx context.Context, tokenString string) (*User, error) {
	claims, err := r.tokens.Verify(tokenString, r.clock())
	if err != nil {
		return nil, err
	}

	user, err := r.store.FindUserByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("failed to look up subject: %w", err)
	}
	if user == nil {
		return nil, ErrUnknownSubject
	}

	return user, nil
}

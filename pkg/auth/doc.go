// Package auth implements the authentication and authorization core for
// TaskHub: password hashing, bearer-token issuance and verification,
// per-request identity resolution, and the resource ownership model.
//
// # Overview
//
// Every protected request flows through the same gate: the token service
// verifies the presented bearer token, the resolver loads the subject's
// user record, and handlers check resource ownership before touching
// anything. Verification and authorization are pure functions of
// (token, current time, looked-up row); the core holds no mutable shared
// state beyond the read-only signing key.
//
// # Passwords
//
// Passwords are hashed with bcrypt; the per-call salt is embedded in the
// opaque output:
//
//	hash, err := auth.HashPassword("Passw0rd!")
//	ok := auth.CheckPassword("Passw0rd!", hash)
//
// A malformed stored hash fails verification closed (returns false).
//
// # Tokens
//
// Tokens are self-contained HS256-signed claim sets with subject =
// username and a fixed TTL (default 30 minutes). They are never persisted
// and there is no revocation list: rotating the signing key invalidates
// everything outstanding, and a deleted user's tokens die at the next
// resolve with ErrUnknownSubject. Accepted limitation; a revocation table
// keyed by token id would slot into Resolver.Resolve if ever needed.
//
//	tokens, _ := auth.NewTokenService(key, 30*time.Minute, logger)
//	tok, _ := tokens.Issue("alice", time.Now())
//	claims, err := tokens.Verify(tok, time.Now())
//
// Verify collapses every failure (bad signature, wrong algorithm,
// malformed, expired) into ErrInvalidToken. Do not "fix" this into
// granular error codes: distinguishable failures would hand an attacker
// a user-enumeration and token-probing oracle. The cause is logged
// internally.
//
// # Identity Resolution
//
//	resolver := auth.NewResolver(tokens, store, nil)
//	user, err := resolver.Resolve(ctx, bearerToken)
//
// # Ownership
//
// Todos and categories carry a user_id; access is a strict equality check
// via Owns. Cross-entity references are validated with
// ValidateCategoryRef, which fails with ErrInvalidReference instead of
// silently clearing a category that belongs to someone else.
//
// # Registration and Login
//
//	svc := auth.NewService(store, tokens, nil, logger)
//	id, err := svc.Register(ctx, "alice", "Passw0rd!")
//	tok, typ, err := svc.Login(ctx, "alice", "Passw0rd!")
//
// Login returns ErrInvalidCredentials uniformly for unknown usernames and
// wrong passwords.
package auth

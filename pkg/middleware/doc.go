// Package middleware provides HTTP middleware for request authentication.
//
// The auth middleware extracts a bearer token from the Authorization
// header, resolves it to a user through the auth package, and stores the
// user in the request context for downstream handlers. All authentication
// failures produce an identical 401 response so callers cannot distinguish
// a missing credential from an invalid or expired one.
package middleware

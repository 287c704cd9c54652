// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Registration errors.
	ErrEmailAlreadyInUse = errors.New("email already in use")

	// Login errors. Unknown email and wrong password both map here so the
	// two failure paths stay indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Auth errors (invalid or malformed access token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors. Covers "not found", "expired" and
	// "already rotated" as one outcome.
	ErrRefreshTokenInvalid = errors.New("invalid or expired refresh token")
)

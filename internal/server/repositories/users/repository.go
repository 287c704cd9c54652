// Package users declares the repository contract for account rows, including
// the refresh-token columns that carry session state.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/libkeeper/internal/server/models"
)

// Repository defines operations over user rows. The refresh token lives on
// the user row itself, so session mutations are single-row updates and their
// atomicity is delegated to the store.
type Repository interface {
	// Create inserts a new user and returns it with the generated ID.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByEmail returns the user with the given email (case-sensitive, as
	// stored). Returns common.ErrorNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// EmailExists reports whether a user with the given email already exists.
	EmailExists(ctx context.Context, email string) (bool, error)

	// FindByRefreshToken returns the user holding exactly this refresh token
	// whose stored expiry is strictly in the future. A missing, expired or
	// already-rotated token yields common.ErrorNotFound.
	FindByRefreshToken(ctx context.Context, token string) (*models.User, error)

	// SetRefreshToken stores token and its expiry on the user row,
	// replacing whatever session state was there.
	SetRefreshToken(ctx context.Context, userID string, token string, expiry time.Time) error

	// ReplaceRefreshToken swaps oldToken for newToken on the user row without
	// touching the stored expiry. Returns common.ErrorNotFound when the row
	// no longer holds oldToken (already rotated or logged out), which gives
	// rotation its single-use semantics.
	ReplaceRefreshToken(ctx context.Context, userID string, oldToken, newToken string) error

	// ClearRefreshToken removes the session from whichever user holds this
	// exact token. Clearing a token nobody holds is not an error.
	ClearRefreshToken(ctx context.Context, token string) error
}

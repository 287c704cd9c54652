package models

import "time"

// User is a registered account. At most one refresh token is live at a time:
// the token string plus its expiry are stored directly on the row, so the
// refresh token effectively is the session. A NULL token (or one whose expiry
// has passed) means no active session.
type User struct {
	ID                 string
	FullName           string
	Email              string
	PasswordHash       string
	RefreshToken       *string
	RefreshTokenExpiry time.Time
	CreatedAt          time.Time
}

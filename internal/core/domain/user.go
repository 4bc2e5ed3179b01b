package domain

import (
	"errors"
	"time"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("incorrect password")
	ErrEmailUnconfirmed   = errors.New("user has not confirmed email")
	ErrResendThrottled    = errors.New("confirmation email was sent recently, try again later")
	ErrInvalidInput       = errors.New("email and password are required")
)

// User models a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Confirmed    bool      `json:"confirmed"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsAuthDenied reports whether err belongs to the authentication taxonomy:
// token decoding failures and credential checks. All of them surface to
// clients as the same 401 outcome.
func IsAuthDenied(err error) bool {
	switch {
	case errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrTokenMalformed),
		errors.Is(err, ErrTokenWrongPurpose),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrEmailUnconfirmed):
		return true
	}
	return false
}

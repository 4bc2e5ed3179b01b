package domain

import "errors"

// TokenPurpose is the value of the "type" claim. A token is only accepted
// for the purpose it was issued for.
type TokenPurpose string

const (
	PurposeAccess       TokenPurpose = "access"
	PurposeConfirmation TokenPurpose = "confirmation"
)

var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("invalid token")
	ErrTokenMalformed    = errors.New("token is missing 'sub' field")
	ErrTokenWrongPurpose = errors.New("token has incorrect type")
)

// Valid reports whether p is one of the known purposes.
func (p TokenPurpose) Valid() bool {
	return p == PurposeAccess || p == PurposeConfirmation
}

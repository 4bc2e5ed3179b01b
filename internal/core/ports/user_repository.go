package ports

import (
	"context"

	"github.com/virtual-artifact/social-api/internal/core/domain"
)

// UserRepository defines the persistence operations the auth flows need.
type UserRepository interface {
	// FindByEmail returns domain.ErrUserNotFound when no user has the email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create stores a new unconfirmed user and returns it as stored.
	// Returns domain.ErrUserExists on a duplicate email.
	Create(ctx context.Context, email, passwordHash string) (*domain.User, error)
	// SetConfirmed marks the user confirmed. Confirming twice is not an
	// error; an unknown email returns domain.ErrUserNotFound.
	SetConfirmed(ctx context.Context, email string) error
}

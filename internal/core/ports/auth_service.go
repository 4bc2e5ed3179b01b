package ports

import (
	"context"

	"github.com/virtual-artifact/social-api/internal/core/domain"
)

// TokenIssuer signs and verifies purpose-bound tokens.
type TokenIssuer interface {
	Issue(subject string, purpose domain.TokenPurpose) (string, error)
	ResolveSubject(token string, expected domain.TokenPurpose) (string, error)
}

// RegisterInput carries the registration request. ConfirmURLBase is the
// absolute URL prefix the confirmation token is appended to.
type RegisterInput struct {
	Email          string
	Password       string
	ConfirmURLBase string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	Confirm(ctx context.Context, token string) error
	ResendConfirmation(ctx context.Context, email, confirmURLBase string) error
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	CurrentUser(ctx context.Context, accessToken string) (*domain.User, error)
}

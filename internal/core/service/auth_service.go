package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/virtual-artifact/social-api/internal/core/domain"
	"github.com/virtual-artifact/social-api/internal/core/ports"
	"github.com/virtual-artifact/social-api/pkg/logger"
)

// AuthService implements registration, email confirmation and login.
type AuthService struct {
	users    ports.UserRepository
	tokens   ports.TokenIssuer
	jobs     ports.JobScheduler
	mailer   *NotificationService
	throttle ports.ResendThrottle
	log      zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenIssuer,
	jobs ports.JobScheduler,
	mailer *NotificationService,
	throttle ports.ResendThrottle,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		jobs:     jobs,
		mailer:   mailer,
		throttle: throttle,
		log:      log,
	}
}

// Register creates an unconfirmed user and schedules the confirmation email.
func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	user, err := s.users.Create(ctx, email, string(hash))
	if err != nil {
		return nil, err
	}

	if err := s.scheduleConfirmation(email, input.ConfirmURLBase); err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("email", logger.ObfuscateEmail(email)).Msg("user registered")
	return user, nil
}

// Login authenticates the credentials and returns an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	return s.tokens.Issue(user.Email, domain.PurposeAccess)
}

// Authenticate checks, in order: the user exists, the password matches, the
// email has been confirmed.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w for this email", domain.ErrUserNotFound)
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Confirmed {
		return nil, domain.ErrEmailUnconfirmed
	}
	return user, nil
}

// CurrentUser resolves the bearer of an access token.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*domain.User, error) {
	email, err := s.tokens.ResolveSubject(accessToken, domain.PurposeAccess)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w for this token", domain.ErrUserNotFound)
		}
		return nil, fmt.Errorf("current user: %w", err)
	}
	return user, nil
}

// Confirm marks the subject of a confirmation token as confirmed.
func (s *AuthService) Confirm(ctx context.Context, token string) error {
	email, err := s.tokens.ResolveSubject(token, domain.PurposeConfirmation)
	if err != nil {
		return err
	}

	if err := s.users.SetConfirmed(ctx, email); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return fmt.Errorf("%w for this token", domain.ErrUserNotFound)
		}
		return fmt.Errorf("confirm: %w", err)
	}

	s.log.Info().Str("email", logger.ObfuscateEmail(email)).Msg("user confirmed")
	return nil
}

// ResendConfirmation issues a fresh confirmation email. Unknown and already
// confirmed addresses succeed silently so the endpoint cannot be used to
// probe which emails are registered.
func (s *AuthService) ResendConfirmation(ctx context.Context, email, confirmURLBase string) error {
	log := s.log.With().Str("email", logger.ObfuscateEmail(email)).Logger()

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			log.Debug().Msg("resend requested for unknown email")
			return nil
		}
		return fmt.Errorf("resend confirmation: %w", err)
	}
	if user.Confirmed {
		log.Debug().Msg("resend requested for confirmed user")
		return nil
	}

	allowed, err := s.throttle.Allow(ctx, email)
	if err != nil {
		log.Warn().Err(err).Msg("resend throttle check failed, sending anyway")
	} else if !allowed {
		return domain.ErrResendThrottled
	}

	return s.scheduleConfirmation(email, confirmURLBase)
}

func (s *AuthService) scheduleConfirmation(email, confirmURLBase string) error {
	token, err := s.tokens.Issue(email, domain.PurposeConfirmation)
	if err != nil {
		return fmt.Errorf("issue confirmation token: %w", err)
	}
	s.jobs.Schedule(s.mailer.RegistrationJob(email, confirmURLBase+token))
	return nil
}

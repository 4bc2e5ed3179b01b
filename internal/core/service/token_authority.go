package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/virtual-artifact/social-api/internal/core/domain"
	"github.com/virtual-artifact/social-api/internal/pkg/metrics"
)

const (
	DefaultAccessTokenTTL       = 30 * time.Minute
	DefaultConfirmationTokenTTL = 1440 * time.Minute
)

// TokenTTLs holds the lifetime per token purpose. Zero fields fall back to
// the defaults.
type TokenTTLs struct {
	Access       time.Duration
	Confirmation time.Duration
}

// TokenAuthority issues and verifies HS256 tokens carrying {sub, exp, type}.
// It keeps no state besides the signing key: there is no token table and no
// revocation, tokens die by expiry.
type TokenAuthority struct {
	secret []byte
	ttl    map[domain.TokenPurpose]time.Duration
	now    func() time.Time
	log    zerolog.Logger
}

func NewTokenAuthority(secret string, ttls TokenTTLs, log zerolog.Logger) (*TokenAuthority, error) {
	if secret == "" {
		return nil, errors.New("token authority: signing secret is empty")
	}
	if ttls.Access == 0 {
		ttls.Access = DefaultAccessTokenTTL
	}
	if ttls.Confirmation == 0 {
		ttls.Confirmation = DefaultConfirmationTokenTTL
	}
	return &TokenAuthority{
		secret: []byte(secret),
		ttl: map[domain.TokenPurpose]time.Duration{
			domain.PurposeAccess:       ttls.Access,
			domain.PurposeConfirmation: ttls.Confirmation,
		},
		now: time.Now,
		log: log,
	}, nil
}

// Issue signs a token for subject that is only accepted for purpose.
func (a *TokenAuthority) Issue(subject string, purpose domain.TokenPurpose) (string, error) {
	ttl, ok := a.ttl[purpose]
	if !ok {
		return "", fmt.Errorf("issue token: unknown purpose %q", purpose)
	}

	claims := jwt.MapClaims{
		"sub":  subject,
		"exp":  a.now().Add(ttl).Unix(),
		"type": string(purpose),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", purpose, err)
	}

	metrics.TokensIssuedTotal.WithLabelValues(string(purpose)).Inc()
	return signed, nil
}

// ResolveSubject verifies token and returns its subject when the token was
// issued for expected. Failures are checked in this order: signature and
// format (ErrTokenInvalid), expiry (ErrTokenExpired), missing subject
// (ErrTokenMalformed), purpose (ErrTokenWrongPurpose).
func (a *TokenAuthority) ResolveSubject(token string, expected domain.TokenPurpose) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, a.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		// jwt/v5 validates claims only after the signature checks out, so an
		// expiry error implies an authentic token.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", a.reject("expired", domain.ErrTokenExpired, err)
		}
		return "", a.reject("invalid", domain.ErrTokenInvalid, err)
	}

	sub, present := claims["sub"]
	subject, isString := sub.(string)
	if !present || !isString {
		return "", a.reject("malformed", domain.ErrTokenMalformed, nil)
	}

	actual, _ := claims["type"].(string)
	if actual == "" || domain.TokenPurpose(actual) != expected {
		if actual == "" {
			actual = "none"
		}
		return "", a.reject("wrong_purpose",
			fmt.Errorf("%w, expected %s, got %s", domain.ErrTokenWrongPurpose, expected, actual), nil)
	}

	return subject, nil
}

func (a *TokenAuthority) keyFunc(*jwt.Token) (any, error) {
	return a.secret, nil
}

func (a *TokenAuthority) reject(reason string, err, cause error) error {
	metrics.TokenRejectionsTotal.WithLabelValues(reason).Inc()
	ev := a.log.Debug().Str("reason", reason)
	if cause != nil {
		ev = ev.AnErr("cause", cause)
	}
	ev.Msg("token rejected")
	return err
}

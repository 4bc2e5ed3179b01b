package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/virtual-artifact/social-api/internal/core/domain"
	"github.com/virtual-artifact/social-api/internal/core/ports"
)

// stubAuthService only implements CurrentUser; the other methods are never
// reached from the middleware.
type stubAuthService struct {
	ports.AuthService
	currentUserFn func(ctx context.Context, token string) (*domain.User, error)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	return s.currentUserFn(ctx, token)
}

func runAuth(t *testing.T, header string, svc ports.AuthService) (echo.Context, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := Auth(svc)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return c, called, err
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	svc := &stubAuthService{currentUserFn: func(_ context.Context, token string) (*domain.User, error) {
		if token != "good" {
			t.Fatalf("unexpected token %q", token)
		}
		return &domain.User{ID: "u1", Email: "alice@example.com", Confirmed: true}, nil
	}}

	c, called, err := runAuth(t, "Bearer good", svc)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	user, ok := c.Get(UserKey).(*domain.User)
	if !ok || user.Email != "alice@example.com" {
		t.Fatalf("user not set: %v", c.Get(UserKey))
	}
}

func TestAuthMiddleware_LowercaseScheme(t *testing.T) {
	svc := &stubAuthService{currentUserFn: func(context.Context, string) (*domain.User, error) {
		return &domain.User{ID: "u1"}, nil
	}}

	if _, called, err := runAuth(t, "bearer good", svc); err != nil || !called {
		t.Fatalf("expected success, got %v (called=%v)", err, called)
	}
}

func TestAuthMiddleware_BadHeaders(t *testing.T) {
	svc := &stubAuthService{currentUserFn: func(context.Context, string) (*domain.User, error) {
		t.Fatalf("service must not be called")
		return nil, nil
	}}

	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer   ", "token"} {
		_, called, err := runAuth(t, header, svc)
		if called {
			t.Fatalf("%q: next must not be called", header)
		}
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %v", header, err)
		}
	}
}

func TestAuthMiddleware_PropagatesTokenErrors(t *testing.T) {
	for _, want := range []error{domain.ErrTokenExpired, domain.ErrTokenWrongPurpose, domain.ErrUserNotFound} {
		svc := &stubAuthService{currentUserFn: func(context.Context, string) (*domain.User, error) {
			return nil, want
		}}

		_, called, err := runAuth(t, "Bearer tok", svc)
		if called {
			t.Fatalf("next must not be called")
		}
		if !errors.Is(err, want) {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

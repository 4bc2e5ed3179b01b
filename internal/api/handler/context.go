package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/virtual-artifact/social-api/internal/api/middleware"
	"github.com/virtual-artifact/social-api/internal/core/domain"
)

// ctxUser returns the authenticated user injected by the Auth middleware.
// A missing user means the route was registered without the middleware.
func ctxUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.UserKey).(*domain.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	return user, nil
}

// baseURL is the absolute origin of the current request, used to build the
// links that go out by email.
func baseURL(c echo.Context) string {
	return fmt.Sprintf("%s://%s", c.Scheme(), c.Request().Host)
}

// bindAndValidate binds the request into req and runs the validator. Both
// failures are the client's fault.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

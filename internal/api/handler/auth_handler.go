package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/virtual-artifact/social-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates an unconfirmed account and emails a confirmation link.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Email and password"
// @Success      201   {object}  detailResponse
// @Failure      400   {object}  detailResponse
// @Failure      422   {object}  detailResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	_, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		ConfirmURLBase: baseURL(c) + "/confirm/",
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, detailResponse{Detail: "User created. Please confirm email."})
}

// Login exchanges credentials for an access token.
//
// @Summary      Obtain an access token
// @Tags         auth
// @Accept       json,x-www-form-urlencoded
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  tokenResponse
// @Failure      401   {object}  detailResponse
// @Router       /token [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Confirm marks the account behind a confirmation token as confirmed.
//
// @Summary      Confirm an email address
// @Tags         auth
// @Produce      json
// @Param        token  path      string  true  "Confirmation token"
// @Success      200    {object}  detailResponse
// @Failure      401    {object}  detailResponse
// @Router       /confirm/{token} [get]
func (h *AuthHandler) Confirm(c echo.Context) error {
	if err := h.authService.Confirm(c.Request().Context(), c.Param("token")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detailResponse{Detail: "User confirmed"})
}

// ResendConfirmation sends a fresh confirmation link. The response is the
// same whether or not the address is registered.
//
// @Summary      Re-send the confirmation email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resendConfirmationRequest  true  "Email"
// @Success      202   {object}  detailResponse
// @Failure      429   {object}  detailResponse
// @Router       /confirm/resend [post]
func (h *AuthHandler) ResendConfirmation(c echo.Context) error {
	var req resendConfirmationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ResendConfirmation(c.Request().Context(), req.Email, baseURL(c)+"/confirm/"); err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, detailResponse{
		Detail: "If the account exists and is not confirmed yet, a confirmation email is on its way.",
	})
}

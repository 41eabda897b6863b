// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"time"

	"docvault/internal/delivery/api/middleware"
	"docvault/internal/delivery/api/response"
	deliverycontext "docvault/internal/delivery/context"
	domainerrors "docvault/internal/domain/errors"
	"docvault/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// AccountHandlerParams holds dependencies for AccountHandler, injected by Fx.
type AccountHandlerParams struct {
	fx.In

	AccountUC      usecase.AccountUsecase
	SessionUC      usecase.SessionUsecase
	AuthMiddleware *middleware.AuthMiddleware
}

// AccountHandler serves registration, login and the caller's own profile.
type AccountHandler struct {
	accountUC usecase.AccountUsecase
	sessionUC usecase.SessionUsecase
	auth      *middleware.AuthMiddleware
}

// NewAccountHandler is the constructor for AccountHandler.
func NewAccountHandler(params AccountHandlerParams) *AccountHandler {
	return &AccountHandler{
		accountUC: params.AccountUC,
		sessionUC: params.SessionUC,
		auth:      params.AuthMiddleware,
	}
}

// RegisterRequest is the body of POST /auth/register. Length limits follow the users table.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required,max=120"`
	Age      int    `json:"age" validate:"gte=0,lte=150"`
	Gender   string `json:"gender" validate:"max=10"`
	Phone    string `json:"phone" validate:"max=20"`
	GovtID   string `json:"govt_id" validate:"max=50"`
	Language string `json:"language"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateLanguageRequest is the body of PUT /api/v1/me/language.
type UpdateLanguageRequest struct {
	Language string `json:"language" validate:"required"`
}

// Register creates an account.
func (h *AccountHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.accountUC.Register(c.Request().Context(), usecase.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Age:      req.Age,
		Gender:   req.Gender,
		Phone:    req.Phone,
		GovtID:   req.GovtID,
		Language: req.Language,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, newUserResponse(user))
}

// Login opens a session and hands the token out both as a cookie and in the body.
func (h *AccountHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	out, err := h.sessionUC.Login(c.Request().Context(), usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	maxAge := int(time.Until(out.ExpiresAt).Seconds())
	c.SetCookie(h.auth.SessionCookie(out.Token, maxAge))

	return response.Success(c, http.StatusOK, &LoginResponse{
		Token:     out.Token,
		ExpiresAt: out.ExpiresAt,
		User:      newUserResponse(out.User),
	})
}

// Logout revokes the caller's session if there is one. It always succeeds.
func (h *AccountHandler) Logout(c echo.Context) error {
	if token := h.auth.TokenFromRequest(c); token != "" {
		if err := h.sessionUC.Logout(c.Request().Context(), token); err != nil {
			return errors.WithStack(err)
		}
	}
	c.SetCookie(h.auth.ClearSessionCookie())

	return response.Success(c, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

// Me returns the caller's private profile.
func (h *AccountHandler) Me(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	user, err := h.accountUC.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserResponse(user))
}

// UpdateLanguage switches the caller's display language.
func (h *AccountHandler) UpdateLanguage(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	var req UpdateLanguageRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid language input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.accountUC.UpdateLanguage(c.Request().Context(), userID, req.Language)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, newUserResponse(user))
}

// DeleteAccount removes the caller's account with all documents and sessions.
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	userID, ok := deliverycontext.GetUserID(c)
	if !ok {
		return errors.WithStack(domainerrors.ErrUnauthenticated)
	}

	out, err := h.accountUC.DeleteAccount(c.Request().Context(), userID, deliverycontext.GetSessionToken(c))
	if err != nil {
		return errors.WithStack(err)
	}
	c.SetCookie(h.auth.ClearSessionCookie())

	return response.Success(c, http.StatusOK, newDeleteAccountResponse(out))
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

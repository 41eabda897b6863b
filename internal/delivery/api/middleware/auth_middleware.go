package middleware

import (
	"net/http"
	"strings"

	"docvault/config"
	deliverycontext "docvault/internal/delivery/context"
	domainerrors "docvault/internal/domain/errors"
	"docvault/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

const bearerPrefix = "Bearer "

// AuthMiddleware resolves the caller's session token to a user.
type AuthMiddleware struct {
	sessions usecase.SessionUsecase
	cfg      *config.Config
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(sessions usecase.SessionUsecase, cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions, cfg: cfg}
}

// Authenticate rejects requests without a live session.
// The token is taken from the session cookie, or from an Authorization Bearer header.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := m.TokenFromRequest(c)
		if token == "" {
			return errors.WithStack(domainerrors.ErrUnauthenticated)
		}

		userID, err := m.sessions.Authenticate(c.Request().Context(), token)
		if err != nil {
			return errors.WithStack(err)
		}

		deliverycontext.SetUserID(c, userID)
		deliverycontext.SetSessionToken(c, token)

		return next(c)
	}
}

// TokenFromRequest extracts the raw session token, preferring the cookie.
func (m *AuthMiddleware) TokenFromRequest(c echo.Context) string {
	if cookie, err := c.Cookie(m.cfg.Auth.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(authHeader, bearerPrefix); ok {
		return strings.TrimSpace(token)
	}

	return ""
}

// SessionCookie builds the cookie that carries token to the browser.
func (m *AuthMiddleware) SessionCookie(token string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.Auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.cfg.Auth.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearSessionCookie builds a cookie that makes the browser drop the session.
func (m *AuthMiddleware) ClearSessionCookie() *http.Cookie {
	return m.SessionCookie("", -1)
}

// Package context carries request-scoped values between the HTTP layer and the usecases.
// Values needed below the handlers live in context.Context; values only handlers read live in echo.Context.
package context

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderXRequestID is the HTTP header carrying the request id in both directions.
const HeaderXRequestID = "X-Request-Id"

type key int

const (
	requestIDKey key = iota
	loggerKey
)

const (
	echoRequestID    = "request_id"
	echoUserID       = "user_id"
	echoSessionToken = "session_token"
)

// WithRequestID returns a copy of ctx carrying requestID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestIDFromContext returns the request id stored in ctx, or an empty string.
func GetRequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey).(string)

	return requestID
}

// WithLogger returns a copy of ctx carrying a request-scoped logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLoggerOrDefault returns the request-scoped logger, falling back when ctx has none.
func GetLoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return fallback
}

func SetRequestID(c echo.Context, requestID string) {
	c.Set(echoRequestID, requestID)
}

// GetRequestID returns the id assigned by the request id middleware, or an empty string
// for requests that never passed through it.
func GetRequestID(c echo.Context) string {
	requestID, _ := c.Get(echoRequestID).(string)

	return requestID
}

// SetUserID records the authenticated caller.
func SetUserID(c echo.Context, userID uuid.UUID) {
	c.Set(echoUserID, userID)
}

// GetUserID returns the authenticated caller. ok is false on public routes.
func GetUserID(c echo.Context) (userID uuid.UUID, ok bool) {
	userID, ok = c.Get(echoUserID).(uuid.UUID)

	return userID, ok && userID != uuid.Nil
}

func SetSessionToken(c echo.Context, token string) {
	c.Set(echoSessionToken, token)
}

// GetSessionToken returns the raw token the caller authenticated with.
func GetSessionToken(c echo.Context) string {
	token, _ := c.Get(echoSessionToken).(string)

	return token
}

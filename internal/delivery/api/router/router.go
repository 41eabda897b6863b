// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"docvault/internal/delivery/api/middleware"
	"docvault/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler  *handler.AccountHandler
	DocumentHandler *handler.DocumentHandler
	ProfileHandler  *handler.ProfileHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler  *handler.AccountHandler
	documentHandler *handler.DocumentHandler
	profileHandler  *handler.ProfileHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler:  params.AccountHandler,
		documentHandler: params.DocumentHandler,
		profileHandler:  params.ProfileHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.accountHandler.Register)
		authGroup.POST("/login", r.accountHandler.Login)
		authGroup.POST("/logout", r.accountHandler.Logout)
	}

	// Public profile pages, the target of profile QR codes
	e.GET("/profiles/:id", r.profileHandler.PublicProfile)

	// API v1 routes
	apiV1 := e.Group("/api/v1")
	apiV1.Use(r.authMiddleware.Authenticate) // All API v1 routes require a session

	meGroup := apiV1.Group("/me")
	{
		meGroup.GET("", r.accountHandler.Me)
		meGroup.PUT("/language", r.accountHandler.UpdateLanguage)
		meGroup.GET("/qr", r.profileHandler.MyQRCode)
		meGroup.DELETE("", r.accountHandler.DeleteAccount)
	}

	documentsGroup := apiV1.Group("/documents")
	{
		documentsGroup.POST("", r.documentHandler.Upload)
		documentsGroup.GET("", r.documentHandler.List)
		documentsGroup.GET("/:id", r.documentHandler.Get)
		documentsGroup.GET("/:id/content", r.documentHandler.Content)
		documentsGroup.DELETE("/:id", r.documentHandler.Delete)
	}

	// Download by stored name, "<user id>/<document id><ext>"
	apiV1.GET("/files/*", r.documentHandler.File)
}

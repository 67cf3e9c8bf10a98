// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"careid/internal/delivery/http/middleware"
	"careid/internal/delivery/http/router/handler"
	"careid/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler *handler.AccountHandler
	AdminHandler   *handler.AdminHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler *handler.AccountHandler
	adminHandler   *handler.AdminHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler: params.AccountHandler,
		adminHandler:   params.AdminHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")

	// Public account lifecycle routes
	api.POST("/register", r.accountHandler.Register)
	api.GET("/activate", r.accountHandler.Activate)
	api.POST("/account/reset-password/init", r.accountHandler.RequestPasswordReset)
	api.POST("/account/reset-password/finish", r.accountHandler.CompletePasswordReset)

	// Current-account routes that require authentication
	accountGroup := api.Group("/account")
	accountGroup.Use(r.authMiddleware.Authenticate)
	{
		accountGroup.GET("", r.accountHandler.GetAccount)
		accountGroup.POST("", r.accountHandler.UpdateAccount)
		accountGroup.POST("/change-password", r.accountHandler.ChangePassword)
	}

	// Administrative user management, gated on the admin authority
	adminGroup := api.Group("/users")
	adminGroup.Use(r.authMiddleware.Authenticate)
	adminGroup.Use(r.authMiddleware.RequireAuthority(entity.AuthorityAdmin))
	{
		adminGroup.POST("", r.adminHandler.CreateUser)
		adminGroup.GET("", r.adminHandler.ListUsers)
		adminGroup.GET("/:login", r.adminHandler.GetUser)
		adminGroup.PUT("/:login", r.adminHandler.UpdateUser)
		adminGroup.DELETE("/:login", r.adminHandler.DeleteUser)
	}
}

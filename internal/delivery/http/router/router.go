// Package router contains routing setup for the HTTP delivery.
package router

import (
	"taskboard/internal/delivery/http/middleware"
	"taskboard/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds the handlers and middleware injected by Fx.
type RouterParams struct {
	fx.In

	UserHandler    *handler.UserHandler
	TaskHandler    *handler.TaskHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler    *handler.UserHandler
	taskHandler    *handler.TaskHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:    params.UserHandler,
		taskHandler:    params.TaskHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")

	// Account routes
	userGroup := api.Group("/users")
	{
		userGroup.POST("/register", r.userHandler.Register)
		userGroup.POST("/login", r.userHandler.Login)
	}

	// Routes below require a valid bearer token.
	userGroup.GET("/me", r.userHandler.GetProfile, r.authMiddleware.Authenticate)

	// Per-user task boards. The path owner is checked against the
	// authenticated user inside the task usecase.
	taskGroup := api.Group("/:user_id/tasks")
	taskGroup.Use(r.authMiddleware.Authenticate)
	{
		taskGroup.POST("", r.taskHandler.Create)
		taskGroup.GET("", r.taskHandler.List)
		taskGroup.GET("/:task_id", r.taskHandler.Get)
		taskGroup.PUT("/:task_id", r.taskHandler.Update)
		taskGroup.DELETE("/:task_id", r.taskHandler.Delete)
		taskGroup.PATCH("/:task_id/complete", r.taskHandler.ToggleCompletion)
	}
}

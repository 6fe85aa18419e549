package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/taskflow/task-service/internal/api/http/handlers"
	"github.com/taskflow/task-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Projects       *handlers.ProjectsHandler
	Tasks          *handlers.TasksHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. The authentication gate runs on every
// /api request; it never rejects by itself. Endpoints that need a principal
// sit behind RequireAuthenticated.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}

	api := app.Group("/api", cfg.AuthMiddleware.Handle)

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/refresh", cfg.Auth.Refresh)

	protected := api.Group("", auth.RequireAuthenticated())

	protected.Get("/projects", cfg.Projects.List)
	protected.Post("/projects", cfg.Projects.Create)
	protected.Get("/projects/:id", cfg.Projects.Get)
	protected.Put("/projects/:id", cfg.Projects.Update)
	protected.Delete("/projects/:id", cfg.Projects.Delete)

	protected.Get("/projects/:projectId/tasks", cfg.Tasks.List)
	protected.Post("/projects/:projectId/tasks", cfg.Tasks.Create)
	protected.Get("/tasks/:taskId", cfg.Tasks.Get)
	protected.Patch("/tasks/:taskId/status", cfg.Tasks.UpdateStatus)
	protected.Put("/tasks/:taskId", cfg.Tasks.Update)
	protected.Delete("/tasks/:taskId", cfg.Tasks.Delete)
	protected.Get("/tasks/:taskId/comments", cfg.Tasks.ListComments)
	protected.Post("/tasks/:taskId/comments", cfg.Tasks.AddComment)
}

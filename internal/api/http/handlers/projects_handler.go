package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/taskflow/task-service/internal/api/dto"
	"github.com/taskflow/task-service/internal/auth"
	"github.com/taskflow/task-service/internal/service"
)

// ProjectsHandler exposes project CRUD for the authenticated owner.
type ProjectsHandler struct {
	projects *service.ProjectService
}

// NewProjectsHandler constructs the handler.
func NewProjectsHandler(projects *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{projects: projects}
}

// List handles GET /api/projects.
func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	projects, err := h.projects.ListOwned(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectResponses(projects)})
}

// Create handles POST /api/projects.
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name required")
	}

	principal, _ := auth.PrincipalFromContext(c)
	project, err := h.projects.Create(c.Context(), principal, service.ProjectCreateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewProjectResponse(project)})
}

// Get handles GET /api/projects/:id.
func (h *ProjectsHandler) Get(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	project, err := h.projects.GetOwned(c.Context(), principal, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectResponse(project)})
}

// Update handles PUT /api/projects/:id.
func (h *ProjectsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name required")
	}

	principal, _ := auth.PrincipalFromContext(c)
	project, err := h.projects.Update(c.Context(), principal, c.Params("id"), service.ProjectUpdateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewProjectResponse(project)})
}

// Delete handles DELETE /api/projects/:id.
func (h *ProjectsHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.projects.Delete(c.Context(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

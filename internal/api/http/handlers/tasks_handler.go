package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/taskflow/task-service/internal/api/dto"
	"github.com/taskflow/task-service/internal/auth"
	"github.com/taskflow/task-service/internal/domain"
	"github.com/taskflow/task-service/internal/service"
)

// TasksHandler exposes task and comment endpoints scoped to owned projects.
type TasksHandler struct {
	tasks *service.TaskService
}

// NewTasksHandler constructs the handler.
func NewTasksHandler(tasks *service.TaskService) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

// List handles GET /api/projects/:projectId/tasks.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	tasks, err := h.tasks.List(c.Context(), principal, c.Params("projectId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponses(tasks)})
}

// Create handles POST /api/projects/:projectId/tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title required")
	}

	principal, _ := auth.PrincipalFromContext(c)
	task, err := h.tasks.Create(c.Context(), principal, c.Params("projectId"), service.TaskCreateInput{
		Title:         req.Title,
		Description:   req.Description,
		Status:        domain.TaskStatus(req.Status),
		DueDate:       req.DueDate,
		AssigneeEmail: req.AssigneeEmail,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// Get handles GET /api/tasks/:taskId.
func (h *TasksHandler) Get(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	task, err := h.tasks.Get(c.Context(), principal, c.Params("taskId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// UpdateStatus handles PATCH /api/tasks/:taskId/status.
func (h *TasksHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateTaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}

	principal, _ := auth.PrincipalFromContext(c)
	task, err := h.tasks.UpdateStatus(c.Context(), principal, c.Params("taskId"), domain.TaskStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// Update handles PUT /api/tasks/:taskId.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title required")
	}

	principal, _ := auth.PrincipalFromContext(c)
	task, err := h.tasks.Update(c.Context(), principal, c.Params("taskId"), service.TaskUpdateInput{
		Title:         req.Title,
		Description:   req.Description,
		Status:        domain.TaskStatus(req.Status),
		DueDate:       req.DueDate,
		AssigneeEmail: req.AssigneeEmail,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// Delete handles DELETE /api/tasks/:taskId.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	if err := h.tasks.Delete(c.Context(), principal, c.Params("taskId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListComments handles GET /api/tasks/:taskId/comments.
func (h *TasksHandler) ListComments(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	comments, err := h.tasks.ListComments(c.Context(), principal, c.Params("taskId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCommentResponses(comments)})
}

// AddComment handles POST /api/tasks/:taskId/comments.
func (h *TasksHandler) AddComment(c *fiber.Ctx) error {
	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.Body == "" {
		return fiber.NewError(fiber.StatusBadRequest, "body required")
	}

	principal, _ := auth.PrincipalFromContext(c)
	comment, err := h.tasks.AddComment(c.Context(), principal, c.Params("taskId"), req.Body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewCommentResponse(comment)})
}

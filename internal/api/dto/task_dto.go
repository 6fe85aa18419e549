package dto

import (
	"time"

	"github.com/taskflow/task-service/internal/domain"
)

// CreateTaskRequest payload for new tasks.
type CreateTaskRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	DueDate       *time.Time `json:"dueDate"`
	AssigneeEmail *string    `json:"assigneeEmail"`
}

// UpdateTaskRequest payload for full task updates.
type UpdateTaskRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Status        string     `json:"status"`
	DueDate       *time.Time `json:"dueDate"`
	AssigneeEmail *string    `json:"assigneeEmail"`
}

// UpdateTaskStatusRequest payload for status-only updates.
type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

// TaskResponse is the client view of a task.
type TaskResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	AssigneeID  *string    `json:"assigneeId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTaskResponse maps a domain task to its client view.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		ProjectID:   task.ProjectID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		DueDate:     task.DueDate,
		AssigneeID:  task.AssigneeID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// NewTaskResponses maps a slice of tasks.
func NewTaskResponses(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, NewTaskResponse(&tasks[i]))
	}
	return out
}

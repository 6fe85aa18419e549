package events

import (
	"time"

	"github.com/taskflow/task-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventProjectCreated   EventType = "project_created"
	EventProjectDeleted   EventType = "project_deleted"
	EventTaskCreated      EventType = "task_created"
	EventTaskStatusMoved  EventType = "task_status_moved"
	EventTaskDeleted      EventType = "task_deleted"
	EventTaskCommentAdded EventType = "task_comment_added"
)

// Actor records who triggered an event.
type Actor struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ProjectID string      `json:"project_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ProjectCreatedPayload payload.
type ProjectCreatedPayload struct {
	Name string `json:"name"`
}

// TaskCreatedPayload payload.
type TaskCreatedPayload struct {
	TaskID string            `json:"task_id"`
	Title  string            `json:"title"`
	Status domain.TaskStatus `json:"status"`
}

// TaskStatusMovedPayload payload.
type TaskStatusMovedPayload struct {
	TaskID    string            `json:"task_id"`
	OldStatus domain.TaskStatus `json:"old_status"`
	NewStatus domain.TaskStatus `json:"new_status"`
}

// TaskCommentAddedPayload payload.
type TaskCommentAddedPayload struct {
	TaskID      string `json:"task_id"`
	CommentID   string `json:"comment_id"`
	BodyPreview string `json:"body_preview"`
}

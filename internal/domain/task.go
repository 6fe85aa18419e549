package domain

import "time"

// TaskStatus enumerates workflow states for a task.
type TaskStatus string

const (
	TaskStatusBacklog    TaskStatus = "BACKLOG"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

// ValidTaskStatus reports whether s is a known workflow state.
func ValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusBacklog, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// Task is a unit of work inside a project. It has no ownership of its own;
// access reduces to the owning project's check.
type Task struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Status      TaskStatus
	DueDate     *time.Time
	AssigneeID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

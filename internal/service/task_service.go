package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taskflow/task-service/internal/auth"
	"github.com/taskflow/task-service/internal/domain"
	"github.com/taskflow/task-service/internal/events"
	"github.com/taskflow/task-service/internal/repository"
	"github.com/taskflow/task-service/pkg/util"
)

// TaskService coordinates task and comment workflows. Tasks carry no
// ownership of their own: every operation resolves the owning project
// through ProjectService, which runs the ownership check.
type TaskService struct {
	tasks      repository.TaskRepository
	comments   repository.CommentRepository
	users      repository.UserRepository
	projects   *ProjectService
	dispatcher events.Dispatcher
}

// TaskCreateInput describes the creation payload.
type TaskCreateInput struct {
	Title         string
	Description   string
	Status        domain.TaskStatus
	DueDate       *time.Time
	AssigneeEmail *string
}

// TaskUpdateInput describes the full-update payload.
type TaskUpdateInput struct {
	Title         string
	Description   string
	Status        domain.TaskStatus
	DueDate       *time.Time
	AssigneeEmail *string
}

// NewTaskService constructs the service.
func NewTaskService(tasks repository.TaskRepository, comments repository.CommentRepository, users repository.UserRepository, projects *ProjectService, dispatcher events.Dispatcher) *TaskService {
	return &TaskService{
		tasks:      tasks,
		comments:   comments,
		users:      users,
		projects:   projects,
		dispatcher: dispatcher,
	}
}

// Create adds a task to a project the principal owns.
func (s *TaskService) Create(ctx context.Context, principal *auth.Principal, projectID string, input TaskCreateInput) (*domain.Task, error) {
	project, err := s.projects.GetOwned(ctx, principal, projectID)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.TaskStatusBacklog
	}
	if !domain.ValidTaskStatus(status) {
		return nil, util.NewValidationError("unknown task status", map[string]any{"status": status})
	}

	task := &domain.Task{
		ProjectID:   project.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      status,
		DueDate:     input.DueDate,
	}
	if err := s.resolveAssignee(ctx, task, input.AssigneeEmail); err != nil {
		return nil, err
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventTaskCreated,
		ProjectID: project.ID,
		Actor:     actorFor(principal),
		Payload:   events.TaskCreatedPayload{TaskID: task.ID, Title: task.Title, Status: task.Status},
	})
	return task, nil
}

// Get fetches a single task from an owned project.
func (s *TaskService) Get(ctx context.Context, principal *auth.Principal, taskID string) (*domain.Task, error) {
	return s.getOwnedTask(ctx, principal, taskID)
}

// List returns the tasks of a project the principal owns.
func (s *TaskService) List(ctx context.Context, principal *auth.Principal, projectID string) ([]domain.Task, error) {
	project, err := s.projects.GetOwned(ctx, principal, projectID)
	if err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, project.ID)
}

// UpdateStatus moves a task to a new workflow state, touching nothing else.
func (s *TaskService) UpdateStatus(ctx context.Context, principal *auth.Principal, taskID string, status domain.TaskStatus) (*domain.Task, error) {
	if !domain.ValidTaskStatus(status) {
		return nil, util.NewValidationError("unknown task status", map[string]any{"status": status})
	}

	task, err := s.getOwnedTask(ctx, principal, taskID)
	if err != nil {
		return nil, err
	}

	oldStatus := task.Status
	task.Status = status
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventTaskStatusMoved,
		ProjectID: task.ProjectID,
		Actor:     actorFor(principal),
		Payload:   events.TaskStatusMovedPayload{TaskID: task.ID, OldStatus: oldStatus, NewStatus: status},
	})
	return task, nil
}

// Update replaces the mutable fields of a task.
func (s *TaskService) Update(ctx context.Context, principal *auth.Principal, taskID string, input TaskUpdateInput) (*domain.Task, error) {
	if !domain.ValidTaskStatus(input.Status) {
		return nil, util.NewValidationError("unknown task status", map[string]any{"status": input.Status})
	}

	task, err := s.getOwnedTask(ctx, principal, taskID)
	if err != nil {
		return nil, err
	}

	task.Title = strings.TrimSpace(input.Title)
	task.Description = strings.TrimSpace(input.Description)
	task.Status = input.Status
	task.DueDate = input.DueDate
	task.AssigneeID = nil
	if err := s.resolveAssignee(ctx, task, input.AssigneeEmail); err != nil {
		return nil, err
	}
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes a task from an owned project.
func (s *TaskService) Delete(ctx context.Context, principal *auth.Principal, taskID string) error {
	task, err := s.getOwnedTask(ctx, principal, taskID)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, task.ID); err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventTaskDeleted,
		ProjectID: task.ProjectID,
		Actor:     actorFor(principal),
	})
	return nil
}

// AddComment attaches a comment authored by the principal.
func (s *TaskService) AddComment(ctx context.Context, principal *auth.Principal, taskID, body string) (*domain.Comment, error) {
	task, err := s.getOwnedTask(ctx, principal, taskID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		TaskID:      task.ID,
		AuthorID:    principal.UserID,
		AuthorEmail: principal.Email,
		Body:        strings.TrimSpace(body),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventTaskCommentAdded,
		ProjectID: task.ProjectID,
		Actor:     actorFor(principal),
		Payload: events.TaskCommentAddedPayload{
			TaskID:      task.ID,
			CommentID:   comment.ID,
			BodyPreview: preview(comment.Body, 80),
		},
	})
	return comment, nil
}

// ListComments returns all comments on a task in an owned project.
func (s *TaskService) ListComments(ctx context.Context, principal *auth.Principal, taskID string) ([]domain.Comment, error) {
	task, err := s.getOwnedTask(ctx, principal, taskID)
	if err != nil {
		return nil, err
	}
	return s.comments.ListByTask(ctx, task.ID)
}

func (s *TaskService) getOwnedTask(ctx context.Context, principal *auth.Principal, taskID string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("task", nil)
		}
		return nil, err
	}
	if _, err := s.projects.GetOwned(ctx, principal, task.ProjectID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) resolveAssignee(ctx context.Context, task *domain.Task, assigneeEmail *string) error {
	if assigneeEmail == nil || strings.TrimSpace(*assigneeEmail) == "" {
		return nil
	}
	assignee, err := s.users.GetByEmail(ctx, *assigneeEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return util.NewNotFound("user", map[string]any{"email": *assigneeEmail})
		}
		return err
	}
	task.AssigneeID = &assignee.ID
	return nil
}

func (s *TaskService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func preview(body string, limit int) string {
	if len(body) <= limit {
		return body
	}
	return body[:limit]
}

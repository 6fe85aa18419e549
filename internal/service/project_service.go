package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/taskflow/task-service/internal/auth"
	"github.com/taskflow/task-service/internal/domain"
	"github.com/taskflow/task-service/internal/events"
	"github.com/taskflow/task-service/internal/repository"
	"github.com/taskflow/task-service/pkg/util"
)

// ProjectService coordinates project workflows. Every read or mutation of
// an existing project passes the ownership guard first; a deny surfaces as
// not-found so foreign project IDs are indistinguishable from missing ones.
type ProjectService struct {
	projects   repository.ProjectRepository
	dispatcher events.Dispatcher
}

// ProjectCreateInput describes the creation payload.
type ProjectCreateInput struct {
	Name        string
	Description string
}

// ProjectUpdateInput describes the update payload.
type ProjectUpdateInput struct {
	Name        string
	Description string
}

// NewProjectService constructs the service.
func NewProjectService(projects repository.ProjectRepository, dispatcher events.Dispatcher) *ProjectService {
	return &ProjectService{projects: projects, dispatcher: dispatcher}
}

// ListOwned returns every project owned by the principal.
func (s *ProjectService) ListOwned(ctx context.Context, principal *auth.Principal) ([]domain.Project, error) {
	if principal == nil {
		return nil, util.NewUnauthorized("authentication required")
	}
	return s.projects.ListByOwnerEmail(ctx, principal.Email)
}

// Create stores a new project owned by the principal.
func (s *ProjectService) Create(ctx context.Context, principal *auth.Principal, input ProjectCreateInput) (*domain.Project, error) {
	if principal == nil {
		return nil, util.NewUnauthorized("authentication required")
	}

	project := &domain.Project{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		OwnerID:     principal.UserID,
		OwnerEmail:  principal.Email,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventProjectCreated,
		ProjectID: project.ID,
		Actor:     actorFor(principal),
		Payload:   events.ProjectCreatedPayload{Name: project.Name},
	})
	return project, nil
}

// GetOwned fetches a project the principal owns. Missing rows and
// ownership denials are both reported as not-found.
func (s *ProjectService) GetOwned(ctx context.Context, principal *auth.Principal, id string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, util.NewNotFound("project", nil)
		}
		return nil, err
	}
	if err := auth.AuthorizeProjectAccess(principal, project); err != nil {
		return nil, util.NewNotFound("project", nil)
	}
	return project, nil
}

// Update modifies name and description of an owned project.
func (s *ProjectService) Update(ctx context.Context, principal *auth.Principal, id string, input ProjectUpdateInput) (*domain.Project, error) {
	project, err := s.GetOwned(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	project.Name = strings.TrimSpace(input.Name)
	project.Description = strings.TrimSpace(input.Description)
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes an owned project and, via the schema's cascade, its tasks
// and comments.
func (s *ProjectService) Delete(ctx context.Context, principal *auth.Principal, id string) error {
	project, err := s.GetOwned(ctx, principal, id)
	if err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, project.ID); err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:      events.EventProjectDeleted,
		ProjectID: project.ID,
		Actor:     actorFor(principal),
	})
	return nil
}

func (s *ProjectService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorFor(principal *auth.Principal) events.Actor {
	if principal == nil {
		return events.Actor{}
	}
	return events.Actor{UserID: principal.UserID, Email: principal.Email}
}

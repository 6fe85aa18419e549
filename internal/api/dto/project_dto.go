package dto

import (
	"time"

	"github.com/taskflow/task-service/internal/domain"
)

// CreateProjectRequest payload for new projects.
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateProjectRequest payload for project updates.
type UpdateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ProjectResponse is the client view of a project.
type ProjectResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerEmail  string    `json:"ownerEmail"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewProjectResponse maps a domain project to its client view.
func NewProjectResponse(project *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		OwnerEmail:  project.OwnerEmail,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// NewProjectResponses maps a slice of projects.
func NewProjectResponses(projects []domain.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, NewProjectResponse(&projects[i]))
	}
	return out
}

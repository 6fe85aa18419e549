package auth

import (
	"strings"

	"github.com/taskflow/task-service/internal/domain"
)

// AuthorizeProjectAccess allows access iff the principal is present and its
// email matches the project owner's email case-insensitively. Callers must
// surface a deny as not-found, indistinguishable from a project that does
// not exist, so project IDs never leak across tenants.
func AuthorizeProjectAccess(principal *Principal, project *domain.Project) error {
	if principal == nil || principal.Email == "" || project == nil {
		return ErrOwnershipDenied
	}
	if !strings.EqualFold(principal.Email, project.OwnerEmail) {
		return ErrOwnershipDenied
	}
	return nil
}

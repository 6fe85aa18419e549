package persistence

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskflow/task-service/internal/auth"
	"github.com/taskflow/task-service/internal/domain"
	"github.com/taskflow/task-service/internal/repository"
)

// SeedDemoData loads a couple of accounts and a sample project for local
// exploration. It is a no-op when any user already exists.
func SeedDemoData(ctx context.Context, users repository.UserRepository, projects repository.ProjectRepository, tasks repository.TaskRepository, bcryptCost int, logger *zap.Logger) error {
	existing, err := users.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	hash, err := auth.HashPassword("changeme", bcryptCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Email:        "admin@taskflow.dev",
		FullName:     "Admin User",
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleAdmin},
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}

	member := &domain.User{
		Email:        "member@taskflow.dev",
		FullName:     "Member User",
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleMember},
	}
	if err := users.Create(ctx, member); err != nil {
		return err
	}

	project := &domain.Project{
		Name:        "Launch Website",
		Description: "Prepare marketing site launch",
		OwnerID:     admin.ID,
	}
	if err := projects.Create(ctx, project); err != nil {
		return err
	}

	due := time.Now().AddDate(0, 0, 14)
	task := &domain.Task{
		ProjectID:   project.ID,
		Title:       "Write landing page copy",
		Description: "Draft hero section and feature blurbs",
		Status:      domain.TaskStatusInProgress,
		DueDate:     &due,
		AssigneeID:  &member.ID,
	}
	if err := tasks.Create(ctx, task); err != nil {
		return err
	}

	logger.Info("seeded demo data",
		zap.String("admin", admin.Email),
		zap.String("member", member.Email))
	return nil
}

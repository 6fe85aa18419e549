package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskflow/task-service/internal/domain"
)

// ProjectRepository defines persistence access for projects. Every read
// joins the owner's email so the service layer can run the ownership check
// without a second lookup.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	Update(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListByOwnerEmail(ctx context.Context, email string) ([]domain.Project, error)
	Delete(ctx context.Context, id string) error
}

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository returns a Postgres-backed implementation.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	const query = `
        INSERT INTO projects (name, description, owner_id)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		project.Name,
		project.Description,
		project.OwnerID,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	const query = `
        UPDATE projects SET name=$1, description=$2, updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, project.Name, project.Description, project.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	const query = `
        SELECT p.id, p.name, p.description, p.owner_id, u.email, p.created_at, p.updated_at
        FROM projects p
        JOIN users u ON u.id = p.owner_id
        WHERE p.id=$1`

	var project domain.Project
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.OwnerID,
		&project.OwnerEmail,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) ListByOwnerEmail(ctx context.Context, email string) ([]domain.Project, error) {
	const query = `
        SELECT p.id, p.name, p.description, p.owner_id, u.email, p.created_at, p.updated_at
        FROM projects p
        JOIN users u ON u.id = p.owner_id
        WHERE LOWER(u.email)=LOWER($1)
        ORDER BY p.created_at`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var project domain.Project
		if err := rows.Scan(
			&project.ID,
			&project.Name,
			&project.Description,
			&project.OwnerID,
			&project.OwnerEmail,
			&project.CreatedAt,
			&project.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}

func (r *projectRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskflow/task-service/internal/domain"
)

// CommentRepository defines persistence access for task comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	ListByTask(ctx context.Context, taskID string) ([]domain.Comment, error)
}

type commentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository returns a Postgres-backed implementation.
func NewCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &commentRepository{pool: pool}
}

func (r *commentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	const query = `
        INSERT INTO task_comments (task_id, author_id, body)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		comment.TaskID,
		comment.AuthorID,
		comment.Body,
	).Scan(&comment.ID, &comment.CreatedAt)
}

func (r *commentRepository) ListByTask(ctx context.Context, taskID string) ([]domain.Comment, error) {
	const query = `
        SELECT c.id, c.task_id, c.author_id, u.email, c.body, c.created_at
        FROM task_comments c
        JOIN users u ON u.id = c.author_id
        WHERE c.task_id=$1
        ORDER BY c.created_at`

	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var comment domain.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.TaskID,
			&comment.AuthorID,
			&comment.AuthorEmail,
			&comment.Body,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

package dto

import (
	"time"

	"github.com/taskflow/task-service/internal/domain"
)

// CreateCommentRequest payload for new comments. The author comes from
// the authenticated principal, never from the payload.
type CreateCommentRequest struct {
	Body string `json:"body"`
}

// CommentResponse is the client view of a comment.
type CommentResponse struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	AuthorEmail string    `json:"authorEmail"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewCommentResponse maps a domain comment to its client view.
func NewCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:          comment.ID,
		TaskID:      comment.TaskID,
		AuthorEmail: comment.AuthorEmail,
		Body:        comment.Body,
		CreatedAt:   comment.CreatedAt,
	}
}

// NewCommentResponses maps a slice of comments.
func NewCommentResponses(comments []domain.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, NewCommentResponse(&comments[i]))
	}
	return out
}

package domain

import "time"

// Comment captures discussion on a task. The author is always resolved
// server-side from the authenticated principal, never from the payload.
type Comment struct {
	ID          string
	TaskID      string
	AuthorID    string
	AuthorEmail string
	Body        string
	CreatedAt   time.Time
}

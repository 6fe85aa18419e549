package domain

import "time"

// Project groups tasks under a single owning user. Ownership is fixed at
// creation and is the only authorization relation in the system: tasks and
// comments inherit access from their project.
type Project struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	OwnerEmail  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

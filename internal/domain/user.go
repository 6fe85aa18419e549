package domain

import "time"

// Role names granted to a user account.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// User is the domain model for registered accounts. Emails are stored
// case-preserved but looked up case-insensitively.
type User struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
	Roles        []Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoleNames returns the roles as plain strings for DTOs and token claims.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, string(r))
	}
	return names
}

package dto

import "github.com/taskflow/task-service/internal/domain"

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Password string `json:"password"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the slim identity view safe to send to clients. It never
// carries the password hash.
type UserResponse struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles"`
}

// AuthResponse is returned by register, login, and refresh.
type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         UserResponse `json:"user"`
}

// NewUserResponse maps a domain user to its client view.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Roles:    user.RoleNames(),
	}
}

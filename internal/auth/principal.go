package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/taskflow/task-service/internal/domain"
)

const principalKey = "auth_principal"

// Principal is the authenticated identity attached to a single request.
// It is created by the middleware, read by downstream services, and
// discarded when the request completes. Never cached across requests.
type Principal struct {
	UserID   string
	Email    string
	FullName string
	Roles    []string
}

// NewPrincipal builds a principal from a resolved user record.
func NewPrincipal(user *domain.User) *Principal {
	return &Principal{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Roles:    user.RoleNames(),
	}
}

// HasRole reports whether the principal carries the named role,
// compared case-insensitively.
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// SetPrincipal attaches the principal to the request if none is present.
// It never overwrites an already-authenticated request.
func SetPrincipal(c *fiber.Ctx, principal *Principal) {
	if c.Locals(principalKey) != nil {
		return
	}
	c.Locals(principalKey, principal)
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

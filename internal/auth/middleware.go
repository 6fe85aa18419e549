package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/taskflow/task-service/internal/repository"
)

const bearerPrefix = "Bearer "

// AuthMiddleware is the per-request authentication gate. It extracts the
// bearer token, verifies it, and on success resolves the subject to a
// Principal. Every failure kind leaves the request unauthenticated and
// lets the pipeline continue; the gate itself never writes a response.
// Probing with a broken token behaves exactly like sending none.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
	logger *zap.Logger
}

// NewAuthMiddleware constructs the gate.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, users: users, logger: logger}
}

// Handle runs once per request, before any business logic.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	if _, ok := PrincipalFromContext(c); ok {
		return c.Next()
	}

	authHeader := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return c.Next()
	}
	tokenStr := authHeader[len(bearerPrefix):]

	claims, err := m.tokens.Verify(tokenStr)
	if err != nil {
		// Expected rejections stay at debug so probing yields no signal;
		// anything else is a programming error worth surfacing in logs.
		if IsVerificationFailure(err) {
			m.logger.Debug("token rejected", zap.Error(err))
		} else {
			m.logger.Warn("token verification error", zap.Error(err))
		}
		return c.Next()
	}

	// A refresh token must never authenticate a normal request.
	if claims.TokenType != TokenTypeAccess {
		m.logger.Debug("token rejected", zap.Error(ErrWrongTokenType))
		return c.Next()
	}

	user, err := m.users.GetByEmail(c.Context(), claims.Subject)
	if err != nil {
		m.logger.Debug("token subject unresolved", zap.Error(err))
		return c.Next()
	}

	SetPrincipal(c, NewPrincipal(user))
	return c.Next()
}

// RequireAuthenticated rejects requests that reached a protected endpoint
// without an authenticated principal. This rejection is deliberately a
// downstream concern, separate from the gate.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		return c.Next()
	}
}

// RequireRole ensures the principal carries one of the allowed roles.
func RequireRole(allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		for _, role := range allowed {
			if principal.HasRole(role) {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient role")
	}
}

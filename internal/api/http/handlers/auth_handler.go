package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/taskflow/task-service/internal/api/dto"
	"github.com/taskflow/task-service/internal/auth"
	"github.com/taskflow/task-service/internal/domain"
	"github.com/taskflow/task-service/internal/service"
	"github.com/taskflow/task-service/pkg/util"
)

const bearerPrefix = "Bearer "

// AuthHandler exposes register, login, and refresh endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.FullName == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email, fullName, password required")
	}
	if len(req.Password) < 8 {
		return fiber.NewError(fiber.StatusBadRequest, "password must be at least 8 chars")
	}

	user, pair, err := h.auth.Register(c.Context(), req.Email, req.FullName, req.Password)
	if err != nil {
		if err == auth.ErrIdentityExists {
			return util.NewConflict("email already registered", nil)
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(authResponse(user, pair))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "email and password required")
	}

	user, pair, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if err == auth.ErrCredentialInvalid {
			return util.NewUnauthorized("invalid credentials")
		}
		return err
	}

	return c.JSON(authResponse(user, pair))
}

// Refresh handles POST /api/auth/refresh. The refresh token travels in the
// Authorization header; any structural failure or a non-REFRESH token is an
// unauthorized response.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return util.NewUnauthorized("missing refresh token")
	}

	user, pair, err := h.auth.Refresh(c.Context(), authHeader[len(bearerPrefix):])
	if err != nil {
		if auth.IsVerificationFailure(err) || err == auth.ErrPrincipalNotFound {
			return util.NewUnauthorized("invalid refresh token")
		}
		return err
	}

	return c.JSON(authResponse(user, pair))
}

func authResponse(user *domain.User, pair service.TokenPair) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         dto.NewUserResponse(user),
	}
}

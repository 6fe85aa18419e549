package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/taskflow/task-service/internal/auth"
	"github.com/taskflow/task-service/internal/config"
	"github.com/taskflow/task-service/internal/domain"
	"github.com/taskflow/task-service/internal/repository"
)

// TokenPair bundles the two credentials returned by every auth flow.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService coordinates registration, login, and token refresh. Token
// verification for ordinary requests is the middleware's job, not ours.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	signer := auth.NewSigner(cfg.JWTSecret, cfg.Issuer)
	return &AuthService{
		users:      users,
		tokens:     auth.NewTokenManager(signer, cfg.AccessTokenTTL(), cfg.RefreshTokenTTL()),
		bcryptCost: cfg.BcryptCost,
	}
}

// Register creates a new account with the default MEMBER role and logs it
// in immediately. An existing email is a conflict.
func (s *AuthService) Register(ctx context.Context, email, fullName, password string) (*domain.User, TokenPair, error) {
	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if taken {
		return nil, TokenPair{}, auth.ErrIdentityExists
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, TokenPair{}, err
	}

	user := &domain.User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleMember},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Login verifies credentials and mints a fresh token pair. An unknown email
// and a wrong password are both reported as invalid credentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, TokenPair{}, auth.ErrCredentialInvalid
		}
		return nil, TokenPair{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid REFRESH token for a brand-new pair. The old
// refresh token is not invalidated; the design is pure expiry-based.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.User, TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if claims.TokenType != auth.TokenTypeRefresh {
		return nil, TokenPair{}, auth.ErrWrongTokenType
	}

	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, TokenPair{}, auth.ErrPrincipalNotFound
		}
		return nil, TokenPair{}, err
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) issueTokens(user *domain.User) (TokenPair, error) {
	access, err := s.tokens.CreateAccessToken(user.Email, map[string]string{
		"fullName": user.FullName,
	})
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.CreateRefreshToken(user.Email)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

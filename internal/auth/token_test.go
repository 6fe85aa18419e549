package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager(NewSigner("test-secret", "taskflow"), 15*time.Minute, 7*24*time.Hour)
}

func TestCreateAccessTokenCarriesClaims(t *testing.T) {
	tm := newTestManager()

	token, err := tm.CreateAccessToken("Alice@Example.com", map[string]string{
		"fullName": "Alice Example",
		"theme":    "dark",
	})
	require.NoError(t, err)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	require.Equal(t, TokenTypeAccess, claims.TokenType)
	// Subject casing is preserved even though comparisons downstream are
	// case-insensitive.
	require.Equal(t, "Alice@Example.com", claims.Subject)
	require.Equal(t, "Alice Example", claims.Extra["fullName"])
	require.Equal(t, "dark", claims.Extra["theme"])
	require.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
}

func TestCreateRefreshTokenHasNoExtraClaims(t *testing.T) {
	tm := newTestManager()

	token, err := tm.CreateRefreshToken("alice@example.com")
	require.NoError(t, err)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	require.Equal(t, TokenTypeRefresh, claims.TokenType)
	require.Empty(t, claims.Extra)
}

func TestTokenLifetimesDiffer(t *testing.T) {
	tm := newTestManager()

	access, err := tm.CreateAccessToken("alice@example.com", nil)
	require.NoError(t, err)
	refresh, err := tm.CreateRefreshToken("alice@example.com")
	require.NoError(t, err)

	accessClaims, err := tm.Verify(access)
	require.NoError(t, err)
	refreshClaims, err := tm.Verify(refresh)
	require.NoError(t, err)

	require.True(t, refreshClaims.ExpiresAt.After(accessClaims.ExpiresAt.Time),
		"refresh tokens must outlive access tokens")
}

func TestManagerAppliesDefaultTTLs(t *testing.T) {
	tm := NewTokenManager(NewSigner("test-secret", "taskflow"), 0, 0)
	require.Equal(t, 15*time.Minute, tm.AccessTTL())
}

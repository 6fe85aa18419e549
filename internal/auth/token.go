package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenManager mints access and refresh tokens and verifies incoming ones.
// Access tokens are short-lived and carry extra claims; refresh tokens are
// long-lived and carry none. Verify is type-agnostic: every consumer must
// check the type claim before trusting a token for its purpose.
type TokenManager struct {
	signer     *Signer
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager builds a manager around the signer and configured TTLs.
func NewTokenManager(signer *Signer, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{signer: signer, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// CreateAccessToken mints a signed ACCESS token for the subject, merging
// the extra string claims into the payload.
func (tm *TokenManager) CreateAccessToken(subject string, extra map[string]string) (string, error) {
	return tm.signer.Sign(tm.newClaims(subject, TokenTypeAccess, tm.accessTTL, extra))
}

// CreateRefreshToken mints a signed REFRESH token for the subject.
func (tm *TokenManager) CreateRefreshToken(subject string) (string, error) {
	return tm.signer.Sign(tm.newClaims(subject, TokenTypeRefresh, tm.refreshTTL, nil))
}

// Verify validates the token string and returns its decoded claims.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	return tm.signer.Verify(tokenStr)
}

// AccessTTL returns the configured access-token lifetime.
func (tm *TokenManager) AccessTTL() time.Duration {
	return tm.accessTTL
}

func (tm *TokenManager) newClaims(subject string, tokenType TokenType, ttl time.Duration, extra map[string]string) *Claims {
	now := time.Now()
	return &Claims{
		TokenType: tokenType,
		Extra:     extra,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tm.signer.Issuer(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}

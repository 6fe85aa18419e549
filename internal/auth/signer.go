package auth

import (
	"errors"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenType distinguishes the two credential kinds. The type claim is part
// of the signed payload, so it cannot be altered without breaking the
// signature.
type TokenType string

const (
	TokenTypeAccess  TokenType = "ACCESS"
	TokenTypeRefresh TokenType = "REFRESH"
)

// Claims is the JWT payload carried by every issued token. Extra holds
// arbitrary string claims and is only populated on access tokens.
type Claims struct {
	TokenType TokenType         `json:"type"`
	Extra     map[string]string `json:"ext,omitempty"`
	jwt.RegisteredClaims
}

// Signer signs and verifies compact JWTs with a symmetric HMAC-SHA256 key
// and a pinned issuer. It is a pure cryptographic transform with no side
// effects; expiry and issuer checks happen during Verify.
type Signer struct {
	secret []byte
	issuer string
}

// NewSigner builds a signer around the process-wide secret and issuer.
func NewSigner(secret, issuer string) *Signer {
	return &Signer{secret: []byte(secret), issuer: issuer}
}

// Issuer returns the configured issuer string.
func (s *Signer) Issuer() string {
	return s.issuer
}

// Sign produces the compact serialized token for the claim set.
func (s *Signer) Sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token string. Failures map onto the
// package sentinel errors so callers can classify them with errors.Is.
func (s *Signer) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, classifyJWTError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformedToken
	}
	if claims.Issuer != s.issuer {
		return nil, ErrIssuerMismatch
	}
	return claims, nil
}

func classifyJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return ErrSignatureInvalid
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformedToken
	default:
		return ErrSignatureInvalid
	}
}

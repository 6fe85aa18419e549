package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestSignerRoundTrip(t *testing.T) {
	signer := NewSigner("test-secret", "taskflow")

	token, err := signer.Sign(&Claims{
		TokenType: TokenTypeAccess,
		Extra:     map[string]string{"fullName": "Alice Example"},
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "taskflow",
			Subject:   "alice@example.com",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	require.NoError(t, err)

	claims, err := signer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", claims.Subject)
	require.Equal(t, TokenTypeAccess, claims.TokenType)
	require.Equal(t, "Alice Example", claims.Extra["fullName"])
}

func TestSignerRejectsExpiredToken(t *testing.T) {
	signer := NewSigner("test-secret", "taskflow")

	token, err := signer.Sign(&Claims{
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "taskflow",
			Subject:   "alice@example.com",
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	require.NoError(t, err)

	_, err = signer.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestSignerRejectsIssuerMismatch(t *testing.T) {
	// Same key, different configured issuer.
	minting := NewSigner("test-secret", "someone-else")
	verifying := NewSigner("test-secret", "taskflow")

	token, err := minting.Sign(&Claims{
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   "alice@example.com",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	require.NoError(t, err)

	_, err = verifying.Verify(token)
	require.ErrorIs(t, err, ErrIssuerMismatch)
}

func TestSignerRejectsWrongKey(t *testing.T) {
	minting := NewSigner("one-secret", "taskflow")
	verifying := NewSigner("another-secret", "taskflow")

	token, err := minting.Sign(&Claims{
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "taskflow",
			Subject:   "alice@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	})
	require.NoError(t, err)

	_, err = verifying.Verify(token)
	require.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestSignerRejectsTamperedPayload(t *testing.T) {
	signer := NewSigner("test-secret", "taskflow")
	tm := NewTokenManager(signer, time.Minute, time.Hour)

	refresh, err := tm.CreateRefreshToken("mallory@example.com")
	require.NoError(t, err)

	// Rewrite the type claim to ACCESS without re-signing; the claim is part
	// of the signed payload, so the signature no longer matches.
	forged := rewritePayload(t, refresh, `"REFRESH"`, `"ACCESS"`)
	_, err = signer.Verify(forged)
	require.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestSignerRejectsTamperedSignature(t *testing.T) {
	signer := NewSigner("test-secret", "taskflow")
	tm := NewTokenManager(signer, time.Minute, time.Hour)

	token, err := tm.CreateAccessToken("alice@example.com", nil)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	_, err = signer.Verify(parts[0] + "." + parts[1] + "." + string(sig))
	require.ErrorIs(t, err, ErrSignatureInvalid)
}

func TestSignerRejectsGarbage(t *testing.T) {
	signer := NewSigner("test-secret", "taskflow")

	for _, input := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := signer.Verify(input)
		require.ErrorIs(t, err, ErrMalformedToken, "input %q", input)
	}
}

func rewritePayload(t *testing.T, token, old, new string) string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	altered := strings.Replace(string(payload), old, new, 1)
	require.NotEqual(t, string(payload), altered, "expected %q in payload", old)

	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(altered))
	return strings.Join(parts, ".")
}

package auth

import "errors"

// Sentinel errors for every distinct failure the core can produce. The
// request gate collapses all token-verification kinds to an unauthenticated
// outcome; the distinctions exist for callers that need them (the refresh
// endpoint, logs, tests).
var (
	ErrMalformedToken    = errors.New("auth: malformed token")
	ErrSignatureInvalid  = errors.New("auth: signature invalid")
	ErrTokenExpired      = errors.New("auth: token expired")
	ErrIssuerMismatch    = errors.New("auth: issuer mismatch")
	ErrWrongTokenType    = errors.New("auth: wrong token type")
	ErrPrincipalNotFound = errors.New("auth: principal not found")
	ErrOwnershipDenied   = errors.New("auth: ownership denied")
	ErrCredentialInvalid = errors.New("auth: invalid credentials")
	ErrIdentityExists    = errors.New("auth: identity already exists")
)

// IsVerificationFailure reports whether err is one of the expected token
// verification failure kinds. The gate uses this to log expected rejections
// at debug level while anything else surfaces as a warning.
func IsVerificationFailure(err error) bool {
	return errors.Is(err, ErrMalformedToken) ||
		errors.Is(err, ErrSignatureInvalid) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrIssuerMismatch) ||
		errors.Is(err, ErrWrongTokenType)
}

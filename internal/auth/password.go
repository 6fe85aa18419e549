package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword hashes a plaintext secret with the configured bcrypt cost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a plaintext secret against its stored hash.
// bcrypt performs the constant-time comparison. Returns
// ErrCredentialInvalid on mismatch.
func ComparePassword(hashed, plain string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)); err != nil {
		return ErrCredentialInvalid
	}
	return nil
}

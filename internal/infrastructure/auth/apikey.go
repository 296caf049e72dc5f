package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// APIKeyVerifier checks the operator API key accepted on admin routes as an
// alternative to a JWT. Only the bcrypt hash of the key is configured.
type APIKeyVerifier struct {
	hash string
}

func NewAPIKeyVerifier(hash string) *APIKeyVerifier {
	return &APIKeyVerifier{hash: hash}
}

// Enabled reports whether an API key hash is configured at all.
func (v *APIKeyVerifier) Enabled() bool {
	return v.hash != ""
}

func (v *APIKeyVerifier) Verify(key string) error {
	if v.hash == "" {
		return fmt.Errorf("api key authentication is not configured")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(v.hash), []byte(key)); err != nil {
		// Keep the message generic regardless of the actual cause.
		return fmt.Errorf("api key verification failed")
	}
	return nil
}

// HashAPIKey produces a bcrypt hash suitable for the auth.api_key_hash
// config entry.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash api key: %w", err)
	}
	return string(hash), nil
}

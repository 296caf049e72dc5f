package social

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// GeneratePKCE generates a code_verifier and its code_challenge for the PKCE
// flow (RFC 7636, S256 method).
func GeneratePKCE() (codeVerifier, codeChallenge string, err error) {
	verifierBytes := make([]byte, 32)
	if _, err := rand.Read(verifierBytes); err != nil {
		return "", "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	codeVerifier = base64.RawURLEncoding.EncodeToString(verifierBytes)
	return codeVerifier, ChallengeFromVerifier(codeVerifier), nil
}

// ChallengeFromVerifier derives the S256 code challenge for a verifier:
// base64url(SHA-256(verifier)) without padding. The provider re-derives the
// same value during the code exchange.
func ChallengeFromVerifier(codeVerifier string) string {
	hash := sha256.Sum256([]byte(codeVerifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

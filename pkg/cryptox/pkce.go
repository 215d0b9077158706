package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// S256Challenge derives the PKCE challenge for a verifier:
// base64url(SHA-256(verifier)) without padding.
func S256Challenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// VerifyS256 reports whether verifier hashes to challenge. The comparison is
// constant time and an empty challenge never matches.
func VerifyS256(challenge, verifier string) bool {
	if challenge == "" {
		return false
	}
	expected := S256Challenge(verifier)
	return subtle.ConstantTimeCompare([]byte(challenge), []byte(expected)) == 1
}

// GenerateVerifier returns a random verifier suitable for S256, 43 chars long.
func GenerateVerifier() (string, error) {
	v, err := GenerateToken(TokenSize256)
	if err != nil {
		return "", fmt.Errorf("generate code verifier: %w", err)
	}
	return v, nil
}

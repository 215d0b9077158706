package httpx

import (
	"errors"
	"strings"
)

var (
	ErrMissingBearer   = errors.New("httpx: missing authorization header")
	ErrMalformedBearer = errors.New("httpx: malformed bearer authorization header")
)

// ParseBearer extracts the token from an Authorization header value. The
// scheme is matched case-insensitively and the value must have exactly two
// space separated parts.
func ParseBearer(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingBearer
	}

	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMalformedBearer
	}
	return parts[1], nil
}

// NormalizeUsername trims and lowercases a username. Every role compares
// usernames in this form.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

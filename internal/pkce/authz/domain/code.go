package domain

import "time"

// AuthorizationCode binds a single use code to the S256 challenge the client
// sent with it.
type AuthorizationCode struct {
	Code          string
	CodeChallenge string
	CreatedAt     time.Time
}

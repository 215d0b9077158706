package domain

import "time"

// IssuedToken is a freshly signed bearer token.
type IssuedToken struct {
	AccessToken string
	Username    string
	ExpiresAt   time.Time
	TTL         time.Duration
}

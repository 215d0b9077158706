package domain

import "time"

// Session ties a browser cookie to the token issued at login. It is a cache
// of the token, never a source of identity: every protected request
// re-verifies Token with the issuer.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

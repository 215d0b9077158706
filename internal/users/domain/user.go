package domain

import "time"

// User is a registered account. Username is stored normalized (trimmed and
// lowercased) and is unique.
type User struct {
	ID           string
	Username     string
	PasswordHash string // argon2id PHC string
	CreatedAt    time.Time
}

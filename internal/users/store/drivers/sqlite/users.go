package sqlite

import (
	"context"
	"fmt"

	"github.com/aussiebroadwan/shopgate/internal/users/domain"
)

type usersRepo struct {
	db dbtx
}

const createUser = `
INSERT INTO users (id, username, password_hash, created_at)
VALUES (?, ?, ?, ?)`

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, createUser, u.ID, u.Username, u.PasswordHash, formatTime(u.CreatedAt))
	return mapUniqueViolation(err)
}

const getUserByUsername = `
SELECT id, username, password_hash, created_at
FROM users
WHERE username = ?`

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	var (
		u       domain.User
		created string
	)
	err := r.db.QueryRowContext(ctx, getUserByUsername, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &created)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	if u.CreatedAt, err = parseTime(created); err != nil {
		return domain.User{}, fmt.Errorf("parse created_at: %w", err)
	}
	return u, nil
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users)`).Scan(&exists)
	return !exists, err
}

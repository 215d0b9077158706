package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/aussiebroadwan/shopgate/internal/users/domain"
)

type usersRepo struct {
	db dbtx
}

const createUser = `-- name: CreateUser
INSERT INTO users (id, username, password_hash, created_at)
VALUES ($1, $2, $3, $4)`

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.Exec(ctx, createUser, u.ID, u.Username, u.PasswordHash, u.CreatedAt)
	return mapUniqueViolation(err)
}

const getUserByUsername = `-- name: GetUserByUsername
SELECT id, username, password_hash, created_at
FROM users
WHERE username = $1`

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	rows, _ := r.db.Query(ctx, getUserByUsername, username)
	u, err := pgx.CollectOneRow(rows, pgx.RowToStructByPos[domain.User])
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users)`).Scan(&exists)
	return !exists, err
}

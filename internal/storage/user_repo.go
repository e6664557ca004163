package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

// ErrUsernameTaken reports a unique-constraint violation on users.username.
var ErrUsernameTaken = fmt.Errorf("username already taken")

func (r *UserRepo) Insert(ctx context.Context, username, passwordHash string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash) VALUES (?, ?)
	`, username, passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, ErrUsernameTaken
		}
		return 0, fmt.Errorf("user insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	return id, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at FROM users WHERE username = ?
	`, username)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user get by username: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) Get(ctx context.Context, id int64) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at FROM users WHERE id = ?
	`, id)
	var u User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user get: %w", err)
	}
	return &u, nil
}

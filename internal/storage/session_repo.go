package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type SessionRepo struct {
	db DBTX
}

func NewSessionRepo(db DBTX) *SessionRepo {
	return &SessionRepo{db: db}
}

func (r *SessionRepo) Insert(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)
	`, token, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("session insert: %w", err)
	}
	return nil
}

// Resolve returns the session for token, or nil when unknown or expired.
func (r *SessionRepo) Resolve(ctx context.Context, token string, now time.Time) (*Session, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT token, user_id, expires_at FROM sessions WHERE token = ?
	`, token)
	var s Session
	if err := row.Scan(&s.Token, &s.UserID, &s.ExpiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("session resolve: %w", err)
	}
	if !s.ExpiresAt.After(now) {
		return nil, nil
	}
	return &s, nil
}

func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now); err != nil {
		return fmt.Errorf("session delete expired: %w", err)
	}
	return nil
}

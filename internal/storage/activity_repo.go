package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type ActivityRepo struct {
	db DBTX
}

func NewActivityRepo(db DBTX) *ActivityRepo {
	return &ActivityRepo{db: db}
}

func (r *ActivityRepo) Append(ctx context.Context, userID int64, kind, text string, xpEarned int, media *string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_log (user_id, kind, text, xp_earned, media)
		VALUES (?, ?, ?, ?, ?)
	`, userID, kind, text, xpEarned, media)
	if err != nil {
		return fmt.Errorf("activity append: %w", err)
	}
	return nil
}

func (r *ActivityRepo) ListRecent(ctx context.Context, userID int64, limit int) ([]ActivityEntry, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, kind, text, xp_earned, media, created_at
		FROM activity_log
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("activity list: %w", err)
	}
	defer rows.Close()

	var out []ActivityEntry
	for rows.Next() {
		var (
			e     ActivityEntry
			media sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Text, &e.XPEarned, &media, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("activity scan: %w", err)
		}
		if media.Valid {
			v := media.String
			e.Media = &v
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity rows: %w", err)
	}
	return out, nil
}

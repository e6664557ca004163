package storage

import (
	"context"
	"fmt"
)

type AchievementRepo struct {
	db DBTX
}

func NewAchievementRepo(db DBTX) *AchievementRepo {
	return &AchievementRepo{db: db}
}

func (r *AchievementRepo) ListUnlocked(ctx context.Context, userID int64) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT achievement_id FROM user_achievements WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("achievement list: %w", err)
	}
	defer rows.Close()

	unlocked := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("achievement scan: %w", err)
		}
		unlocked[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("achievement rows: %w", err)
	}
	return unlocked, nil
}

// InsertUnlock is idempotent: re-inserting an unlocked achievement is a no-op.
func (r *AchievementRepo) InsertUnlock(ctx context.Context, userID int64, achievementID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO user_achievements (user_id, achievement_id) VALUES (?, ?)
	`, userID, achievementID)
	if err != nil {
		return fmt.Errorf("achievement insert: %w", err)
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type ProgressRepo struct {
	db DBTX
}

func NewProgressRepo(db DBTX) *ProgressRepo {
	return &ProgressRepo{db: db}
}

func (r *ProgressRepo) Get(ctx context.Context, userID int64) (*Progress, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, level, xp, xp_max, completed_tasks, current_streak, combo,
			last_completion_date, sound_enabled, theme
		FROM user_progress
		WHERE user_id = ?
	`, userID)

	var (
		p        Progress
		lastDate sql.NullString
		sound    int
	)
	if err := row.Scan(&p.UserID, &p.Level, &p.XP, &p.XPMax, &p.CompletedTasks,
		&p.CurrentStreak, &p.Combo, &lastDate, &sound, &p.Theme); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("progress get: %w", err)
	}
	if lastDate.Valid {
		v := lastDate.String
		p.LastCompletionDate = &v
	}
	p.SoundEnabled = sound != 0
	return &p, nil
}

// GetOrCreate loads the progress row for userID, inserting the defaults
// (level 1, xp 0, xp_max 100) when absent.
func (r *ProgressRepo) GetOrCreate(ctx context.Context, userID int64) (*Progress, error) {
	p, err := r.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}

	if _, err := r.db.ExecContext(ctx, `INSERT INTO user_progress (user_id) VALUES (?)`, userID); err != nil {
		return nil, fmt.Errorf("progress insert: %w", err)
	}
	return r.Get(ctx, userID)
}

func (r *ProgressRepo) Update(ctx context.Context, p *Progress) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_progress
		SET level = ?, xp = ?, xp_max = ?, completed_tasks = ?,
			current_streak = ?, combo = ?, last_completion_date = ?,
			sound_enabled = ?, theme = ?
		WHERE user_id = ?
	`, p.Level, p.XP, p.XPMax, p.CompletedTasks, p.CurrentStreak, p.Combo,
		p.LastCompletionDate, boolToInt(p.SoundEnabled), p.Theme, p.UserID)
	if err != nil {
		return fmt.Errorf("progress update: %w", err)
	}
	return nil
}

func (r *ProgressRepo) ResetCombo(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE user_progress SET combo = 0 WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("progress reset combo: %w", err)
	}
	return nil
}

func (r *ProgressRepo) UpdateSound(ctx context.Context, userID int64, enabled bool) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE user_progress SET sound_enabled = ? WHERE user_id = ?`, boolToInt(enabled), userID); err != nil {
		return fmt.Errorf("progress update sound: %w", err)
	}
	return nil
}

func (r *ProgressRepo) UpdateTheme(ctx context.Context, userID int64, theme string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE user_progress SET theme = ? WHERE user_id = ?`, theme, userID); err != nil {
		return fmt.Errorf("progress update theme: %w", err)
	}
	return nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

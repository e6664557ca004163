package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type TaskRepo struct {
	db DBTX
}

func NewTaskRepo(db DBTX) *TaskRepo {
	return &TaskRepo{db: db}
}

func (r *TaskRepo) Insert(ctx context.Context, t *Task) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, text, xp_reward, media)
		VALUES (?, ?, ?, ?, ?)
	`, t.ID, t.UserID, t.Text, t.XPReward, t.Media)
	if err != nil {
		return fmt.Errorf("task insert: %w", err)
	}
	return nil
}

// Get returns the task only when it exists and belongs to userID.
func (r *TaskRepo) Get(ctx context.Context, id string, userID int64) (*Task, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, text, xp_reward, media, created_at
		FROM tasks
		WHERE id = ? AND user_id = ?
	`, id, userID)
	return scanTask(row)
}

func (r *TaskRepo) ListByUser(ctx context.Context, userID int64) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, text, xp_reward, media, created_at
		FROM tasks
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("task list: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var (
			t     Task
			media sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Text, &t.XPReward, &media, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("task scan: %w", err)
		}
		if media.Valid {
			v := media.String
			t.Media = &v
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("task list rows: %w", err)
	}
	return out, nil
}

// UpdateText returns false when no row matched (missing or not owned).
func (r *TaskRepo) UpdateText(ctx context.Context, id string, userID int64, text string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET text = ? WHERE id = ? AND user_id = ?
	`, text, id, userID)
	if err != nil {
		return false, fmt.Errorf("task update text: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("task update text affected: %w", err)
	}
	return n > 0, nil
}

// Delete returns false when no row matched (missing or not owned).
func (r *TaskRepo) Delete(ctx context.Context, id string, userID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("task delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("task delete affected: %w", err)
	}
	return n > 0, nil
}

func scanTask(row *sql.Row) (*Task, error) {
	var (
		t     Task
		media sql.NullString
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Text, &t.XPReward, &media, &t.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("task scan: %w", err)
	}
	if media.Valid {
		v := media.String
		t.Media = &v
	}
	return &t, nil
}

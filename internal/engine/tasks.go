package engine

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/israice/ToDo-Game/internal/storage"
)

// TaskView is the client-facing shape of a pending task.
type TaskView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	XP   int    `json:"xp"`
}

type CreateTaskResult struct {
	Task      TaskView `json:"task"`
	Level     int      `json:"level"`
	XP        int      `json:"xp"`
	XPMax     int      `json:"xpMax"`
	LeveledUp bool     `json:"leveledUp"`
}

// CreateTask inserts a task with a frozen random reward and grants the
// creation stipend through the ledger.
func (s *Service) CreateTask(ctx context.Context, userID int64, text string, media *string) (*CreateTaskResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ValidationError{Field: "text", Reason: "must not be empty"}
	}

	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	id := fmt.Sprintf("%d_%s", s.now().UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	reward := s.rollReward()

	var result *CreateTaskResult
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		tasks := storage.NewTaskRepo(tx)
		progresses := storage.NewProgressRepo(tx)

		if err := tasks.Insert(ctx, &storage.Task{
			ID:       id,
			UserID:   userID,
			Text:     text,
			XPReward: reward,
			Media:    media,
		}); err != nil {
			return err
		}

		p, err := progresses.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}
		st, leveledUp := ApplyXP(LedgerState{Level: p.Level, XP: p.XP, XPMax: p.XPMax}, CreationStipendXP)
		p.Level = st.Level
		p.XP = st.XP
		p.XPMax = st.XPMax
		if err := progresses.Update(ctx, p); err != nil {
			return err
		}

		result = &CreateTaskResult{
			Task:      TaskView{ID: id, Text: text, XP: reward},
			Level:     st.Level,
			XP:        st.XP,
			XPMax:     st.XPMax,
			LeveledUp: leveledUp,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Broadcast(userID, EventTaskCreated, result)
	return result, nil
}

// UpdateTaskText edits a pending task's text in place.
func (s *Service) UpdateTaskText(ctx context.Context, userID int64, taskID, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ValidationError{Field: "text", Reason: "must not be empty"}
	}

	tasks := storage.NewTaskRepo(s.db)
	ok, err := tasks.UpdateText(ctx, taskID, userID, text)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTaskNotFound
	}

	s.hub.Broadcast(userID, EventTaskUpdated, map[string]any{"taskId": taskID, "text": text})
	return nil
}

// DeleteTask removes a pending task without awarding anything.
func (s *Service) DeleteTask(ctx context.Context, userID int64, taskID string) error {
	tasks := storage.NewTaskRepo(s.db)
	ok, err := tasks.Delete(ctx, taskID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrTaskNotFound
	}

	s.hub.Broadcast(userID, EventTaskDeleted, map[string]any{"taskId": taskID})
	return nil
}

// ResetCombo sets the stored combo to zero. This is the only way combo
// decreases.
func (s *Service) ResetCombo(ctx context.Context, userID int64) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	progresses := storage.NewProgressRepo(s.db)
	if _, err := progresses.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	return progresses.ResetCombo(ctx, userID)
}

package engine

import (
	"context"
	"database/sql"
	"time"

	"github.com/israice/ToDo-Game/internal/storage"
)

type CompleteResult struct {
	TaskID          string   `json:"taskId"`
	XPEarned        int      `json:"xpEarned"`
	Level           int      `json:"level"`
	XP              int      `json:"xp"`
	XPMax           int      `json:"xpMax"`
	Completed       int      `json:"completed"`
	Streak          int      `json:"streak"`
	Combo           int      `json:"combo"`
	LeveledUp       bool     `json:"leveledUp"`
	NewAchievements []string `json:"newAchievements"`
}

// CompleteTask consumes a task: XP accrual, level-ups, streak, achievement
// unlocks (with their bonus XP), task deletion and the activity-log entry
// all commit atomically, then one task_completed event fans out to the
// user's live connections. clientCombo is the caller-declared combo before
// this completion.
func (s *Service) CompleteTask(ctx context.Context, userID int64, taskID string, clientCombo int) (*CompleteResult, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	var result *CompleteResult
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		tasks := storage.NewTaskRepo(tx)
		progresses := storage.NewProgressRepo(tx)
		achievements := storage.NewAchievementRepo(tx)
		activity := storage.NewActivityRepo(tx)

		task, err := tasks.Get(ctx, taskID, userID)
		if err != nil {
			return err
		}
		if task == nil {
			return ErrTaskNotFound
		}

		p, err := progresses.GetOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		now := s.now()
		combo := clientCombo + 1
		earned := XPEarned(task.XPReward, combo)
		st, leveledUp := ApplyXP(LedgerState{Level: p.Level, XP: p.XP, XPMax: p.XPMax}, earned)

		var lastDate *time.Time
		if p.LastCompletionDate != nil {
			if t, perr := time.Parse(DateLayout, *p.LastCompletionDate); perr == nil {
				lastDate = &t
			}
		}
		streak := EvaluateStreak(lastDate, now, p.CurrentStreak)
		completed := p.CompletedTasks + 1

		unlocked, err := achievements.ListUnlocked(ctx, userID)
		if err != nil {
			return err
		}
		snapshot := Snapshot{Completed: completed, Combo: combo, Level: st.Level, Streak: streak}
		newAchievements := EvaluateAchievements(snapshot, unlocked)
		for _, id := range newAchievements {
			if err := achievements.InsertUnlock(ctx, userID, id); err != nil {
				return err
			}
			var up bool
			st, up = ApplyXP(st, AchievementBonusXP)
			leveledUp = leveledUp || up
		}

		today := now.Format(DateLayout)
		p.Level = st.Level
		p.XP = st.XP
		p.XPMax = st.XPMax
		p.CompletedTasks = completed
		p.CurrentStreak = streak
		p.Combo = combo
		p.LastCompletionDate = &today
		if err := progresses.Update(ctx, p); err != nil {
			return err
		}

		if ok, err := tasks.Delete(ctx, taskID, userID); err != nil {
			return err
		} else if !ok {
			return ErrTaskNotFound
		}

		// Plain completions are not broadcast to friends; only tasks with
		// attached media reach the activity feed.
		if task.Media != nil {
			if err := activity.Append(ctx, userID, EventTaskCompleted, task.Text, earned, task.Media); err != nil {
				return err
			}
		}

		if newAchievements == nil {
			newAchievements = []string{}
		}
		result = &CompleteResult{
			TaskID:          taskID,
			XPEarned:        earned,
			Level:           st.Level,
			XP:              st.XP,
			XPMax:           st.XPMax,
			Completed:       completed,
			Streak:          streak,
			Combo:           combo,
			LeveledUp:       leveledUp,
			NewAchievements: newAchievements,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// After the commit only; a dead mailbox never rolls anything back.
	s.hub.Broadcast(userID, EventTaskCompleted, result)
	return result, nil
}

package engine

import (
	"context"

	"github.com/israice/ToDo-Game/internal/storage"
)

// StateResult is the full dashboard payload: tasks, progress, unlocked
// achievements and settings in one response.
type StateResult struct {
	Tasks        []TaskView      `json:"tasks"`
	Level        int             `json:"level"`
	XP           int             `json:"xp"`
	XPMax        int             `json:"xpMax"`
	Completed    int             `json:"completed"`
	Streak       int             `json:"streak"`
	Combo        int             `json:"combo"`
	Achievements map[string]bool `json:"achievements"`
	Sound        bool            `json:"sound"`
	Theme        string          `json:"theme"`
}

func (s *Service) State(ctx context.Context, userID int64) (*StateResult, error) {
	progresses := storage.NewProgressRepo(s.db)
	tasks := storage.NewTaskRepo(s.db)
	achievements := storage.NewAchievementRepo(s.db)

	p, err := progresses.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	list, err := tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlocked, err := achievements.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]TaskView, 0, len(list))
	for _, t := range list {
		views = append(views, TaskView{ID: t.ID, Text: t.Text, XP: t.XPReward})
	}

	return &StateResult{
		Tasks:        views,
		Level:        p.Level,
		XP:           p.XP,
		XPMax:        p.XPMax,
		Completed:    p.CompletedTasks,
		Streak:       p.CurrentStreak,
		Combo:        p.Combo,
		Achievements: unlocked,
		Sound:        p.SoundEnabled,
		Theme:        p.Theme,
	}, nil
}

// SettingsUpdate carries optional settings changes; nil fields are left
// untouched.
type SettingsUpdate struct {
	Sound *bool   `json:"sound"`
	Theme *string `json:"theme"`
}

func (s *Service) UpdateSettings(ctx context.Context, userID int64, in SettingsUpdate) error {
	progresses := storage.NewProgressRepo(s.db)
	if _, err := progresses.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	if in.Sound != nil {
		if err := progresses.UpdateSound(ctx, userID, *in.Sound); err != nil {
			return err
		}
	}
	if in.Theme != nil {
		if err := progresses.UpdateTheme(ctx, userID, *in.Theme); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) RecentActivity(ctx context.Context, userID int64, limit int) ([]storage.ActivityEntry, error) {
	return storage.NewActivityRepo(s.db).ListRecent(ctx, userID, limit)
}

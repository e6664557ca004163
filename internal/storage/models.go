package storage

import "time"

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

// Progress is the per-user reward state. One row per user, created lazily
// with the schema defaults on first access.
type Progress struct {
	UserID         int64
	Level          int
	XP             int
	XPMax          int
	CompletedTasks int
	CurrentStreak  int
	Combo          int
	// LastCompletionDate holds an ISO calendar date ("2006-01-02"), nil
	// before the first completion.
	LastCompletionDate *string
	SoundEnabled       bool
	Theme              string
}

type Task struct {
	ID        string
	UserID    int64
	Text      string
	XPReward  int
	Media     *string
	CreatedAt time.Time
}

type ActivityEntry struct {
	ID        int64
	UserID    int64
	Kind      string
	Text      string
	XPEarned  int
	Media     *string
	CreatedAt time.Time
}

package engine

import "math"

const (
	// BaseXPMax is the XP requirement at level 1; each level multiplies it
	// by XPMaxGrowth: xpMax(level) = floor(100 * 1.2^(level-1)).
	BaseXPMax   = 100
	XPMaxGrowth = 1.2

	// ComboStep is the per-combo fraction added to a task's base reward.
	ComboStep = 0.1

	// AchievementBonusXP is granted once per newly unlocked achievement.
	AchievementBonusXP = 100

	// CreationStipendXP is granted for creating a task.
	CreationStipendXP = 3

	// Task rewards are fixed at creation, uniformly random in [MinTaskReward, MaxTaskReward].
	MinTaskReward = 20
	MaxTaskReward = 35
)

// XPMaxForLevel returns the XP requirement for the given level.
// Strictly increasing: 100, 120, 144, 172, ...
func XPMaxForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(BaseXPMax * math.Pow(XPMaxGrowth, float64(level-1)))
}

// LedgerState is the slice of progress the XP arithmetic operates on.
type LedgerState struct {
	Level int
	XP    int
	XPMax int
}

// ApplyXP adds amount to the state and resolves every pending level-up in
// one pass. The loop converges because xpMax never drops below BaseXPMax.
// After return st.XP < st.XPMax always holds.
func ApplyXP(st LedgerState, amount int) (LedgerState, bool) {
	if amount < 0 {
		amount = 0
	}
	st.XP += amount
	leveledUp := false
	for st.XP >= st.XPMax {
		st.XP -= st.XPMax
		st.Level++
		st.XPMax = XPMaxForLevel(st.Level)
		leveledUp = true
	}
	return st, leveledUp
}

// XPEarned applies the combo multiplier to a task's base reward.
func XPEarned(reward, combo int) int {
	return int(float64(reward) * (1 + float64(combo)*ComboStep))
}

package engine

// Achievement rules are data, not code: each rule is a threshold on one
// field of the post-completion snapshot. The table order is the unlock
// order reported to clients.

type StatField string

const (
	FieldCompleted StatField = "completed"
	FieldCombo     StatField = "combo"
	FieldLevel     StatField = "level"
	FieldStreak    StatField = "streak"
)

type AchievementRule struct {
	ID        string
	Field     StatField
	Threshold int
}

var AchievementRules = []AchievementRule{
	{ID: "firstQuest", Field: FieldCompleted, Threshold: 1},
	{ID: "fiveQuests", Field: FieldCompleted, Threshold: 5},
	{ID: "tenQuests", Field: FieldCompleted, Threshold: 10},
	{ID: "twentyFiveQuests", Field: FieldCompleted, Threshold: 25},
	{ID: "fiftyQuests", Field: FieldCompleted, Threshold: 50},
	{ID: "combo3", Field: FieldCombo, Threshold: 3},
	{ID: "combo5", Field: FieldCombo, Threshold: 5},
	{ID: "combo10", Field: FieldCombo, Threshold: 10},
	{ID: "level5", Field: FieldLevel, Threshold: 5},
	{ID: "level10", Field: FieldLevel, Threshold: 10},
	{ID: "streak7", Field: FieldStreak, Threshold: 7},
	{ID: "streak30", Field: FieldStreak, Threshold: 30},
}

// Snapshot is the post-completion state achievements are judged against.
type Snapshot struct {
	Completed int
	Combo     int
	Level     int
	Streak    int
}

func (s Snapshot) value(f StatField) int {
	switch f {
	case FieldCompleted:
		return s.Completed
	case FieldCombo:
		return s.Combo
	case FieldLevel:
		return s.Level
	case FieldStreak:
		return s.Streak
	default:
		return 0
	}
}

// EvaluateAchievements returns the identifiers newly unlocked by state, in
// rule-table order. Identifiers already in unlocked never fire again.
func EvaluateAchievements(state Snapshot, unlocked map[string]bool) []string {
	var fired []string
	for _, rule := range AchievementRules {
		if unlocked[rule.ID] {
			continue
		}
		if state.value(rule.Field) >= rule.Threshold {
			fired = append(fired, rule.ID)
		}
	}
	return fired
}

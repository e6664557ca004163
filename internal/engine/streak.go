package engine

import "time"

// DateLayout is how completion dates are stored and compared: calendar
// days, no time component.
const DateLayout = "2006-01-02"

// EvaluateStreak derives the new daily streak from the previous completion
// date. Rules:
//   - same day as today: unchanged (a second completion never double-counts)
//   - exactly one day before today: current + 1
//   - no previous completion: 1
//   - anything else (gap of 2+ days, or a future date): reset to 1
func EvaluateStreak(lastDate *time.Time, today time.Time, current int) int {
	if lastDate == nil {
		return 1
	}
	last := truncateToDay(*lastDate)
	day := truncateToDay(today)
	switch {
	case last.Equal(day):
		return current
	case day.Sub(last) == 24*time.Hour:
		return current + 1
	default:
		return 1
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

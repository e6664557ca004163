package engine

import (
	"testing"
	"time"
)

func TestEvaluateStreak(t *testing.T) {
	day := func(s string) time.Time {
		tm, err := time.Parse(DateLayout, s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		return tm
	}
	today := day("2026-08-27")

	cases := []struct {
		name    string
		last    *time.Time
		current int
		want    int
	}{
		{"first ever", nil, 0, 1},
		{"same day", ptr(day("2026-08-27")), 4, 4},
		{"yesterday", ptr(day("2026-08-26")), 4, 5},
		{"two day gap", ptr(day("2026-08-25")), 4, 1},
		{"long gap", ptr(day("2026-07-01")), 12, 1},
		{"future date", ptr(day("2026-08-28")), 4, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := EvaluateStreak(c.last, today, c.current); got != c.want {
				t.Fatalf("EvaluateStreak=%d, want %d", got, c.want)
			}
		})
	}
}

func TestEvaluateStreakIgnoresTimeOfDay(t *testing.T) {
	last := time.Date(2026, 8, 26, 23, 59, 0, 0, time.UTC)
	today := time.Date(2026, 8, 27, 0, 1, 0, 0, time.UTC)
	if got := EvaluateStreak(&last, today, 2); got != 3 {
		t.Fatalf("streak across midnight=%d, want 3", got)
	}
}

func ptr[T any](v T) *T { return &v }

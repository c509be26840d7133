package scoring

import (
	"testing"
	"time"
)

func TestCalculateXP(t *testing.T) {
	tests := []struct {
		wpm, accuracy int
		want          int
	}{
		{40, 100, 40},
		{40, 95, 38},
		{60, 50, 30},
		{0, 100, 1},  // floor: every finalization earns something
		{1, 10, 1},   // truncates to 0, floored to 1
		{35, 91, 31}, // int(35 * 0.91) = 31
	}
	for _, tt := range tests {
		if got := CalculateXP(tt.wpm, tt.accuracy); got != tt.want {
			t.Errorf("CalculateXP(%d, %d) = %d, want %d", tt.wpm, tt.accuracy, got, tt.want)
		}
	}
}

func TestTestXPPassBonus(t *testing.T) {
	// Base 40, passed → floor(40 * 1.5) = 60.
	if got := TestXP(40, 100, true); got != 60 {
		t.Errorf("TestXP passed = %d, want 60", got)
	}
	if got := TestXP(40, 100, false); got != 40 {
		t.Errorf("TestXP failed = %d, want 40", got)
	}
	// Odd base: floor(33 * 1.5) = 49.
	if got := TestXP(33, 100, true); got != 49 {
		t.Errorf("TestXP odd base = %d, want 49", got)
	}
}

func TestEvaluateTest(t *testing.T) {
	tests := []struct {
		wpm, accuracy, target int
		want                  bool
	}{
		{40, 91, 35, true},
		{40, 89, 35, false}, // accuracy below fixed threshold
		{30, 95, 35, false}, // speed below target
		{35, 90, 35, true},  // both boundaries inclusive
		{34, 90, 35, false},
		{35, 89, 35, false},
	}
	for _, tt := range tests {
		if got := EvaluateTest(tt.wpm, tt.accuracy, tt.target); got != tt.want {
			t.Errorf("EvaluateTest(%d, %d, %d) = %v, want %v", tt.wpm, tt.accuracy, tt.target, got, tt.want)
		}
	}
}

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		xp   int64
		want string
	}{
		{0, LevelBeginner},
		{99, LevelBeginner},
		{100, LevelIntermediate},
		{499, LevelIntermediate},
		{500, LevelAdvanced},
		{1499, LevelAdvanced},
		{1500, LevelExpert},
		{100000, LevelExpert},
	}
	for _, tt := range tests {
		if got := LevelForXP(tt.xp); got != tt.want {
			t.Errorf("LevelForXP(%d) = %s, want %s", tt.xp, got, tt.want)
		}
	}
}

func TestProgressForXP(t *testing.T) {
	p := ProgressForXP(50)
	if p.Level != LevelBeginner || p.Current != 50 || p.Target != 100 || p.Percentage != 50 {
		t.Errorf("ProgressForXP(50) = %+v", p)
	}

	p = ProgressForXP(300)
	if p.Level != LevelIntermediate || p.Current != 200 || p.Target != 400 {
		t.Errorf("ProgressForXP(300) = %+v", p)
	}

	p = ProgressForXP(1000)
	if p.Level != LevelAdvanced || p.Current != 500 || p.Target != 1000 {
		t.Errorf("ProgressForXP(1000) = %+v", p)
	}

	// Expert progress displays capped at 100%.
	p = ProgressForXP(5000)
	if p.Level != LevelExpert || p.Percentage != 100 {
		t.Errorf("ProgressForXP(5000) = %+v", p)
	}
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	lastWeek := now.AddDate(0, 0, -6)
	earlierToday := time.Date(2026, 3, 10, 2, 0, 0, 0, time.UTC)

	// First ever activity.
	if got, changed := NextStreak(0, nil, now); got != 1 || !changed {
		t.Errorf("first activity: (%d, %v), want (1, true)", got, changed)
	}

	// Second finalization on the same day does not double-count.
	if got, changed := NextStreak(4, &earlierToday, now); got != 4 || changed {
		t.Errorf("same day: (%d, %v), want (4, false)", got, changed)
	}

	// Consecutive day extends the streak.
	if got, changed := NextStreak(4, &yesterday, now); got != 5 || !changed {
		t.Errorf("consecutive day: (%d, %v), want (5, true)", got, changed)
	}

	// A gap resets to 1, not 0 — today still counts.
	if got, changed := NextStreak(9, &lastWeek, now); got != 1 || !changed {
		t.Errorf("after gap: (%d, %v), want (1, true)", got, changed)
	}
}

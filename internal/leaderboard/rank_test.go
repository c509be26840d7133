package leaderboard

import (
	"testing"
	"time"

	"github.com/typemaster/backend/internal/models"
)

func row(userID int64, name string, xp int64, wpm int, at time.Time) models.ResultRow {
	return models.ResultRow{
		UserID:     userID,
		Username:   name,
		Level:      "intermediate",
		XP:         xp,
		WPM:        wpm,
		Accuracy:   95,
		AchievedAt: at,
	}
}

var base = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func TestRankOnePerUserBestWPM(t *testing.T) {
	rows := []models.ResultRow{
		row(1, "ana", 200, 40, base),
		row(1, "ana", 200, 55, base.Add(time.Hour)),
		row(1, "ana", 200, 48, base.Add(2*time.Hour)),
		row(2, "ben", 300, 50, base),
	}

	entries := Rank(rows, false)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Username != "ana" || entries[0].BestWPM != 55 {
		t.Errorf("entries[0] = %+v, want ana with best 55", entries[0])
	}
	if entries[1].Username != "ben" || entries[1].BestWPM != 50 {
		t.Errorf("entries[1] = %+v, want ben with best 50", entries[1])
	}
}

func TestRankTieBrokenByXP(t *testing.T) {
	rows := []models.ResultRow{
		row(1, "low", 100, 60, base),
		row(2, "high", 900, 60, base),
	}

	entries := Rank(rows, false)
	if entries[0].Username != "high" {
		t.Errorf("equal wpm: %q ranked first, want higher-xp user", entries[0].Username)
	}
}

func TestRankTieBrokenByEarlierTimestamp(t *testing.T) {
	rows := []models.ResultRow{
		row(1, "later", 500, 60, base.Add(time.Hour)),
		row(2, "earlier", 500, 60, base),
	}

	entries := Rank(rows, false)
	if entries[0].Username != "earlier" {
		t.Errorf("equal wpm and xp: %q ranked first, want earlier achiever", entries[0].Username)
	}
}

func TestRankIsDeterministic(t *testing.T) {
	// Same wpm, xp and timestamp: the final user-id guard keeps
	// repeated computations from flipping order.
	rows := []models.ResultRow{
		row(7, "seven", 500, 60, base),
		row(3, "three", 500, 60, base),
		row(5, "five", 500, 60, base),
	}

	first := Rank(rows, false)
	for i := 0; i < 50; i++ {
		again := Rank(rows, false)
		for j := range first {
			if again[j].UserID != first[j].UserID {
				t.Fatalf("ordering changed across runs at position %d", j)
			}
		}
	}
	if first[0].UserID != 3 || first[1].UserID != 5 || first[2].UserID != 7 {
		t.Errorf("full-tie order = %d,%d,%d, want 3,5,7", first[0].UserID, first[1].UserID, first[2].UserID)
	}
}

func TestRankSequentialNumbersOnTies(t *testing.T) {
	rows := []models.ResultRow{
		row(1, "a", 100, 60, base),
		row(2, "b", 200, 60, base),
		row(3, "c", 300, 60, base),
	}

	entries := Rank(rows, false)
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Errorf("entry %d rank = %d, want %d (no gaps, no shared ranks)", i, e.Rank, i+1)
		}
	}
}

func TestRankWeeklyAverage(t *testing.T) {
	rows := []models.ResultRow{
		row(1, "ana", 200, 40, base),
		row(1, "ana", 200, 50, base.Add(time.Hour)),
		row(1, "ana", 200, 45, base.Add(2*time.Hour)),
	}

	entries := Rank(rows, true)
	if entries[0].BestWPM != 50 {
		t.Errorf("best = %d, want 50", entries[0].BestWPM)
	}
	if entries[0].AverageWPM != 45 {
		t.Errorf("average = %v, want 45", entries[0].AverageWPM)
	}
}

func TestRankAccuracyTracksBestResult(t *testing.T) {
	rows := []models.ResultRow{
		{UserID: 1, Username: "ana", XP: 200, WPM: 40, Accuracy: 99, AchievedAt: base},
		{UserID: 1, Username: "ana", XP: 200, WPM: 55, Accuracy: 91, AchievedAt: base.Add(time.Hour)},
	}

	entries := Rank(rows, false)
	if entries[0].Accuracy != 91 {
		t.Errorf("accuracy = %d, want the best result's accuracy 91", entries[0].Accuracy)
	}
}

func TestRankEmptyInput(t *testing.T) {
	entries := Rank(nil, false)
	if len(entries) != 0 {
		t.Errorf("got %d entries for no rows, want 0", len(entries))
	}
}

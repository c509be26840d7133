package models

import "time"

// ── Leaderboard Windows ───────────────────────────────────

type LeaderboardWindow int

const (
	WindowAllTime LeaderboardWindow = iota
	WindowLast7Days
)

// ResultRow is one finalized result as seen by the leaderboard
// aggregator: the typing outcome plus the owning user's identity and
// progression state at query time.
type ResultRow struct {
	UserID     int64
	Username   string
	Level      string
	XP         int64
	WPM        int
	Accuracy   int
	AchievedAt time.Time
}

// LeaderboardEntry is derived per query and never stored.
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	UserID     int64   `json:"user_id"`
	Username   string  `json:"username"`
	Level      string  `json:"level"`
	XP         int64   `json:"xp"`
	BestWPM    int     `json:"wpm"`
	Accuracy   int     `json:"accuracy"`
	AverageWPM float64 `json:"average_wpm,omitempty"` // weekly window only
}

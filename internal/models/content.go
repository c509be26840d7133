package models

import "time"

// ── Practice Modes ────────────────────────────────────────

const (
	ModeWords       = "words"
	ModeSentences   = "sentences"
	ModeParagraphs  = "paragraphs"
	ModeNumbers     = "numbers"
	ModePunctuation = "punctuation"
)

// ValidMode reports whether mode names one of the five practice modes.
func ValidMode(mode string) bool {
	switch mode {
	case ModeWords, ModeSentences, ModeParagraphs, ModeNumbers, ModePunctuation:
		return true
	}
	return false
}

// PracticeContent is a reference text for an ungraded practice session.
type PracticeContent struct {
	ID        int64     `json:"id"`
	Mode      string    `json:"mode"`
	Body      string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// TypingTest is a fixed-content graded exercise with a target speed.
type TypingTest struct {
	ID         int64     `json:"id"`
	TestNumber int       `json:"test_number"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Duration   int       `json:"duration"` // seconds
	TargetWPM  int       `json:"target_wpm"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ── Admin Request Types ───────────────────────────────────

type TestUpsertRequest struct {
	TestNumber int    `json:"test_number"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Duration   int    `json:"duration"`
	TargetWPM  int    `json:"target_wpm"`
	Difficulty string `json:"difficulty"`
}

type AdminStatsResponse struct {
	TotalUsers            int `json:"total_users"`
	TotalTests            int `json:"total_tests"`
	TotalPracticeSessions int `json:"total_practice_sessions"`
	TotalTestResults      int `json:"total_test_results"`
}

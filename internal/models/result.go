package models

import "time"

// ── Result Types ──────────────────────────────────────────

// PracticeResult is the immutable record of one finished practice
// session. Only the final typed text and derived metrics are kept;
// intermediate keystrokes are never persisted.
type PracticeResult struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	SubmissionID string    `json:"submission_id"`
	Mode         string    `json:"mode"`
	Duration     int       `json:"duration"` // seconds actually used
	TypedText    string    `json:"typed_text"`
	ReferenceTxt string    `json:"original_text"`
	WPM          int       `json:"wpm"`
	Accuracy     int       `json:"accuracy"`
	Errors       int       `json:"errors"`
	XPGained     int       `json:"xp_gained"`
	CreatedAt    time.Time `json:"created_at"`
}

// TestResult is the immutable record of one finished graded test.
type TestResult struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	TestID       int64     `json:"test_id"`
	TestTitle    string    `json:"test_title,omitempty"`
	SubmissionID string    `json:"submission_id"`
	Duration     int       `json:"duration"`
	TypedText    string    `json:"typed_text"`
	WPM          int       `json:"wpm"`
	Accuracy     int       `json:"accuracy"`
	Errors       int       `json:"errors"`
	Passed       bool      `json:"passed"`
	XPGained     int       `json:"xp_gained"`
	CreatedAt    time.Time `json:"created_at"`
}

// ── Request Types ─────────────────────────────────────────

// SubmitPracticeRequest is the direct submission path for clients that
// ran their own timer. The server recomputes all metrics from the
// typed text; client-side numbers are display-only and not accepted.
type SubmitPracticeRequest struct {
	SubmissionID string `json:"submission_id"`
	Mode         string `json:"mode"`
	Duration     int    `json:"duration"`
	TypedText    string `json:"typed_text"`
	OriginalText string `json:"original_text"`
}

type SubmitTestRequest struct {
	SubmissionID string `json:"submission_id"`
	TestID       int64  `json:"test_id"`
	Duration     int    `json:"duration"`
	TypedText    string `json:"typed_text"`
}

// ── Response Types ────────────────────────────────────────

// FinalizeResponse reports the authoritative outcome of a submission.
type FinalizeResponse struct {
	ResultID int64  `json:"id"`
	WPM      int    `json:"wpm"`
	Accuracy int    `json:"accuracy"`
	Errors   int    `json:"errors"`
	Passed   *bool  `json:"passed,omitempty"` // graded tests only
	XPGained int    `json:"xp_gained"`
	NewXP    int64  `json:"new_xp"`
	NewLevel string `json:"new_level"`
	Replayed bool   `json:"replayed,omitempty"` // duplicate submission absorbed
}

type PracticeStatsResponse struct {
	TotalTests        int     `json:"total_tests"`
	AverageWPM        float64 `json:"average_wpm"`
	AverageAccuracy   float64 `json:"average_accuracy"`
	BestWPM           int     `json:"best_wpm"`
	TotalPracticeTime int     `json:"total_practice_time"` // seconds
}

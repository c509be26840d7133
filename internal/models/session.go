package models

// ── Live Session API Types ────────────────────────────────

// CreateSessionRequest starts a server-hosted typing session. Exactly
// one of Mode (practice) or TestID (graded test) must be set. Duration
// is required for practice; graded tests use the test's own duration.
type CreateSessionRequest struct {
	Mode     string `json:"mode,omitempty"`
	TestID   int64  `json:"test_id,omitempty"`
	Duration int    `json:"duration,omitempty"`
}

type TypeRequest struct {
	TypedText string `json:"typed_text"`
}

// SessionSnapshot is the live view of a running session, recomputed on
// every tick and on every accepted input.
type SessionSnapshot struct {
	SessionID string `json:"session_id"`
	Phase     string `json:"phase"`
	Reference string `json:"reference,omitempty"`
	TypedText string `json:"typed_text"`
	Remaining int    `json:"remaining_seconds"`
	Elapsed   int    `json:"elapsed_seconds"`
	WPM       int    `json:"wpm"`
	Accuracy  int    `json:"accuracy"`
	Errors    int    `json:"errors"`

	// Set after finalization. SaveFailed means the result could not be
	// persisted: local metrics remain valid but xp/pass are unconfirmed.
	Outcome    *FinalizeResponse `json:"outcome,omitempty"`
	SaveFailed bool              `json:"save_failed,omitempty"`
}

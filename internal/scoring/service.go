package scoring

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/typemaster/backend/internal/engine"
	"github.com/typemaster/backend/internal/models"
)

var (
	ErrInvalidMode      = errors.New("invalid practice mode")
	ErrMissingReference = errors.New("original text is required")
	ErrInvalidDuration  = errors.New("duration must be positive")
)

// Service turns a finalized typing exercise into an immutable Result
// plus its rewards. All metrics are recomputed here from the submitted
// typed text — client-reported numbers are never trusted — so the
// stored values match what the engine would have shown live.
type Service struct {
	store *Store
	now   func() time.Time
}

func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

// FinalizePractice scores and persists an ungraded practice session.
// Submitting the same submission_id twice returns the originally stored
// outcome without awarding XP again.
func (s *Service) FinalizePractice(userID int64, req models.SubmitPracticeRequest) (*models.FinalizeResponse, error) {
	if !models.ValidMode(req.Mode) {
		return nil, ErrInvalidMode
	}
	if req.OriginalText == "" {
		return nil, ErrMissingReference
	}
	if req.Duration <= 0 {
		return nil, ErrInvalidDuration
	}

	typed := clampToReference(req.TypedText, req.OriginalText)
	m := engine.Compute(req.OriginalText, typed, req.Duration)
	xp := CalculateXP(m.WPM, m.Accuracy)

	result := &models.PracticeResult{
		UserID:       userID,
		SubmissionID: req.SubmissionID,
		Mode:         req.Mode,
		Duration:     req.Duration,
		TypedText:    typed,
		ReferenceTxt: req.OriginalText,
		WPM:          m.WPM,
		Accuracy:     m.Accuracy,
		Errors:       m.Errors,
		XPGained:     xp,
	}

	id, err := s.store.InsertPracticeResult(result)
	if err == sql.ErrNoRows {
		return s.replayPractice(userID, req.SubmissionID)
	}
	if err != nil {
		return nil, err
	}

	return s.award(userID, id, m, xp, nil)
}

// FinalizeTest scores and persists a graded test attempt. Pass/fail and
// XP are decided here, server-side, from the recomputed metrics.
func (s *Service) FinalizeTest(userID int64, req models.SubmitTestRequest) (*models.FinalizeResponse, error) {
	test, err := s.store.GetTest(req.TestID)
	if err != nil {
		return nil, err
	}
	if req.Duration <= 0 {
		return nil, ErrInvalidDuration
	}

	typed := clampToReference(req.TypedText, test.Content)
	m := engine.Compute(test.Content, typed, req.Duration)
	passed := EvaluateTest(m.WPM, m.Accuracy, test.TargetWPM)
	xp := TestXP(m.WPM, m.Accuracy, passed)

	result := &models.TestResult{
		UserID:       userID,
		TestID:       test.ID,
		SubmissionID: req.SubmissionID,
		Duration:     req.Duration,
		TypedText:    typed,
		WPM:          m.WPM,
		Accuracy:     m.Accuracy,
		Errors:       m.Errors,
		Passed:       passed,
		XPGained:     xp,
	}

	id, err := s.store.InsertTestResult(result)
	if err == sql.ErrNoRows {
		return s.replayTest(userID, req.SubmissionID)
	}
	if err != nil {
		return nil, err
	}

	return s.award(userID, id, m, xp, &passed)
}

// award applies the reward side effects for a freshly inserted result:
// XP accrual and the daily streak update.
func (s *Service) award(userID, resultID int64, m engine.Metrics, xp int, passed *bool) (*models.FinalizeResponse, error) {
	newXP, err := s.store.AddXP(userID, xp)
	if err != nil {
		return nil, fmt.Errorf("award xp: %w", err)
	}

	if err := s.updateStreak(userID); err != nil {
		// The result and XP are already committed; a streak failure is
		// logged rather than surfaced as a submission failure.
		log.Printf("[scoring] streak update failed for user %d: %v", userID, err)
	}

	return &models.FinalizeResponse{
		ResultID: resultID,
		WPM:      m.WPM,
		Accuracy: m.Accuracy,
		Errors:   m.Errors,
		Passed:   passed,
		XPGained: xp,
		NewXP:    newXP,
		NewLevel: LevelForXP(newXP),
	}, nil
}

func (s *Service) updateStreak(userID int64) error {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return err
	}

	now := s.now()
	streak, changed := NextStreak(user.StreakDays, user.LastActive, now)
	if !changed {
		return nil
	}
	return s.store.UpdateStreak(userID, streak, now.UTC().Truncate(24*time.Hour))
}

// replayPractice serves a duplicate submission from the stored result.
func (s *Service) replayPractice(userID int64, submissionID string) (*models.FinalizeResponse, error) {
	stored, err := s.store.FindPracticeBySubmission(submissionID)
	if err != nil {
		return nil, err
	}
	return s.replayResponse(userID, stored.ID, stored.WPM, stored.Accuracy, stored.Errors, stored.XPGained, nil)
}

func (s *Service) replayTest(userID int64, submissionID string) (*models.FinalizeResponse, error) {
	stored, err := s.store.FindTestBySubmission(submissionID)
	if err != nil {
		return nil, err
	}
	return s.replayResponse(userID, stored.ID, stored.WPM, stored.Accuracy, stored.Errors, stored.XPGained, &stored.Passed)
}

func (s *Service) replayResponse(userID, resultID int64, wpm, accuracy, errCount, xp int, passed *bool) (*models.FinalizeResponse, error) {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return nil, err
	}
	return &models.FinalizeResponse{
		ResultID: resultID,
		WPM:      wpm,
		Accuracy: accuracy,
		Errors:   errCount,
		Passed:   passed,
		XPGained: xp,
		NewXP:    user.XP,
		NewLevel: user.Level,
		Replayed: true,
	}, nil
}

// clampToReference truncates typed to the reference's rune length. The
// live engine enforces this cap on every keystroke; the direct
// submission path applies the same clamp once, silently.
func clampToReference(typed, reference string) string {
	refLen := len([]rune(reference))
	typedRunes := []rune(typed)
	if len(typedRunes) <= refLen {
		return typed
	}
	return string(typedRunes[:refLen])
}

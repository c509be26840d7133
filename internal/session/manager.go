// Package session hosts live typing sessions server-side: one engine
// session per exercise, addressed by an opaque id, with finalization
// feeding straight into scoring.
package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/typemaster/backend/internal/engine"
	"github.com/typemaster/backend/internal/models"
)

// ContentSource supplies reference texts and test definitions.
type ContentSource interface {
	GetTest(id int64) (*models.TypingTest, error)
	ContentForMode(mode string) (string, error)
}

// Finalizer persists a finished exercise and computes its rewards.
type Finalizer interface {
	FinalizePractice(userID int64, req models.SubmitPracticeRequest) (*models.FinalizeResponse, error)
	FinalizeTest(userID int64, req models.SubmitTestRequest) (*models.FinalizeResponse, error)
}

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrMissingMode     = errors.New("mode or test_id is required")
	ErrInvalidMode     = errors.New("invalid practice mode")
	ErrInvalidDuration = errors.New("duration must be positive")
)

// finishedTTL is how long a finished session stays addressable so the
// client can fetch the outcome. Unfinished sessions are reaped once
// well past any plausible test duration.
const (
	finishedTTL = 5 * time.Minute
	maxLifetime = 2 * time.Hour
	reapEvery   = time.Minute
)

// record pairs an engine session with its owner and its finalization
// outcome. outcome and saveFailed are written by the engine's onFinish
// callback and read by the handlers.
type record struct {
	id        string
	userID    int64
	session   *engine.Session
	createdAt time.Time

	mu         sync.Mutex
	outcome    *models.FinalizeResponse
	saveFailed bool
	finishedAt time.Time
}

type Manager struct {
	mu       sync.Mutex
	sessions map[string]*record

	scoring Finalizer
	content ContentSource
	clock   engine.Clock
	now     func() time.Time
}

func NewManager(scoringSvc Finalizer, contentStore ContentSource) *Manager {
	return &Manager{
		sessions: make(map[string]*record),
		scoring:  scoringSvc,
		content:  contentStore,
		clock:    engine.RealClock{},
		now:      time.Now,
	}
}

// Create builds a session for the request, starts its countdown and
// returns the initial snapshot (including the reference text).
func (m *Manager) Create(userID int64, req models.CreateSessionRequest) (*models.SessionSnapshot, error) {
	cfg, mode, testID, err := m.buildConfig(req)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	rec := &record{id: id, userID: userID, createdAt: m.now()}

	cfg.Clock = m.clock
	cfg.OnFinish = func(final engine.FinalSnapshot) {
		m.finalize(rec, mode, testID, final)
	}

	sess, err := engine.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	rec.session = sess

	m.mu.Lock()
	m.sessions[id] = rec
	m.mu.Unlock()

	if err := sess.Start(); err != nil {
		m.remove(id)
		return nil, err
	}

	snap := m.snapshot(rec, true)
	return &snap, nil
}

func (m *Manager) buildConfig(req models.CreateSessionRequest) (engine.Config, string, int64, error) {
	if req.TestID != 0 {
		test, err := m.content.GetTest(req.TestID)
		if err != nil {
			return engine.Config{}, "", 0, err
		}
		return engine.Config{
			Reference: test.Content,
			Duration:  test.Duration,
			Graded:    true,
			TargetWPM: test.TargetWPM,
		}, "", test.ID, nil
	}

	if req.Mode == "" {
		return engine.Config{}, "", 0, ErrMissingMode
	}
	if !models.ValidMode(req.Mode) {
		return engine.Config{}, "", 0, ErrInvalidMode
	}
	if req.Duration <= 0 {
		return engine.Config{}, "", 0, ErrInvalidDuration
	}

	body, err := m.content.ContentForMode(req.Mode)
	if err != nil {
		return engine.Config{}, "", 0, err
	}
	return engine.Config{
		Reference: body,
		Duration:  req.Duration,
	}, req.Mode, 0, nil
}

// finalize runs once per session, from the engine's onFinish callback.
// The session id doubles as the idempotency key, so a crash between
// insert and response cannot double-award XP on retry.
func (m *Manager) finalize(rec *record, mode string, testID int64, final engine.FinalSnapshot) {
	// A finish on the very first second reports zero elapsed time;
	// scoring requires a positive duration.
	if final.DurationUsed <= 0 {
		final.DurationUsed = 1
	}

	var (
		resp *models.FinalizeResponse
		err  error
	)
	if final.Graded {
		resp, err = m.scoring.FinalizeTest(rec.userID, models.SubmitTestRequest{
			SubmissionID: rec.id,
			TestID:       testID,
			Duration:     final.DurationUsed,
			TypedText:    final.TypedText,
		})
	} else {
		resp, err = m.scoring.FinalizePractice(rec.userID, models.SubmitPracticeRequest{
			SubmissionID: rec.id,
			Mode:         mode,
			Duration:     final.DurationUsed,
			TypedText:    final.TypedText,
			OriginalText: final.Reference,
		})
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.finishedAt = m.now()
	if err != nil {
		// Metrics shown to the client are still valid; only the
		// persisted rewards are unconfirmed.
		log.Printf("[session] save failed for session %s user %d: %v", rec.id, rec.userID, err)
		rec.saveFailed = true
		return
	}
	rec.outcome = resp
}

// Get returns the live snapshot. Sessions are only visible to their
// owner; anyone else sees not-found.
func (m *Manager) Get(userID int64, id string) (*models.SessionSnapshot, error) {
	rec, err := m.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	snap := m.snapshot(rec, false)
	return &snap, nil
}

// Input replaces the session's typed text.
func (m *Manager) Input(userID int64, id, typed string) (*models.SessionSnapshot, error) {
	rec, err := m.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	if err := rec.session.Type(typed); err != nil {
		return nil, err
	}
	snap := m.snapshot(rec, false)
	return &snap, nil
}

// Finish ends the session early. By the time Finish returns, the
// outcome (or a save failure) is recorded on the snapshot.
func (m *Manager) Finish(userID int64, id string) (*models.SessionSnapshot, error) {
	rec, err := m.lookup(userID, id)
	if err != nil {
		return nil, err
	}
	if err := rec.session.Finish(); err != nil {
		return nil, err
	}
	snap := m.snapshot(rec, false)
	return &snap, nil
}

// Cancel abandons a session without scoring it.
func (m *Manager) Cancel(userID int64, id string) error {
	rec, err := m.lookup(userID, id)
	if err != nil {
		return err
	}
	rec.session.Reset()
	m.remove(id)
	return nil
}

// Subscribe exposes the engine's snapshot feed for the live stream.
func (m *Manager) Subscribe(userID int64, id string) (*record, <-chan engine.Snapshot, func(), error) {
	rec, err := m.lookup(userID, id)
	if err != nil {
		return nil, nil, nil, err
	}
	ch, cancel := rec.session.Subscribe()
	return rec, ch, cancel, nil
}

func (m *Manager) lookup(userID int64, id string) (*record, error) {
	m.mu.Lock()
	rec, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok || rec.userID != userID {
		return nil, ErrSessionNotFound
	}
	return rec, nil
}

func (m *Manager) remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// snapshot converts the engine view plus finalization state into the
// wire shape. The reference text is only included when asked for, so
// polling responses stay small.
func (m *Manager) snapshot(rec *record, includeReference bool) models.SessionSnapshot {
	es := rec.session.Snapshot()

	rec.mu.Lock()
	outcome := rec.outcome
	saveFailed := rec.saveFailed
	rec.mu.Unlock()

	snap := models.SessionSnapshot{
		SessionID:  rec.id,
		Phase:      es.Phase.String(),
		TypedText:  es.TypedText,
		Remaining:  es.Remaining,
		Elapsed:    es.Elapsed,
		WPM:        es.Metrics.WPM,
		Accuracy:   es.Metrics.Accuracy,
		Errors:     es.Metrics.Errors,
		Outcome:    outcome,
		SaveFailed: saveFailed,
	}
	if includeReference {
		snap.Reference = rec.session.Reference()
	}
	return snap
}

// Wire converts an engine snapshot into the wire shape for streaming.
func (m *Manager) Wire(rec *record, es engine.Snapshot) models.SessionSnapshot {
	rec.mu.Lock()
	outcome := rec.outcome
	saveFailed := rec.saveFailed
	rec.mu.Unlock()

	return models.SessionSnapshot{
		SessionID:  rec.id,
		Phase:      es.Phase.String(),
		TypedText:  es.TypedText,
		Remaining:  es.Remaining,
		Elapsed:    es.Elapsed,
		WPM:        es.Metrics.WPM,
		Accuracy:   es.Metrics.Accuracy,
		Errors:     es.Metrics.Errors,
		Outcome:    outcome,
		SaveFailed: saveFailed,
	}
}

// Run reaps expired sessions until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(reapEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.reap()
		}
	}
}

func (m *Manager) reap() {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, rec := range m.sessions {
		rec.mu.Lock()
		finishedAt := rec.finishedAt
		rec.mu.Unlock()

		expired := !finishedAt.IsZero() && now.Sub(finishedAt) > finishedTTL ||
			now.Sub(rec.createdAt) > maxLifetime
		if expired {
			rec.session.Reset()
			delete(m.sessions, id)
		}
	}
}

package engine

import (
	"errors"
	"sync"
	"time"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}

var (
	ErrNoReference      = errors.New("reference text is empty")
	ErrAlreadyStarted   = errors.New("session already started")
	ErrNotRunning       = errors.New("session is not running")
	ErrClipboardBlocked = errors.New("clipboard operations are not allowed")
)

// FinalSnapshot is the finalized state handed to the scorer exactly
// once per session.
type FinalSnapshot struct {
	TypedText    string
	Reference    string
	DurationUsed int // seconds of countdown consumed
	Metrics      Metrics
	Graded       bool
	TargetWPM    int
}

// Snapshot is the live view of a session: metrics recomputed from the
// current typed text and elapsed time.
type Snapshot struct {
	Phase     Phase
	TypedText string
	Remaining int
	Elapsed   int
	Metrics   Metrics
}

type Config struct {
	Reference string
	Duration  int // seconds
	Graded    bool
	TargetWPM int
	Clock     Clock               // defaults to RealClock
	OnFinish  func(FinalSnapshot) // called exactly once, outside the session lock
}

// Session is the lifecycle state machine for one typing exercise:
// Idle → Running → Finished. One instance serves both practice and
// graded tests via the Graded flag. All mutation goes through one
// mutex so the typed-text length cap holds at every instant.
type Session struct {
	mu sync.Mutex

	reference string
	refLen    int // rune count
	duration  int
	graded    bool
	targetWPM int

	phase     Phase
	typed     string
	remaining int

	clock    Clock
	onFinish func(FinalSnapshot)
	stop     chan struct{}
	subs     []chan Snapshot
}

func NewSession(cfg Config) (*Session, error) {
	if cfg.Reference == "" {
		return nil, ErrNoReference
	}
	if cfg.Duration <= 0 {
		return nil, errors.New("duration must be positive")
	}
	clock := cfg.Clock
	if clock == nil {
		clock = RealClock{}
	}
	return &Session{
		reference: cfg.Reference,
		refLen:    len([]rune(cfg.Reference)),
		duration:  cfg.Duration,
		graded:    cfg.Graded,
		targetWPM: cfg.TargetWPM,
		phase:     PhaseIdle,
		remaining: cfg.Duration,
		clock:     clock,
		onFinish:  cfg.OnFinish,
	}, nil
}

// Start transitions Idle → Running, clears any typed text, restores the
// full countdown and begins the one-second tick loop.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseIdle {
		return ErrAlreadyStarted
	}

	s.phase = PhaseRunning
	s.typed = ""
	s.remaining = s.duration
	s.stop = make(chan struct{})
	go s.run(s.stop)
	return nil
}

// run is the only tick source. Ticks are applied sequentially: a tick
// that triggers finalization fully completes before the next tick is
// observed, so no two ticks overlap.
func (s *Session) run(stop chan struct{}) {
	ticker := s.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			if !s.tick() {
				return
			}
		}
	}
}

// tick decrements the countdown and auto-finishes at zero. Returns
// false once the session leaves Running.
func (s *Session) tick() bool {
	s.mu.Lock()
	if s.phase != PhaseRunning {
		s.mu.Unlock()
		return false
	}

	s.remaining--
	var final *FinalSnapshot
	if s.remaining <= 0 {
		s.remaining = 0
		final = s.finishLocked()
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	// Submit before notifying: by the time a subscriber observes the
	// finished snapshot, finalization has fully happened.
	if final != nil {
		s.submit(*final)
	}
	s.notify(snap)
	return final == nil
}

// Type replaces the typed text while Running. A candidate longer than
// the reference is silently dropped — the previous text stands and the
// length invariant holds. Not an error: extra keystrokes past the end
// are an expected clamp.
func (s *Session) Type(candidate string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseRunning {
		return ErrNotRunning
	}
	if len([]rune(candidate)) > s.refLen {
		return nil
	}
	s.typed = candidate
	return nil
}

// Paste rejects clipboard insertion. The same contract covers copy and
// cut: the typed-text control never talks to the clipboard, in any
// phase, for as long as the session exists.
func (s *Session) Paste(string) error { return ErrClipboardBlocked }

// Copy rejects reading the typed text out through the clipboard.
func (s *Session) Copy() error { return ErrClipboardBlocked }

// Cut rejects removing text through the clipboard.
func (s *Session) Cut() error { return ErrClipboardBlocked }

// Finish transitions Running → Finished and submits the final snapshot.
// Safe to call concurrently with tick expiry: whichever caller observes
// Running finalizes; every other caller sees Finished and does nothing.
func (s *Session) Finish() error {
	s.mu.Lock()
	if s.phase != PhaseRunning {
		s.mu.Unlock()
		return nil
	}
	final := s.finishLocked()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.submit(*final)
	s.notify(snap)
	return nil
}

// finishLocked freezes the session and captures the final snapshot.
// Caller must hold s.mu and have verified phase == PhaseRunning.
func (s *Session) finishLocked() *FinalSnapshot {
	s.phase = PhaseFinished
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}

	elapsed := s.duration - s.remaining
	return &FinalSnapshot{
		TypedText:    s.typed,
		Reference:    s.reference,
		DurationUsed: elapsed,
		Metrics:      Compute(s.reference, s.typed, elapsed),
		Graded:       s.graded,
		TargetWPM:    s.targetWPM,
	}
}

func (s *Session) submit(final FinalSnapshot) {
	if s.onFinish != nil {
		s.onFinish(final)
	}
}

// Reset returns the session to Idle with a full countdown. Resetting a
// running session stops the tick loop and discards all state without
// submitting anything.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	s.phase = PhaseIdle
	s.typed = ""
	s.remaining = s.duration
}

// Snapshot returns the live view with metrics recomputed from the
// current typed text.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	elapsed := s.duration - s.remaining
	return Snapshot{
		Phase:     s.phase,
		TypedText: s.typed,
		Remaining: s.remaining,
		Elapsed:   elapsed,
		Metrics:   Compute(s.reference, s.typed, elapsed),
	}
}

func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

func (s *Session) Reference() string { return s.reference }

func (s *Session) Graded() bool { return s.graded }

// Subscribe registers a snapshot channel fed on every tick and on
// finalization. Slow subscribers miss snapshots rather than blocking
// the tick loop. The returned cancel removes the subscription.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub == ch {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
	return ch, cancel
}

func (s *Session) notify(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock drives the tick loop manually so countdown and auto-submit
// behavior are tested without wall-clock delays.
type fakeClock struct {
	ticks chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{ticks: make(chan time.Time, 64)}
}

func (f *fakeClock) Now() time.Time { return time.Unix(0, 0) }

func (f *fakeClock) NewTicker(time.Duration) Ticker { return fakeTicker{f.ticks} }

type fakeTicker struct {
	ch chan time.Time
}

func (t fakeTicker) C() <-chan time.Time { return t.ch }

func (fakeTicker) Stop() {}

// tickAndWait fires one tick and blocks until the session has applied
// it, using the subscription channel as the synchronization point.
func tickAndWait(t *testing.T, clock *fakeClock, snaps <-chan Snapshot) Snapshot {
	t.Helper()
	clock.ticks <- time.Unix(0, 0)
	select {
	case snap := <-snaps:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for tick to apply")
		return Snapshot{}
	}
}

func newTestSession(t *testing.T, cfg Config) (*Session, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	cfg.Clock = clock
	s, err := NewSession(cfg)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s, clock
}

func TestNewSessionRequiresReference(t *testing.T) {
	_, err := NewSession(Config{Reference: "", Duration: 60})
	if err != ErrNoReference {
		t.Errorf("NewSession with empty reference: err = %v, want ErrNoReference", err)
	}
}

func TestStartOnlyFromIdle(t *testing.T) {
	s, _ := newTestSession(t, Config{Reference: "abc def", Duration: 10})

	if s.Phase() != PhaseIdle {
		t.Fatalf("initial phase = %v, want idle", s.Phase())
	}
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := s.Start(); err != ErrAlreadyStarted {
		t.Errorf("second Start: err = %v, want ErrAlreadyStarted", err)
	}

	s.Finish()
	if err := s.Start(); err != ErrAlreadyStarted {
		t.Errorf("Start after finish: err = %v, want ErrAlreadyStarted", err)
	}
}

func TestTypeOnlyWhileRunning(t *testing.T) {
	s, _ := newTestSession(t, Config{Reference: "abc def", Duration: 10})

	if err := s.Type("a"); err != ErrNotRunning {
		t.Errorf("Type while idle: err = %v, want ErrNotRunning", err)
	}

	s.Start()
	if err := s.Type("abc"); err != nil {
		t.Errorf("Type while running: %v", err)
	}
	if got := s.Snapshot().TypedText; got != "abc" {
		t.Errorf("typed = %q, want %q", got, "abc")
	}

	s.Finish()
	if err := s.Type("abc d"); err != ErrNotRunning {
		t.Errorf("Type after finish: err = %v, want ErrNotRunning", err)
	}
	if got := s.Snapshot().TypedText; got != "abc" {
		t.Errorf("typed text changed after finish: %q", got)
	}
}

func TestTypeLengthClamp(t *testing.T) {
	s, _ := newTestSession(t, Config{Reference: "abcde", Duration: 10})
	s.Start()

	s.Type("abcde")
	// One keystroke past the end is silently dropped, not an error.
	if err := s.Type("abcdef"); err != nil {
		t.Errorf("over-length Type returned error: %v", err)
	}
	if got := s.Snapshot().TypedText; got != "abcde" {
		t.Errorf("typed = %q, want clamp to hold at %q", got, "abcde")
	}
}

func TestClipboardAlwaysBlocked(t *testing.T) {
	s, _ := newTestSession(t, Config{Reference: "abc", Duration: 10})

	for _, phase := range []func(){func() {}, func() { s.Start() }, func() { s.Finish() }} {
		phase()
		if err := s.Paste("abc"); err != ErrClipboardBlocked {
			t.Errorf("Paste in phase %v: err = %v, want ErrClipboardBlocked", s.Phase(), err)
		}
		if err := s.Copy(); err != ErrClipboardBlocked {
			t.Errorf("Copy in phase %v: err = %v, want ErrClipboardBlocked", s.Phase(), err)
		}
		if err := s.Cut(); err != ErrClipboardBlocked {
			t.Errorf("Cut in phase %v: err = %v, want ErrClipboardBlocked", s.Phase(), err)
		}
	}
}

func TestCountdownAndAutoSubmit(t *testing.T) {
	var finals []FinalSnapshot
	var mu sync.Mutex

	s, clock := newTestSession(t, Config{
		Reference: "hello world foo bar",
		Duration:  3,
		OnFinish: func(f FinalSnapshot) {
			mu.Lock()
			finals = append(finals, f)
			mu.Unlock()
		},
	})

	snaps, cancel := s.Subscribe()
	defer cancel()

	s.Start()
	s.Type("hello worl")

	snap := tickAndWait(t, clock, snaps)
	if snap.Remaining != 2 || snap.Phase != PhaseRunning {
		t.Errorf("after 1 tick: remaining = %d phase = %v, want 2 running", snap.Remaining, snap.Phase)
	}

	snap = tickAndWait(t, clock, snaps)
	if snap.Remaining != 1 {
		t.Errorf("after 2 ticks: remaining = %d, want 1", snap.Remaining)
	}

	// Third tick exhausts the countdown and auto-submits.
	snap = tickAndWait(t, clock, snaps)
	if snap.Phase != PhaseFinished || snap.Remaining != 0 {
		t.Errorf("after 3 ticks: phase = %v remaining = %d, want finished 0", snap.Phase, snap.Remaining)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(finals) != 1 {
		t.Fatalf("onFinish called %d times, want 1", len(finals))
	}
	f := finals[0]
	if f.TypedText != "hello worl" || f.DurationUsed != 3 {
		t.Errorf("final snapshot = %+v", f)
	}
	// 2 tokens in 3 seconds → round(2 / 0.05) = 40
	if f.Metrics.WPM != 40 {
		t.Errorf("final wpm = %d, want 40", f.Metrics.WPM)
	}
}

func TestFinishIdempotent(t *testing.T) {
	var count atomic.Int32
	s, _ := newTestSession(t, Config{
		Reference: "abc def",
		Duration:  10,
		OnFinish:  func(FinalSnapshot) { count.Add(1) },
	})

	s.Start()
	s.Type("abc")

	if err := s.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if err := s.Finish(); err != nil {
		t.Fatalf("second Finish: %v", err)
	}
	if got := count.Load(); got != 1 {
		t.Errorf("onFinish called %d times, want 1", got)
	}
}

func TestConcurrentFinishSubmitsOnce(t *testing.T) {
	var count atomic.Int32
	s, _ := newTestSession(t, Config{
		Reference: "abc def ghi",
		Duration:  10,
		OnFinish:  func(FinalSnapshot) { count.Add(1) },
	})
	s.Start()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Finish()
		}()
	}
	wg.Wait()

	if got := count.Load(); got != 1 {
		t.Errorf("onFinish called %d times under concurrent Finish, want 1", got)
	}
}

func TestTickAfterFinishIsNoop(t *testing.T) {
	var count atomic.Int32
	s, clock := newTestSession(t, Config{
		Reference: "abc def",
		Duration:  2,
		OnFinish:  func(FinalSnapshot) { count.Add(1) },
	})

	snaps, cancel := s.Subscribe()
	defer cancel()

	s.Start()
	tickAndWait(t, clock, snaps)
	tickAndWait(t, clock, snaps) // expires here

	// A late manual finish after expiry must not re-finalize.
	s.Finish()
	if got := count.Load(); got != 1 {
		t.Errorf("onFinish called %d times, want 1", got)
	}
}

func TestResetWhileRunningDiscardsWithoutSubmit(t *testing.T) {
	var count atomic.Int32
	s, _ := newTestSession(t, Config{
		Reference: "abc def",
		Duration:  10,
		OnFinish:  func(FinalSnapshot) { count.Add(1) },
	})

	s.Start()
	s.Type("abc")
	s.Reset()

	if got := count.Load(); got != 0 {
		t.Errorf("onFinish called %d times after Reset, want 0", got)
	}
	snap := s.Snapshot()
	if snap.Phase != PhaseIdle || snap.TypedText != "" || snap.Remaining != 10 {
		t.Errorf("after Reset: %+v, want idle, empty, full countdown", snap)
	}

	// The session is reusable after a reset.
	if err := s.Start(); err != nil {
		t.Errorf("Start after Reset: %v", err)
	}
}

func TestConcurrentTypeHoldsLengthInvariant(t *testing.T) {
	ref := "abcdefghij"
	s, _ := newTestSession(t, Config{Reference: ref, Duration: 10})
	s.Start()

	var wg sync.WaitGroup
	inputs := []string{"a", "abcd", "abcdefghij", "abcdefghijk", "abcdefghijklmnop"}
	for i := 0; i < 20; i++ {
		for _, in := range inputs {
			wg.Add(1)
			go func(v string) {
				defer wg.Done()
				s.Type(v)
			}(in)
		}
	}
	wg.Wait()

	if got := len([]rune(s.Snapshot().TypedText)); got > len([]rune(ref)) {
		t.Errorf("typed length %d exceeds reference length %d", got, len([]rune(ref)))
	}
}

func TestLiveSnapshotMetrics(t *testing.T) {
	s, clock := newTestSession(t, Config{Reference: "one two three four", Duration: 60})

	snaps, cancel := s.Subscribe()
	defer cancel()

	s.Start()
	for i := 0; i < 30; i++ {
		tickAndWait(t, clock, snaps)
	}
	s.Type("one two three")

	snap := s.Snapshot()
	if snap.Elapsed != 30 {
		t.Fatalf("elapsed = %d, want 30", snap.Elapsed)
	}
	if snap.Metrics.WPM != 6 {
		t.Errorf("live wpm = %d, want 6", snap.Metrics.WPM)
	}
	if snap.Metrics.Accuracy != 100 || snap.Metrics.Errors != 0 {
		t.Errorf("live metrics = %+v, want clean", snap.Metrics)
	}
}

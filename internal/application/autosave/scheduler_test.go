package autosave

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"ideagraph/internal/application/session"
	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

type fakeSource struct {
	mu    sync.Mutex
	nodes []domain.Node
}

func (f *fakeSource) Graph() ([]domain.Node, []domain.Edge) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.nodes, nil
}

type fakeSaver struct {
	mu     sync.Mutex
	calls  int
	titles []string
	err    error
}

func (f *fakeSaver) Save(nodes []domain.Node, edges []domain.Edge, title string) (*ports.SaveOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.titles = append(f.titles, title)
	if f.err != nil {
		return nil, f.err
	}
	return &ports.SaveOutcome{Snapshot: domain.Snapshot{Title: "idea set 1", IdeaCount: len(nodes)}}, nil
}

func (f *fakeSaver) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestScheduler(source Source, saver Saver, delay time.Duration) (*Scheduler, chan Outcome) {
	outcomes := make(chan Outcome, 16)
	s := New(source, saver,
		WithDelay(delay),
		WithLogger(quietLogger()),
		WithNotify(func(o Outcome) { outcomes <- o }),
	)
	return s, outcomes
}

func waitOutcome(t *testing.T, outcomes <-chan Outcome) Outcome {
	t.Helper()
	select {
	case o := <-outcomes:
		return o
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for autosave")
		return Outcome{}
	}
}

func TestScheduler_DefaultDelay(t *testing.T) {
	s := New(&fakeSource{}, &fakeSaver{})
	if s.Delay() != 2*time.Second {
		t.Errorf("expected 2s default delay, got %s", s.Delay())
	}
}

func TestScheduler_CoalescesBurst(t *testing.T) {
	source := &fakeSource{nodes: []domain.Node{{ID: "a"}}}
	saver := &fakeSaver{}
	delay := 60 * time.Millisecond
	s, outcomes := newTestScheduler(source, saver, delay)

	for range 10 {
		s.Notify()
		time.Sleep(5 * time.Millisecond)
	}

	o := waitOutcome(t, outcomes)
	if o.Saved == nil {
		t.Fatalf("expected a save, got %+v", o)
	}

	time.Sleep(3 * delay)
	if got := saver.count(); got != 1 {
		t.Errorf("expected exactly 1 save for a burst, got %d", got)
	}
	if saver.titles[0] != "" {
		t.Errorf("expected autosave to use the default title, got %q", saver.titles[0])
	}
}

func TestScheduler_DebounceDefersWhileEditing(t *testing.T) {
	source := &fakeSource{nodes: []domain.Node{{ID: "a"}}}
	saver := &fakeSaver{}
	delay := 200 * time.Millisecond
	s, outcomes := newTestScheduler(source, saver, delay)

	// Keep editing for longer than the delay; each edit lands inside the window
	deadline := time.Now().Add(3 * delay)
	for time.Now().Before(deadline) {
		s.Notify()
		time.Sleep(10 * time.Millisecond)
	}
	if got := saver.count(); got != 0 {
		t.Errorf("expected no save while edits keep arriving, got %d", got)
	}

	waitOutcome(t, outcomes)
	if got := saver.count(); got != 1 {
		t.Errorf("expected 1 save after quiescence, got %d", got)
	}
}

func TestScheduler_SkipsEmptyGraph(t *testing.T) {
	saver := &fakeSaver{}
	s, outcomes := newTestScheduler(&fakeSource{}, saver, 10*time.Millisecond)

	s.Notify()
	o := waitOutcome(t, outcomes)

	if !o.Skipped {
		t.Errorf("expected skipped outcome, got %+v", o)
	}
	if saver.count() != 0 {
		t.Errorf("expected saver not to be called, got %d calls", saver.count())
	}
}

func TestScheduler_FailureIsNotRetried(t *testing.T) {
	source := &fakeSource{nodes: []domain.Node{{ID: "a"}}}
	saver := &fakeSaver{err: domain.ErrQuotaExceeded}
	delay := 20 * time.Millisecond
	s, outcomes := newTestScheduler(source, saver, delay)

	s.Notify()
	o := waitOutcome(t, outcomes)
	if !errors.Is(o.Err, domain.ErrQuotaExceeded) {
		t.Errorf("expected quota error in outcome, got %v", o.Err)
	}

	time.Sleep(5 * delay)
	if got := saver.count(); got != 1 {
		t.Errorf("expected no retry, got %d calls", got)
	}
	if s.Pending() {
		t.Error("expected nothing armed after a failed save")
	}

	// The next mutation re-arms normally
	s.Notify()
	waitOutcome(t, outcomes)
	if got := saver.count(); got != 2 {
		t.Errorf("expected second attempt after new mutation, got %d calls", got)
	}
}

func TestScheduler_Flush(t *testing.T) {
	source := &fakeSource{nodes: []domain.Node{{ID: "a"}}}
	saver := &fakeSaver{}
	s, _ := newTestScheduler(source, saver, time.Hour)

	s.Flush()
	if saver.count() != 0 {
		t.Error("expected Flush with nothing armed to do nothing")
	}

	s.Notify()
	if !s.Pending() {
		t.Fatal("expected a save to be armed")
	}
	s.Flush()

	if saver.count() != 1 {
		t.Errorf("expected Flush to save synchronously, got %d calls", saver.count())
	}
	if s.Pending() {
		t.Error("expected nothing armed after Flush")
	}
}

func TestScheduler_Stop(t *testing.T) {
	source := &fakeSource{nodes: []domain.Node{{ID: "a"}}}
	saver := &fakeSaver{}
	delay := 20 * time.Millisecond
	s, _ := newTestScheduler(source, saver, delay)

	s.Notify()
	s.Stop()
	time.Sleep(4 * delay)

	if saver.count() != 0 {
		t.Errorf("expected stopped scheduler not to save, got %d calls", saver.count())
	}

	s.Notify()
	if s.Pending() {
		t.Error("expected Notify after Stop to be ignored")
	}
}

func TestScheduler_AttachToSession(t *testing.T) {
	sess := session.New()
	saver := &fakeSaver{}
	s, _ := newTestScheduler(sess, saver, time.Hour)

	detach := s.Attach(sess)
	sess.AddNode(domain.Position{X: 1, Y: 1}, "idea")
	if !s.Pending() {
		t.Fatal("expected mutation to arm the scheduler")
	}
	s.Flush()
	if saver.count() != 1 {
		t.Errorf("expected 1 save, got %d", saver.count())
	}

	detach()
	sess.AddNode(domain.Position{}, "ignored")
	if s.Pending() {
		t.Error("expected detached scheduler to ignore mutations")
	}
}

// Package autosave debounces graph mutations into snapshot saves.
//
// Every mutation re-arms a single timer. Only when no mutation arrives for
// the configured delay is the graph saved, under the default title. A steady
// stream of edits therefore postpones the save indefinitely.
package autosave

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"ideagraph/internal/application/session"
	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

// DefaultDelay is the quiescence interval before a save fires
const DefaultDelay = 2000 * time.Millisecond

// Source supplies the graph to persist at fire time
type Source interface {
	Graph() ([]domain.Node, []domain.Edge)
}

// Saver persists a graph. ports.SnapshotStore satisfies it.
type Saver interface {
	Save(nodes []domain.Node, edges []domain.Edge, title string) (*ports.SaveOutcome, error)
}

// Outcome reports what a fired autosave did
type Outcome struct {
	Saved   *ports.SaveOutcome // nil when skipped or failed
	Skipped bool               // The graph was empty at fire time
	Err     error
}

// Scheduler owns at most one armed timer
type Scheduler struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	gen     uint64 // Incremented on every arm; a callback with a stale gen does nothing
	stopped bool

	source   Source
	saver    Saver
	logger   *log.Logger
	onResult func(Outcome)
}

// Option configures a Scheduler
type Option func(*Scheduler)

// WithDelay overrides the quiescence interval
func WithDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.delay = d
		}
	}
}

// WithLogger sets the logger that receives autosave failures
func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// WithNotify registers a callback invoked after every fired autosave.
// It runs on the timer goroutine.
func WithNotify(fn func(Outcome)) Option {
	return func(s *Scheduler) {
		s.onResult = fn
	}
}

// New creates a scheduler that saves source through saver
func New(source Source, saver Saver, opts ...Option) *Scheduler {
	s := &Scheduler{
		delay:  DefaultDelay,
		source: source,
		saver:  saver,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Delay returns the configured quiescence interval
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

// Attach subscribes the scheduler to every mutation of sess. The returned
// function detaches it.
func (s *Scheduler) Attach(sess *session.Session) func() {
	return sess.Subscribe(func(session.Event) {
		s.Notify()
	})
}

// Notify records a mutation: any pending save is cancelled and a new one is
// armed.
func (s *Scheduler) Notify() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.timer = time.AfterFunc(s.delay, func() {
		s.fire(gen)
	})
}

// Pending reports whether a save is armed
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// Flush runs a pending save immediately, on the caller's goroutine. It does
// nothing when no save is armed.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	if s.timer == nil {
		s.mu.Unlock()
		return
	}
	s.timer.Stop()
	s.timer = nil
	s.gen++
	s.mu.Unlock()

	s.persist()
}

// Stop cancels any pending save and ignores further mutations
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.stopped {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	s.persist()
}

// persist saves the current graph. Failures are logged, never retried.
func (s *Scheduler) persist() {
	nodes, edges := s.source.Graph()

	var out Outcome
	if len(nodes) == 0 {
		s.logger.Debug("autosave skipped: graph is empty")
		out.Skipped = true
	} else {
		saved, err := s.saver.Save(nodes, edges, "")
		switch {
		case err != nil:
			s.logger.Error("autosave failed", "err", err)
			out.Err = err
		case saved.Skipped:
			out.Skipped = true
		default:
			if saved.Warning != "" {
				s.logger.Warn("autosave", "title", saved.Snapshot.Title, "warning", saved.Warning)
			} else {
				s.logger.Debug("autosaved", "title", saved.Snapshot.Title, "ideas", saved.Snapshot.IdeaCount)
			}
			out.Saved = saved
		}
	}

	if s.onResult != nil {
		s.onResult(out)
	}
}

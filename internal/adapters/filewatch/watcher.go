// Package filewatch reports changes made to the snapshot files by another
// process, such as the CLI running alongside the TUI.
package filewatch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events produced by one atomic write
const DefaultDebounce = 100 * time.Millisecond

// Change describes a watched file that differs from what was last
// acknowledged
type Change struct {
	Path string
	At   time.Time
}

type fingerprint struct {
	exists  bool
	size    int64
	modTime time.Time
}

// Watcher watches a fixed set of files through their directories, so atomic
// rename-into-place writes are seen
type Watcher struct {
	files    []string
	watcher  *fsnotify.Watcher
	logger   *log.Logger
	debounce time.Duration
	onChange func(Change)

	mu      sync.Mutex
	known   map[string]fingerprint
	started bool // Set by Start, and by Stop so a later Start does nothing

	stopCh chan struct{}
	done   chan struct{}
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce overrides the debounce window
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// New creates a watcher for files. onChange runs on the watcher's goroutine
// once per changed file after events settle.
func New(files []string, onChange func(Change), opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		files:    make([]string, 0, len(files)),
		watcher:  fw,
		logger:   log.Default(),
		debounce: DefaultDebounce,
		onChange: onChange,
		known:    make(map[string]fingerprint),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	dirs := make(map[string]struct{})
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to resolve %s: %w", f, err)
		}
		w.files = append(w.files, abs)
		dirs[filepath.Dir(abs)] = struct{}{}
	}

	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	w.Acknowledge()
	return w, nil
}

// Start begins watching in a background goroutine. Calls after the first, or
// after Stop, do nothing.
func (w *Watcher) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()

	go w.watchLoop()
	w.logger.Debug("file watcher started", "files", w.files)
}

// Stop stops watching and waits for the loop to exit, if Start ran it
func (w *Watcher) Stop() {
	select {
	case <-w.stopCh:
		return
	default:
	}
	close(w.stopCh)
	w.watcher.Close()

	w.mu.Lock()
	running := w.started
	w.started = true
	w.mu.Unlock()

	if running {
		<-w.done
	}
}

// Acknowledge records the current state of every watched file so changes
// this process made itself are not reported
func (w *Watcher) Acknowledge() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, f := range w.files {
		w.known[f] = stat(f)
	}
}

func (w *Watcher) watchLoop() {
	defer close(w.done)

	// Debounce timer per file to avoid reporting each step of an atomic write
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			path, watched := w.match(event.Name)
			if !watched {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if t, ok := timers[path]; ok {
				t.Stop()
			}
			timers[path] = time.AfterFunc(w.debounce, func() {
				w.check(path)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", "err", err)
		}
	}
}

// match returns the watched file event names, if any
func (w *Watcher) match(name string) (string, bool) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", false
	}
	for _, f := range w.files {
		if f == abs {
			return f, true
		}
	}
	return "", false
}

// check reports path when it no longer matches its acknowledged state
func (w *Watcher) check(path string) {
	select {
	case <-w.stopCh:
		return
	default:
	}

	current := stat(path)

	w.mu.Lock()
	prev := w.known[path]
	changed := current != prev
	w.known[path] = current
	w.mu.Unlock()

	if !changed {
		return
	}

	w.logger.Info("snapshot file changed on disk", "path", path)
	if w.onChange != nil {
		w.onChange(Change{Path: path, At: time.Now()})
	}
}

func stat(path string) fingerprint {
	info, err := os.Stat(path)
	if err != nil {
		return fingerprint{}
	}
	return fingerprint{exists: true, size: info.Size(), modTime: info.ModTime()}
}

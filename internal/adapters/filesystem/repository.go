package filesystem

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

const (
	DefaultStoreFile = "ideas.json"
	DefaultUndoFile  = "deleted_ideas.json"
)

// Repository implements ports.SnapshotStore using two JSON files: the
// snapshot collection and the undo slot.
//
// Every mutating call holds mu for its whole read-modify-write cycle, so an
// explicit save and an autosave can never interleave.
type Repository struct {
	mu        sync.Mutex
	storePath string
	undo      *UndoSlot
	guard     *QuotaGuard
	now       func() time.Time
	logger    *log.Logger
}

// Ensure Repository implements ports.SnapshotStore
var _ ports.SnapshotStore = (*Repository)(nil)

// Option configures a Repository
type Option func(*Repository)

// WithLogger sets the logger used for warnings
func WithLogger(l *log.Logger) Option {
	return func(r *Repository) {
		r.logger = l
	}
}

// WithClock overrides the time source used to stamp snapshots
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// WithUndoPath overrides the undo slot location
func WithUndoPath(path string) Option {
	return func(r *Repository) {
		r.undo = NewUndoSlot(path)
	}
}

// NewRepository creates a repository rooted at dataDir using the default
// file names
func NewRepository(dataDir string, opts ...Option) *Repository {
	return NewRepositoryAt(filepath.Join(dataDir, DefaultStoreFile), opts...)
}

// NewRepositoryAt creates a repository with an explicit collection path. The
// undo slot lives next to it unless WithUndoPath is given.
func NewRepositoryAt(storePath string, opts ...Option) *Repository {
	r := &Repository{
		storePath: storePath,
		undo:      NewUndoSlot(filepath.Join(filepath.Dir(storePath), DefaultUndoFile)),
		now:       time.Now,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.guard = NewQuotaGuard(r.storePath, r.undo.Path())
	return r
}

// StorePath returns the snapshot collection file
func (r *Repository) StorePath() string {
	return r.storePath
}

// UndoPath returns the undo slot file
func (r *Repository) UndoPath() string {
	return r.undo.Path()
}

// Guard returns the quota guard accounting for this repository's files
func (r *Repository) Guard() *QuotaGuard {
	return r.guard
}

// Save upserts a snapshot by title. Edges with an endpoint missing from
// nodes are not written; the outcome's Warning reports how many were left out.
func (r *Repository) Save(nodes []domain.Node, edges []domain.Edge, title string) (*ports.SaveOutcome, error) {
	if len(nodes) == 0 {
		info, err := r.Usage()
		if err != nil {
			return nil, err
		}
		return &ports.SaveOutcome{Skipped: true, Storage: info}, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	snapshots, err := r.load()
	if err != nil {
		return nil, err
	}

	kept, dangling := domain.DropDangling(nodes, edges)
	candidate := domain.NewSnapshot(
		domain.ResolveTitle(title, len(snapshots)),
		slices.Clone(nodes),
		kept,
		r.now(),
	)

	decision, err := r.guard.CheckAdmission(candidate)
	if err != nil {
		return nil, err
	}
	if !decision.Admitted() {
		return nil, &domain.QuotaError{Decision: decision}
	}

	replaced := false
	if i := domain.IndexOfTitle(snapshots, candidate.Title); i >= 0 {
		snapshots[i] = candidate
		replaced = true
	} else {
		snapshots = append(snapshots, candidate)
	}

	if err := writeJSONAtomic(r.storePath, snapshots); err != nil {
		return nil, err
	}

	if decision.Kind == domain.AdmitWithWarning {
		r.logger.Warn("storage nearing limit", "title", candidate.Title, "usage", domain.FormatMiB(decision.Total()))
	}

	var warnings []string
	if decision.Message != "" {
		warnings = append(warnings, decision.Message)
	}
	if dropped := len(edges) - len(kept); dropped > 0 {
		r.logger.Warn("dangling connections not saved", "title", candidate.Title, "edges", dropped, "first", dangling[0].String())
		warnings = append(warnings, fmt.Sprintf("%d dangling connections not saved (%s)", dropped, dangling[0]))
	}

	info, err := r.usage()
	if err != nil {
		return nil, err
	}

	return &ports.SaveOutcome{
		Snapshot: candidate,
		Replaced: replaced,
		Warning:  strings.Join(warnings, ". "),
		Storage:  info,
	}, nil
}

// List returns all snapshots, newest first, each carrying its store-order
// position for DeleteAt. An absent or empty collection
// yields an empty list. A collection that cannot be parsed also yields an
// empty list, together with the error.
func (r *Repository) List() ([]domain.Snapshot, error) {
	r.mu.Lock()
	snapshots, err := r.load()
	r.mu.Unlock()

	if err != nil {
		return []domain.Snapshot{}, err
	}
	for i := range snapshots {
		snapshots[i].StoreIndex = i
	}
	domain.SortByLastModified(snapshots)
	return snapshots, nil
}

// Get returns the snapshot stored under title
func (r *Repository) Get(title string) (*domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshots, err := r.load()
	if err != nil {
		return nil, err
	}
	i := domain.IndexOfTitle(snapshots, title)
	if i < 0 {
		return nil, &domain.NotFoundError{What: fmt.Sprintf("%q", title)}
	}
	return &snapshots[i], nil
}

// DeleteAt removes the snapshot at index in store order
func (r *Repository) DeleteAt(index int) (*domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshots, err := r.load()
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(snapshots) {
		return nil, &domain.NotFoundError{What: fmt.Sprintf("at index %d", index)}
	}
	return r.removeAt(snapshots, index)
}

// Delete removes the snapshot with the given title
func (r *Repository) Delete(title string) (*domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshots, err := r.load()
	if err != nil {
		return nil, err
	}
	i := domain.IndexOfTitle(snapshots, title)
	if i < 0 {
		return nil, &domain.NotFoundError{What: fmt.Sprintf("%q", title)}
	}
	return r.removeAt(snapshots, i)
}

// removeAt moves snapshots[i] into the undo slot and persists the shrunk
// collection. The undo slot is written first: a crash between the two writes
// leaves the snapshot in both places rather than in neither.
func (r *Repository) removeAt(snapshots []domain.Snapshot, i int) (*domain.Snapshot, error) {
	removed := snapshots[i]

	if err := r.undo.Hold(removed); err != nil {
		return nil, err
	}

	remaining := slices.Delete(slices.Clone(snapshots), i, i+1)
	if err := writeJSONAtomic(r.storePath, remaining); err != nil {
		return nil, err
	}

	return &removed, nil
}

// RestoreLast appends the held snapshot to the collection and clears the
// slot. If its title has been reused since the delete, the restored copy is
// renamed rather than overwriting the newer snapshot.
func (r *Repository) RestoreLast() (*domain.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	held, err := r.undo.Peek()
	if err != nil {
		return nil, err
	}
	if held == nil {
		return nil, domain.ErrNothingToRestore
	}

	snapshots, err := r.load()
	if err != nil {
		return nil, err
	}

	restored := *held
	restored.Title = uniqueTitle(snapshots, held.Title)
	if restored.Title != held.Title {
		r.logger.Warn("restored snapshot renamed", "from", held.Title, "to", restored.Title)
	}

	snapshots = append(snapshots, restored)
	if err := writeJSONAtomic(r.storePath, snapshots); err != nil {
		return nil, err
	}

	if err := r.undo.Clear(); err != nil {
		return nil, err
	}
	return &restored, nil
}

// Usage reports bytes currently persisted
func (r *Repository) Usage() (domain.StorageInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.usage()
}

// HasUndo reports whether a deleted snapshot is waiting to be restored
func (r *Repository) HasUndo() (bool, error) {
	empty, err := r.undo.IsEmpty()
	return !empty, err
}

func (r *Repository) usage() (domain.StorageInfo, error) {
	current, err := r.guard.CurrentSize()
	if err != nil {
		return domain.StorageInfo{}, err
	}
	return domain.StorageInfo{CurrentSize: current, MaxSize: domain.MaxStorageSize}, nil
}

// load reads the collection in store order. Callers must hold mu.
func (r *Repository) load() ([]domain.Snapshot, error) {
	var snapshots []domain.Snapshot
	if _, err := readJSON(r.storePath, &snapshots); err != nil {
		r.logger.Error("failed to load snapshots", "path", r.storePath, "err", err)
		return nil, err
	}
	if snapshots == nil {
		snapshots = []domain.Snapshot{}
	}
	return snapshots, nil
}

// uniqueTitle returns title, or title with a " (restored N)" suffix when it
// is already taken
func uniqueTitle(snapshots []domain.Snapshot, title string) string {
	if domain.IndexOfTitle(snapshots, title) < 0 {
		return title
	}
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (restored %d)", title, n)
		if domain.IndexOfTitle(snapshots, candidate) < 0 {
			return candidate
		}
	}
}

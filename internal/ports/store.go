package ports

import "ideagraph/internal/domain"

// SaveOutcome describes a completed save call
type SaveOutcome struct {
	Snapshot domain.Snapshot
	Replaced bool   // An existing snapshot with the same title was overwritten
	Skipped  bool   // The graph was empty and nothing was written
	Warning  string // Set when the quota guard admitted with a warning
	Storage  domain.StorageInfo
}

// SnapshotStore persists titled snapshots of the graph.
// Mutating calls are serialized; a reader never observes a partial write.
type SnapshotStore interface {
	// Save upserts a snapshot by title. A blank title gets the default title.
	// Saving an empty node list is a no-op reported through Skipped.
	Save(nodes []domain.Node, edges []domain.Edge, title string) (*SaveOutcome, error)

	// List returns all snapshots, newest lastModified first
	List() ([]domain.Snapshot, error)

	// Get returns the snapshot stored under title
	Get(title string) (*domain.Snapshot, error)

	// DeleteAt removes the snapshot at index in store (append) order and
	// moves it into the undo slot
	DeleteAt(index int) (*domain.Snapshot, error)

	// Delete removes the snapshot with the given title and moves it into the
	// undo slot
	Delete(title string) (*domain.Snapshot, error)

	// RestoreLast appends the snapshot held in the undo slot back to the
	// collection and clears the slot
	RestoreLast() (*domain.Snapshot, error)

	// Usage reports bytes currently persisted against the hard cap
	Usage() (domain.StorageInfo, error)
}

// UndoSlot holds at most one deleted snapshot. The slot survives restarts.
type UndoSlot interface {
	// Hold replaces whatever the slot holds
	Hold(snapshot domain.Snapshot) error

	// Peek returns the held snapshot without removing it, or nil when empty
	Peek() (*domain.Snapshot, error)

	// Take removes and returns the held snapshot, or nil when empty
	Take() (*domain.Snapshot, error)

	// Clear empties the slot
	Clear() error

	IsEmpty() (bool, error)
}

// QuotaGuard decides whether a candidate snapshot may be written
type QuotaGuard interface {
	// CheckAdmission measures current on-disk usage and evaluates the candidate.
	// It has no side effects.
	CheckAdmission(candidate domain.Snapshot) (domain.Decision, error)

	// CurrentSize returns the bytes used by all persisted artifacts
	CurrentSize() (int64, error)
}

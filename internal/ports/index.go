package ports

import "ideagraph/internal/domain"

// SnapshotIndex is a derived search index over saved snapshots.
// The snapshot store stays authoritative; the index can always be rebuilt.
type SnapshotIndex interface {
	// Lifecycle
	Open(dbPath string) error
	Close() error

	// Maintenance
	Upsert(snapshot domain.Snapshot) error
	Remove(title string) error
	Rebuild(snapshots []domain.Snapshot) (*domain.SyncStats, error)
	NeedsRebuild() bool

	// Queries
	Search(query string, limit int) ([]domain.SearchHit, error)
	Stats() (*domain.IndexStats, error)
}

package application

import (
	"github.com/charmbracelet/log"

	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

// Catalog is a SnapshotStore that keeps a search index in step with the
// underlying store. The store is authoritative: index failures are logged and
// never fail the operation.
type Catalog struct {
	store  ports.SnapshotStore
	index  ports.SnapshotIndex // nil disables indexing
	logger *log.Logger
}

// Ensure Catalog implements ports.SnapshotStore
var _ ports.SnapshotStore = (*Catalog)(nil)

// NewCatalog wraps store. index may be nil.
func NewCatalog(store ports.SnapshotStore, index ports.SnapshotIndex, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = log.Default()
	}
	return &Catalog{store: store, index: index, logger: logger}
}

// Index returns the search index, or nil when indexing is disabled
func (c *Catalog) Index() ports.SnapshotIndex {
	return c.index
}

// Save persists the snapshot then indexes it
func (c *Catalog) Save(nodes []domain.Node, edges []domain.Edge, title string) (*ports.SaveOutcome, error) {
	outcome, err := c.store.Save(nodes, edges, title)
	if err != nil || outcome.Skipped {
		return outcome, err
	}
	c.upsert(outcome.Snapshot)
	return outcome, nil
}

func (c *Catalog) List() ([]domain.Snapshot, error) {
	return c.store.List()
}

func (c *Catalog) Get(title string) (*domain.Snapshot, error) {
	return c.store.Get(title)
}

// DeleteAt removes by store-order index and drops it from the index
func (c *Catalog) DeleteAt(index int) (*domain.Snapshot, error) {
	removed, err := c.store.DeleteAt(index)
	if err != nil {
		return nil, err
	}
	c.remove(removed.Title)
	return removed, nil
}

// Delete removes by title and drops it from the index
func (c *Catalog) Delete(title string) (*domain.Snapshot, error) {
	removed, err := c.store.Delete(title)
	if err != nil {
		return nil, err
	}
	c.remove(removed.Title)
	return removed, nil
}

// RestoreLast restores the held snapshot and re-indexes it
func (c *Catalog) RestoreLast() (*domain.Snapshot, error) {
	restored, err := c.store.RestoreLast()
	if err != nil {
		return nil, err
	}
	c.upsert(*restored)
	return restored, nil
}

func (c *Catalog) Usage() (domain.StorageInfo, error) {
	return c.store.Usage()
}

// Reindex rebuilds the search index from the store
func (c *Catalog) Reindex() (*domain.SyncStats, error) {
	if c.index == nil {
		return nil, ErrNoIndex
	}
	snapshots, err := c.store.List()
	if err != nil {
		return nil, err
	}
	return c.index.Rebuild(snapshots)
}

// EnsureIndexed rebuilds the index when it has never been synced. It
// returns nil stats when no rebuild was needed or indexing is disabled.
func (c *Catalog) EnsureIndexed() (*domain.SyncStats, error) {
	if c.index == nil || !c.index.NeedsRebuild() {
		return nil, nil
	}
	stats, err := c.Reindex()
	if err != nil {
		return nil, err
	}
	c.logger.Info("rebuilt search index", "snapshots", stats.SnapshotsIndexed, "ideas", stats.IdeasIndexed, "took", stats.Duration)
	return stats, nil
}

// Search queries the index
func (c *Catalog) Search(query string, limit int) ([]domain.SearchHit, error) {
	if c.index == nil {
		return nil, ErrNoIndex
	}
	return c.index.Search(query, limit)
}

func (c *Catalog) upsert(s domain.Snapshot) {
	if c.index == nil {
		return
	}
	if err := c.index.Upsert(s); err != nil {
		c.logger.Warn("failed to index snapshot", "title", s.Title, "err", err)
	}
}

func (c *Catalog) remove(title string) {
	if c.index == nil {
		return
	}
	if err := c.index.Remove(title); err != nil {
		c.logger.Warn("failed to unindex snapshot", "title", title, "err", err)
	}
}

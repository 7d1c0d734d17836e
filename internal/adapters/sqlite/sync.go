package sqlite

import (
	"time"

	"ideagraph/internal/domain"
)

// Rebuild replaces the whole index with snapshots in one transaction
func (idx *Index) Rebuild(snapshots []domain.Snapshot) (*domain.SyncStats, error) {
	start := time.Now()
	stats := &domain.SyncStats{}

	tx, err := idx.beginTx()
	if err != nil {
		return nil, err
	}

	removed, err := tx.clear()
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	stats.SnapshotsRemoved = removed

	for _, s := range snapshots {
		if err := tx.upsertSnapshot(s); err != nil {
			tx.Rollback()
			return nil, err
		}
		stats.SnapshotsIndexed++
		stats.IdeasIndexed += len(s.Nodes)
	}

	if err := tx.markSynced(time.Now().Unix()); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

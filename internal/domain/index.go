package domain

import "time"

// SearchHit is an idea matched by the snapshot index
type SearchHit struct {
	Title  string // Snapshot containing the idea
	NodeID string // Empty when the title itself matched
	Label  string
}

// IndexStats describes the contents of the snapshot index
type IndexStats struct {
	Snapshots int
	Ideas     int
}

// SyncStats holds statistics from an index rebuild
type SyncStats struct {
	SnapshotsIndexed int
	IdeasIndexed     int
	SnapshotsRemoved int
	Duration         time.Duration
}

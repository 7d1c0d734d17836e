package sqlite

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"ideagraph/internal/domain"
)

func benchSnapshots(count, ideas int) []domain.Snapshot {
	now := time.Now()
	snapshots := make([]domain.Snapshot, count)
	for i := range snapshots {
		labels := make([]string, ideas)
		for j := range labels {
			labels[j] = fmt.Sprintf("idea %d of set %d", j, i)
		}
		snapshots[i] = snapshot(fmt.Sprintf("idea set %d", i+1), now, labels...)
	}
	return snapshots
}

// BenchmarkRebuild benchmarks just the rebuild (DB already open)
func BenchmarkRebuild(b *testing.B) {
	idx := NewIndex()
	if err := idx.Open(filepath.Join(b.TempDir(), "index.db")); err != nil {
		b.Fatalf("failed to open index: %v", err)
	}
	defer func() {
		if err := idx.Close(); err != nil {
			b.Fatalf("failed to close index: %v", err)
		}
	}()

	snapshots := benchSnapshots(50, 40)

	b.ResetTimer()
	for b.Loop() {
		if _, err := idx.Rebuild(snapshots); err != nil {
			b.Fatalf("rebuild failed: %v", err)
		}
	}
}

// BenchmarkSearch benchmarks a label query over a populated index
func BenchmarkSearch(b *testing.B) {
	idx := NewIndex()
	if err := idx.Open(filepath.Join(b.TempDir(), "index.db")); err != nil {
		b.Fatalf("failed to open index: %v", err)
	}
	defer idx.Close()

	if _, err := idx.Rebuild(benchSnapshots(50, 40)); err != nil {
		b.Fatalf("rebuild failed: %v", err)
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := idx.Search("of set 4", 50); err != nil {
			b.Fatalf("search failed: %v", err)
		}
	}
}

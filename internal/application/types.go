package application

import "ideagraph/internal/domain"

// Re-export domain types for use by adapters
type (
	Node        = domain.Node
	Edge        = domain.Edge
	Position    = domain.Position
	Snapshot    = domain.Snapshot
	SearchHit   = domain.SearchHit
	StorageInfo = domain.StorageInfo
	Decision    = domain.Decision
)

// FormatMiB renders a byte count in MiB with two decimals
func FormatMiB(bytes int64) string {
	return domain.FormatMiB(bytes)
}

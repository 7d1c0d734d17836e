package commands

import (
	"context"
	"fmt"

	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

// UsageResult reports persisted bytes against the cap
type UsageResult struct {
	Storage    domain.StorageInfo
	NearlyFull bool
	Message    string
}

// UsageCommand measures storage usage
type UsageCommand struct {
	store ports.SnapshotStore
}

// NewUsageCommand creates a new UsageCommand
func NewUsageCommand(store ports.SnapshotStore) *UsageCommand {
	return &UsageCommand{store: store}
}

// Execute runs the usage command
func (c *UsageCommand) Execute(ctx context.Context) (*UsageResult, error) {
	info, err := c.store.Usage()
	if err != nil {
		return nil, fmt.Errorf("failed to measure storage: %w", err)
	}

	return &UsageResult{
		Storage:    info,
		NearlyFull: info.CurrentSize > domain.WarningThreshold,
		Message:    info.String(),
	}, nil
}

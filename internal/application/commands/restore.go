package commands

import (
	"context"
	"fmt"

	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

// RestoreResult contains the result of an undo
type RestoreResult struct {
	Restored *domain.Snapshot
	Message  string
}

// RestoreCommand brings back the most recently deleted idea set
type RestoreCommand struct {
	store ports.SnapshotStore
}

// NewRestoreCommand creates a new RestoreCommand
func NewRestoreCommand(store ports.SnapshotStore) *RestoreCommand {
	return &RestoreCommand{store: store}
}

// Execute runs the restore command
func (c *RestoreCommand) Execute(ctx context.Context) (*RestoreResult, error) {
	restored, err := c.store.RestoreLast()
	if err != nil {
		return nil, fmt.Errorf("failed to restore idea set: %w", err)
	}

	return &RestoreResult{
		Restored: restored,
		Message:  fmt.Sprintf("Restored %q", restored.Title),
	}, nil
}

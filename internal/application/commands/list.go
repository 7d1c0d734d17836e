package commands

import (
	"context"
	"fmt"

	"ideagraph/internal/application"
	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

// ListSnapshotsCommand lists saved idea sets, newest first
type ListSnapshotsCommand struct {
	store ports.SnapshotStore
}

// NewListSnapshotsCommand creates a new ListSnapshotsCommand
func NewListSnapshotsCommand(store ports.SnapshotStore) *ListSnapshotsCommand {
	return &ListSnapshotsCommand{store: store}
}

// Execute runs the list command. A malformed store yields the error together
// with an empty list.
func (c *ListSnapshotsCommand) Execute(ctx context.Context) ([]domain.Snapshot, error) {
	snapshots, err := c.store.List()
	if snapshots == nil {
		snapshots = []domain.Snapshot{}
	}
	return snapshots, err
}

// GetSnapshotResult contains a snapshot and any dangling-edge warnings
type GetSnapshotResult struct {
	Snapshot *domain.Snapshot
	Warnings []domain.IntegrityWarning
}

// GetSnapshotCommand fetches a single idea set by title
type GetSnapshotCommand struct {
	store ports.SnapshotStore
	Title string
}

// NewGetSnapshotCommand creates a new GetSnapshotCommand
func NewGetSnapshotCommand(store ports.SnapshotStore, title string) *GetSnapshotCommand {
	return &GetSnapshotCommand{store: store, Title: title}
}

// Validate checks if the get operation is valid
func (c *GetSnapshotCommand) Validate() error {
	return application.ValidateRequired("title", c.Title)
}

// Execute runs the get command
func (c *GetSnapshotCommand) Execute(ctx context.Context) (*GetSnapshotResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	snap, err := c.store.Get(c.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to read idea set: %w", err)
	}

	return &GetSnapshotResult{
		Snapshot: snap,
		Warnings: snap.Integrity(),
	}, nil
}

package commands

import (
	"context"
	"fmt"

	"ideagraph/internal/application"
	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

// DeleteSnapshotResult contains the result of a delete
type DeleteSnapshotResult struct {
	Deleted *domain.Snapshot
	Message string
}

// DeleteSnapshotCommand removes an idea set and holds it for undo. The
// target is either a title or a store-order index.
type DeleteSnapshotCommand struct {
	store   ports.SnapshotStore
	Title   string
	Index   int
	byIndex bool
}

// NewDeleteSnapshotCommand creates a command deleting by title
func NewDeleteSnapshotCommand(store ports.SnapshotStore, title string) *DeleteSnapshotCommand {
	return &DeleteSnapshotCommand{store: store, Title: title}
}

// NewDeleteAtCommand creates a command deleting by position in store order
func NewDeleteAtCommand(store ports.SnapshotStore, index int) *DeleteSnapshotCommand {
	return &DeleteSnapshotCommand{store: store, Index: index, byIndex: true}
}

// Validate checks if the delete operation is valid
func (c *DeleteSnapshotCommand) Validate() error {
	if c.byIndex {
		return application.ValidateIndex(c.Index)
	}
	return application.ValidateRequired("title", c.Title)
}

// Execute runs the delete command
func (c *DeleteSnapshotCommand) Execute(ctx context.Context) (*DeleteSnapshotResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var (
		removed *domain.Snapshot
		err     error
	)
	if c.byIndex {
		removed, err = c.store.DeleteAt(c.Index)
	} else {
		removed, err = c.store.Delete(c.Title)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete idea set: %w", err)
	}

	return &DeleteSnapshotResult{
		Deleted: removed,
		Message: fmt.Sprintf("Deleted %q (undo available)", removed.Title),
	}, nil
}

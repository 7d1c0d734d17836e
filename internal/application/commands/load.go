package commands

import (
	"context"
	"fmt"

	"ideagraph/internal/application"
	"ideagraph/internal/application/session"
	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

// LoadSnapshotResult contains the loaded idea set
type LoadSnapshotResult struct {
	Snapshot *domain.Snapshot
	Warnings []domain.IntegrityWarning
	Message  string
}

// LoadSnapshotCommand replaces the live graph with a saved idea set
type LoadSnapshotCommand struct {
	store   ports.SnapshotStore
	session *session.Session
	Title   string
}

// NewLoadSnapshotCommand creates a new LoadSnapshotCommand
func NewLoadSnapshotCommand(store ports.SnapshotStore, sess *session.Session, title string) *LoadSnapshotCommand {
	return &LoadSnapshotCommand{
		store:   store,
		session: sess,
		Title:   title,
	}
}

// Validate checks if the load operation is valid
func (c *LoadSnapshotCommand) Validate() error {
	return application.ValidateRequired("title", c.Title)
}

// Execute runs the load command
func (c *LoadSnapshotCommand) Execute(ctx context.Context) (*LoadSnapshotResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	snap, err := c.store.Get(c.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to load idea set: %w", err)
	}

	warnings := c.session.Load(snap.Title, snap.Nodes, snap.Edges)

	msg := fmt.Sprintf("Loaded %q (%d ideas)", snap.Title, len(snap.Nodes))
	if len(warnings) > 0 {
		msg += fmt.Sprintf(", %d dangling connections", len(warnings))
	}

	return &LoadSnapshotResult{
		Snapshot: snap,
		Warnings: warnings,
		Message:  msg,
	}, nil
}

package commands

import (
	"context"
	"fmt"

	"ideagraph/internal/application"
	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

// SaveSnapshotResult contains the result of saving the graph
type SaveSnapshotResult struct {
	Snapshot domain.Snapshot
	Replaced bool
	Skipped  bool
	Warning  string
	Storage  domain.StorageInfo
	Message  string
}

// SaveSnapshotCommand persists the current graph under a title
type SaveSnapshotCommand struct {
	store ports.SnapshotStore
	Nodes []domain.Node
	Edges []domain.Edge
	Title string
}

// NewSaveSnapshotCommand creates a new SaveSnapshotCommand. A blank title
// means the default "idea set N" title.
func NewSaveSnapshotCommand(store ports.SnapshotStore, nodes []domain.Node, edges []domain.Edge, title string) *SaveSnapshotCommand {
	return &SaveSnapshotCommand{
		store: store,
		Nodes: nodes,
		Edges: edges,
		Title: title,
	}
}

// Validate checks if the save operation is valid
func (c *SaveSnapshotCommand) Validate() error {
	return application.ValidateTitle(c.Title)
}

// Execute runs the save command
func (c *SaveSnapshotCommand) Execute(ctx context.Context) (*SaveSnapshotResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	outcome, err := c.store.Save(c.Nodes, c.Edges, c.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to save idea set: %w", err)
	}

	result := &SaveSnapshotResult{
		Snapshot: outcome.Snapshot,
		Replaced: outcome.Replaced,
		Skipped:  outcome.Skipped,
		Warning:  outcome.Warning,
		Storage:  outcome.Storage,
	}

	switch {
	case outcome.Skipped:
		result.Message = "Nothing to save: the graph is empty"
	case outcome.Replaced:
		result.Message = fmt.Sprintf("Updated %q (%d ideas)", outcome.Snapshot.Title, outcome.Snapshot.IdeaCount)
	default:
		result.Message = fmt.Sprintf("Saved %q (%d ideas)", outcome.Snapshot.Title, outcome.Snapshot.IdeaCount)
	}

	return result, nil
}

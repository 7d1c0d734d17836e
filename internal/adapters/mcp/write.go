package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ideagraph/internal/application"
	"ideagraph/internal/application/commands"
	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

// RegisterWriteTools adds all idea set write tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, store ports.SnapshotStore) {
	s.AddTool(saveTool(), saveHandler(store))
	s.AddTool(deleteTool(), deleteHandler(store))
	s.AddTool(restoreTool(), restoreHandler(store))
}

// --- save_snapshot ---

func saveTool() mcp.Tool {
	return mcp.NewTool("save_snapshot",
		mcp.WithDescription("Save an idea graph. Saving under an existing title replaces that idea set. Saves that would exceed the 5 MiB storage limit are rejected."),
		mcp.WithString("graph",
			mcp.Description(`Graph JSON: {"nodes":[{"id":"1","position":{"x":0,"y":0},"label":"idea"}],"edges":[{"id":"e1","source":"1","target":"2"}]}`),
			mcp.Required(),
		),
		mcp.WithString("title",
			mcp.Description(`Title for the idea set. Omit to use "idea set N".`),
		),
	)
}

func saveHandler(store ports.SnapshotStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw := req.GetString("graph", "")
		if raw == "" {
			return toolError(fmt.Errorf("graph is required"))
		}

		graph, err := domain.ParseGraph([]byte(raw))
		if err != nil {
			return toolError(err)
		}

		result, err := commands.NewSaveSnapshotCommand(store, graph.Nodes, graph.Edges, req.GetString("title", "")).Execute(ctx)
		if err != nil {
			return toolError(errors.New(application.UserMessage(err)))
		}

		msg := result.Message
		if result.Warning != "" {
			msg += "\nwarning: " + result.Warning
		}
		return mcp.NewToolResultText(msg), nil
	}
}

// --- delete_snapshot ---

func deleteTool() mcp.Tool {
	return mcp.NewTool("delete_snapshot",
		mcp.WithDescription("Delete an idea set by title. The most recent deletion can be undone with restore_snapshot."),
		mcp.WithString("title",
			mcp.Description("Title of the idea set to delete"),
			mcp.Required(),
		),
	)
}

func deleteHandler(store ports.SnapshotStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title := req.GetString("title", "")
		if title == "" {
			return toolError(fmt.Errorf("title is required"))
		}

		result, err := commands.NewDeleteSnapshotCommand(store, title).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		return mcp.NewToolResultText(result.Message), nil
	}
}

// --- restore_snapshot ---

func restoreTool() mcp.Tool {
	return mcp.NewTool("restore_snapshot",
		mcp.WithDescription("Restore the most recently deleted idea set."),
	)
}

func restoreHandler(store ports.SnapshotStore) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewRestoreCommand(store).Execute(ctx)
		if err != nil {
			return toolError(errors.New(application.UserMessage(err)))
		}

		return mcp.NewToolResultText(result.Message), nil
	}
}

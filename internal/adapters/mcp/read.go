package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"ideagraph/internal/application/commands"
	"ideagraph/internal/domain"
	"ideagraph/internal/ports"
)

// RegisterReadTools adds all read-only idea set tools to the MCP server.
// searcher may be nil when no search index is available.
func RegisterReadTools(s *server.MCPServer, store ports.SnapshotStore, searcher commands.Searcher) {
	s.AddTool(listTool(), listHandler(store))
	s.AddTool(showTool(), showHandler(store))
	s.AddTool(usageTool(), usageHandler(store))
	if searcher != nil {
		s.AddTool(searchTool(), searchHandler(searcher))
	}
}

// --- list_snapshots ---

func listTool() mcp.Tool {
	return mcp.NewTool("list_snapshots",
		mcp.WithDescription("List saved idea sets, most recently modified first. Each line shows the title, idea count and last modification time."),
	)
}

func listHandler(store ports.SnapshotStore) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		snapshots, err := commands.NewListSnapshotsCommand(store).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(snapshots, formatSnapshot)
	}
}

// --- show_snapshot ---

func showTool() mcp.Tool {
	return mcp.NewTool("show_snapshot",
		mcp.WithDescription("Show one saved idea set as JSON: its ideas (nodes with id, position and label) and connections (edges)."),
		mcp.WithString("title",
			mcp.Description("Title of the idea set"),
			mcp.Required(),
		),
	)
}

func showHandler(store ports.SnapshotStore) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title := req.GetString("title", "")
		if title == "" {
			return toolError(fmt.Errorf("title is required"))
		}

		result, err := commands.NewGetSnapshotCommand(store, title).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		data, err := json.MarshalIndent(result.Snapshot, "", "  ")
		if err != nil {
			return toolError(err)
		}

		var sb strings.Builder
		sb.Write(data)
		for _, w := range result.Warnings {
			fmt.Fprintf(&sb, "\nwarning: %s", w)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- storage_usage ---

func usageTool() mcp.Tool {
	return mcp.NewTool("storage_usage",
		mcp.WithDescription("Report how much of the 5 MiB idea storage is in use."),
	)
}

func usageHandler(store ports.SnapshotStore) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := commands.NewUsageCommand(store).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		msg := result.Message
		if result.NearlyFull {
			msg += " - nearly full"
		}
		return mcp.NewToolResultText(msg), nil
	}
}

// --- search_ideas ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search_ideas",
		mcp.WithDescription("Search saved ideas by label or idea set title. Returns matches ranked by relevance."),
		mcp.WithString("query",
			mcp.Description("Search query, at least two characters"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of matches (default 50)"),
		),
	)
}

func searchHandler(searcher commands.Searcher) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		results, err := commands.NewSearchCommand(searcher, query, req.GetInt("limit", 0)).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if len(results) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}

		var sb strings.Builder
		for _, r := range results {
			fmt.Fprintf(&sb, "%s  %s\n", r.Title, r.Label)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatSnapshot(s domain.Snapshot) string {
	return fmt.Sprintf("%s  %d ideas  %s", s.Title, s.IdeaCount, s.LastModified.Local().Format("2006-01-02 15:04"))
}

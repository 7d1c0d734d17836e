package main

import (
	"context"
	"flag"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "ideagraph/internal/adapters/mcp"
	"ideagraph/internal/bootstrap"
	"ideagraph/internal/config"
	"ideagraph/internal/logging"
)

func main() {
	configFlag := flag.String("config", "", "path to the config file")
	dataDirFlag := flag.String("data-dir", "", "directory holding saved idea sets")
	flag.Parse()

	// stdout carries the MCP protocol; logs go to stderr
	logger := logging.New(os.Stderr, logging.Level(config.DefaultLogLevel))

	cfg, err := config.Load(*configFlag)
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}
	if *dataDirFlag != "" {
		cfg.DataDir = config.ExpandHome(*dataDirFlag)
	}
	logger.SetLevel(logging.Level(cfg.LogLevel))

	svc, err := bootstrap.Open(cfg, logger)
	if err != nil {
		logger.Fatal("failed to open idea store", "err", err)
	}
	defer svc.Close()

	mcpServer := server.NewMCPServer(
		"ideagraph-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, svc.Catalog, svc.Searcher())
	mcpadapter.RegisterWriteTools(mcpServer, svc.Catalog)

	logger.Info("serving MCP on stdio", "data_dir", cfg.DataDir)
	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Error("ideagraph-mcp stopped", "err", err)
		svc.Close()
		os.Exit(1)
	}
}

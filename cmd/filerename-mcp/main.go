package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"filerename/internal/adapters/filelock"
	"filerename/internal/adapters/filesystem"
	mcpadapter "filerename/internal/adapters/mcp"
	"filerename/internal/config"
	"filerename/internal/logger"
)

func main() {
	configFlag := flag.String("config", config.ConfigPath(), "path to the config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFlag)
	if err != nil {
		log.Fatalf("filerename-mcp: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("filerename-mcp: %v", err)
	}

	// stdout carries the protocol
	deps := mcpadapter.Deps{
		FS:     filesystem.New(),
		Locker: filelock.NewDirectoryLocker(cfg.LockDir),
		Log:    logger.NewConsoleLogger(os.Stderr, cfg.LogLevel),
		Config: cfg,
	}

	mcpServer := server.NewMCPServer(
		"filerename-mcp",
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

	mcpadapter.RegisterReadTools(mcpServer, deps)
	mcpadapter.RegisterWriteTools(mcpServer, deps)

	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatalf("filerename-mcp: %v", err)
	}
}

package main

import (
	"context"
	"flag"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/sam-maryland/gridiron-dashboard/internal/config"
	"github.com/sam-maryland/gridiron-dashboard/internal/dashboard"
	"github.com/sam-maryland/gridiron-dashboard/internal/mcp"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	config.LoadDotEnv()
	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		dashboard.NewLogger("info").WithError(err).Fatal("Failed to load config")
	}
	cfg.ApplyEnv()

	logger := dashboard.NewLogger(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid config")
	}

	svc, closeStore, err := dashboard.Open(context.Background(), cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize dashboard")
	}
	defer closeStore()

	mcpServer := mcp.NewDashboardMCPServer(svc, logger)
	if mcpServer == nil {
		logger.Fatal("Failed to create MCP server")
	}

	logger.Info("Starting Gridiron Dashboard MCP Server...")

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.WithError(err).Error("Server failed")
		closeStore()
		os.Exit(1)
	}
}

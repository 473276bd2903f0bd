package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/akolanti/ragops/internal/bootstrap"
	"github.com/akolanti/ragops/internal/config"
	"github.com/akolanti/ragops/internal/mcpserver"
	"github.com/akolanti/ragops/pkg/logger_i"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	configPath := flag.String("config", config.SettingsPath(), "path to the settings file")
	flag.Parse()

	// stdout carries the protocol, so logs go to stderr.
	logger_i.InitWithWriter(os.Stderr, "info", config.IS_PROD)
	logger := logger_i.NewLogger("mcp-main")

	settings, err := config.Load(*configPath)
	if err != nil {
		logger.Error("Invalid settings", "error", err)
		os.Exit(1)
	}
	logger_i.InitWithWriter(os.Stderr, settings.LogLevel, config.IS_PROD)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stack, err := bootstrap.Build(ctx, settings)
	if err != nil {
		logger.Error("Could not initialize services", "error", err)
		os.Exit(1)
	}
	defer stack.Close()

	if err := mcpserver.New(stack.Retrieval, stack.Agent, stack.Traces).Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		logger.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}

// ABOUTME: MCP command starts Model Context Protocol server
// ABOUTME: Exposes road search and roadblock placement to agents via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/roadblock/internal/config"
	"github.com/harper/roadblock/internal/mcp"
	"github.com/harper/roadblock/internal/metrics"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for agents",
		Long: `Start MCP server for agents

Runs roadblock as an MCP (Model Context Protocol) server on stdio.
Agents can locate nodes, walk roads, place roadblocks and report what
happened to them. Roadblocks live in a simulated world for the life of
the server.

Set ROADBLOCK_METRICS_ADDR to also serve Prometheus metrics. Edits to
ROADBLOCK_TIER_FILE are picked up while the server runs.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by the agent host)
  roadblock mcp

  # Configure in the host's config file:
  # {
  #   "mcpServers": {
  #     "roadblock": {
  #       "command": "roadblock",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	// stdout carries the protocol, so logs go to stderr
	a, err := newApp(os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	server := mcpserver.NewMCPServer("Roadblock", versionInfo.Version)
	handlers := mcp.NewHandlers(a.engine, a.assembler, a.tiers, a.cfg.DefaultTier, a.logger)
	mcp.RegisterTools(server, handlers)

	if a.cfg.MetricsAddr != "" {
		srv := metrics.StartServer(a.cfg.MetricsAddr, a.logger)
		defer func() {
			if err := metrics.Shutdown(srv); err != nil {
				a.logger.Warn("metrics shutdown", "error", err)
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.cfg.TierFile != "" {
		watcher, err := config.NewTierWatcher(a.cfg.TierFile, handlers.SetTiers, 0, a.logger)
		if err != nil {
			a.logger.Warn("tier catalog will not reload", "path", a.cfg.TierFile, "error", err)
		} else {
			watcher.Start(ctx)
			defer watcher.Stop()
		}
	}

	a.logger.Info("roadblock MCP server starting on stdio", "network", a.source)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
		handlers.Shutdown()
		a.logger.Info("shutdown complete", "world", a.world.Stats())

	case err := <-serverErr:
		handlers.Shutdown()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}

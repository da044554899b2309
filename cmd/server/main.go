// ABOUTME: Main entry point for the roadblock MCP server with stdio transport
// ABOUTME: Opens the road network, builds the engine and serves tools plus optional metrics
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/harper/roadblock/internal/config"
	"github.com/harper/roadblock/internal/core"
	"github.com/harper/roadblock/internal/logging"
	"github.com/harper/roadblock/internal/mcp"
	"github.com/harper/roadblock/internal/metrics"
	"github.com/harper/roadblock/internal/roadblock"
	"github.com/harper/roadblock/internal/storage"
	"github.com/harper/roadblock/internal/storage/sqlite"
	"github.com/harper/roadblock/internal/world"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.New(os.Stderr, "error").Fatal("invalid configuration", "error", err)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel)

	tiers, err := cfg.Tiers()
	if err != nil {
		logger.Fatal("failed to load tiers", "error", err)
	}

	var oracle core.NodeOracle
	switch {
	case cfg.NetworkFile != "":
		network, err := storage.LoadNetwork(cfg.NetworkFile)
		if err != nil {
			logger.Fatal("failed to load network", "error", err)
		}
		mem, err := storage.NewMemoryOracleFromNetwork(network)
		if err != nil {
			logger.Fatal("invalid network", "error", err)
		}
		oracle = mem
	default:
		path := cfg.NetworkDB
		if path == "" {
			path = storage.DefaultDBPath()
		}
		store, err := sqlite.NewStorageWithPath(path, logger)
		if err != nil {
			logger.Fatal("failed to open network database", "path", path, "error", err)
		}
		defer store.Close()
		oracle = store
	}

	engine := core.NewEngine(oracle, cfg.EngineOptions(), logger)
	assembler := roadblock.NewAssembler(engine, world.New(logger), roadblock.AssemblerOptions{
		Roadblock: cfg.RoadblockOptions(),
		Rand:      cfg.Rand(),
	}, logger)

	server := mcpserver.NewMCPServer("Roadblock", "0.1.0")
	handlers := mcp.NewHandlers(engine, assembler, tiers, cfg.DefaultTier, logger)
	mcp.RegisterTools(server, handlers)
	defer handlers.Shutdown()

	if cfg.TierFile != "" {
		watcher, err := config.NewTierWatcher(cfg.TierFile, handlers.SetTiers, 0, logger)
		if err != nil {
			logger.Warn("tier catalog will not reload", "path", cfg.TierFile, "error", err)
		} else {
			watcher.Start(context.Background())
			defer watcher.Stop()
		}
	}

	if cfg.MetricsAddr != "" {
		srv := metrics.StartServer(cfg.MetricsAddr, logger)
		defer metrics.Shutdown(srv)
	}

	logger.Info("roadblock MCP server starting on stdio")
	if err := mcpserver.ServeStdio(server); err != nil {
		logger.Error("server error", "error", err)
	}
}

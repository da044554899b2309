// ABOUTME: Builds the runtime shared by commands: config, logger, oracle and engine
// ABOUTME: Picks the road network from a YAML file, the SQLite store or the sample
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/harper/roadblock/internal/config"
	"github.com/harper/roadblock/internal/core"
	"github.com/harper/roadblock/internal/logging"
	"github.com/harper/roadblock/internal/roadblock"
	"github.com/harper/roadblock/internal/storage"
	"github.com/harper/roadblock/internal/storage/sqlite"
	"github.com/harper/roadblock/internal/world"
)

// app is everything a command needs to search and place roadblocks
type app struct {
	cfg       *config.Config
	logger    *log.Logger
	source    string
	engine    *core.Engine
	world     *world.World
	assembler *roadblock.Assembler
	tiers     roadblock.Catalog
	closer    io.Closer
}

// logLevel maps the global flags onto the configured level
func logLevel(cfg *config.Config) string {
	switch {
	case verbose:
		return "debug"
	case quiet:
		return "error"
	}
	return cfg.LogLevel
}

// newApp loads configuration and opens the road network
func newApp(stderr io.Writer) (*app, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if networkFile != "" {
		cfg.NetworkFile = networkFile
	}

	logger := logging.New(stderr, logLevel(cfg))

	tiers, err := cfg.Tiers()
	if err != nil {
		return nil, fmt.Errorf("loading tiers: %w", err)
	}

	oracle, source, closer, err := openOracle(cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("road network opened", "source", source)

	engine := core.NewEngine(oracle, cfg.EngineOptions(), logger)
	w := world.New(logger)
	assembler := roadblock.NewAssembler(engine, w, roadblock.AssemblerOptions{
		Roadblock: cfg.RoadblockOptions(),
		Rand:      cfg.Rand(),
	}, logger)

	return &app{
		cfg:       cfg,
		logger:    logger,
		source:    source,
		engine:    engine,
		world:     w,
		assembler: assembler,
		tiers:     tiers,
		closer:    closer,
	}, nil
}

// openOracle resolves the network source. A YAML file wins, then an
// explicit or existing default database, then the built-in sample.
func openOracle(cfg *config.Config, logger *log.Logger) (core.NodeOracle, string, io.Closer, error) {
	if cfg.NetworkFile != "" {
		n, err := storage.LoadNetwork(cfg.NetworkFile)
		if err != nil {
			return nil, "", nil, fmt.Errorf("loading network: %w", err)
		}
		oracle, err := storage.NewMemoryOracleFromNetwork(n)
		if err != nil {
			return nil, "", nil, err
		}
		return oracle, cfg.NetworkFile, nil, nil
	}

	dbPath := cfg.NetworkDB
	if dbPath == "" {
		if _, err := os.Stat(storage.DefaultDBPath()); err == nil {
			dbPath = storage.DefaultDBPath()
		}
	}
	if dbPath != "" {
		store, err := sqlite.NewStorageWithPath(dbPath, logger)
		if err != nil {
			return nil, "", nil, fmt.Errorf("opening network database: %w", err)
		}
		return store, dbPath, store, nil
	}

	oracle, err := storage.NewMemoryOracleFromNetwork(storage.SampleNetwork())
	if err != nil {
		return nil, "", nil, err
	}
	return oracle, "sample", nil, nil
}

// tier resolves a tier name against the catalog, defaulting to the configured tier
func (a *app) tier(name string) (roadblock.Tier, error) {
	if name == "" {
		name = a.cfg.DefaultTier
	}
	return a.tiers.Lookup(name)
}

// Close releases the network store, if any
func (a *app) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

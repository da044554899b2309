// ABOUTME: Centralized configuration for the roadblock CLI, server and benchmarks
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/harper/roadblock/internal/core"
	"github.com/harper/roadblock/internal/roadblock"
	"github.com/harper/roadblock/internal/util"
)

// Config holds all configuration for the roadblock tools
type Config struct {
	// Road network sources; NetworkFile wins when both are set
	NetworkDB   string
	NetworkFile string

	// Search settings
	MatchRadius       float64
	AngularStep       float64
	TraversalStep     float64
	StepGrowth        float64
	MaxFailedAttempts int
	LaneSpacing       float64
	LaneWidth         float64

	// Roadblock settings
	DefaultTier      string
	TierFile         string
	PropReleaseDelay time.Duration
	BlipRemovalDelay time.Duration
	Seed             uint64

	// Ambient settings
	MetricsAddr string
	LogLevel    string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		NetworkDB:         os.Getenv("ROADBLOCK_NETWORK_DB"),
		NetworkFile:       os.Getenv("ROADBLOCK_NETWORK_FILE"),
		MatchRadius:       getEnvFloat("ROADBLOCK_MATCH_RADIUS", core.DefaultMatchRadius),
		AngularStep:       getEnvFloat("ROADBLOCK_ANGULAR_STEP", 20),
		TraversalStep:     getEnvFloat("ROADBLOCK_TRAVERSAL_STEP", 5),
		StepGrowth:        getEnvFloat("ROADBLOCK_STEP_GROWTH", 1.5),
		MaxFailedAttempts: getEnvInt("ROADBLOCK_MAX_FAILED_ATTEMPTS", 5),
		LaneSpacing:       getEnvFloat("ROADBLOCK_LANE_SPACING", core.DefaultLaneSpacing),
		LaneWidth:         getEnvFloat("ROADBLOCK_LANE_WIDTH", core.DefaultLaneWidth),
		DefaultTier:       getEnv("ROADBLOCK_DEFAULT_TIER", "local"),
		TierFile:          os.Getenv("ROADBLOCK_TIER_FILE"),
		PropReleaseDelay:  getEnvDuration("ROADBLOCK_PROP_RELEASE_DELAY", roadblock.DefaultPropReleaseDelay),
		BlipRemovalDelay:  getEnvDuration("ROADBLOCK_BLIP_REMOVAL_DELAY", roadblock.DefaultBlipRemovalDelay),
		Seed:              getEnvUint("ROADBLOCK_SEED", 0),
		MetricsAddr:       os.Getenv("ROADBLOCK_METRICS_ADDR"),
		LogLevel:          getEnv("ROADBLOCK_LOG_LEVEL", "info"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.MatchRadius <= 0 {
		return fmt.Errorf("ROADBLOCK_MATCH_RADIUS must be positive, got %f", c.MatchRadius)
	}
	if c.AngularStep <= 0 || c.AngularStep > 180 {
		return fmt.Errorf("ROADBLOCK_ANGULAR_STEP must be in (0, 180], got %f", c.AngularStep)
	}
	if c.TraversalStep <= 0 {
		return fmt.Errorf("ROADBLOCK_TRAVERSAL_STEP must be positive, got %f", c.TraversalStep)
	}
	if c.StepGrowth <= 1 {
		return fmt.Errorf("ROADBLOCK_STEP_GROWTH must be greater than 1, got %f", c.StepGrowth)
	}
	if c.MaxFailedAttempts < 1 || c.MaxFailedAttempts > 20 {
		return fmt.Errorf("ROADBLOCK_MAX_FAILED_ATTEMPTS must be 1-20, got %d", c.MaxFailedAttempts)
	}
	if c.LaneSpacing < 0 {
		return fmt.Errorf("ROADBLOCK_LANE_SPACING cannot be negative, got %f", c.LaneSpacing)
	}
	if c.LaneWidth <= 0 {
		return fmt.Errorf("ROADBLOCK_LANE_WIDTH must be positive, got %f", c.LaneWidth)
	}
	if c.PropReleaseDelay < 0 || c.BlipRemovalDelay < 0 {
		return fmt.Errorf("roadblock delays cannot be negative")
	}
	return nil
}

// EngineOptions converts the search settings
func (c *Config) EngineOptions() core.EngineOptions {
	opts := core.DefaultEngineOptions()
	opts.Locator.AngularStep = c.AngularStep
	opts.MatchRadius = c.MatchRadius
	opts.Backoff = util.StepBackoff{Base: c.TraversalStep, Factor: c.StepGrowth, MaxAttempts: c.MaxFailedAttempts}
	opts.LaneWidth = c.LaneWidth
	opts.LaneSpacing = c.LaneSpacing
	return opts
}

// RoadblockOptions converts the roadblock timing settings
func (c *Config) RoadblockOptions() roadblock.Options {
	return roadblock.Options{
		PropReleaseDelay: c.PropReleaseDelay,
		BlipRemovalDelay: c.BlipRemovalDelay,
	}
}

// Rand returns the random source for vehicle assignment. A zero seed is
// seeded from the runtime.
func (c *Config) Rand() *rand.Rand {
	if c.Seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(c.Seed, c.Seed))
}

// Tiers returns the tier catalog: the YAML file when configured, else the
// presets only.
func (c *Config) Tiers() (roadblock.Catalog, error) {
	if c.TierFile == "" {
		return roadblock.Catalog{}, nil
	}
	return roadblock.LoadTiers(c.TierFile)
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvUint(key string, defaultVal uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if u, err := strconv.ParseUint(v, 10, 64); err == nil {
			return u
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

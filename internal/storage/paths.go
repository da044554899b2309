// ABOUTME: XDG-compliant default locations for road network data
// ABOUTME: XDG_DATA_HOME overrides the platform default for tests
package storage

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// DefaultDataDir returns ~/.local/share/roadblock or its XDG override
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = xdg.DataHome
	}
	return filepath.Join(dataHome, "roadblock")
}

// DefaultDBPath is the default SQLite node store location
func DefaultDBPath() string {
	return filepath.Join(DefaultDataDir(), "network.db")
}

// DefaultNetworkPath is the default YAML network location
func DefaultNetworkPath() string {
	return filepath.Join(DefaultDataDir(), "network.yaml")
}

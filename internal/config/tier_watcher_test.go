// ABOUTME: Tests for tier catalog hot reload
// ABOUTME: Rewrites a catalog file and waits for the reload callback
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harper/roadblock/internal/roadblock"
)

const rangerCatalog = `
tiers:
  - name: ranger
    level: 2
    vehicle_range: {min: 1, max: %d}
    vehicles: [{model: pranger, length: 5.3, width: 2.1}]
    occupants: {min: 1, max: 1}
    occupant_models: [s_m_y_ranger_01]
`

func writeCatalog(t *testing.T, path string, maxVehicles int) {
	t.Helper()
	data := []byte(fmt.Sprintf(rangerCatalog, maxVehicles))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func startWatcher(t *testing.T, path string) <-chan roadblock.Catalog {
	t.Helper()
	reloads := make(chan roadblock.Catalog, 4)
	w, err := NewTierWatcher(path, func(c roadblock.Catalog) { reloads <- c }, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("NewTierWatcher() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		w.Stop()
	})
	w.Start(ctx)
	return reloads
}

func TestTierWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	writeCatalog(t, path, 1)
	reloads := startWatcher(t, path)

	writeCatalog(t, path, 3)

	// a save can surface as more than one reload; wait for the final content
	timeout := time.After(5 * time.Second)
	for {
		select {
		case catalog := <-reloads:
			ranger, err := catalog.Lookup("ranger")
			if err == nil && ranger.VehicleRange.Max == 3 {
				return
			}
		case <-timeout:
			t.Fatal("no reload with the new catalog")
		}
	}
}

func TestTierWatcher_KeepsCatalogOnBrokenEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	writeCatalog(t, path, 1)
	reloads := startWatcher(t, path)

	if err := os.WriteFile(path, []byte("tiers: {"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case <-reloads:
		t.Fatal("a broken catalog should not be delivered")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestTierWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiers.yaml")
	writeCatalog(t, path, 1)
	reloads := startWatcher(t, path)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	select {
	case <-reloads:
		t.Fatal("unrelated files should not trigger a reload")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestNewTierWatcher_MissingDirectory(t *testing.T) {
	_, err := NewTierWatcher("/nonexistent/dir/tiers.yaml", func(roadblock.Catalog) {}, 0, nil)
	if err == nil {
		t.Error("NewTierWatcher() on a missing directory should fail")
	}
}

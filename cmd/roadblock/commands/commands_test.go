// ABOUTME: End-to-end tests for the search and roadblock commands
// ABOUTME: Runs the root command against the sample network and temp databases

package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/roadblock/internal/models"
	"github.com/harper/roadblock/internal/roadblock"
	"github.com/harper/roadblock/internal/storage"
	"github.com/harper/roadblock/internal/world"
)

// isolate points every data path at a temp dir so the sample network is used
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	for _, key := range []string{
		"ROADBLOCK_NETWORK_DB",
		"ROADBLOCK_NETWORK_FILE",
		"ROADBLOCK_TIER_FILE",
		"ROADBLOCK_DEFAULT_TIER",
		"ROADBLOCK_METRICS_ADDR",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("ROADBLOCK_SEED", "7")
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestLocateCmd_JSON(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "locate", "--x", "0", "--y", "50", "--format", "json")
	if err != nil {
		t.Fatalf("locate error = %v", err)
	}

	var nodes []map[string]any
	if err := json.Unmarshal([]byte(out), &nodes); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(nodes) < 2 {
		t.Errorf("expected several nodes around the avenue, got %d", len(nodes))
	}
}

func TestLocateCmd_NothingFound(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "locate", "--x", "5000", "--y", "5000")
	if err != nil {
		t.Fatalf("locate error = %v", err)
	}
	if !strings.Contains(out, "No nodes found") {
		t.Errorf("expected empty message, got:\n%s", out)
	}
}

func TestLocateCmd_InvalidArgs(t *testing.T) {
	isolate(t)
	if _, err := runCLI(t, "locate", "--radius", "0"); err == nil {
		t.Error("zero radius should fail")
	}
	if _, err := runCLI(t, "locate", "--type", "rail"); err == nil {
		t.Error("unknown node type should fail")
	}
}

func TestTraverseCmd_Table(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "traverse", "--x", "0", "--y", "0", "--distance", "30")
	if err != nil {
		t.Fatalf("traverse error = %v", err)
	}
	if !strings.Contains(out, "POSITION") || !strings.Contains(out, "Walked") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestTraverseCmd_BadBlacklist(t *testing.T) {
	isolate(t)
	if _, err := runCLI(t, "traverse", "--blacklist", "tunnel"); err == nil {
		t.Error("unknown blacklist flag should fail")
	}
	if _, err := runCLI(t, "traverse", "--distance", "-5"); err == nil {
		t.Error("negative distance should fail")
	}
}

func TestLanesCmd_JSON(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "lanes", "--x", "0", "--y", "0", "--distance", "20", "--format", "json")
	if err != nil {
		t.Fatalf("lanes error = %v", err)
	}

	var result struct {
		Road struct {
			Lanes []map[string]any `json:"lanes"`
		} `json:"road"`
		Selected []map[string]any `json:"selected"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(result.Road.Lanes) != 4 {
		t.Errorf("avenue lanes = %d, want 4", len(result.Road.Lanes))
	}
	if len(result.Selected) == 0 || len(result.Selected) > len(result.Road.Lanes) {
		t.Errorf("selected lanes = %d", len(result.Selected))
	}
}

func TestLanesCmd_NoRoad(t *testing.T) {
	isolate(t)
	if _, err := runCLI(t, "lanes", "--x", "5000", "--y", "5000"); err == nil {
		t.Error("expected error when no road is found")
	}
}

func TestBlockCmd_OutcomeHit(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "block", "--x", "0", "--y", "0", "--distance", "30",
		"--tier", "state", "--outcome", "hit", "--format", "json")
	if err != nil {
		t.Fatalf("block error = %v", err)
	}

	var result struct {
		Roadblock roadblock.Summary      `json:"roadblock"`
		History   []roadblock.StateChange `json:"history"`
		World     world.Stats             `json:"world"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Roadblock.Tier != "state" {
		t.Errorf("tier = %q, want state", result.Roadblock.Tier)
	}
	if len(result.Roadblock.Slots) == 0 {
		t.Error("expected at least one slot")
	}
	if result.World.Spawned == 0 {
		t.Error("expected spawned entities")
	}

	var states []roadblock.State
	for _, change := range result.History {
		states = append(states, change.To)
	}
	want := []roadblock.State{
		roadblock.StateActive,
		roadblock.StateHit,
		roadblock.StateDisposing,
		roadblock.StateDisposed,
	}
	if len(states) != len(want) {
		t.Fatalf("states = %v, want %v", states, want)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("states[%d] = %s, want %s", i, states[i], want[i])
		}
	}
}

func TestBlockCmd_Errors(t *testing.T) {
	isolate(t)
	if _, err := runCLI(t, "block", "--outcome", "exploded"); err == nil {
		t.Error("unknown outcome should fail")
	}
	if _, err := runCLI(t, "block", "--tier", "army"); err == nil {
		t.Error("unknown tier should fail")
	}
	if _, err := runCLI(t, "block", "--x", "5000", "--y", "5000"); err == nil {
		t.Error("no road should fail")
	}
}

func TestCloseCmd(t *testing.T) {
	isolate(t)
	out, err := runCLI(t, "close", "--x", "0", "--y", "40")
	if err != nil {
		t.Fatalf("close error = %v", err)
	}
	if !strings.Contains(out, "(closure)") {
		t.Errorf("expected closure tier in output:\n%s", out)
	}
	if !strings.Contains(out, "disposed") {
		t.Errorf("expected state history in output:\n%s", out)
	}
}

func TestTiersCmd_WithCatalog(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "tiers.yaml")
	catalog := `
tiers:
  - name: ranger
    level: 2
    vehicle_range: {min: 1, max: 1}
    vehicles: [{model: pranger, length: 5.3, width: 2.1}]
    occupants: {min: 1, max: 1}
    occupant_models: [s_m_y_ranger_01]
    backup: state
`
	if err := os.WriteFile(path, []byte(catalog), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ROADBLOCK_TIER_FILE", path)

	out, err := runCLI(t, "tiers")
	if err != nil {
		t.Fatalf("tiers error = %v", err)
	}
	for _, name := range []string{"local", "swat", "closure", "ranger"} {
		if !strings.Contains(out, name) {
			t.Errorf("tiers output missing %q:\n%s", name, out)
		}
	}
}

func TestImportExportCmd(t *testing.T) {
	isolate(t)
	dbPath := filepath.Join(t.TempDir(), "city.db")

	out, err := runCLI(t, "import", "--sample", "--db", dbPath)
	if err != nil {
		t.Fatalf("import error = %v", err)
	}
	if !strings.Contains(out, `network "sample"`) {
		t.Errorf("unexpected import output: %s", out)
	}

	exportPath := filepath.Join(t.TempDir(), "out", "city.yaml")
	if _, err := runCLI(t, "export", exportPath, "--db", dbPath); err != nil {
		t.Fatalf("export error = %v", err)
	}

	network, err := storage.LoadNetwork(exportPath)
	if err != nil {
		t.Fatalf("LoadNetwork() error = %v", err)
	}
	if network.Name != "sample" {
		t.Errorf("Name = %q, want sample", network.Name)
	}
	if len(network.Nodes) != len(storage.SampleNetwork().Nodes) {
		t.Errorf("exported %d nodes, want %d", len(network.Nodes), len(storage.SampleNetwork().Nodes))
	}

	geo, err := runCLI(t, "export", "--geojson", "--db", dbPath)
	if err != nil {
		t.Fatalf("geojson export error = %v", err)
	}
	if !strings.Contains(geo, `"FeatureCollection"`) {
		t.Errorf("expected a FeatureCollection, got %.80s", geo)
	}

	// the imported database now backs the search commands
	t.Setenv("ROADBLOCK_NETWORK_DB", dbPath)
	out, err = runCLI(t, "locate", "--x", "0", "--y", "50", "--format", "json")
	if err != nil {
		t.Fatalf("locate error = %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(out), "[") {
		t.Errorf("expected a JSON list, got %s", out)
	}
}

func TestImportCmd_Errors(t *testing.T) {
	isolate(t)
	dbPath := filepath.Join(t.TempDir(), "city.db")
	if _, err := runCLI(t, "import", "--db", dbPath); err == nil {
		t.Error("import without a source should fail")
	}
	if _, err := runCLI(t, "import", "a.yaml", "--sample", "--db", dbPath); err == nil {
		t.Error("import with both sources should fail")
	}
	if _, err := runCLI(t, "import", filepath.Join(t.TempDir(), "missing.yaml"), "--db", dbPath); err == nil {
		t.Error("import of a missing file should fail")
	}
}

func TestNetworkFlag_UsesFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "tiny.yaml")
	tiny := storage.NewBuilder().Straight(models.Vector3{}, 0, 3, 5, 1, 1, models.FlagNone).Network("tiny")
	if err := storage.SaveNetwork(path, tiny); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "--network", path, "locate", "--x", "0", "--y", "5", "--format", "json")
	if err != nil {
		t.Fatalf("locate error = %v", err)
	}
	var nodes []map[string]any
	if err := json.Unmarshal([]byte(out), &nodes); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(nodes) != 3 {
		t.Errorf("nodes = %d, want the 3 nodes of the file", len(nodes))
	}
}

// ABOUTME: CLI commands to move road networks between YAML files and SQLite
// ABOUTME: import loads a YAML network (or the sample) into the database, export reads it back
package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harper/roadblock/internal/config"
	"github.com/harper/roadblock/internal/logging"
	"github.com/harper/roadblock/internal/storage"
	"github.com/harper/roadblock/internal/storage/sqlite"
)

var (
	importSample  bool
	networkDB     string
	exportGeoJSON bool
)

// NewImportCmd creates the import command
func NewImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import a YAML road network into the database",
		Long: `Replace the road network stored in the SQLite database with the
nodes of a YAML network file. --sample imports the built-in sample.

The database is ROADBLOCK_NETWORK_DB, or network.db under the XDG data
directory.

Examples:
  roadblock import city.yaml
  roadblock import --sample
  roadblock import city.yaml --db ./city.db`,
		Args: cobra.MaximumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolVar(&importSample, "sample", false, "Import the built-in sample network")
	cmd.Flags().StringVar(&networkDB, "db", "", "Database path (overrides ROADBLOCK_NETWORK_DB)")

	return cmd
}

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Export the database road network as YAML",
		Long: `Write the road network stored in the SQLite database as YAML, to a
file or to stdout. --geojson writes a GeoJSON FeatureCollection of the
nodes instead, for viewing in map tools.

Examples:
  roadblock export
  roadblock export backup.yaml
  roadblock export --geojson nodes.geojson`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringVar(&networkDB, "db", "", "Database path (overrides ROADBLOCK_NETWORK_DB)")
	cmd.Flags().BoolVar(&exportGeoJSON, "geojson", false, "Write GeoJSON instead of YAML")

	return cmd
}

// openStore opens the network database named by --db, the config or the default path
func openStore(cmd *cobra.Command) (*sqlite.Storage, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	path := networkDB
	if path == "" {
		path = cfg.NetworkDB
	}
	if path == "" {
		path = storage.DefaultDBPath()
	}

	store, err := sqlite.NewStorageWithPath(path, logging.New(cmd.ErrOrStderr(), logLevel(cfg)))
	if err != nil {
		return nil, fmt.Errorf("opening network database: %w", err)
	}
	return store, nil
}

func runImport(cmd *cobra.Command, args []string) error {
	var network *storage.Network
	switch {
	case importSample && len(args) > 0:
		return fmt.Errorf("pass a file or --sample, not both")
	case importSample:
		network = storage.SampleNetwork()
	case len(args) == 1:
		n, err := storage.LoadNetwork(args[0])
		if err != nil {
			return err
		}
		network = n
	default:
		return fmt.Errorf("a network file or --sample is required")
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Import(network)
	if err != nil {
		return err
	}

	if !quiet {
		b := network.Bounds()
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d node(s) from network %q\n", count, network.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "Bounds: (%.1f, %.1f) to (%.1f, %.1f)\n", b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y())
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	network, err := store.Export()
	if err != nil {
		return err
	}

	if exportGeoJSON {
		data, err := network.GeoJSON()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
			return nil
		}
		if err := os.WriteFile(args[0], data, 0644); err != nil {
			return fmt.Errorf("writing geojson: %w", err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d node(s) to %s\n", len(network.Nodes), args[0])
		}
		return nil
	}

	if len(args) == 1 {
		if err := storage.SaveNetwork(args[0], network); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d node(s) to %s\n", len(network.Nodes), args[0])
		}
		return nil
	}

	if wantJSON() {
		return writeJSON(cmd.OutOrStdout(), network)
	}
	data, err := yaml.Marshal(network)
	if err != nil {
		return fmt.Errorf("marshaling network: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

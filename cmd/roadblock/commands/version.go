// ABOUTME: Version command reporting the build and the node database it would use
// ABOUTME: The database is only inspected when it already exists on disk
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/harper/roadblock/internal/logging"
	"github.com/harper/roadblock/internal/storage"
	"github.com/harper/roadblock/internal/storage/sqlite"
)

var versionInfo = VersionInfo{
	Version: "dev",
	Commit:  "none",
	Date:    "unknown",
}

// VersionInfo contains build information
type VersionInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// SetVersion sets the version information (called from main)
func SetVersion(version, commit, date string) {
	versionInfo = VersionInfo{Version: version, Commit: commit, Date: date}
}

type versionOutput struct {
	VersionInfo
	SchemaVersion int          `json:"schema_version"`
	Database      *sqlite.Info `json:"database,omitempty"`
}

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Display the build version, commit and date, the node database schema
version this build writes, and a summary of the existing network database
(ROADBLOCK_NETWORK_DB or the default data path) if there is one.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := versionOutput{VersionInfo: versionInfo, SchemaVersion: sqlite.SchemaVersion}
			info, err := existingDatabase()
			if err != nil {
				return err
			}
			out.Database = info

			if wantJSON() {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			printVersion(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// existingDatabase summarizes the network database without creating one
func existingDatabase() (*sqlite.Info, error) {
	_ = godotenv.Load()

	path := os.Getenv("ROADBLOCK_NETWORK_DB")
	if path == "" {
		path = storage.DefaultDBPath()
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	store, err := sqlite.NewStorageWithPath(path, logging.Discard())
	if err != nil {
		return nil, fmt.Errorf("opening network database: %w", err)
	}
	defer func() { _ = store.Close() }()

	info, err := store.Info()
	if err != nil {
		return nil, fmt.Errorf("reading network database: %w", err)
	}
	return &info, nil
}

func printVersion(w io.Writer, out versionOutput) {
	fmt.Fprintf(w, "Roadblock %s\n", out.Version)
	fmt.Fprintf(w, "Commit: %s\n", out.Commit)
	fmt.Fprintf(w, "Built:  %s\n", out.Date)
	fmt.Fprintf(w, "Schema: v%d\n", out.SchemaVersion)
	if out.Database == nil {
		fmt.Fprintln(w, "Network DB: none")
		return
	}
	name := out.Database.Network
	if name == "" {
		name = "unnamed"
	}
	fmt.Fprintf(w, "Network DB: %s (%q, %d node(s), schema v%d)\n",
		out.Database.Path, name, out.Database.Nodes, out.Database.SchemaVersion)
}

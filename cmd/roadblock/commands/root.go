// ABOUTME: Root command and global flags for the roadblock CLI
// ABOUTME: Wires every subcommand and enforces verbose/quiet exclusivity
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	networkFile  string
)

const banner = `
██████╗  ██████╗  █████╗ ██████╗ ██████╗ ██╗      ██████╗  ██████╗██╗  ██╗
██╔══██╗██╔═══██╗██╔══██╗██╔══██╗██╔══██╗██║     ██╔═══██╗██╔════╝██║ ██╔╝
██████╔╝██║   ██║███████║██║  ██║██████╔╝██║     ██║   ██║██║     █████╔╝
██╔══██╗██║   ██║██╔══██║██║  ██║██╔══██╗██║     ██║   ██║██║     ██╔═██╗
██║  ██║╚██████╔╝██║  ██║██████╔╝██████╔╝███████╗╚██████╔╝╚██████╗██║  ██╗
╚═╝  ╚═╝ ╚═════╝ ╚═╝  ╚═╝╚═════╝ ╚═════╝ ╚══════╝ ╚═════╝  ╚═════╝╚═╝  ╚═╝`

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roadblock",
		Short: "Road network search and roadblock placement",
		Long: banner + `

Search a road network for nodes, walk roads along a heading, and
place roadblocks across the lanes ahead of a pursuit.

The network comes from ROADBLOCK_NETWORK_FILE (YAML), the SQLite
database at ROADBLOCK_NETWORK_DB, or the built-in sample network.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "auto", "table", "json":
			default:
				return fmt.Errorf("unknown format %q (want auto, table or json)", outputFormat)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only print results and errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, table or json")
	cmd.PersistentFlags().StringVar(&networkFile, "network", "", "Road network YAML file (overrides ROADBLOCK_NETWORK_FILE)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewLocateCmd(),
		NewTraverseCmd(),
		NewLanesCmd(),
		NewBlockCmd(),
		NewCloseCmd(),
		NewTiersCmd(),
		NewImportCmd(),
		NewExportCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

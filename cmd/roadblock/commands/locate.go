// ABOUTME: CLI command to list road nodes around a point
// ABOUTME: Runs the spiral locator and prints nodes nearest first
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/roadblock/internal/core"
	"github.com/harper/roadblock/internal/models"
)

var (
	locatePoint  pointFlags
	locateRadius float64
	locateType   string
)

// NewLocateCmd creates the locate command
func NewLocateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "locate",
		Short: "List road nodes around a point",
		Long: `List the road nodes found by a spiral search around a point.

Nodes are sorted by distance from the point. The node type restricts
the search to a road classification.

Examples:
  roadblock locate --x 0 --y 50
  roadblock locate --x 0 --y 100 --radius 25 --type main-junctions
  roadblock locate --x 0 --y 50 --format json`,
		RunE: runLocate,
	}

	locatePoint.bind(cmd)
	cmd.Flags().Float64Var(&locateRadius, "radius", core.DefaultMatchRadius, "Search radius")
	cmd.Flags().StringVar(&locateType, "type", string(models.AllRoadWithJunctions), "Node type: all, road, road-junctions, main, main-junctions")

	return cmd
}

func runLocate(cmd *cobra.Command, args []string) error {
	if err := validatePositive(locateRadius, "radius"); err != nil {
		return err
	}
	nodeType, err := models.ParseNodeType(locateType)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	center := locatePoint.vector()
	nodes := a.engine.Locate(center, nodeType, locateRadius)

	if wantJSON() {
		return writeJSON(cmd.OutOrStdout(), nodes)
	}

	if len(nodes) == 0 {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No nodes found within %g of %s\n", locateRadius, formatPoint(center))
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "POSITION\tHEADING\tLANES\tDIST\tFLAGS\n")
	fmt.Fprintf(w, "--------\t-------\t-----\t----\t-----\n")
	for _, n := range nodes {
		fmt.Fprintf(w, "%s\t%.1f\t%d/%d\t%.1f\t%s\n",
			formatPoint(n.Position),
			n.Heading,
			n.LanesSameDirection,
			n.LanesOppositeDirection,
			n.Position.Distance(center),
			formatFlags(n.Flags))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d node(s) from %s\n", len(nodes), a.source)
	}
	return nil
}

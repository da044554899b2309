// ABOUTME: CLI command to walk a road along a heading
// ABOUTME: Prints the accepted nodes and how the walk ended
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/roadblock/internal/core"
	"github.com/harper/roadblock/internal/models"
)

var (
	traversePoint     pointFlags
	traverseHeading   float64
	traverseDistance  float64
	traverseType      string
	traverseBlacklist []string
	traverseStop      bool
)

// NewTraverseCmd creates the traverse command
func NewTraverseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traverse",
		Short: "Walk the road ahead of a point",
		Long: `Walk the road network from a point along a heading.

The walk stops once the distance is covered or too many steps fail to
find a node. It never ends on a junction unless --stop-at-junction is
set.

Examples:
  roadblock traverse --x 0 --y 0 --heading 0 --distance 60
  roadblock traverse --x 0 --y 0 --distance 150 --stop-at-junction
  roadblock traverse --x 0 --y 0 --distance 80 --blacklist gravel,alley`,
		RunE: runTraverse,
	}

	traversePoint.bind(cmd)
	addWalkFlags(cmd, &traverseHeading, &traverseDistance, &traverseType, &traverseBlacklist)
	cmd.Flags().BoolVar(&traverseStop, "stop-at-junction", false, "Stop at the first junction reached")

	return cmd
}

// addWalkFlags binds the flags shared by commands that walk the road
func addWalkFlags(cmd *cobra.Command, heading, distance *float64, nodeType *string, blacklist *[]string) {
	cmd.Flags().Float64Var(heading, "heading", 0, "Heading in degrees (0 = +Y, counter-clockwise)")
	cmd.Flags().Float64Var(distance, "distance", 50, "Distance to walk")
	cmd.Flags().StringVar(nodeType, "type", string(models.AllRoadWithJunctions), "Node type: all, road, road-junctions, main, main-junctions")
	cmd.Flags().StringSliceVar(blacklist, "blacklist", nil, "Node flags to skip: junction, alley, gravel, backroad, water, main")
}

// walkRequest validates the shared walk flags
func walkRequest(start models.Vector3, heading, distance float64, nodeType string, blacklist []string) (core.TraverseRequest, error) {
	if distance < 0 {
		return core.TraverseRequest{}, fmt.Errorf("distance cannot be negative, got %g", distance)
	}
	nt, err := models.ParseNodeType(nodeType)
	if err != nil {
		return core.TraverseRequest{}, err
	}
	flags, err := parseBlacklist(blacklist)
	if err != nil {
		return core.TraverseRequest{}, err
	}
	return core.TraverseRequest{
		Start:     start,
		Heading:   heading,
		Distance:  distance,
		NodeType:  nt,
		Blacklist: flags,
	}, nil
}

func runTraverse(cmd *cobra.Command, args []string) error {
	req, err := walkRequest(traversePoint.vector(), traverseHeading, traverseDistance, traverseType, traverseBlacklist)
	if err != nil {
		return err
	}
	req.StopAtFirstJunction = traverseStop

	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	path := a.engine.Traverse(req)

	if wantJSON() {
		return writeJSON(cmd.OutOrStdout(), path)
	}

	if path.Empty() {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No road found from %s\n", formatPoint(req.Start))
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "#\tPOSITION\tHEADING\tLANES\tFLAGS\n")
	fmt.Fprintf(w, "-\t--------\t-------\t-----\t-----\n")
	for i, n := range path.Nodes {
		fmt.Fprintf(w, "%d\t%s\t%.1f\t%d/%d\t%s\n",
			i,
			formatPoint(n.Position),
			n.Heading,
			n.LanesSameDirection,
			n.LanesOppositeDirection,
			formatFlags(n.Flags))
	}
	w.Flush()

	if !quiet {
		status := "completed"
		if path.Aborted {
			status = "aborted"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nWalked %.1f over %d node(s), %s after %d failed step(s)\n",
			path.Distance, path.Len(), status, path.FailedAttempts)
	}
	return nil
}

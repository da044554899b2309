// ABOUTME: CLI command to resolve the road at the end of a walk
// ABOUTME: Prints the road's lanes and the spaced subset a roadblock would use
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/roadblock/internal/models"
)

var (
	lanesPoint     pointFlags
	lanesHeading   float64
	lanesDistance  float64
	lanesType      string
	lanesBlacklist []string
)

// NewLanesCmd creates the lanes command
func NewLanesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lanes",
		Short: "Show the lanes of the road ahead",
		Long: `Walk the road ahead and resolve the final node into a road or
intersection with its lanes. Lanes marked "*" survive lane spacing
and would carry a roadblock slot.

Examples:
  roadblock lanes --x 0 --y 0 --distance 40
  roadblock lanes --x 0 --y 0 --distance 0 --format json`,
		RunE: runLanes,
	}

	lanesPoint.bind(cmd)
	addWalkFlags(cmd, &lanesHeading, &lanesDistance, &lanesType, &lanesBlacklist)

	return cmd
}

type lanesOutput struct {
	Road     models.RoadSegment `json:"road"`
	Selected []models.Lane      `json:"selected"`
	Width    float64            `json:"width"`
}

func runLanes(cmd *cobra.Command, args []string) error {
	req, err := walkRequest(lanesPoint.vector(), lanesHeading, lanesDistance, lanesType, lanesBlacklist)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	road, _, ok := a.engine.FindRoad(req)
	if !ok {
		return fmt.Errorf("no road found from %s", formatPoint(req.Start))
	}
	selected := a.engine.SelectLanes(road.Lanes)

	if wantJSON() {
		return writeJSON(cmd.OutOrStdout(), lanesOutput{Road: road, Selected: selected, Width: road.Width()})
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s at %s heading %.1f, width %.1f\n\n",
			road.Kind, truncate(road.ID, 12), formatPoint(road.Node.Position), road.Node.Heading, road.Width())
	}

	chosen := make(map[int]bool, len(selected))
	for _, l := range selected {
		chosen[l.Index] = true
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "LANE\tPOSITION\tHEADING\tDIRECTION\tSLOT\n")
	fmt.Fprintf(w, "----\t--------\t-------\t---------\t----\n")
	for _, l := range road.Lanes {
		direction := "same"
		if l.Opposite {
			direction = "opposite"
		}
		mark := ""
		if chosen[l.Index] {
			mark = "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%.1f\t%s\t%s\n", l.Index, formatPoint(l.Position), l.Heading, direction, mark)
	}
	w.Flush()
	return nil
}

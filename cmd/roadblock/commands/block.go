// ABOUTME: CLI commands to place a roadblock or close a road in the simulated world
// ABOUTME: Prints the slot layout, entity counts and the state history
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/roadblock/internal/roadblock"
	"github.com/harper/roadblock/internal/world"
)

var (
	blockPoint     pointFlags
	blockHeading   float64
	blockDistance  float64
	blockType      string
	blockBlacklist []string
	blockTier      string
	blockOutcome   string

	closePoint   pointFlags
	closeHeading float64
)

// NewBlockCmd creates the block command
func NewBlockCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Place a roadblock on the road ahead",
		Long: `Walk the road ahead, lay slots across its lanes, resolve vehicle
clipping and spawn the roadblock into a simulated world.

--outcome replays what happens next: "bypassed" or "hit". The roadblock
is disposed before the command exits.

Examples:
  roadblock block --x 0 --y 0 --distance 60
  roadblock block --x 0 --y 0 --distance 60 --tier swat
  roadblock block --x 0 --y 0 --distance 60 --outcome hit --format json`,
		RunE: runBlock,
	}

	blockPoint.bind(cmd)
	addWalkFlags(cmd, &blockHeading, &blockDistance, &blockType, &blockBlacklist)
	cmd.Flags().StringVar(&blockTier, "tier", "", "Tier name (defaults to ROADBLOCK_DEFAULT_TIER)")
	cmd.Flags().StringVar(&blockOutcome, "outcome", "", "Replay an outcome: bypassed or hit")

	return cmd
}

// NewCloseCmd creates the close command
func NewCloseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "close",
		Short: "Close the road at a point",
		Long: `Close the road under a point with cones and flares, without police
units. The nearest non-junction node matching the heading is used.

Examples:
  roadblock close --x 0 --y 40 --heading 0`,
		RunE: runClose,
	}

	closePoint.bind(cmd)
	cmd.Flags().Float64Var(&closeHeading, "heading", 0, "Heading in degrees (0 = +Y, counter-clockwise)")

	return cmd
}

type blockOutput struct {
	Roadblock roadblock.Summary      `json:"roadblock"`
	History   []roadblock.StateChange `json:"history"`
	World     world.Stats             `json:"world"`
}

func runBlock(cmd *cobra.Command, args []string) error {
	switch blockOutcome {
	case "", "bypassed", "hit":
	default:
		return fmt.Errorf("unknown outcome %q (want bypassed or hit)", blockOutcome)
	}
	walk, err := walkRequest(blockPoint.vector(), blockHeading, blockDistance, blockType, blockBlacklist)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	tier, err := a.tier(blockTier)
	if err != nil {
		return err
	}

	rb, err := a.assembler.Assemble(roadblock.Request{
		Position:  walk.Start,
		Heading:   walk.Heading,
		Distance:  walk.Distance,
		Tier:      tier,
		NodeType:  walk.NodeType,
		Blacklist: walk.Blacklist,
	})
	if err != nil {
		return err
	}

	return spawnAndReport(cmd, a, rb, blockOutcome)
}

func runClose(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	rb, err := a.assembler.CloseRoad(closePoint.vector(), closeHeading)
	if err != nil {
		return err
	}
	return spawnAndReport(cmd, a, rb, "")
}

// spawnAndReport spawns rb, replays the outcome, prints the layout and
// disposes the roadblock
func spawnAndReport(cmd *cobra.Command, a *app, rb *roadblock.Roadblock, outcome string) error {
	spawned := rb.Spawn()
	summary := rb.Summary()
	stats := a.world.Stats()

	if spawned {
		switch outcome {
		case "bypassed":
			rb.MarkBypassed()
		case "hit":
			rb.MarkHit()
		}
	}
	rb.Dispose()

	out := blockOutput{Roadblock: summary, History: rb.History(), World: stats}
	if wantJSON() {
		if err := writeJSON(cmd.OutOrStdout(), out); err != nil {
			return err
		}
	} else {
		printBlock(cmd, out)
	}

	if !spawned {
		return fmt.Errorf("roadblock %s failed to spawn", rb.ID())
	}
	return nil
}

func printBlock(cmd *cobra.Command, out blockOutput) {
	s := out.Roadblock
	fmt.Fprintf(cmd.OutOrStdout(), "Roadblock %s (%s) on %s at %s heading %.1f\n",
		truncate(s.ID, 12), s.Tier, s.Road, formatPoint(s.Position), s.Heading)
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Path: %d node(s), %.1f walked\n\n", s.PathNodes, s.PathDistance)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SLOT\tLANE\tVEHICLE\tPOSITION\tSHIFT\tPEDS\tBARRIERS\tLIGHTS\n")
	fmt.Fprintf(w, "----\t----\t-------\t--------\t-----\t----\t--------\t------\n")
	for _, slot := range s.Slots {
		vehicle := slot.Vehicle
		if vehicle == "" {
			vehicle = "-"
		}
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%.2f\t%d\t%d\t%d\n",
			slot.Index, slot.Lane, vehicle, formatPoint(slot.VehiclePosition),
			slot.Shift, slot.Occupants, slot.Barriers, slot.Lights)
	}
	w.Flush()

	if quiet {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nEntities spawned: %d\n", out.World.Spawned)
	fmt.Fprintf(cmd.OutOrStdout(), "States:")
	for i, change := range out.History {
		if i == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), " %s", change.From)
		}
		fmt.Fprintf(cmd.OutOrStdout(), " -> %s", change.To)
	}
	fmt.Fprintln(cmd.OutOrStdout())
}

// ABOUTME: CLI command to list roadblock tiers
// ABOUTME: Shows presets merged with the tier catalog file
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/roadblock/internal/roadblock"
)

// NewTiersCmd creates the tiers command
func NewTiersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tiers",
		Short: "List roadblock tiers",
		Long: `List the built-in tiers and any tiers loaded from ROADBLOCK_TIER_FILE.

Examples:
  roadblock tiers
  roadblock tiers --format json`,
		RunE: runTiers,
	}

	return cmd
}

func runTiers(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	tiers := a.tiers.All()
	if wantJSON() {
		return writeJSON(cmd.OutOrStdout(), tiers)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tLEVEL\tSLOTS\tVEHICLES\tBARRIER\tBACKUP\n")
	fmt.Fprintf(w, "----\t-----\t-----\t--------\t-------\t------\n")
	for _, t := range tiers {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
			t.Name, t.Level, slotLimit(t), vehicleRange(t), orDash(t.Barrier.Model), t.Backup)
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d tier(s), default %q\n", len(tiers), a.cfg.DefaultTier)
	}
	return nil
}

func slotLimit(t roadblock.Tier) string {
	if t.MaxSlots == 0 {
		return "all"
	}
	return fmt.Sprintf("%d", t.MaxSlots)
}

func vehicleRange(t roadblock.Tier) string {
	if !t.HasVehicles() {
		return "-"
	}
	return fmt.Sprintf("%d-%d", t.VehicleRange.Min, t.VehicleRange.Max)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

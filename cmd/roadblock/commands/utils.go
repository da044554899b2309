// ABOUTME: Shared helpers for CLI commands
// ABOUTME: Position flags, output format selection and small formatting helpers
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/roadblock/internal/models"
)

// pointFlags binds --x, --y and --z to a position
type pointFlags struct {
	x, y, z float64
}

func (p *pointFlags) bind(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&p.x, "x", 0, "X coordinate")
	cmd.Flags().Float64Var(&p.y, "y", 0, "Y coordinate")
	cmd.Flags().Float64Var(&p.z, "z", 0, "Z coordinate")
}

func (p *pointFlags) vector() models.Vector3 {
	return models.Vector3{X: p.x, Y: p.y, Z: p.z}
}

// wantJSON reports whether results should be printed as JSON
func wantJSON() bool {
	return outputFormat == "json"
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(w, "%s\n", data)
	return nil
}

// parseBlacklist turns flag names into a flag set
func parseBlacklist(names []string) (models.NodeFlags, error) {
	var cleaned []string
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if part = strings.TrimSpace(part); part != "" {
				cleaned = append(cleaned, part)
			}
		}
	}
	return models.ParseNodeFlags(cleaned...)
}

// formatPoint prints a vector with one decimal
func formatPoint(v models.Vector3) string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f)", v.X, v.Y, v.Z)
}

// formatFlags prints a flag set or a dash when empty
func formatFlags(f models.NodeFlags) string {
	names := f.Names()
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositive returns error if v is not positive
func validatePositive(v float64, name string) error {
	if v <= 0 {
		return fmt.Errorf("%s must be positive, got %g", name, v)
	}
	return nil
}

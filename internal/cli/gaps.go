package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhuels/gridpack/pkg/dashboard"
	"github.com/mhuels/gridpack/pkg/grid"
)

// gapsCommand creates the gaps command for inspecting free grid space.
func (c *CLI) gapsCommand() *cobra.Command {
	var (
		row int
		fit string
	)

	cmd := &cobra.Command{
		Use:   "gaps [dashboard.json]",
		Short: "Show free grid space row by row (debug tool)",
		Long: `Show the free column spans of every occupied row.

Rows are scanned from 0 to the layout's bottom edge. Pass --row to
inspect a single row, or --fit WxH to ask where a widget of that size
would land without modifying the document.`,
		Example: `  gridpack gaps ops.json
  gridpack gaps ops.json --row 3
  gridpack gaps ops.json --fit 4x2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := dashboard.ReadDashboardFile(args[0])
			if err != nil {
				return fmt.Errorf("load dashboard %s: %w", args[0], err)
			}
			if err := d.Validate(); err != nil {
				return err
			}

			g := d.Grid()
			items := d.Items()

			if fit != "" {
				w, h, err := parseSize(fit)
				if err != nil {
					return err
				}
				item, err := g.Place(grid.Request{ID: "probe", W: w, H: h}, items)
				if err != nil {
					return fmt.Errorf("fit %s: %w", fit, err)
				}
				printSuccess("A %dx%d widget lands at (%d,%d)", w, h, item.X, item.Y)
				return nil
			}

			if row >= 0 {
				printGapRow(g, row, items)
				return nil
			}

			bottom := grid.MaxBottom(items)
			if bottom == 0 {
				printInfo("Grid is empty: all %d columns free", g.Cols())
				return nil
			}
			for y := 0; y < bottom; y++ {
				printGapRow(g, y, items)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&row, "row", -1, "inspect a single row")
	cmd.Flags().StringVar(&fit, "fit", "", "dry-run a WxH widget and report where it lands")

	return cmd
}

// printGapRow prints one row's free column spans, half-open.
func printGapRow(g grid.Grid, y int, items []grid.Item) {
	gaps := g.FindGaps(y, items)
	if len(gaps) == 0 {
		printKeyValue(fmt.Sprintf("row %d", y), StyleDim.Render("full"))
		return
	}
	parts := make([]string, len(gaps))
	free := 0
	for i, gap := range gaps {
		parts[i] = fmt.Sprintf("[%d-%d)", gap.Start, gap.End())
		free += gap.Length
	}
	printKeyValue(fmt.Sprintf("row %d", y), fmt.Sprintf("%s (%d free)", strings.Join(parts, " "), free))
}

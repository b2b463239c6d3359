package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mhuels/gridpack/pkg/dashboard"
	"github.com/mhuels/gridpack/pkg/engine"
)

// reflowCommand creates the reflow command for recomputing widget positions.
func (c *CLI) reflowCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		cols    int
	)

	cmd := &cobra.Command{
		Use:   "reflow [dashboard.json]",
		Short: "Recompute every widget position from scratch",
		Long: `Recompute every widget position in a dashboard document.

Widgets are replayed in document order through the packing rules, so
the result is deterministic for a given widget list. Pass --cols to
retarget the document to a different column count (responsive reflow).

Results are cached locally for faster subsequent runs.`,
		Example: `  gridpack reflow ops.json
  gridpack reflow ops.json --cols 6 -o ops-narrow.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runReflow(cmd.Context(), args[0], output, cols, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&cols, "cols", 0, "retarget to this column count (0 keeps the document's)")

	return cmd
}

// runReflow loads the document, repacks it, and writes it back.
func (c *CLI) runReflow(ctx context.Context, input, output string, cols int, noCache bool) error {
	d, err := dashboard.ReadDashboardFile(input)
	if err != nil {
		return fmt.Errorf("load dashboard %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := engine.Options{Cols: cols, Logger: c.Logger}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Packing %d widgets...", len(d.Widgets)))
	spinner.Start()

	res, err := runner.Reflow(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Reflow failed")
		return fmt.Errorf("reflow: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = input
	}

	if err := dashboard.WriteDashboardFile(res.Dashboard, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Reflow complete")
	printFile(outputPath)
	printStats(res.Stats.WidgetCount, res.Stats.Rows, res.CacheInfo.LayoutHit)
	printNewline()
	printNextStep("Render", "gridpack preview "+outputPath)

	return nil
}

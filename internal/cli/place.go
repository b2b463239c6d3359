package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhuels/gridpack/pkg/dashboard"
	"github.com/mhuels/gridpack/pkg/engine"
)

// placeCommand creates the place command for adding widgets to a document.
func (c *CLI) placeCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "place [file] [widget-spec...]",
		Short: "Place new widgets into the first free gaps",
		Long: `Place new widgets into a dashboard document.

Each widget drops into the first gap that fits, scanning rows top to
bottom and columns left to right. Existing widgets never move. The
spec grammar is TITLE:WxH[:TYPE][:full]; widgets marked full span the
whole row and open a fresh band below everything already placed.`,
		Example: `  gridpack place ops.json CPU:6x3:line
  gridpack place ops.json "Error Rate:4x2" Latency:4x2 Orders:12x4:table:full`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			specs := make([]dashboard.Widget, 0, len(args)-1)
			for _, arg := range args[1:] {
				w, err := parseWidgetSpec(arg)
				if err != nil {
					return err
				}
				specs = append(specs, w)
			}

			d, err := dashboard.ReadDashboardFile(path)
			if err != nil {
				return fmt.Errorf("load dashboard %s: %w", path, err)
			}

			// Placement never consults the cache.
			runner, err := c.newRunner(true)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			var last *engine.Result
			for _, w := range specs {
				res, err := runner.PlaceWidget(cmd.Context(), d, w, engine.Options{})
				if err != nil {
					return err
				}
				d = res.Dashboard
				last = res

				placed := d.Widgets[len(d.Widgets)-1]
				printSuccess("Placed %q at (%d,%d) %dx%d",
					placed.Title, placed.X, placed.Y, placed.W, placed.H)
			}

			out := output
			if out == "" {
				out = path
			}
			if err := dashboard.WriteDashboardFile(d, out); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			printFile(out)
			printStats(last.Stats.WidgetCount, last.Stats.Rows, false)
			printNewline()
			printNextStep("Preview the layout", "gridpack preview "+out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")

	return cmd
}

// parseWidgetSpec parses the TITLE:WxH[:TYPE][:full] widget grammar.
// Position fields stay zero; the placement engine assigns them.
func parseWidgetSpec(s string) (dashboard.Widget, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return dashboard.Widget{}, fmt.Errorf("invalid widget spec %q: want TITLE:WxH[:TYPE][:full]", s)
	}

	title := strings.TrimSpace(parts[0])
	if title == "" {
		return dashboard.Widget{}, fmt.Errorf("invalid widget spec %q: empty title", s)
	}
	w, h, err := parseSize(parts[1])
	if err != nil {
		return dashboard.Widget{}, fmt.Errorf("invalid widget spec %q: %w", s, err)
	}

	widget := dashboard.Widget{Title: title, W: w, H: h}
	for _, part := range parts[2:] {
		p := strings.TrimSpace(part)
		switch {
		case p == "full":
			widget.Span = dashboard.SpanFull
		case p == "":
			return dashboard.Widget{}, fmt.Errorf("invalid widget spec %q: empty segment", s)
		case widget.Type != "":
			return dashboard.Widget{}, fmt.Errorf("invalid widget spec %q: multiple types", s)
		default:
			widget.Type = p
		}
	}
	return widget, nil
}

// parseSize parses a WxH size like "6x3". Only the syntax is checked
// here; dimension limits are the layout engine's call.
func parseSize(s string) (w, h int, err error) {
	a, b, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("size %q must be WxH", s)
	}
	w, err = strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid width in %q", s)
	}
	h, err = strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid height in %q", s)
	}
	return w, h, nil
}

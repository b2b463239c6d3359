package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhuels/gridpack/pkg/dashboard"
	"github.com/mhuels/gridpack/pkg/engine"
)

// removeCommand creates the remove command for deleting widgets.
func (c *CLI) removeCommand() *cobra.Command {
	var (
		output        string
		keepPositions bool
		noCache       bool
	)

	cmd := &cobra.Command{
		Use:   "remove [file] [widget]",
		Short: "Remove a widget and close the gap",
		Long: `Remove a widget from a dashboard document.

The widget is matched by ID, by unique ID prefix, or by exact title.
Remaining widgets are repacked from the top so the freed cells are
reclaimed; pass --keep-positions to leave them where they are.`,
		Example: `  gridpack remove ops.json "CPU"
  gridpack remove ops.json 4fa2 --keep-positions`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			d, err := dashboard.ReadDashboardFile(path)
			if err != nil {
				return fmt.Errorf("load dashboard %s: %w", path, err)
			}

			w, err := findWidget(d, args[1])
			if err != nil {
				return err
			}
			d.RemoveWidget(w.ID)

			rows := 0
			cached := false
			if !keepPositions && len(d.Widgets) > 0 {
				runner, err := c.newRunner(noCache)
				if err != nil {
					return fmt.Errorf("initialize runner: %w", err)
				}
				defer runner.Close()

				res, err := runner.Reflow(cmd.Context(), d, engine.Options{})
				if err != nil {
					return fmt.Errorf("reflow survivors: %w", err)
				}
				d = res.Dashboard
				rows = res.Stats.Rows
				cached = res.CacheInfo.LayoutHit
			}

			out := output
			if out == "" {
				out = path
			}
			if err := dashboard.WriteDashboardFile(d, out); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			printSuccess("Removed %q", widgetLabel(*w))
			printFile(out)
			printStats(len(d.Widgets), rows, cached)
			printNewline()
			printNextStep("Preview the layout", "gridpack preview "+out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite input)")
	cmd.Flags().BoolVar(&keepPositions, "keep-positions", false, "do not repack the remaining widgets")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// findWidget resolves a widget reference against a document. Exact ID
// wins, then a unique ID prefix, then an exact title.
func findWidget(d *dashboard.Dashboard, ref string) (*dashboard.Widget, error) {
	if w, ok := d.Widget(ref); ok {
		return w, nil
	}

	var byPrefix []*dashboard.Widget
	var byTitle []*dashboard.Widget
	for i := range d.Widgets {
		w := &d.Widgets[i]
		if strings.HasPrefix(w.ID, ref) {
			byPrefix = append(byPrefix, w)
		}
		if w.Title == ref {
			byTitle = append(byTitle, w)
		}
	}

	switch {
	case len(byPrefix) == 1:
		return byPrefix[0], nil
	case len(byPrefix) > 1:
		return nil, fmt.Errorf("widget ref %q is ambiguous: %d IDs share that prefix", ref, len(byPrefix))
	case len(byTitle) == 1:
		return byTitle[0], nil
	case len(byTitle) > 1:
		return nil, fmt.Errorf("widget ref %q is ambiguous: %d widgets share that title", ref, len(byTitle))
	}
	return nil, fmt.Errorf("no widget matches %q", ref)
}

// widgetLabel is the human-facing name for a widget in CLI output.
func widgetLabel(w dashboard.Widget) string {
	if w.Title != "" {
		return w.Title
	}
	return w.ID
}

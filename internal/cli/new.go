package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhuels/gridpack/pkg/dashboard"
	"github.com/mhuels/gridpack/pkg/engine"
	"github.com/mhuels/gridpack/pkg/grid"
)

// newCommand creates the new command for creating dashboard documents.
func (c *CLI) newCommand() *cobra.Command {
	var (
		output  string
		cols    int
		widgets []string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a new dashboard document",
		Long: `Create a new dashboard document.

Widgets may be seeded at creation with --widget specs; they are packed
into the grid immediately. The spec grammar is TITLE:WxH[:TYPE][:full]
(titles must not contain ':').`,
		Example: `  # Empty 12-column dashboard
  gridpack new "Ops Overview" -o ops.json

  # Seeded with three widgets, the last one full-width
  gridpack new "Ops Overview" \
    -w CPU:6x3:line -w Memory:6x3:line -w Orders:12x4:table:full`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			d := dashboard.New(name, cols)
			for _, spec := range widgets {
				w, err := parseWidgetSpec(spec)
				if err != nil {
					return err
				}
				d.AddWidget(w)
			}
			if err := d.Validate(); err != nil {
				return err
			}

			rows := 0
			cached := false
			if len(d.Widgets) > 0 {
				runner, err := c.newRunner(noCache)
				if err != nil {
					return fmt.Errorf("initialize runner: %w", err)
				}
				defer runner.Close()

				res, err := runner.Reflow(cmd.Context(), d, engine.Options{})
				if err != nil {
					return fmt.Errorf("pack widgets: %w", err)
				}
				d = res.Dashboard
				rows = res.Stats.Rows
				cached = res.CacheInfo.LayoutHit
			}

			path := output
			if path == "" {
				path = slugify(name) + ".json"
			}
			if err := dashboard.WriteDashboardFile(d, path); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}

			printSuccess("Created %q", name)
			printFile(path)
			if len(d.Widgets) > 0 {
				printStats(len(d.Widgets), rows, cached)
				printNewline()
				printNextStep("Preview", "gridpack preview "+path)
			} else {
				printNewline()
				printNextStep("Add widgets", "gridpack place "+path+" TITLE:WxH")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.json, slugified)")
	cmd.Flags().IntVar(&cols, "cols", grid.DefaultCols, "grid column count")
	cmd.Flags().StringArrayVarP(&widgets, "widget", "w", nil, "widget spec TITLE:WxH[:TYPE][:full] (repeatable)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// slugify turns a dashboard name into a safe default file stem.
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "dashboard"
	}
	return s
}

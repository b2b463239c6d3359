package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mhuels/gridpack/pkg/dashboard"
	"github.com/mhuels/gridpack/pkg/grid"
)

// validateCommand creates the validate command for checking documents.
func (c *CLI) validateCommand() *cobra.Command {
	var showWidgets bool

	cmd := &cobra.Command{
		Use:   "validate [dashboard.json]",
		Short: "Validate a dashboard document and its layout",
		Long: `Validate a dashboard document.

Checks the document fields first (name, column count, widget shapes),
then the layout: every widget inside the grid bounds and no two
widgets overlapping. A document whose widgets were edited by hand is
the usual way to end up with a stale layout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			d, err := dashboard.ReadDashboardFile(path)
			if err != nil {
				return fmt.Errorf("load dashboard %s: %w", path, err)
			}

			if err := d.Validate(); err != nil {
				printError("Document invalid")
				return err
			}

			printKeyValue("Name", d.Name)
			printKeyValue("Columns", strconv.Itoa(d.Grid().Cols()))
			printKeyValue("Widgets", strconv.Itoa(len(d.Widgets)))
			printKeyValue("Rows", strconv.Itoa(grid.MaxBottom(d.Items())))
			if showWidgets {
				printNewline()
				for _, w := range d.Widgets {
					printDetail("%s  (%d,%d) %dx%d", widgetLabel(w), w.X, w.Y, w.W, w.H)
				}
			}
			printNewline()

			if err := d.ValidateLayout(); err != nil {
				printWarning("Layout is stale: %v", err)
				printNewline()
				printNextStep("Repack", "gridpack reflow "+path)
				return fmt.Errorf("layout validation failed")
			}

			printSuccess("Layout is valid")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showWidgets, "widgets", "w", false, "list every widget with its position")

	return cmd
}

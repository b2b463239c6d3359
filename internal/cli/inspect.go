package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mhuels/gridpack/pkg/dashboard"
)

// inspectCommand creates the inspect command for interactive browsing.
func (c *CLI) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [dashboard.json]",
		Short: "Browse a dashboard document interactively",
		Long: `Open a dashboard document in an interactive browser.

The cell grid is drawn above the widget list and moving the cursor
highlights the widget's cells. Pressing r repacks the layout in memory
to preview what reflow would do; the file is never modified.`,
		Example: `  gridpack inspect ops.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(args[0])
		},
	}
}

func (c *CLI) runInspect(input string) error {
	d, err := dashboard.ReadDashboardFile(input)
	if err != nil {
		return fmt.Errorf("load dashboard %s: %w", input, err)
	}

	p := tea.NewProgram(NewInspectModel(d))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mhuels/gridpack/pkg/client"
	"github.com/mhuels/gridpack/pkg/dashboard"
	"github.com/mhuels/gridpack/pkg/remote"
)

// Default timeout for remote transfer operations.
const defaultRemoteTimeout = 60 * time.Second

// pushCommand creates the push command for uploading documents.
func (c *CLI) pushCommand() *cobra.Command {
	var (
		remoteName string
		reflow     bool
	)

	cmd := &cobra.Command{
		Use:   "push [dashboard.json]",
		Short: "Upload a dashboard document to a server",
		Long: `Upload a dashboard document to a gridpack server.

The server copy is created on first push and replaced afterwards,
keyed by the document ID. Pass --reflow to have the server repack the
layout right after the upload.`,
		Example: `  gridpack push ops.json
  gridpack push ops.json --remote staging --reflow`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPush(cmd.Context(), args[0], remoteName, reflow)
		},
	}

	cmd.Flags().StringVar(&remoteName, "remote", remote.DefaultName, "server profile to push to")
	cmd.Flags().BoolVar(&reflow, "reflow", false, "repack the layout on the server after upload")

	return cmd
}

func (c *CLI) runPush(ctx context.Context, input, remoteName string, reflow bool) error {
	d, err := dashboard.ReadDashboardFile(input)
	if err != nil {
		return fmt.Errorf("load dashboard %s: %w", input, err)
	}

	r, err := loadRemote(ctx, remoteName)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultRemoteTimeout)
	defer cancel()

	api := client.New(r.URL)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Pushing %q to %s...", d.Name, r.Name))
	spinner.Start()

	got, created, err := api.Push(ctx, d)
	if err != nil {
		spinner.StopWithError("Push failed")
		return fmt.Errorf("push: %w", err)
	}
	if reflow {
		got, err = api.Reflow(ctx, got.ID, 0)
		if err != nil {
			spinner.StopWithError("Server reflow failed")
			return fmt.Errorf("reflow on %s: %w", r.Name, err)
		}
	}
	spinner.Stop()

	verb := "replaced"
	if created {
		verb = "created"
	}
	printSuccess("Pushed %q (%s)", got.Name, verb)
	printKeyValue("Remote", r.URL)
	printKeyValue("ID", got.ID)
	printKeyValue("Widgets", strconv.Itoa(len(got.Widgets)))
	return nil
}

// pullCommand creates the pull command for downloading documents.
func (c *CLI) pullCommand() *cobra.Command {
	var (
		remoteName string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "pull [dashboard-id]",
		Short: "Download a dashboard document from a server",
		Long: `Download a dashboard document from a gridpack server.

With no ID the server's dashboards are listed for interactive
selection. The document is written as JSON, named after the dashboard
unless --output says otherwise.`,
		Example: `  gridpack pull                # interactive selection
  gridpack pull 4fa2c9d0       # by ID
  gridpack pull --remote staging -o staging-ops.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return c.runPull(cmd.Context(), id, remoteName, output)
		},
	}

	cmd.Flags().StringVar(&remoteName, "remote", remote.DefaultName, "server profile to pull from")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <name>.json, slugified)")

	return cmd
}

func (c *CLI) runPull(ctx context.Context, id, remoteName, output string) error {
	r, err := loadRemote(ctx, remoteName)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultRemoteTimeout)
	defer cancel()

	api := client.New(r.URL)

	var d *dashboard.Dashboard
	if id != "" {
		spinner := newSpinnerWithContext(ctx, "Fetching dashboard...")
		spinner.Start()
		d, err = api.Get(ctx, id)
		if err != nil {
			spinner.StopWithError("Fetch failed")
			return fmt.Errorf("pull: %w", err)
		}
		spinner.Stop()
	} else {
		spinner := newSpinnerWithContext(ctx, "Fetching dashboards...")
		spinner.Start()
		all, err := api.List(ctx)
		spinner.Stop()
		if err != nil {
			return fmt.Errorf("list dashboards: %w", err)
		}

		switch len(all) {
		case 0:
			printError("No dashboards on %s", r.Name)
			return fmt.Errorf("no dashboards on %s", r.Name)
		case 1:
			d = all[0]
			printInfo("Found: %s", StyleHighlight.Render(d.Name))
		default:
			printSuccess("Found %d dashboards", len(all))
			printNewline()

			m := NewDashboardListModel(all)
			p := tea.NewProgram(m)
			finalModel, err := p.Run()
			if err != nil {
				return err
			}
			fm, ok := finalModel.(DashboardListModel)
			if !ok || fm.Selected == nil {
				printDetail("No selection made")
				return nil
			}
			d = fm.Selected
		}
	}

	path := output
	if path == "" {
		path = slugify(d.Name) + ".json"
	}
	if err := dashboard.WriteDashboardFile(d, path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	printSuccess("Pulled %q", d.Name)
	printFile(path)
	printKeyValue("Widgets", strconv.Itoa(len(d.Widgets)))
	printNewline()
	printNextStep("Inspect", "gridpack inspect "+path)
	return nil
}

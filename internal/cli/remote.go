package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhuels/gridpack/pkg/client"
	"github.com/mhuels/gridpack/pkg/remote"
)

// remoteCommand creates the remote command with subcommands.
func (c *CLI) remoteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage gridpack server profiles",
		Long: `Manage named server profiles for push and pull.

A remote is a name pointing at a gridpack server URL, so transfer
commands can say "origin" instead of repeating the address. Profiles
are stored in ~/.config/gridpack/remotes/, one JSON file per remote.`,
	}

	cmd.AddCommand(c.remoteSetCommand())
	cmd.AddCommand(c.remoteShowCommand())
	cmd.AddCommand(c.remoteListCommand())
	cmd.AddCommand(c.remoteClearCommand())

	return cmd
}

// remoteSetCommand creates the set subcommand.
func (c *CLI) remoteSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set [name] [url]",
		Short: "Save a server profile",
		Long: `Save a server profile.

With one argument the URL is saved as "origin". The server is probed
once; an unreachable server is saved anyway with a warning, since
remotes are often configured before the server is up.`,
		Example: `  gridpack remote set http://localhost:8080
  gridpack remote set staging https://grid.staging.example.com`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			name := remote.DefaultName
			rawURL := args[0]
			if len(args) == 2 {
				name, rawURL = args[0], args[1]
			}

			r, err := remote.New(name, rawURL)
			if err != nil {
				return err
			}

			probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			spinner := newSpinnerWithContext(probeCtx, "Checking server...")
			spinner.Start()
			if err := client.New(r.URL).Health(probeCtx); err != nil {
				spinner.StopWithError("Server unreachable")
				printWarning("Saving anyway: %v", err)
			} else {
				spinner.Stop()
			}

			store, err := openRemoteStore()
			if err != nil {
				return err
			}
			if err := store.Set(ctx, r); err != nil {
				return fmt.Errorf("save remote: %w", err)
			}

			printSuccess("Remote %q saved", r.Name)
			printKeyValue("URL", r.URL)
			printNewline()
			printNextStep("Push a dashboard", "gridpack push <file>")
			return nil
		},
	}
}

// remoteShowCommand creates the show subcommand.
func (c *CLI) remoteShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show a server profile and its live status",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			name := remote.DefaultName
			if len(args) == 1 {
				name = args[0]
			}
			r, err := loadRemote(ctx, name)
			if err != nil {
				return err
			}

			probeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()

			spinner := newSpinnerWithContext(probeCtx, "Checking server...")
			spinner.Start()

			api := client.New(r.URL)
			if err := api.Health(probeCtx); err != nil {
				spinner.StopWithError("Server unreachable")
				return fmt.Errorf("check server: %w", err)
			}
			all, err := api.List(probeCtx)
			if err != nil {
				spinner.StopWithError("Server error")
				return fmt.Errorf("list dashboards: %w", err)
			}
			spinner.Stop()

			printSuccess("Remote %q", r.Name)
			printKeyValue("URL", r.URL)
			printKeyValue("Added", r.CreatedAt.Format("Jan 2, 2006"))
			printKeyValue("Status", "online")
			printKeyValue("Dashboards", strconv.Itoa(len(all)))
			return nil
		},
	}
}

// remoteListCommand creates the list subcommand.
func (c *CLI) remoteListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved server profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openRemoteStore()
			if err != nil {
				return err
			}
			remotes, err := store.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list remotes: %w", err)
			}
			if len(remotes) == 0 {
				printInfo("No remotes configured")
				printNewline()
				printNextStep("Add one", "gridpack remote set http://localhost:8080")
				return nil
			}
			for _, r := range remotes {
				printKeyValue(r.Name, r.URL)
			}
			return nil
		},
	}
}

// remoteClearCommand creates the clear subcommand.
func (c *CLI) remoteClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear [name]",
		Short: "Remove a saved server profile",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := remote.DefaultName
			if len(args) == 1 {
				name = args[0]
			}
			store, err := openRemoteStore()
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), name); err != nil {
				return fmt.Errorf("delete remote: %w", err)
			}
			printSuccess("Removed remote %q", name)
			return nil
		},
	}
}

// =============================================================================
// Remote Resolution
// =============================================================================

// openRemoteStore opens the profile store under the user config dir.
func openRemoteStore() (*remote.FileStore, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return remote.NewFileStore(filepath.Join(dir, "remotes"))
}

// loadRemote resolves a remote name to a saved profile.
func loadRemote(ctx context.Context, name string) (*remote.Remote, error) {
	store, err := openRemoteStore()
	if err != nil {
		return nil, fmt.Errorf("open remote store: %w", err)
	}
	r, err := store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("get remote: %w", err)
	}
	if r == nil {
		return nil, fmt.Errorf("no remote %q (run 'gridpack remote set <url>' first)", name)
	}
	return r, nil
}

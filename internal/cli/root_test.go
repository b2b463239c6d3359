package cli

import (
	"io"
	"testing"

	"github.com/mhuels/gridpack/pkg/buildinfo"
)

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Name() != "gridpack" {
		t.Errorf("root.Name() = %q, want %q", root.Name(), "gridpack")
	}
	if root.Version != buildinfo.Version {
		t.Errorf("root.Version = %q, want %q", root.Version, buildinfo.Version)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := []string{
		"new", "place", "remove", "reflow", "preview", "validate",
		"gaps", "inspect", "serve", "remote", "push", "pull",
		"cache", "completion",
	}

	got := make(map[string]bool)
	for _, cmd := range root.Commands() {
		got[cmd.Name()] = true
	}

	for _, name := range want {
		if !got[name] {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mhuels/gridpack/pkg/dashboard"
	"github.com/mhuels/gridpack/pkg/engine"
)

// previewCommand creates the preview command for rendering dashboards.
func (c *CLI) previewCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		reflow     bool
	)
	opts := engine.Options{}
	setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "preview [dashboard.json]",
		Short: "Render previews of a dashboard layout",
		Long: `Render previews of a dashboard document.

The document must already carry positions ('reflow' assigns them); pass
--reflow to recompute them here first. Supported formats are txt, svg,
png, pdf, and json. A single txt preview with no --output goes to
stdout so it can be piped.

Results are cached locally for faster subsequent runs.`,
		Example: `  gridpack preview ops.json
  gridpack preview ops.json -f txt
  gridpack preview ops.json -f svg,png --style blueprint -o build/ops`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := engine.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := engine.ValidateStyle(opts.Style); err != nil {
				return err
			}
			return c.runPreview(cmd.Context(), args[0], opts, output, noCache, reflow)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	// Render flags
	cmd.Flags().BoolVar(&reflow, "reflow", false, "recompute widget positions before rendering")
	cmd.Flags().StringVar(&opts.Style, "style", opts.Style, "visual style: plain (default), blueprint")
	cmd.Flags().IntVar(&opts.CellSize, "cell", opts.CellSize, "rendered grid cell size in pixels")
	cmd.Flags().BoolVar(&opts.ShowGrid, "grid", opts.ShowGrid, "draw grid lines")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), txt, png, pdf, json (comma-separated)")

	return cmd
}

// runPreview loads the document and renders it.
func (c *CLI) runPreview(ctx context.Context, input string, opts engine.Options, output string, noCache, reflow bool) error {
	d, err := dashboard.ReadDashboardFile(input)
	if err != nil {
		return fmt.Errorf("load dashboard %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(opts.Formats, ", ")))
	spinner.Start()

	var (
		artifacts map[string][]byte
		cacheHit  bool
	)
	if reflow {
		res, err := runner.Execute(ctx, d, opts)
		if err != nil {
			spinner.StopWithError("Preview failed")
			return fmt.Errorf("render preview: %w", err)
		}
		artifacts, cacheHit = res.Artifacts, res.CacheInfo.RenderHit
	} else {
		artifacts, cacheHit, err = runner.RenderWithCacheInfo(ctx, d, opts)
		if err != nil {
			spinner.StopWithError("Preview failed")
			return fmt.Errorf("render preview: %w", err)
		}
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		cacheHit:  cacheHit,
	})
}

// artifactWriteParams bundles the arguments for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
	cacheHit  bool
}

// writeArtifacts writes rendered previews to disk, one file per format.
// A single txt preview with no explicit output goes to stdout undecorated.
func writeArtifacts(p artifactWriteParams) error {
	if p.output == "" && len(p.formats) == 1 && p.formats[0] == engine.FormatText {
		_, err := os.Stdout.Write(p.artifacts[engine.FormatText])
		return err
	}

	var paths []string
	if len(p.formats) == 1 {
		format := p.formats[0]
		path := p.output
		if path == "" {
			path = basePath("", p.input) + "." + format
		}
		if err := writeFile(p.artifacts[format], path); err != nil {
			return err
		}
		paths = append(paths, path)
	} else {
		base := basePath(p.output, p.input)
		for _, format := range p.formats {
			path := base + "." + format
			if err := writeFile(p.artifacts[format], path); err != nil {
				return err
			}
			paths = append(paths, path)
		}
	}

	printSuccess("Preview complete")
	for _, path := range paths {
		printFile(path)
	}
	if p.cacheHit {
		printDetail("%s", styleCached.Render(iconCached))
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
// This is used when generating multiple files (e.g., ops.svg, ops.png).
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	// Strip known format extensions from output path
	ext := filepath.Ext(output)
	if engine.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// writeFile writes data to path, overwriting if it exists.
func writeFile(data []byte, path string) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = out.Write(data)
	return err
}

// nopCloser wraps an io.Writer with a no-op Close method.
// It is used to make os.Stdout compatible with io.WriteCloser.
type nopCloser struct{ io.Writer }

// Close implements io.Closer with a no-op.
func (nopCloser) Close() error { return nil }

// openOutput returns a WriteCloser for the given path.
// If path is empty, it returns os.Stdout wrapped in nopCloser.
// Otherwise, it creates the file at path, overwriting if it exists.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

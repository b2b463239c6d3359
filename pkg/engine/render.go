package engine

import (
	"fmt"

	"github.com/mhuels/gridpack/pkg/dashboard"
	"github.com/mhuels/gridpack/pkg/render"
)

// renderArtifacts generates previews in the requested formats.
func renderArtifacts(d *dashboard.Dashboard, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatText:
			data = render.RenderText(d)
		case FormatSVG:
			data = render.RenderSVG(d, svgOpts...)
		case FormatPNG:
			data, err = render.RenderPNG(d, render.WithPNGSVGOptions(svgOpts...))
		case FormatPDF:
			data, err = render.RenderPDF(d, render.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = dashboard.MarshalDashboard(d)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []render.SVGOption {
	svgOpts := []render.SVGOption{
		render.WithStyle(opts.Style),
		render.WithCellSize(opts.CellSize),
	}
	if opts.ShowGrid {
		svgOpts = append(svgOpts, render.WithGridLines())
	}
	return svgOpts
}

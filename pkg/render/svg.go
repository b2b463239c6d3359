package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mhuels/gridpack/pkg/dashboard"
	"github.com/mhuels/gridpack/pkg/grid"
)

// DefaultCellSize is the rendered size of one grid cell in pixels.
const DefaultCellSize = 40

// Visual style names.
const (
	StylePlain     = "plain"
	StyleBlueprint = "blueprint"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	cellSize  int
	gridLines bool
	style     string
}

// WithCellSize sets the pixel size of one grid cell.
func WithCellSize(px int) SVGOption {
	return func(r *svgRenderer) {
		if px > 0 {
			r.cellSize = px
		}
	}
}

// WithGridLines draws the cell raster behind the widgets.
func WithGridLines() SVGOption { return func(r *svgRenderer) { r.gridLines = true } }

// WithStyle selects a visual style (plain, blueprint).
// Unknown names fall back to plain.
func WithStyle(name string) SVGOption { return func(r *svgRenderer) { r.style = name } }

// palette holds the colors of a visual style.
type palette struct {
	background string
	blockFill  string
	blockLine  string
	text       string
	gridLine   string
}

var palettes = map[string]palette{
	StylePlain: {
		background: "#ffffff",
		blockFill:  "#eef2f7",
		blockLine:  "#64748b",
		text:       "#0f172a",
		gridLine:   "#e2e8f0",
	},
	StyleBlueprint: {
		background: "#0b2948",
		blockFill:  "#123a63",
		blockLine:  "#9cc3e5",
		text:       "#dbeafe",
		gridLine:   "#1d4e89",
	},
}

// RenderSVG renders the dashboard as an SVG preview.
// Widgets are drawn as labeled rectangles at their stored positions.
func RenderSVG(d *dashboard.Dashboard, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	pal := r.palette()

	cols := d.Grid().Cols()
	rows := grid.MaxBottom(d.Items())
	if rows < 1 {
		rows = 1
	}
	width := cols * r.cellSize
	height := rows * r.cellSize

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%d" height="%d" fill="%s"/>`+"\n",
		width, height, pal.background)

	if r.gridLines {
		renderGridLines(&buf, pal, cols, rows, r.cellSize)
	}

	for _, w := range d.Widgets {
		renderBlock(&buf, pal, w, r.cellSize)
	}
	for _, w := range d.Widgets {
		renderLabel(&buf, pal, w, r.cellSize)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{cellSize: DefaultCellSize, style: StylePlain}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r *svgRenderer) palette() palette {
	if pal, ok := palettes[r.style]; ok {
		return pal
	}
	return palettes[StylePlain]
}

func renderGridLines(buf *bytes.Buffer, pal palette, cols, rows, cell int) {
	for x := 0; x <= cols; x++ {
		fmt.Fprintf(buf, `  <line x1="%d" y1="0" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
			x*cell, x*cell, rows*cell, pal.gridLine)
	}
	for y := 0; y <= rows; y++ {
		fmt.Fprintf(buf, `  <line x1="0" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="1"/>`+"\n",
			y*cell, cols*cell, y*cell, pal.gridLine)
	}
}

func renderBlock(buf *bytes.Buffer, pal palette, w dashboard.Widget, cell int) {
	// Inset by 2px so adjacent widgets read as separate blocks.
	const inset = 2
	x := w.X*cell + inset
	y := w.Y*cell + inset
	bw := w.W*cell - 2*inset
	bh := w.H*cell - 2*inset
	if bw < 1 || bh < 1 {
		return
	}
	fmt.Fprintf(buf, `  <rect id="widget-%s" x="%d" y="%d" width="%d" height="%d" rx="4" fill="%s" stroke="%s" stroke-width="2"/>`+"\n",
		svgEscape(w.ID), x, y, bw, bh, pal.blockFill, pal.blockLine)
}

func renderLabel(buf *bytes.Buffer, pal palette, w dashboard.Widget, cell int) {
	name := displayName(w)
	if name == "" {
		return
	}
	size := fontSize(cell)
	// Skip labels that cannot fit their block even roughly.
	if w.W*cell < size*2 || w.H*cell < size {
		return
	}
	cx := w.X*cell + w.W*cell/2
	cy := w.Y*cell + w.H*cell/2
	fmt.Fprintf(buf, `  <text x="%d" y="%d" text-anchor="middle" dominant-baseline="central" font-family="system-ui, sans-serif" font-size="%d" fill="%s">%s</text>`+"\n",
		cx, cy, size, pal.text, svgEscape(name))
}

func fontSize(cell int) int {
	size := cell / 3
	if size < 10 {
		size = 10
	}
	return size
}

var svgEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

func svgEscape(s string) string {
	return svgEscaper.Replace(s)
}

package render

import (
	"bytes"
	"fmt"

	"github.com/mhuels/gridpack/pkg/dashboard"
	"github.com/mhuels/gridpack/pkg/grid"
)

// freeCell marks grid cells no widget covers.
const freeCell = '.'

// RenderText renders the dashboard as a character grid, one rune per cell.
// Widgets are filled with letters in document order and listed in a legend
// below the grid. Widgets outside the canvas are clipped, not an error.
func RenderText(d *dashboard.Dashboard) []byte {
	var buf bytes.Buffer

	if len(d.Widgets) == 0 {
		buf.WriteString("(no widgets)\n")
		return buf.Bytes()
	}

	cols := d.Grid().Cols()
	rows := grid.MaxBottom(d.Items())

	canvas := make([][]rune, rows)
	for y := range canvas {
		canvas[y] = make([]rune, cols)
		for x := range canvas[y] {
			canvas[y][x] = freeCell
		}
	}

	for i, w := range d.Widgets {
		label := widgetLabel(i)
		for y := w.Y; y < w.Y+w.H && y < rows; y++ {
			if y < 0 {
				continue
			}
			for x := w.X; x < w.X+w.W && x < cols; x++ {
				if x < 0 {
					continue
				}
				canvas[y][x] = label
			}
		}
	}

	for _, row := range canvas {
		buf.WriteString(string(row))
		buf.WriteByte('\n')
	}

	buf.WriteByte('\n')
	writeLegend(&buf, d)

	return buf.Bytes()
}

// writeLegend writes one line per widget mapping its letter to title and position.
func writeLegend(buf *bytes.Buffer, d *dashboard.Dashboard) {
	width := 0
	for _, w := range d.Widgets {
		if n := len(displayName(w)); n > width {
			width = n
		}
	}
	for i, w := range d.Widgets {
		fmt.Fprintf(buf, "%c  %-*s (%d,%d) %dx%d\n",
			widgetLabel(i), width, displayName(w), w.X, w.Y, w.W, w.H)
	}
}

// widgetLabel assigns a fill rune by widget position in the document.
// Letters run A-Z then a-z, then wrap.
func widgetLabel(i int) rune {
	const n = 26
	switch {
	case i < n:
		return rune('A' + i)
	case i < 2*n:
		return rune('a' + i - n)
	default:
		return rune('A' + i%n)
	}
}

func displayName(w dashboard.Widget) string {
	if w.Title != "" {
		return w.Title
	}
	return w.ID
}

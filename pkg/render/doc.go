// Package render turns a laid-out dashboard into preview artifacts.
//
// # Overview
//
// This package renders dashboard documents whose widgets carry grid
// positions. It provides:
//
//   - Text previews for terminals ([RenderText])
//   - SVG previews with selectable styles ([RenderSVG])
//   - PNG and PDF export via SVG conversion ([RenderPNG], [RenderPDF])
//
// Renderers read positions as stored on the widgets; they never recompute
// the layout. Run a reflow first if the document may be stale.
//
// # Text Previews
//
// [RenderText] draws one character cell per grid cell. Each widget is
// filled with a letter, free cells are dots, and a legend maps letters
// back to widget titles:
//
//	AAAAAABBBBBB
//	AAAAAABBBBBB
//	CCCCCCCCCCCC
//
//	A  CPU     (0,0) 6x2
//	B  Memory  (6,0) 6x2
//	C  Events  (0,2) 12x1
//
// # SVG Previews
//
// [RenderSVG] draws widgets as labeled rectangles on a cell raster.
// Options control the cell size, grid lines, and visual style:
//
//	svg := render.RenderSVG(d, render.WithStyle("blueprint"), render.WithGridLines())
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). [RenderPNG] and
// [RenderPDF] wrap them for dashboard previews.
//
//	svg := render.RenderSVG(d)
//	pdf, err := render.ToPDF(svg)
//	png, err := render.ToPNG(svg, 2.0)  // 2x scale
package render

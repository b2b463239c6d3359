// Package grid provides the auto-layout engine that positions dashboard
// widgets on a fixed-width, unbounded-height grid.
//
// # Overview
//
// Gridpack arranges rectangular widgets (charts, tables, stat cards) on a
// grid with a fixed column count and as many rows as the content needs.
// New widgets are packed horizontally before the layout grows vertically:
// the engine walks candidate positions row by row, left to right, and
// accepts the first one that fits. The result is a deterministic,
// left-packed arrangement without overlaps.
//
// The engine is deliberately not an optimal bin packer. First-fit keeps
// placement explainable and stable: a widget lands where a user scanning
// the dashboard top-down, left-to-right would expect the next free slot
// to be.
//
// # Basic Usage
//
// Create a grid with [New], then place items against an existing layout
// with [Grid.Place] or rebuild a whole layout from ordered requests with
// [Grid.Rebuild]:
//
//	g := grid.New(12)
//	item, err := g.Place(grid.Request{ID: "cpu", W: 6, H: 3}, existing)
//
// Both operations are pure: the existing layout is never modified, and
// identical inputs always produce identical outputs. Callers own the
// layout state and replace it wholesale with the returned value.
//
// # Placement Algorithm
//
// For a normal item of width w and height h, candidate rows are scanned
// from y = 0 up to maxBottom + max(h, 1), where maxBottom is the first
// row below all existing content. For each candidate row the free
// horizontal intervals of every spanned row are computed with
// [Grid.FindGaps] and intersected; the first interval wide enough for w
// yields the candidate position, which is confirmed with [Grid.Fits]
// before being returned. A fresh row below everything always exists, so
// placement of a valid request cannot fail.
//
// # Full-Width Items
//
// An item with [KindFullWidth] (for example a data table) always occupies
// an entire row band by itself: it is forced to x = 0, width Cols, on the
// first row below all existing content, regardless of gaps available
// higher up. Within a batch rebuild, full-width items keep their position
// in the request sequence; they are not reordered.
//
// # Determinism
//
// [Grid.Rebuild] replays requests in caller order, feeding each placed
// item back in as an obstacle for the next. Two rebuilds over the same
// ordered requests produce identical layouts, which makes re-flows after
// widget removal or resize reproducible and directly testable.
//
// # Concurrency
//
// All operations are synchronous pure functions over immutable inputs.
// A Grid value is safe to share between goroutines; layouts passed in are
// only read, never written.
package grid

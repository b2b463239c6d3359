package grid

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidSpec is returned by [Grid.Place] and [Grid.Rebuild] when a
	// request has a non-positive width or height, or is wider than the grid.
	// It signals a caller-side bug; the layout passed in is never modified
	// and no partial placement is produced.
	ErrInvalidSpec = errors.New("invalid item spec")

	// ErrOutOfBounds is returned by [Grid.Validate] when an item extends
	// outside the grid's column range or has a negative coordinate.
	ErrOutOfBounds = errors.New("item out of bounds")

	// ErrOverlap is returned by [Grid.Validate] when two items occupy
	// intersecting cells.
	ErrOverlap = errors.New("items overlap")

	// ErrFullWidthRow is returned by [Grid.Validate] when a full-width item
	// does not span the entire grid width or shares a row with another item.
	ErrFullWidthRow = errors.New("full-width item must occupy its rows alone")
)

// DefaultCols is the column count used when a grid is created with a
// non-positive value. Twelve columns is the conventional dashboard width:
// it divides evenly into halves, thirds, quarters, and sixths.
const DefaultCols = 12

// Kind distinguishes how an item participates in layout.
type Kind int

const (
	// KindNormal items are packed into the first gap that fits them.
	KindNormal Kind = iota
	// KindFullWidth items always occupy an entire fresh row band by
	// themselves (e.g. data tables). Their requested width is ignored and
	// replaced with the grid's column count.
	KindFullWidth
)

// String returns the kind's serialization name.
func (k Kind) String() string {
	if k == KindFullWidth {
		return "full-width"
	}
	return "normal"
}

// Item is a positioned rectangle on the grid. Cells are half-open on both
// axes: an item covers columns [X, X+W) and rows [Y, Y+H).
//
// Items are plain values; the engine returns fresh ones and never retains
// or mutates those passed in.
type Item struct {
	ID   string // Caller-supplied identifier, carried through verbatim
	X    int    // Leftmost column, 0-based
	Y    int    // Topmost row, 0-based
	W    int    // Width in columns, >= 1
	H    int    // Height in rows, >= 1
	Kind Kind
}

// Right returns the exclusive right edge, X+W.
func (it Item) Right() int { return it.X + it.W }

// Bottom returns the exclusive bottom edge, Y+H.
func (it Item) Bottom() int { return it.Y + it.H }

// covers reports whether the item's vertical span includes row y.
func (it Item) covers(y int) bool { return it.Y <= y && y < it.Bottom() }

// Request describes a new item awaiting a position. It becomes an [Item]
// once the engine assigns x and y. The ID is carried through unchanged;
// the engine never invents identifiers.
//
// For [KindFullWidth] requests the width field is ignored (the placed item
// always spans the full grid), so only the height is validated.
type Request struct {
	ID   string
	W    int
	H    int
	Kind Kind
}

// Gap is a maximal free horizontal interval [Start, Start+Length) within a
// single row. A gap can host a candidate of width w iff Length >= w.
type Gap struct {
	Start  int
	Length int
}

// End returns the exclusive right edge of the gap.
func (g Gap) End() int { return g.Start + g.Length }

// Grid is the fixed coordinate space items are placed into: a constant
// number of columns and an unbounded number of rows. The zero value is
// usable and behaves like New(DefaultCols).
//
// Grid carries no mutable state; all methods are pure functions over the
// layouts passed in.
type Grid struct {
	cols int
}

// New creates a grid with the given column count. Non-positive values fall
// back to [DefaultCols].
func New(cols int) Grid {
	if cols < 1 {
		cols = DefaultCols
	}
	return Grid{cols: cols}
}

// Cols returns the grid's column count.
func (g Grid) Cols() int {
	if g.cols < 1 {
		return DefaultCols
	}
	return g.cols
}

// InBounds reports whether the item lies within the grid's coordinate
// space: 0 <= X, X+W <= Cols, 0 <= Y. Rows are unbounded, so no upper
// limit applies to Y.
func (g Grid) InBounds(it Item) bool {
	return it.X >= 0 && it.Y >= 0 && it.Right() <= g.Cols()
}

// MaxBottom returns the first row index below all items: the maximum of
// Y+H over the layout, or 0 when the layout is empty. The returned row and
// everything beneath it is guaranteed free.
func MaxBottom(items []Item) int {
	bottom := 0
	for _, it := range items {
		bottom = max(bottom, it.Bottom())
	}
	return bottom
}

// FindGaps computes the free horizontal intervals of row y, in ascending
// Start order. Items whose vertical span does not cover y are ignored;
// occupied intervals that touch or overlap are merged before the
// complementary gaps are emitted. An empty row yields the single gap
// (0, Cols); a fully occupied row yields none.
//
// Ascending order is what lets callers place first-fit: scanning gaps in
// sequence and taking the first wide enough produces left-packed layouts.
func (g Grid) FindGaps(y int, existing []Item) []Gap {
	type span struct{ start, end int }

	var spans []span
	for _, it := range existing {
		if it.covers(y) {
			spans = append(spans, span{it.X, it.Right()})
		}
	}

	cols := g.Cols()
	if len(spans) == 0 {
		return []Gap{{Start: 0, Length: cols}}
	}

	slices.SortFunc(spans, func(a, b span) int { return cmp.Compare(a.start, b.start) })

	var gaps []Gap
	cursor := 0
	for _, s := range spans {
		if s.start > cursor {
			gaps = append(gaps, Gap{Start: cursor, Length: s.start - cursor})
		}
		cursor = max(cursor, s.end)
	}
	if cursor < cols {
		gaps = append(gaps, Gap{Start: cursor, Length: cols - cursor})
	}
	return gaps
}

// Fits reports whether the candidate can be placed against the existing
// layout: it must be in bounds and free of overlap with every existing
// item. The overlap test is the standard separating-axis check on
// half-open rectangles and returns on the first collision found, since
// Fits runs on every candidate position during placement scans.
func (g Grid) Fits(candidate Item, existing []Item) bool {
	if !g.InBounds(candidate) {
		return false
	}
	for _, it := range existing {
		if overlaps(candidate, it) {
			return false
		}
	}
	return true
}

// overlaps reports whether two half-open rectangles intersect.
func overlaps(a, b Item) bool {
	if a.Right() <= b.X || b.Right() <= a.X {
		return false
	}
	return a.Bottom() > b.Y && b.Bottom() > a.Y
}

// Place assigns a position to one new item against the existing layout.
//
// Invalid requests (width < 1 or wider than the grid for normal items,
// height < 1 for any item) are rejected with [ErrInvalidSpec] before any
// placement work. Full-width requests are forced onto the first fresh row
// below all existing content at full grid width. Normal requests scan
// candidate rows from 0 upward; within each row, the free intervals of
// every row the item would span are intersected and the first interval
// wide enough wins (first-fit, row-major). A valid request always yields a
// placement because a fresh row below everything exists by construction.
//
// The existing layout is only read. The returned item carries the
// request's ID, width, height, and kind.
func (g Grid) Place(req Request, existing []Item) (Item, error) {
	if err := g.check(req); err != nil {
		return Item{}, err
	}

	bottom := MaxBottom(existing)
	cols := g.Cols()

	if req.Kind == KindFullWidth {
		return Item{ID: req.ID, X: 0, Y: bottom, W: cols, H: req.H, Kind: KindFullWidth}, nil
	}

	limit := bottom + max(req.H, 1)
	for y := 0; y <= limit; y++ {
		for _, gap := range g.spanGaps(y, req.H, existing) {
			if gap.Length < req.W {
				continue
			}
			it := Item{ID: req.ID, X: gap.Start, Y: y, W: req.W, H: req.H, Kind: req.Kind}
			if g.Fits(it, existing) {
				return it, nil
			}
		}
	}

	// The scan bound guarantees a hit at y == bottom, so this fallback is
	// not reachable; a fresh row below everything is always valid.
	return Item{ID: req.ID, X: 0, Y: bottom, W: req.W, H: req.H, Kind: req.Kind}, nil
}

// Rebuild reconstructs a whole layout from ordered requests, feeding each
// placed item back in as an obstacle for the next. Request order is
// preserved: full-width items consume their row band at whatever point in
// the sequence their turn falls. The first invalid request aborts the
// rebuild with [ErrInvalidSpec] wrapped with its position.
//
// Rebuild is deterministic: identical ordered input yields an identical
// layout.
func (g Grid) Rebuild(reqs []Request) ([]Item, error) {
	placed := make([]Item, 0, len(reqs))
	for i, req := range reqs {
		it, err := g.Place(req, placed)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		placed = append(placed, it)
	}
	return placed, nil
}

// Validate checks the three layout invariants over a finished layout:
// every item in bounds, no two items overlapping, and every full-width
// item spanning the grid alone on its rows. It returns the first violation
// found, wrapped with the offending item IDs, or nil.
//
// Validate is how callers detect stale persisted positions (e.g. a layout
// saved under a different column count) before deciding to re-flow.
func (g Grid) Validate(items []Item) error {
	cols := g.Cols()
	for i, it := range items {
		if !g.InBounds(it) || it.W < 1 || it.H < 1 {
			return fmt.Errorf("item %q: %w", it.ID, ErrOutOfBounds)
		}
		if it.Kind == KindFullWidth && (it.X != 0 || it.W != cols) {
			return fmt.Errorf("item %q: %w", it.ID, ErrFullWidthRow)
		}
		for _, other := range items[i+1:] {
			if !overlaps(it, other) {
				continue
			}
			if it.Kind == KindFullWidth || other.Kind == KindFullWidth {
				return fmt.Errorf("items %q and %q: %w", it.ID, other.ID, ErrFullWidthRow)
			}
			return fmt.Errorf("items %q and %q: %w", it.ID, other.ID, ErrOverlap)
		}
	}
	return nil
}

// check rejects malformed requests up front. Full-width requests ignore
// the width field, so only their height is validated.
func (g Grid) check(req Request) error {
	if req.H < 1 {
		return ErrInvalidSpec
	}
	if req.Kind == KindFullWidth {
		return nil
	}
	if req.W < 1 || req.W > g.Cols() {
		return ErrInvalidSpec
	}
	return nil
}

// spanGaps intersects the free intervals of the h rows starting at y,
// returning the intervals free in every spanned row. The intersection is
// what makes multi-row items collide correctly: a position is only valid
// if each row the item would cover has a gap containing it.
func (g Grid) spanGaps(y, h int, existing []Item) []Gap {
	gaps := g.FindGaps(y, existing)
	for r := y + 1; r < y+h && len(gaps) > 0; r++ {
		gaps = intersect(gaps, g.FindGaps(r, existing))
	}
	return gaps
}

// intersect computes the pairwise intersection of two ascending gap lists.
func intersect(a, b []Gap) []Gap {
	var out []Gap
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := max(a[i].Start, b[j].Start)
		hi := min(a[i].End(), b[j].End())
		if hi > lo {
			out = append(out, Gap{Start: lo, Length: hi - lo})
		}
		if a[i].End() < b[j].End() {
			i++
		} else {
			j++
		}
	}
	return out
}

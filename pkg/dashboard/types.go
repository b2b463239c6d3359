package dashboard

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mhuels/gridpack/pkg/errors"
	"github.com/mhuels/gridpack/pkg/grid"
)

// Span values for widgets. An empty span packs the widget into the first
// gap that fits; SpanFull forces a dedicated full-width row band.
const (
	SpanFull = "full-width"
)

// Widget is one positioned rectangle on a dashboard. Geometry (x, y, w, h)
// is in grid units; Title and Type are display metadata the layout engine
// never interprets.
type Widget struct {
	ID    string `json:"id" bson:"id"`
	Title string `json:"title,omitempty" bson:"title,omitempty"`
	Type  string `json:"type,omitempty" bson:"type,omitempty"` // chart type label, opaque
	X     int    `json:"x" bson:"x"`
	Y     int    `json:"y" bson:"y"`
	W     int    `json:"w" bson:"w"`
	H     int    `json:"h" bson:"h"`
	Span  string `json:"span,omitempty" bson:"span,omitempty"`
}

// IsFullWidth reports whether the widget demands a dedicated row band.
func (w Widget) IsFullWidth() bool { return w.Span == SpanFull }

// Kind returns the engine-side kind for the widget's span.
func (w Widget) Kind() grid.Kind {
	if w.IsFullWidth() {
		return grid.KindFullWidth
	}
	return grid.KindNormal
}

// Item converts the widget's current position into an engine item.
func (w Widget) Item() grid.Item {
	return grid.Item{ID: w.ID, X: w.X, Y: w.Y, W: w.W, H: w.H, Kind: w.Kind()}
}

// Request converts the widget's shape into a placement request,
// discarding its current position.
func (w Widget) Request() grid.Request {
	return grid.Request{ID: w.ID, W: w.W, H: w.H, Kind: w.Kind()}
}

// Dashboard is an ordered collection of widgets on one grid. Widget order
// is the placement order: re-flows replay widgets in sequence, so the
// slice order is what makes rebuilds deterministic.
type Dashboard struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	Cols      int       `json:"cols,omitempty" bson:"cols,omitempty"`
	Widgets   []Widget  `json:"widgets" bson:"widgets"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// New creates an empty dashboard with a fresh ID. A non-positive column
// count falls back to the engine default.
func New(name string, cols int) *Dashboard {
	now := time.Now().UTC()
	return &Dashboard{
		ID:        uuid.NewString(),
		Name:      name,
		Cols:      cols,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Grid returns the layout grid for this dashboard's column count.
func (d *Dashboard) Grid() grid.Grid { return grid.New(d.Cols) }

// Widget returns a pointer to the widget with the given ID, or false.
// The pointer addresses the dashboard's own slice, so edits through it
// modify the document.
func (d *Dashboard) Widget(id string) (*Widget, bool) {
	for i := range d.Widgets {
		if d.Widgets[i].ID == id {
			return &d.Widgets[i], true
		}
	}
	return nil, false
}

// AddWidget appends a widget to the document, minting an ID when the
// widget has none, and returns the stored value. It does not assign a
// position; run the placement engine for that.
func (d *Dashboard) AddWidget(w Widget) Widget {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	d.Widgets = append(d.Widgets, w)
	d.Touch()
	return w
}

// RemoveWidget deletes the widget with the given ID and reports whether
// it was present. Remaining widgets keep their order, so a follow-up
// re-flow reuses the freed space deterministically.
func (d *Dashboard) RemoveWidget(id string) bool {
	before := len(d.Widgets)
	d.Widgets = slices.DeleteFunc(d.Widgets, func(w Widget) bool { return w.ID == id })
	if len(d.Widgets) == before {
		return false
	}
	d.Touch()
	return true
}

// Items converts all widgets at their current positions into engine items,
// in document order.
func (d *Dashboard) Items() []grid.Item {
	items := make([]grid.Item, len(d.Widgets))
	for i, w := range d.Widgets {
		items[i] = w.Item()
	}
	return items
}

// Requests converts all widgets into placement requests, in document
// order, discarding current positions. This is the input for a re-flow.
func (d *Dashboard) Requests() []grid.Request {
	reqs := make([]grid.Request, len(d.Widgets))
	for i, w := range d.Widgets {
		reqs[i] = w.Request()
	}
	return reqs
}

// ApplyLayout writes placed item positions back onto the widgets, matched
// by ID. Width is written back too: full-width items come back widened to
// the grid. An item without a matching widget is an error.
func (d *Dashboard) ApplyLayout(items []grid.Item) error {
	for _, it := range items {
		w, ok := d.Widget(it.ID)
		if !ok {
			return errors.New(errors.ErrCodeWidgetNotFound, "no widget with id %q", it.ID)
		}
		w.X, w.Y, w.W, w.H = it.X, it.Y, it.W, it.H
	}
	d.Touch()
	return nil
}

// Clone returns a deep copy. The engine runner hands clones out so callers
// can treat results as fresh state while their original stays untouched.
func (d *Dashboard) Clone() *Dashboard {
	out := *d
	out.Widgets = slices.Clone(d.Widgets)
	return &out
}

// Touch updates the modification timestamp.
func (d *Dashboard) Touch() { d.UpdatedAt = time.Now().UTC() }

// Validate checks document integrity: a sane name, a non-negative column
// count, unique well-formed widget IDs, known span values, and positive
// widget sizes. Positions are not checked here; see ValidateLayout.
func (d *Dashboard) Validate() error {
	if err := errors.ValidateDashboardName(d.Name); err != nil {
		return err
	}
	if d.Cols < 0 {
		return errors.New(errors.ErrCodeInvalidDashboard, "negative column count: %d", d.Cols)
	}

	seen := make(map[string]struct{}, len(d.Widgets))
	for _, w := range d.Widgets {
		if err := errors.ValidateID(w.ID); err != nil {
			return err
		}
		if _, dup := seen[w.ID]; dup {
			return errors.New(errors.ErrCodeInvalidDashboard, "duplicate widget id %q", w.ID)
		}
		seen[w.ID] = struct{}{}

		if err := errors.ValidateWidgetType(w.Type); err != nil {
			return err
		}
		if w.Span != "" && w.Span != SpanFull {
			return errors.New(errors.ErrCodeInvalidDashboard, "widget %q: unknown span %q", w.ID, w.Span)
		}
		if w.H < 1 {
			return errors.New(errors.ErrCodeInvalidSpec, "widget %q: height must be positive, got %d", w.ID, w.H)
		}
		if !w.IsFullWidth() && w.W < 1 {
			return errors.New(errors.ErrCodeInvalidSpec, "widget %q: width must be positive, got %d", w.ID, w.W)
		}
	}
	return nil
}

// ValidateLayout checks the geometric invariants of the stored positions:
// in bounds, no overlaps, full-width rows exclusive. A failure means the
// persisted layout is stale and the document needs a re-flow before use.
func (d *Dashboard) ValidateLayout() error {
	if err := d.Grid().Validate(d.Items()); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidLayout, err, "stored layout is stale")
	}
	return nil
}

package cache

// Keyer generates cache keys for the layout and render stages.
// Implementations must be deterministic: equal inputs yield equal keys.
type Keyer interface {
	// DashboardKey generates a key for a stored dashboard document.
	DashboardKey(id string) string

	// LayoutKey generates a key for a computed layout. specHash is the
	// hash of the widget specs the layout was computed from.
	LayoutKey(specHash string, opts LayoutKeyOpts) string

	// PreviewKey generates a key for a rendered preview. layoutHash is
	// the hash of the layout the preview was rendered from.
	PreviewKey(layoutHash string, opts PreviewKeyOpts) string
}

// LayoutKeyOpts are the inputs that affect layout computation.
type LayoutKeyOpts struct {
	Cols int
}

// PreviewKeyOpts are the inputs that affect preview rendering.
type PreviewKeyOpts struct {
	Format   string
	Style    string
	CellSize int
	ShowGrid bool
}

// DefaultKeyer is the standard key generator.
// Derived results (layouts, previews) get hashed keys; document keys are
// plain so they can be deleted by id.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DashboardKey generates a key for a stored dashboard document.
func (k *DefaultKeyer) DashboardKey(id string) string {
	return "dashboard:" + id
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(specHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", specHash, opts)
}

// PreviewKey generates a key for a rendered preview.
func (k *DefaultKeyer) PreviewKey(layoutHash string, opts PreviewKeyOpts) string {
	return hashKey("preview", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)

package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// A server hosting dashboards for multiple teams gives each team its own
// cache namespace so entries never leak across tenants.
//
// Example usage:
//
//	// Team-specific keys
//	teamKeyer := NewScopedKeyer(NewDefaultKeyer(), "team:platform:")
//
//	// Shared keys
//	sharedKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DashboardKey generates a prefixed key for a stored dashboard document.
func (k *ScopedKeyer) DashboardKey(id string) string {
	return k.prefix + k.inner.DashboardKey(id)
}

// LayoutKey generates a prefixed key for a computed layout.
func (k *ScopedKeyer) LayoutKey(specHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(specHash, opts)
}

// PreviewKey generates a prefixed key for a rendered preview.
func (k *ScopedKeyer) PreviewKey(layoutHash string, opts PreviewKeyOpts) string {
	return k.prefix + k.inner.PreviewKey(layoutHash, opts)
}

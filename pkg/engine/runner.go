package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mhuels/gridpack/pkg/cache"
	"github.com/mhuels/gridpack/pkg/dashboard"
	"github.com/mhuels/gridpack/pkg/grid"
	"github.com/mhuels/gridpack/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, d *dashboard.Dashboard, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	// Stage 1: Layout
	result, err := r.Reflow(ctx, d, opts)
	if err != nil {
		return nil, err
	}

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result.Dashboard, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered previews",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Reflow recomputes every widget position in document order.
// The input document is never mutated; the result carries an updated copy.
// If opts.Cols is set, the copy is reflowed to that column count.
func (r *Runner) Reflow(ctx context.Context, d *dashboard.Dashboard, opts Options) (*Result, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	if err := d.Validate(); err != nil {
		return nil, err
	}

	work := d.Clone()
	if opts.Cols > 0 {
		work.Cols = opts.Cols
	}
	cols := work.Grid().Cols()

	layoutStart := time.Now()
	items, layoutHit, err := r.ComputeLayoutWithCacheInfo(ctx, cols, work.Requests())
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	if err := work.ApplyLayout(items); err != nil {
		return nil, fmt.Errorf("apply layout: %w", err)
	}

	result := &Result{
		Dashboard:  work,
		Layout:     items,
		LayoutHash: layoutHash(items),
		CacheInfo:  CacheInfo{LayoutHit: layoutHit},
		Stats: Stats{
			WidgetCount: len(items),
			Rows:        grid.MaxBottom(items),
			LayoutTime:  time.Since(layoutStart),
		},
	}

	r.Logger.Info("computed layout",
		"widgets", result.Stats.WidgetCount,
		"rows", result.Stats.Rows,
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// PlaceWidget adds one widget to the document and positions it in the
// first free gap, leaving every existing position untouched.
// The input document is never mutated; the result carries an updated copy.
func (r *Runner) PlaceWidget(ctx context.Context, d *dashboard.Dashboard, w dashboard.Widget, opts Options) (*Result, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := d.ValidateLayout(); err != nil {
		return nil, err
	}

	work := d.Clone()
	existing := work.Items()
	added := work.AddWidget(w)

	item, err := work.Grid().Place(added.Request(), existing)
	if err != nil {
		return nil, fmt.Errorf("place widget %s: %w", added.ID, err)
	}
	if err := work.ApplyLayout([]grid.Item{item}); err != nil {
		return nil, fmt.Errorf("apply layout: %w", err)
	}

	items := work.Items()
	result := &Result{
		Dashboard:  work,
		Layout:     items,
		LayoutHash: layoutHash(items),
		Stats: Stats{
			WidgetCount: len(items),
			Rows:        grid.MaxBottom(items),
		},
	}

	r.Logger.Info("placed widget",
		"id", added.ID,
		"x", item.X,
		"y", item.Y,
		"w", item.W,
		"h", item.H)

	return result, nil
}

// ComputeLayoutWithCacheInfo computes positions for the requests with
// caching and returns cache hit info. A cols value of 0 or less selects
// the default column count.
func (r *Runner) ComputeLayoutWithCacheInfo(ctx context.Context, cols int, reqs []grid.Request) ([]grid.Item, bool, error) {
	start := time.Now()
	observability.Engine().OnLayoutStart(ctx, cols, len(reqs))

	// Compute cache key
	specData, err := json.Marshal(reqs)
	if err != nil {
		return nil, false, fmt.Errorf("serialize specs for cache key: %w", err)
	}
	cacheKey := r.Keyer.LayoutKey(cache.Hash(specData), LayoutKeyOpts(cols))

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached []grid.Item
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			observability.Engine().OnLayoutComplete(ctx, cols, time.Since(start), nil)
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	// Compute layout
	items, err := grid.New(cols).Rebuild(reqs)
	if err != nil {
		observability.Engine().OnLayoutComplete(ctx, cols, time.Since(start), err)
		return nil, false, err
	}

	// Cache the result
	if data, err := json.Marshal(items); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}

	observability.Engine().OnLayoutComplete(ctx, cols, time.Since(start), nil)
	return items, false, nil // Cache miss
}

// ComputeLayout is a convenience wrapper that calls ComputeLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) ComputeLayout(ctx context.Context, cols int, reqs []grid.Request) ([]grid.Item, error) {
	items, _, err := r.ComputeLayoutWithCacheInfo(ctx, cols, reqs)
	return items, err
}

// RenderWithCacheInfo renders previews with caching and returns cache hit info.
// The document must already carry positions; run Reflow first if it may be stale.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, d *dashboard.Dashboard, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	observability.Engine().OnRenderStart(ctx, opts.Formats)

	previewHash, err := renderHash(d)
	if err != nil {
		return nil, false, fmt.Errorf("serialize dashboard for cache key: %w", err)
	}

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.PreviewKey(previewHash, opts.PreviewKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "preview")
		observability.Engine().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
		return artifacts, true, nil // All previews from cache
	}
	observability.Cache().OnCacheMiss(ctx, "preview")

	// Render all formats
	rendered, err := renderArtifacts(d, opts)
	if err != nil {
		observability.Engine().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.PreviewKey(previewHash, opts.PreviewKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLPreview)
		observability.Cache().OnCacheSet(ctx, "preview", len(data))
	}

	observability.Engine().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, d *dashboard.Dashboard, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, d, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// layoutHash is the content hash of a computed layout.
func layoutHash(items []grid.Item) string {
	data, _ := json.Marshal(items)
	return cache.Hash(data)
}

// renderHash hashes the fields rendering depends on. Timestamps are
// excluded so reflows that produce identical content still hit the
// preview cache.
func renderHash(d *dashboard.Dashboard) (string, error) {
	proj := struct {
		Cols    int                `json:"cols"`
		Widgets []dashboard.Widget `json:"widgets"`
	}{
		Cols:    d.Grid().Cols(),
		Widgets: d.Widgets,
	}
	data, err := json.Marshal(proj)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

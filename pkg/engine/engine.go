// Package engine provides the core layout pipeline for Gridpack.
//
// This package implements the complete layout → render pipeline that
// can be used by CLI and server components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: Compute widget positions with the grid packing rules
//  2. Render: Generate previews in various formats (text, SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
// Both stages are cached; keys are derived from the stage inputs, so a
// cache can never serve stale results for changed inputs.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := engine.NewRunner(cache, nil, logger)
//	opts := engine.Options{
//	    Formats: []string{"svg"},
//	    Style:   "blueprint",
//	}
//	result, err := runner.Execute(ctx, dash, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual operations:
//
//	// Recompute all widget positions
//	result, err := runner.Reflow(ctx, dash, opts)
//
//	// Place one new widget into the existing layout
//	result, err := runner.PlaceWidget(ctx, dash, widget, opts)
//
//	// Render a document that already carries positions
//	artifacts, err := runner.Render(ctx, dash, opts)
package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mhuels/gridpack/pkg/cache"
	"github.com/mhuels/gridpack/pkg/dashboard"
	"github.com/mhuels/gridpack/pkg/grid"
	"github.com/mhuels/gridpack/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

// DefaultStyle is the default visual style for SVG-based previews.
const DefaultStyle = render.StylePlain

// DefaultCellSize is the default rendered cell size in pixels.
const DefaultCellSize = render.DefaultCellSize

// Format constants for output formats.
const (
	FormatText = "txt"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatText: true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	render.StylePlain:     true,
	render.StyleBlueprint: true,
}

// =============================================================================
// Options - Engine Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Cols int `json:"cols,omitempty"` // 0 keeps the dashboard's column count

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	CellSize int      `json:"cell_size,omitempty"`
	ShowGrid bool     `json:"show_grid,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dashboard is a copy of the input document with positions applied.
	// The input document is never mutated.
	Dashboard *dashboard.Dashboard

	// Layout contains the computed widget positions.
	Layout []grid.Item

	// LayoutHash is the content hash of the layout.
	LayoutHash string

	// Artifacts contains rendered previews keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	WidgetCount int
	Rows        int
	LayoutTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all previews came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: txt, svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return fmt.Errorf("invalid style: %q (must be one of: plain, blueprint)", style)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLayout checks fields used by layout computation.
func (o *Options) ValidateForLayout() error {
	if o.Cols < 0 {
		return fmt.Errorf("cols must not be negative, got %d", o.Cols)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatText}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.CellSize == 0 {
		o.CellSize = DefaultCellSize
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if o.CellSize < 0 {
		return fmt.Errorf("cell_size must not be negative, got %d", o.CellSize)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// LayoutKeyOpts returns cache key options for layout computation.
func LayoutKeyOpts(cols int) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Cols: cols}
}

// PreviewKeyOpts returns cache key options for preview rendering.
func (o *Options) PreviewKeyOpts(format string) cache.PreviewKeyOpts {
	return cache.PreviewKeyOpts{
		Format:   format,
		Style:    o.Style,
		CellSize: o.CellSize,
		ShowGrid: o.ShowGrid,
	}
}

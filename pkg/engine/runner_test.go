package engine

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mhuels/gridpack/pkg/cache"
	"github.com/mhuels/gridpack/pkg/dashboard"
	gperrors "github.com/mhuels/gridpack/pkg/errors"
	"github.com/mhuels/gridpack/pkg/grid"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func testRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return NewRunner(c, nil, testLogger())
}

func testDashboard() *dashboard.Dashboard {
	return &dashboard.Dashboard{
		ID:   "d1",
		Name: "Ops",
		Cols: 12,
		Widgets: []dashboard.Widget{
			{ID: "cpu", Title: "CPU", W: 6, H: 3},
			{ID: "mem", Title: "Memory", W: 6, H: 3},
			{ID: "log", Title: "Log Tail", H: 4, Span: dashboard.SpanFull},
		},
	}
}

func TestNewRunnerNilSafe(t *testing.T) {
	r := NewRunner(nil, nil, nil)

	if r.Cache == nil {
		t.Error("nil cache should default to NullCache")
	}
	if r.Keyer == nil {
		t.Error("nil keyer should default to DefaultKeyer")
	}
	if r.Logger == nil {
		t.Error("nil logger should default to the package logger")
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	defer r.Close()

	d := testDashboard()
	result, err := r.Execute(ctx, d, Options{Formats: []string{FormatText, FormatJSON}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	// Both artifacts rendered
	if len(result.Artifacts) != 2 {
		t.Errorf("artifact count = %d, want 2", len(result.Artifacts))
	}
	if !strings.Contains(string(result.Artifacts[FormatText]), "CPU") {
		t.Error("text preview missing CPU legend entry")
	}

	// Positions applied to the result copy
	mem, _ := result.Dashboard.Widget("mem")
	if mem.X != 6 || mem.Y != 0 {
		t.Errorf("mem = (%d,%d), want (6,0)", mem.X, mem.Y)
	}

	// Stats reflect the layout
	if result.Stats.WidgetCount != 3 {
		t.Errorf("WidgetCount = %d, want 3", result.Stats.WidgetCount)
	}
	if result.Stats.Rows != 7 {
		t.Errorf("Rows = %d, want 7", result.Stats.Rows)
	}
	if result.LayoutHash == "" {
		t.Error("LayoutHash not set")
	}

	// Input document untouched
	if d.Widgets[1].X != 0 || d.Widgets[1].Y != 0 {
		t.Error("Execute mutated the input document")
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := testRunner(t)
	defer r.Close()

	_, err := r.Execute(context.Background(), testDashboard(), Options{Style: "neon"})
	if err == nil || !strings.Contains(err.Error(), "invalid options") {
		t.Errorf("error = %v, want invalid options", err)
	}
}

func TestComputeLayoutCaching(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	defer r.Close()

	reqs := []grid.Request{
		{ID: "a", W: 6, H: 3},
		{ID: "b", W: 6, H: 3},
	}

	first, hit, err := r.ComputeLayoutWithCacheInfo(ctx, 12, reqs)
	if err != nil {
		t.Fatalf("first compute: %v", err)
	}
	if hit {
		t.Error("first compute should miss the cache")
	}

	second, hit, err := r.ComputeLayoutWithCacheInfo(ctx, 12, reqs)
	if err != nil {
		t.Fatalf("second compute: %v", err)
	}
	if !hit {
		t.Error("second compute should hit the cache")
	}
	if len(second) != len(first) {
		t.Fatalf("cached layout length = %d, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("item %d differs: %+v vs %+v", i, first[i], second[i])
		}
	}

	// Different cols must not reuse the entry
	_, hit, err = r.ComputeLayoutWithCacheInfo(ctx, 8, reqs)
	if err != nil {
		t.Fatalf("compute with 8 cols: %v", err)
	}
	if hit {
		t.Error("different column count should miss the cache")
	}
}

func TestReflowToNewColumnCount(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	defer r.Close()

	d := testDashboard()
	result, err := r.Reflow(ctx, d, Options{Cols: 6})
	if err != nil {
		t.Fatalf("Reflow() error: %v", err)
	}

	if result.Dashboard.Cols != 6 {
		t.Errorf("Cols = %d, want 6", result.Dashboard.Cols)
	}
	// 6-wide widgets stack vertically on a 6-column grid
	mem, _ := result.Dashboard.Widget("mem")
	if mem.X != 0 || mem.Y != 3 {
		t.Errorf("mem = (%d,%d), want (0,3)", mem.X, mem.Y)
	}
	// Input keeps its column count
	if d.Cols != 12 {
		t.Errorf("input Cols mutated to %d", d.Cols)
	}
}

func TestReflowRejectsInvalidDashboard(t *testing.T) {
	r := testRunner(t)
	defer r.Close()

	d := testDashboard()
	d.Widgets[1].ID = "cpu" // duplicate

	_, err := r.Reflow(context.Background(), d, Options{})
	if !gperrors.Is(err, gperrors.ErrCodeInvalidDashboard) {
		t.Errorf("error = %v, want INVALID_DASHBOARD", err)
	}
}

func TestReflowRejectsInvalidSpec(t *testing.T) {
	r := testRunner(t)
	defer r.Close()

	d := testDashboard()
	d.Widgets[0].W = 13 // wider than the grid

	_, err := r.Reflow(context.Background(), d, Options{})
	if !errors.Is(err, grid.ErrInvalidSpec) {
		t.Errorf("error = %v, want ErrInvalidSpec", err)
	}
}

func TestPlaceWidget(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	defer r.Close()

	d := &dashboard.Dashboard{
		ID:   "d1",
		Name: "Ops",
		Cols: 12,
		Widgets: []dashboard.Widget{
			{ID: "cpu", Title: "CPU", X: 0, Y: 0, W: 6, H: 3},
		},
	}

	result, err := r.PlaceWidget(ctx, d, dashboard.Widget{Title: "Memory", W: 6, H: 3}, Options{})
	if err != nil {
		t.Fatalf("PlaceWidget() error: %v", err)
	}

	if len(result.Dashboard.Widgets) != 2 {
		t.Fatalf("widget count = %d, want 2", len(result.Dashboard.Widgets))
	}

	added := result.Dashboard.Widgets[1]
	if added.ID == "" {
		t.Error("placed widget has no id")
	}
	if added.X != 6 || added.Y != 0 {
		t.Errorf("placed widget at (%d,%d), want (6,0)", added.X, added.Y)
	}

	// Existing widget untouched
	cpu, _ := result.Dashboard.Widget("cpu")
	if cpu.X != 0 || cpu.Y != 0 {
		t.Error("existing widget moved")
	}

	// Input document untouched
	if len(d.Widgets) != 1 {
		t.Error("PlaceWidget mutated the input document")
	}
}

func TestPlaceWidgetRejectsStaleLayout(t *testing.T) {
	r := testRunner(t)
	defer r.Close()

	d := &dashboard.Dashboard{
		ID:   "d1",
		Name: "Ops",
		Cols: 12,
		Widgets: []dashboard.Widget{
			{ID: "a", X: 0, Y: 0, W: 6, H: 3},
			{ID: "b", X: 4, Y: 1, W: 6, H: 3}, // overlaps a
		},
	}

	_, err := r.PlaceWidget(context.Background(), d, dashboard.Widget{W: 2, H: 2}, Options{})
	if !gperrors.Is(err, gperrors.ErrCodeInvalidLayout) {
		t.Errorf("error = %v, want INVALID_LAYOUT", err)
	}
}

func TestPlaceWidgetRejectsInvalidSpec(t *testing.T) {
	r := testRunner(t)
	defer r.Close()

	d := &dashboard.Dashboard{ID: "d1", Name: "Ops", Cols: 12}

	_, err := r.PlaceWidget(context.Background(), d, dashboard.Widget{W: 13, H: 2}, Options{})
	if !errors.Is(err, grid.ErrInvalidSpec) {
		t.Errorf("error = %v, want ErrInvalidSpec", err)
	}
}

func TestRenderCaching(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	defer r.Close()

	result, err := r.Reflow(ctx, testDashboard(), Options{})
	if err != nil {
		t.Fatalf("Reflow() error: %v", err)
	}
	opts := Options{Formats: []string{FormatText, FormatSVG}}

	first, hit, err := r.RenderWithCacheInfo(ctx, result.Dashboard, opts)
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	if hit {
		t.Error("first render should miss the cache")
	}

	second, hit, err := r.RenderWithCacheInfo(ctx, result.Dashboard, opts)
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if !hit {
		t.Error("second render should hit the cache")
	}
	if string(first[FormatSVG]) != string(second[FormatSVG]) {
		t.Error("cached SVG differs from rendered SVG")
	}

	// A different style must not reuse the entry
	_, hit, err = r.RenderWithCacheInfo(ctx, result.Dashboard, Options{
		Formats: []string{FormatText, FormatSVG},
		Style:   "blueprint",
	})
	if err != nil {
		t.Fatalf("blueprint render: %v", err)
	}
	if hit {
		t.Error("different style should miss the cache")
	}
}

func TestRenderFormats(t *testing.T) {
	ctx := context.Background()
	r := testRunner(t)
	defer r.Close()

	result, err := r.Reflow(ctx, testDashboard(), Options{})
	if err != nil {
		t.Fatalf("Reflow() error: %v", err)
	}

	artifacts, err := r.Render(ctx, result.Dashboard, Options{
		Formats: []string{FormatText, FormatSVG, FormatJSON},
	})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if !strings.HasPrefix(string(artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact does not start with <svg")
	}
	if !strings.Contains(string(artifacts[FormatJSON]), `"cpu"`) {
		t.Error("json artifact missing widget id")
	}
	if len(artifacts[FormatText]) == 0 {
		t.Error("text artifact empty")
	}
}

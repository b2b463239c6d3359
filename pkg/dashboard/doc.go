// Package dashboard provides the serialization types for dashboard
// documents and their widgets.
//
// This package defines the canonical wire format for Gridpack's layout
// data, used for JSON files, API responses, caching, and persistence.
//
// # Architecture
//
// The package sits at the serialization boundary between the pure layout
// engine and everything that stores or transports layouts:
//
//   - [Dashboard], [Widget]: Serialization types (this package)
//   - pkg/grid.Item, pkg/grid.Request: Engine-side geometry
//
// Use [Widget.Item], [Widget.Request], [Dashboard.Items],
// [Dashboard.Requests], and [Dashboard.ApplyLayout] to convert between
// them. The engine never sees a Dashboard; it works on plain items.
//
// # Document Format
//
// Dashboards use a flat JSON format:
//
//	{
//	  "id": "9bfae2e4-...",
//	  "name": "Sales Overview",
//	  "cols": 12,
//	  "widgets": [
//	    {"id": "cpu", "title": "CPU", "type": "line", "x": 0, "y": 0, "w": 6, "h": 3},
//	    {"id": "orders", "type": "table", "x": 0, "y": 3, "w": 12, "h": 4, "span": "full-width"}
//	  ]
//	}
//
// Widget types ("line", "bar", "table", ...) are opaque labels owned by
// whatever renders the charts; the layout engine never interprets them.
//
// Common operations:
//
//	d, _ := dashboard.ReadDashboardFile("sales.json")   // File → Dashboard
//	dashboard.WriteDashboardFile(d, "sales.json")       // Dashboard → File
//	data, _ := dashboard.MarshalDashboard(d)            // Dashboard → []byte
//	parsed, _ := dashboard.UnmarshalDashboard(data)     // []byte → Dashboard
//
// All types carry bson tags alongside json so documents round-trip through
// MongoDB unchanged.
//
// # Stale Layouts
//
// Persisted positions can go stale (widgets deleted or resized by hand,
// documents saved under a different column count). [Dashboard.Validate]
// checks document integrity; [Dashboard.ValidateLayout] checks the
// geometric invariants and tells callers when a re-flow is needed.
package dashboard

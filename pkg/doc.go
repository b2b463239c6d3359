// Package pkg provides the core libraries for gridpack dashboard layout.
//
// # Overview
//
// Gridpack packs dashboard widgets onto a fixed-column grid: widgets flow
// into the first gap that fits, scanning rows top to bottom, so the same
// document always produces the same layout. The pkg directory is organized
// into four main areas:
//
//  1. Layout core - [grid] (gap finding, collision checks, placement) and
//     [dashboard] (documents, widgets, serialization)
//  2. Orchestration - [engine] (reflow → render pipeline with caching)
//  3. Infrastructure - [cache], [store], [config], [errors], [remote]
//  4. Delivery - [render] (wireframe previews) and [client] (HTTP client
//     for the serve API)
//
// # Architecture
//
// The typical data flow through gridpack:
//
//	Dashboard document (JSON)
//	         ↓
//	    [engine] package (replay widgets through the placement engine)
//	         ↓
//	    [grid] package (first-fit packing on the column grid)
//	         ↓
//	    [render] package (txt/SVG/PNG/PDF/JSON previews)
//
// # Quick Start
//
// Pack a document and render an SVG preview:
//
//	import (
//	    "context"
//	    "github.com/mhuels/gridpack/pkg/cache"
//	    "github.com/mhuels/gridpack/pkg/dashboard"
//	    "github.com/mhuels/gridpack/pkg/engine"
//	)
//
//	// 1. Build a document
//	d := dashboard.New("Ops", 12)
//	d.AddWidget(dashboard.Widget{Title: "CPU", W: 6, H: 3})
//	d.AddWidget(dashboard.Widget{Title: "Memory", W: 6, H: 3})
//
//	// 2. Compute the layout
//	runner := engine.NewRunner(cache.NewNullCache(), nil, nil)
//	res, _ := runner.Reflow(context.Background(), d, engine.Options{})
//
//	// 3. Render previews
//	out, _ := runner.Render(context.Background(), res.Dashboard, engine.Options{
//	    Formats: []string{engine.FormatSVG},
//	})
//	svg := out[engine.FormatSVG]
//
// # Main Packages
//
// [grid] - The pure layout core. Gap finding per row, half-open rectangle
// collision checks, first-fit placement, and full document rebuilds. No
// I/O, no dependencies beyond the standard library.
//
// [dashboard] - Dashboard documents and widgets with JSON and BSON
// serialization. Validation is split between document shape and stored
// layout geometry.
//
// [engine] - Orchestration used by CLI and server alike: reflow, single
// widget placement, and preview rendering, with layout and render caching
// keyed on document content.
//
// [render] - Wireframe previews of a positioned document: character grids
// for terminals, styled SVG, and PDF/PNG conversion via librsvg.
//
// [cache] - Cache backends (file, Redis, null) behind one interface, plus
// content hashing and namespacing.
//
// [store] - Dashboard persistence behind one interface: memory, SQLite,
// and MongoDB backends.
//
// [config] - TOML configuration for the server with section-by-section
// defaults.
//
// [client] - HTTP client for the serve API. Server error envelopes decode
// back into coded errors, so error handling matches the local store.
//
// [remote] - Named server profiles persisted under the user config dir.
//
// [errors] - Coded errors shared across the CLI, engine, and server.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/grid/...               # Specific package
//	go test -tags integration ./pkg/...  # Include integration tests
//
// [grid]: https://pkg.go.dev/github.com/mhuels/gridpack/pkg/grid
// [dashboard]: https://pkg.go.dev/github.com/mhuels/gridpack/pkg/dashboard
// [engine]: https://pkg.go.dev/github.com/mhuels/gridpack/pkg/engine
// [render]: https://pkg.go.dev/github.com/mhuels/gridpack/pkg/render
// [cache]: https://pkg.go.dev/github.com/mhuels/gridpack/pkg/cache
// [store]: https://pkg.go.dev/github.com/mhuels/gridpack/pkg/store
// [config]: https://pkg.go.dev/github.com/mhuels/gridpack/pkg/config
// [client]: https://pkg.go.dev/github.com/mhuels/gridpack/pkg/client
// [remote]: https://pkg.go.dev/github.com/mhuels/gridpack/pkg/remote
// [errors]: https://pkg.go.dev/github.com/mhuels/gridpack/pkg/errors
package pkg

// Package store persists dashboard documents.
//
// The Store interface abstracts document storage so the HTTP API and the
// CLI share persistence code. Three backends are provided:
//   - memory: in-process map for development and tests
//   - sqlite: single-file embedded database for standalone deployments
//   - mongo: document database for multi-instance deployments
//
// # Semantics
//
// Put is an upsert keyed on the dashboard ID. Get and Delete report a
// missing ID with ErrNotFound. List returns every stored document sorted
// by name, then ID, so output order is stable across backends.
//
// Backends return defensive copies where the underlying storage would
// otherwise alias caller memory; mutating a returned dashboard never
// changes stored state until the next Put.
//
// # Usage
//
// Open a store from configuration values:
//
//	st, err := store.Open(ctx, "sqlite", "data/gridpack.db", "")
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
// Persist and reload documents:
//
//	if err := st.Put(ctx, dash); err != nil {
//	    return err
//	}
//	loaded, err := st.Get(ctx, dash.ID)
//	if errors.Is(err, store.ErrNotFound) {
//	    // No dashboard with that ID.
//	}
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/mhuels/gridpack/pkg/dashboard"
)

// ErrNotFound is returned when no dashboard has the requested ID.
var ErrNotFound = errors.New("dashboard not found")

// Store is the interface for dashboard storage backends.
type Store interface {
	// Get retrieves a dashboard by ID.
	// Returns an error wrapping ErrNotFound if the ID is unknown.
	Get(ctx context.Context, id string) (*dashboard.Dashboard, error)

	// Put stores a dashboard, replacing any existing document with the
	// same ID.
	Put(ctx context.Context, d *dashboard.Dashboard) error

	// List returns all stored dashboards sorted by name, then ID.
	List(ctx context.Context) ([]*dashboard.Dashboard, error)

	// Delete removes a dashboard.
	// Returns an error wrapping ErrNotFound if the ID is unknown.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close() error
}

// Open creates a store for the named backend.
//
//   - "memory" (or empty): in-process map, contents are lost on exit
//   - "sqlite": dsn is the database file path
//   - "mongo": dsn is the connection URI, database names the mongo
//     database (defaults to "gridpack")
func Open(ctx context.Context, backend, dsn, database string) (Store, error) {
	switch backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		return NewSQLiteStore(dsn)
	case "mongo":
		return NewMongoStore(ctx, dsn, database)
	default:
		return nil, fmt.Errorf("unknown store backend %q", backend)
	}
}

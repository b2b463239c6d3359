package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/mhuels/gridpack/pkg/dashboard"
)

// Dashboards are stored as their canonical JSON document; name and
// updated_at are duplicated into columns for ordering and inspection.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS dashboards (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	doc        TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_dashboards_name ON dashboards (name);
`

// SQLiteStore persists dashboards in a single SQLite database file.
// The driver is the WASM build from ncruces/go-sqlite3, so no cgo is
// required.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path and
// applies the schema. Parent directories are created automatically.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single connection serializes writers and keeps busy_timeout
	// handling predictable.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*dashboard.Dashboard, error) {
	var doc []byte
	row := s.db.QueryRowContext(ctx, `SELECT doc FROM dashboards WHERE id = ?`, id)
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("dashboard %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("query dashboard %s: %w", id, err)
	}

	d, err := dashboard.UnmarshalDashboard(doc)
	if err != nil {
		return nil, fmt.Errorf("decode stored dashboard %s: %w", id, err)
	}
	return d, nil
}

func (s *SQLiteStore) Put(ctx context.Context, d *dashboard.Dashboard) error {
	if d.ID == "" {
		return fmt.Errorf("dashboard id is empty")
	}

	doc, err := dashboard.MarshalDashboard(d)
	if err != nil {
		return fmt.Errorf("encode dashboard %s: %w", d.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO dashboards (id, name, doc, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name       = excluded.name,
			doc        = excluded.doc,
			updated_at = excluded.updated_at
	`, d.ID, d.Name, doc, d.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store dashboard %s: %w", d.ID, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*dashboard.Dashboard, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, doc FROM dashboards ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list dashboards: %w", err)
	}
	defer rows.Close()

	var out []*dashboard.Dashboard
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan dashboard row: %w", err)
		}
		d, err := dashboard.UnmarshalDashboard(doc)
		if err != nil {
			return nil, fmt.Errorf("decode stored dashboard %s: %w", id, err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list dashboards: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM dashboards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete dashboard %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete dashboard %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("dashboard %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)

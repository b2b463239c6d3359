package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Dashboard Serialization API
// =============================================================================

// MarshalDashboard converts a dashboard to indented JSON bytes.
// Output is deterministic: field order is fixed and widgets keep their
// document order.
func MarshalDashboard(d *Dashboard) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeDashboardTo(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalDashboard deserializes JSON bytes to a dashboard and validates
// document integrity. Stored positions are not checked; callers decide
// whether to trust or re-flow them.
func UnmarshalDashboard(data []byte) (*Dashboard, error) {
	return readDashboardFrom(bytes.NewReader(data))
}

// WriteDashboardFile writes a dashboard to a JSON file.
// The file is created with 0644 permissions.
func WriteDashboardFile(d *Dashboard, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeDashboardTo(d, f)
}

// WriteDashboard writes a dashboard as JSON to an io.Writer.
// Use MarshalDashboard for in-memory serialization or WriteDashboardFile
// for files.
func WriteDashboard(d *Dashboard, w io.Writer) error {
	return writeDashboardTo(d, w)
}

// ReadDashboardFile reads a JSON file and returns the decoded dashboard.
// Returns validation errors for malformed documents.
func ReadDashboardFile(path string) (*Dashboard, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readDashboardFrom(f)
}

// ReadDashboard decodes a JSON dashboard from an io.Reader.
// Use ReadDashboardFile for files or pass bytes.NewReader for in-memory
// data.
func ReadDashboard(r io.Reader) (*Dashboard, error) {
	return readDashboardFrom(r)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeDashboardTo(d *Dashboard, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readDashboardFrom(r io.Reader) (*Dashboard, error) {
	var d Dashboard
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

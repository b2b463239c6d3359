package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/mhuels/gridpack/pkg/cache"
	"github.com/mhuels/gridpack/pkg/config"
	"github.com/mhuels/gridpack/pkg/dashboard"
	"github.com/mhuels/gridpack/pkg/engine"
	"github.com/mhuels/gridpack/pkg/store"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := engine.NewRunner(cache.NewNullCache(), nil, logger)
	return New(config.Default(), store.NewMemoryStore(), runner, logger).Handler()
}

// do sends a request to the handler. A []byte body is sent raw; any other
// non-nil body is JSON-encoded.
func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		rd = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeDashboard(t *testing.T, rec *httptest.ResponseRecorder) *dashboard.Dashboard {
	t.Helper()
	var d dashboard.Dashboard
	if err := json.Unmarshal(rec.Body.Bytes(), &d); err != nil {
		t.Fatalf("decode dashboard response: %v\nbody: %s", err, rec.Body.String())
	}
	return &d
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error response: %v\nbody: %s", err, rec.Body.String())
	}
	return e
}

// createDashboard posts a two-widget document and reflows it, returning
// the stored state.
func createDashboard(t *testing.T, h http.Handler) *dashboard.Dashboard {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/dashboards?reflow=true", createDashboardRequest{
		Name: "Ops Overview",
		Widgets: []dashboard.Widget{
			{Title: "CPU", Type: "line", W: 6, H: 3},
			{Title: "Memory", Type: "line", W: 6, H: 3},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body: %s", rec.Code, rec.Body.String())
	}
	return decodeDashboard(t, rec)
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCreateDashboardWithReflow(t *testing.T) {
	h := newTestServer(t)
	d := createDashboard(t, h)

	if d.ID == "" {
		t.Fatal("created dashboard has no ID")
	}
	if d.Cols != 12 {
		t.Errorf("Cols = %d, want config default 12", d.Cols)
	}
	if len(d.Widgets) != 2 {
		t.Fatalf("widgets = %d, want 2", len(d.Widgets))
	}
	cpu, mem := d.Widgets[0], d.Widgets[1]
	if cpu.ID == "" || mem.ID == "" {
		t.Error("widget IDs were not minted")
	}
	if cpu.X != 0 || cpu.Y != 0 {
		t.Errorf("cpu at (%d,%d), want (0,0)", cpu.X, cpu.Y)
	}
	if mem.X != 6 || mem.Y != 0 {
		t.Errorf("mem at (%d,%d), want (6,0)", mem.X, mem.Y)
	}

	// Created documents are immediately retrievable.
	rec := do(t, h, http.MethodGet, "/api/dashboards/"+d.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	got := decodeDashboard(t, rec)
	if got.ID != d.ID || len(got.Widgets) != 2 {
		t.Errorf("get returned %s with %d widgets", got.ID, len(got.Widgets))
	}
}

func TestCreateDashboardLocationHeader(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/api/dashboards", createDashboardRequest{Name: "Empty"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	d := decodeDashboard(t, rec)
	if loc := rec.Header().Get("Location"); loc != "/api/dashboards/"+d.ID {
		t.Errorf("Location = %q", loc)
	}
}

func TestCreateDashboardKeepsPositionsWithoutReflow(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodPost, "/api/dashboards", createDashboardRequest{
		Name:    "Manual",
		Widgets: []dashboard.Widget{{Title: "Pinned", X: 3, Y: 2, W: 4, H: 2}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	d := decodeDashboard(t, rec)
	if d.Widgets[0].X != 3 || d.Widgets[0].Y != 2 {
		t.Errorf("widget at (%d,%d), want (3,2) untouched", d.Widgets[0].X, d.Widgets[0].Y)
	}
}

func TestCreateDashboardInvalid(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/dashboards", createDashboardRequest{Name: ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if e := decodeError(t, rec); e.Code != "INVALID_DASHBOARD" || e.Error == "" {
		t.Errorf("error envelope = %+v", e)
	}

	rec = do(t, h, http.MethodPost, "/api/dashboards", []byte("{"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed body status = %d, want 400", rec.Code)
	}
	if e := decodeError(t, rec); e.Code != "INVALID_INPUT" {
		t.Errorf("error code = %q, want INVALID_INPUT", e.Code)
	}
}

func TestGetDashboardMissing(t *testing.T) {
	h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/api/dashboards/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if e := decodeError(t, rec); e.Code != "DASHBOARD_NOT_FOUND" {
		t.Errorf("error code = %q", e.Code)
	}
}

func TestListDashboards(t *testing.T) {
	h := newTestServer(t)

	for _, name := range []string{"Beta", "Alpha"} {
		rec := do(t, h, http.MethodPost, "/api/dashboards", createDashboardRequest{Name: name})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %s status = %d", name, rec.Code)
		}
	}

	rec := do(t, h, http.MethodGet, "/api/dashboards", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var list listDashboardsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.Count != 2 || len(list.Dashboards) != 2 {
		t.Fatalf("count = %d, dashboards = %d", list.Count, len(list.Dashboards))
	}
	if list.Dashboards[0].Name != "Alpha" || list.Dashboards[1].Name != "Beta" {
		t.Errorf("order = %q, %q; want Alpha, Beta",
			list.Dashboards[0].Name, list.Dashboards[1].Name)
	}
}

func TestUpdateDashboard(t *testing.T) {
	h := newTestServer(t)
	d := createDashboard(t, h)

	d.Name = "Renamed"
	body, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	rec := do(t, h, http.MethodPut, "/api/dashboards/"+d.ID, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	if got := decodeDashboard(t, rec); got.Name != "Renamed" {
		t.Errorf("Name = %q", got.Name)
	}

	rec = do(t, h, http.MethodGet, "/api/dashboards/"+d.ID, nil)
	if got := decodeDashboard(t, rec); got.Name != "Renamed" {
		t.Errorf("persisted Name = %q", got.Name)
	}
}

func TestUpdateDashboardIDMismatch(t *testing.T) {
	h := newTestServer(t)
	d := createDashboard(t, h)

	other := d.Clone()
	other.ID = "different-id"
	body, _ := json.Marshal(other)
	rec := do(t, h, http.MethodPut, "/api/dashboards/"+d.ID, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if e := decodeError(t, rec); e.Code != "INVALID_INPUT" {
		t.Errorf("error code = %q", e.Code)
	}
}

func TestUpdateDashboardCreatesWhenMissing(t *testing.T) {
	h := newTestServer(t)

	d := dashboard.New("Pushed", 12)
	body, _ := json.Marshal(d)
	rec := do(t, h, http.MethodPut, "/api/dashboards/"+d.ID, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body: %s", rec.Code, rec.Body.String())
	}
	created := decodeDashboard(t, rec)
	if created.ID != d.ID {
		t.Errorf("ID = %q, want %q", created.ID, d.ID)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps not set on create")
	}

	rec = do(t, h, http.MethodGet, "/api/dashboards/"+d.ID, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("get after upsert status = %d", rec.Code)
	}
}

func TestDeleteDashboard(t *testing.T) {
	h := newTestServer(t)
	d := createDashboard(t, h)

	rec := do(t, h, http.MethodDelete, "/api/dashboards/"+d.ID, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	rec = do(t, h, http.MethodGet, "/api/dashboards/"+d.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d", rec.Code)
	}
	rec = do(t, h, http.MethodDelete, "/api/dashboards/"+d.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d", rec.Code)
	}
}

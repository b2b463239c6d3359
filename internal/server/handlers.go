package server

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mhuels/gridpack/pkg/dashboard"
	"github.com/mhuels/gridpack/pkg/engine"
	"github.com/mhuels/gridpack/pkg/errors"
	"github.com/mhuels/gridpack/pkg/store"
)

// =============================================================================
// Request / Response Shapes
// =============================================================================

// createDashboardRequest is the POST /api/dashboards body. Widget
// positions are taken as-is unless the reflow query parameter is set.
type createDashboardRequest struct {
	Name    string             `json:"name"`
	Cols    int                `json:"cols"`
	Widgets []dashboard.Widget `json:"widgets"`
}

type listDashboardsResponse struct {
	Dashboards []*dashboard.Dashboard `json:"dashboards"`
	Count      int                    `json:"count"`
}

// reflowResponse reports the updated document plus layout stats, so API
// clients see cache behavior without scraping logs.
type reflowResponse struct {
	Dashboard *dashboard.Dashboard `json:"dashboard"`
	Stats     reflowStats          `json:"stats"`
}

type reflowStats struct {
	WidgetCount  int   `json:"widget_count"`
	Rows         int   `json:"rows"`
	LayoutMillis int64 `json:"layout_ms"`
	LayoutCached bool  `json:"layout_cached"`
}

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Dashboard CRUD
// =============================================================================

func (s *Server) handleListDashboards(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, listDashboardsResponse{Dashboards: all, Count: len(all)})
}

func (s *Server) handleCreateDashboard(w http.ResponseWriter, r *http.Request) {
	var req createDashboardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	cols := req.Cols
	if cols == 0 {
		cols = s.cfg.Grid.Cols
	}
	d := dashboard.New(req.Name, cols)
	for _, wdg := range req.Widgets {
		d.AddWidget(wdg)
	}
	if err := d.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	if queryFlag(r, "reflow") {
		res, err := s.runner.Reflow(r.Context(), d, engine.Options{})
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		d = res.Dashboard
	}

	if err := s.store.Put(r.Context(), d); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/dashboards/"+d.ID)
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// handleUpdateDashboard replaces the document at the path ID, creating
// it when absent. Upsert semantics let clients push a local file to a
// server that has never seen it.
func (s *Server) handleUpdateDashboard(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "read request body: %v", err))
		return
	}
	d, err := dashboard.UnmarshalDashboard(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if d.ID == "" {
		d.ID = id
	}
	if d.ID != id {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput,
			"body id %q does not match path id %q", d.ID, id))
		return
	}

	status := http.StatusOK
	existing, err := s.store.Get(r.Context(), id)
	switch {
	case err == nil:
		// The creation timestamp survives replacement.
		if d.CreatedAt.IsZero() {
			d.CreatedAt = existing.CreatedAt
		}
	case stderrors.Is(err, store.ErrNotFound):
		status = http.StatusCreated
		if d.CreatedAt.IsZero() {
			d.CreatedAt = time.Now().UTC()
		}
	default:
		s.writeError(w, r, err)
		return
	}
	d.UpdatedAt = time.Now().UTC()

	if err := s.store.Put(r.Context(), d); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, status, d)
}

func (s *Server) handleDeleteDashboard(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Layout Operations
// =============================================================================

func (s *Server) handlePlaceWidget(w http.ResponseWriter, r *http.Request) {
	var wdg dashboard.Widget
	if err := decodeJSON(w, r, &wdg); err != nil {
		s.writeError(w, r, err)
		return
	}

	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.runner.PlaceWidget(r.Context(), d, wdg, engine.Options{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.Put(r.Context(), res.Dashboard); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res.Dashboard)
}

func (s *Server) handleRemoveWidget(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	widgetID := chi.URLParam(r, "widgetID")
	if !d.RemoveWidget(widgetID) {
		s.writeError(w, r, errors.New(errors.ErrCodeWidgetNotFound, "no widget with id %q", widgetID))
		return
	}

	// Remaining widgets are re-flowed so the freed cells are reclaimed.
	res, err := s.runner.Reflow(r.Context(), d, engine.Options{})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.Put(r.Context(), res.Dashboard); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res.Dashboard)
}

func (s *Server) handleReflow(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var opts engine.Options
	if v := r.URL.Query().Get("cols"); v != "" {
		cols, err := strconv.Atoi(v)
		if err != nil || cols <= 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid cols %q", v))
			return
		}
		opts.Cols = cols
	}

	res, err := s.runner.Reflow(r.Context(), d, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.store.Put(r.Context(), res.Dashboard); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reflowResponse{
		Dashboard: res.Dashboard,
		Stats: reflowStats{
			WidgetCount:  res.Stats.WidgetCount,
			Rows:         res.Stats.Rows,
			LayoutMillis: res.Stats.LayoutTime.Milliseconds(),
			LayoutCached: res.CacheInfo.LayoutHit,
		},
	})
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := engine.Options{Formats: []string{engine.FormatSVG}}
	q := r.URL.Query()
	if v := q.Get("style"); v != "" {
		if err := engine.ValidateStyle(v); err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidStyle, "%v", err))
			return
		}
		opts.Style = v
	}
	if v := q.Get("cell"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil || size <= 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid cell size %q", v))
			return
		}
		opts.CellSize = size
	}
	if v := q.Get("grid"); v != "" {
		show, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid grid flag %q", v))
			return
		}
		opts.ShowGrid = show
	}

	artifacts, err := s.runner.Render(r.Context(), d, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(artifacts[engine.FormatSVG])
}

// queryFlag reports whether a boolean query parameter is set to a true
// value.
func queryFlag(r *http.Request, name string) bool {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// Package server implements the gridpack HTTP API.
//
// The API exposes dashboard CRUD plus the layout operations: placing a
// single widget, reflowing a whole document, and rendering wireframe
// previews. All layout math goes through engine.Runner; the server only
// translates HTTP to engine and store calls.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mhuels/gridpack/pkg/config"
	"github.com/mhuels/gridpack/pkg/engine"
	"github.com/mhuels/gridpack/pkg/store"
)

// Server wires the HTTP API to a store and an engine runner.
type Server struct {
	cfg    *config.Config
	store  store.Store
	runner *engine.Runner
	logger *log.Logger
}

// New creates a server. A nil logger falls back to the default logger.
func New(cfg *config.Config, st store.Store, runner *engine.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		cfg:    cfg,
		store:  st,
		runner: runner,
		logger: logger,
	}
}

// Handler builds the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/dashboards", func(r chi.Router) {
		r.Get("/", s.handleListDashboards)
		r.Post("/", s.handleCreateDashboard)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetDashboard)
			r.Put("/", s.handleUpdateDashboard)
			r.Delete("/", s.handleDeleteDashboard)

			r.Post("/widgets", s.handlePlaceWidget)
			r.Delete("/widgets/{widgetID}", s.handleRemoveWidget)
			r.Post("/reflow", s.handleReflow)
			r.Get("/preview.svg", s.handlePreview)
		})
	})

	return r
}

// Serve runs the HTTP server until ctx is canceled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeout) * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(s.cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	s.logger.Info("shutting down http server")
	return srv.Shutdown(shutdownCtx)
}

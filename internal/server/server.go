// Package server exposes a read-only HTTP preview of a practice log tree:
// the slugs, per-slug entries, and the aggregated report the visualization
// site would consume.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/benchantech/practice/internal/log"
	"github.com/benchantech/practice/internal/logbook"
)

// Config configures the preview server.
type Config struct {
	Addr     string
	Root     string
	Excludes []string // in addition to the built-in exclusions
	Months   int
}

// Server wraps the HTTP server and router.
type Server struct {
	cfg Config
	srv *http.Server
}

// NewRouter creates the chi router with all routes and middleware.
func NewRouter(book *logbook.Book, months int) *chi.Mux {
	logger := log.Component("server")

	r := chi.NewRouter()
	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	h := NewHandler(book, months)

	r.Get("/health", h.Health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/slugs", h.Slugs)
		r.Get("/logs/{slug}", h.Logs)
		r.Get("/summary", h.Summary)
	})

	return r
}

// New creates a preview server for the given log root.
func New(cfg Config) *Server {
	book := logbook.NewBook(cfg.Root, cfg.Excludes...)
	return &Server{
		cfg: cfg,
		srv: &http.Server{
			Addr:         cfg.Addr,
			Handler:      NewRouter(book, cfg.Months),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.Info("preview server listening", "addr", s.cfg.Addr, "root", s.cfg.Root)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

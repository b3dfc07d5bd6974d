// Package server exposes an editor over HTTP so a browser drag widget can
// drive it.
//
// The widget owns rendering and pointer handling. It reports container
// measurements, drag-stop and resize-stop pixel geometry and key presses;
// the server applies them to the editor and answers with the resulting
// state, including per-item pixel placements for the widget to draw.
//
// All routes live under /api/v1. Requests are serialized: the editor is
// not safe for concurrent use.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/plotgrid/pkg/editor"
)

// DefaultAddr is the listen address used when none is given.
const DefaultAddr = "127.0.0.1:8320"

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Server serves one editor.
type Server struct {
	mu     sync.Mutex
	ed     *editor.Editor
	logger *log.Logger
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// New creates a server around ed. The editor should already be opened.
func New(ed *editor.Editor, opts ...Option) *Server {
	s := &Server{ed: ed}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(s.requestLogger)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Put("/container", s.handleContainer)
		r.Put("/view", s.handleView)
		r.Put("/selection", s.handleSelection)
		r.Post("/keys", s.handleKey)
		r.Post("/copy", s.handleCopy)
		r.Get("/output", s.handleOutput)

		r.Route("/items", func(r chi.Router) {
			r.Get("/", s.handleListItems)
			r.Post("/", s.handleAddItem)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetItem)
				r.Patch("/", s.handlePatchItem)
				r.Delete("/", s.handleDeleteItem)
				r.Put("/fields/{field}", s.handleEditField)
				r.Post("/drag", s.handleDrag)
				r.Post("/resize", s.handleResize)
			})
		})
	})

	return router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown failed", "err", err)
		return err
	}
	s.logger.Info("server stopped")
	return ctx.Err()
}

// Package server exposes a fetched dataset over HTTP as a small JSON API.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/tasnimul-arabi-anik/fetchm/pkg/genome"
	"github.com/tasnimul-arabi-anik/fetchm/pkg/store"
)

// Config holds server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Dataset is the dataset to serve.
	Dataset *genome.Dataset

	// Store, when set, additionally exposes the run archive.
	Store store.Store

	// Logger receives request-level log output.
	Logger *log.Logger
}

// Server serves a dataset over HTTP.
type Server struct {
	cfg Config
}

// New creates a Server. The dataset is required.
func New(cfg Config) (*Server, error) {
	if cfg.Dataset == nil {
		return nil, fmt.Errorf("no dataset to serve")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Server{cfg: cfg}, nil
}

// Handler builds the HTTP routing tree.
func (s *Server) Handler() http.Handler {
	h := newHandlers(s.cfg.Dataset, s.cfg.Store)

	r := chi.NewMux()
	r.Use(
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/healthz", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/dataset", h.dataset)
		r.Get("/records", h.listRecords)
		r.Get("/records/{accession}", h.getRecord)
		r.Get("/stats", h.stats)
		if s.cfg.Store != nil {
			r.Get("/runs", h.listRuns)
			r.Get("/runs/{id}", h.getRun)
		}
	})
	return r
}

// Serve starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.cfg.Logger.Info("starting server", "addr", s.cfg.Addr, "records", len(s.cfg.Dataset.Records))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.cfg.Logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

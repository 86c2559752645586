// Package panel serves the web control panel for managed domains.
//
// The panel is a thin presentation layer: every change goes through the
// lifecycle manager, so requests from the browser, the CLI and the watcher
// are serialized by the same mutex.
package panel

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ksyq12/dottux/internal/domain"
	"github.com/ksyq12/dottux/internal/driver"
	"github.com/ksyq12/dottux/internal/lifecycle"
	"github.com/ksyq12/dottux/internal/logger"
	"github.com/ksyq12/dottux/internal/metrics"
)

// Service is the lifecycle surface the panel drives
type Service interface {
	List(b driver.Backend) ([]domain.Name, error)
	Add(ctx context.Context, prefix string, b driver.Backend) (*lifecycle.Report, error)
	Remove(ctx context.Context, name string, b driver.Backend) (*lifecycle.Report, error)
	Reconcile(ctx context.Context) *lifecycle.Report
}

// Options configures the panel
type Options struct {
	Listen        string
	Backend       driver.Backend
	ListenPort    int
	RatePerMinute int
}

// Server wraps the HTTP server and its dependencies
type Server struct {
	http    *http.Server
	svc     Service
	opts    Options
	started time.Time
}

// New builds the HTTP server (router, middlewares, routes)
func New(svc Service, opts Options) *Server {
	if opts.ListenPort == 0 {
		opts.ListenPort = driver.DefaultListenPort
	}

	s := &Server{
		svc:     svc,
		opts:    opts,
		started: time.Now(),
	}

	s.http = &http.Server{
		Addr:              opts.Listen,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// a reload may take up to its own timeout
		WriteTimeout:   2 * time.Minute,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	return s
}

// Router returns the panel's routes with middleware applied
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(accessLog)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(rateLimit(s.opts.RatePerMinute))
		r.Post("/add", s.handleAdd)
		r.Post("/delete/{domain}", s.handleDelete)
		r.Post("/reload", s.handleReload)
	})

	return r
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.http.Addr
}

// Start runs the HTTP server (blocks until error or shutdown)
func (s *Server) Start() error {
	logger.Info("Control panel listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server with the provided context deadline
func (s *Server) Stop(ctx context.Context) error {
	logger.Info("Control panel shutting down")
	return s.http.Shutdown(ctx)
}

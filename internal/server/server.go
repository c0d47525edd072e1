// Package server implements the stepwise HTTP API.
//
// The API exposes step-through sessions backed by a [session.Manager] and
// renders their frames through a [render.Renderer]. Handlers speak JSON;
// errors are returned as {"code": ..., "message": ...} with the status
// derived from the error code.
//
// # Routes
//
//	GET    /healthz
//	GET    /metrics
//	GET    /api/v1/algorithms
//	POST   /api/v1/sessions
//	GET    /api/v1/sessions/{id}
//	DELETE /api/v1/sessions/{id}
//	POST   /api/v1/sessions/{id}/next
//	POST   /api/v1/sessions/{id}/prev
//	POST   /api/v1/sessions/{id}/reset
//	GET    /api/v1/sessions/{id}/render?format=svg&view=array
//	POST   /api/v1/edit-distance
//	POST   /api/v1/kmeans
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/stepwise/pkg/config"
	"github.com/matzehuels/stepwise/pkg/render"
	"github.com/matzehuels/stepwise/pkg/session"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// defaultCleanupInterval is how often expired sessions are purged.
const defaultCleanupInterval = 5 * time.Minute

// Server serves the HTTP API.
type Server struct {
	sessions        *session.Manager
	renderer        *render.Renderer
	logger          *log.Logger
	defaults        render.Options
	cleanupInterval time.Duration
	router          chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request logs.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithRenderDefaults sets the format, view and scale used when a render
// request leaves them out.
func WithRenderDefaults(o render.Options) Option { return func(s *Server) { s.defaults = o } }

// WithCleanupInterval sets how often Run purges expired sessions.
// Zero disables the purge loop.
func WithCleanupInterval(d time.Duration) Option { return func(s *Server) { s.cleanupInterval = d } }

// New creates a server and installs the Prometheus observability hooks.
// A nil renderer renders without caching.
func New(sessions *session.Manager, renderer *render.Renderer, opts ...Option) *Server {
	s := &Server{
		sessions:        sessions,
		renderer:        renderer,
		cleanupInterval: defaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.renderer == nil {
		s.renderer = render.NewRenderer(nil, render.WithLogger(s.logger))
	}
	RegisterMetrics()
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SetHeader("Cache-Control", "no-store"))
		r.Get("/algorithms", s.handleAlgorithms)
		r.Post("/edit-distance", s.handleEditDistance)
		r.Post("/kmeans", s.handleKMeans)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/next", s.handleStep(s.sessions.Next))
				r.Post("/prev", s.handleStep(s.sessions.Prev))
				r.Post("/reset", s.handleStep(s.sessions.Reset))
				r.Get("/render", s.handleRender)
			})
		})
	})
	return r
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down within
// cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context, cfg config.ServerConfig) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
	}

	if s.cleanupInterval > 0 {
		go s.cleanupLoop(ctx)
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", cfg.Addr)
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

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout.Duration)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sessions.Cleanup(ctx); err != nil {
				s.logger.Warn("session cleanup failed", "err", err)
			}
		}
	}
}

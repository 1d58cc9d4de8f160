// Package web serves the movie catalog as a server-rendered page.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/s0up4200/reelgrid/catalog"
	"github.com/s0up4200/reelgrid/filter"
	"github.com/s0up4200/reelgrid/movieapi"
)

// MovieService is the subset of the movie API the server needs
type MovieService interface {
	movieapi.API
	HealthCheck(ctx context.Context) (*movieapi.Health, error)
}

// Option configures a Server
type Option func(*Server)

// WithDetailCache sets the cache used by the detail endpoint
func WithDetailCache(cache DetailCache) Option {
	return func(s *Server) {
		s.cache = cache
	}
}

// WithPageSize sets the number of movies per page
func WithPageSize(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithFilters exposes named refine filters through the filter query parameter
func WithFilters(m *filter.Manager) Option {
	return func(s *Server) {
		s.filters = m
	}
}

// Server renders the catalog and proxies detail lookups
type Server struct {
	api      MovieService
	cache    DetailCache
	filters  *filter.Manager
	pageSize int
	logger   zerolog.Logger
	tmpl     *template.Template
	router   chi.Router
}

// NewServer creates a server backed by api
func NewServer(api MovieService, logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		api:      api,
		cache:    NewMemoryCache(500, 10*time.Minute),
		pageSize: catalog.DefaultPageSize,
		logger:   logger.With().Str("component", "web").Logger(),
		tmpl:     pageTemplate,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverPanic)

	r.NotFound(s.notFoundResponse)

	r.Get("/", s.handleIndex)
	r.Get("/movies/{id}", s.handleMovie)
	r.Get("/healthz", s.handleHealth)

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 45 * time.Second,
	}

	shutdownError := make(chan error, 1)

	go func() {
		<-ctx.Done()

		s.logger.Info().Msg("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Str("addr", addr).Msg("Starting server")

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	if err := <-shutdownError; err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	s.logger.Info().Str("addr", addr).Msg("Stopped server")
	return nil
}

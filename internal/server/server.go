// Package server assembles the HTTP API: it loads the dataset, keeps the
// search index in step with it, and serves the routes until its context ends.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/flavorgraph/core/internal/config"
	"github.com/flavorgraph/core/internal/dataset"
	"github.com/flavorgraph/core/internal/errors"
	"github.com/flavorgraph/core/internal/handlers"
	"github.com/flavorgraph/core/internal/logger"
	"github.com/flavorgraph/core/internal/metrics"
	"github.com/flavorgraph/core/internal/middleware"
	"github.com/flavorgraph/core/internal/page"
	"github.com/flavorgraph/core/internal/pairing"
	"github.com/flavorgraph/core/internal/ratelimit"
	"github.com/flavorgraph/core/internal/search"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg     *config.Config
	log     *logger.Logger
	store   *dataset.Store
	search  *search.Index
	metrics *metrics.Metrics
	limiter *ratelimit.KeyedRateLimiter
	router  *chi.Mux
}

// New loads the dataset and template named by cfg and builds the router.
// It fails if the dataset cannot be loaded.
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.Discard()
	}

	m := metrics.New()

	store, err := dataset.Open(cfg.Dataset.Path, log, m)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	tmpl, err := page.LoadTemplate(cfg.Dataset.TemplatePath)
	if err != nil {
		return nil, err
	}

	idx, err := search.New()
	if err != nil {
		return nil, err
	}

	store.OnSwap(func(current *pairing.Index) {
		if err := idx.Rebuild(current.Mains()); err != nil {
			log.WithError(err).Error("Failed to rebuild search index")
			return
		}
		log.Debug("Search index rebuilt", "names", idx.Len())
	})

	s := &Server{
		cfg:     cfg,
		log:     log,
		store:   store,
		search:  idx,
		metrics: m,
		limiter: ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 10*time.Minute),
	}

	h := handlers.New(handlers.Options{
		Store:        store,
		Search:       idx,
		Metrics:      m,
		Logger:       log,
		Template:     tmpl,
		MaxSelection: cfg.Graph.MaxSelection,
	})
	s.router = s.routes(h)

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes(h *handlers.Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	if s.cfg.Server.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Cors(s.cfg.Server.AllowedOrigins))

	r.Get("/", h.Page)
	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimit(s.limiter, s.log, s.metrics.ObserveRateLimited))

		r.Get("/graph", h.Graph)
		r.Post("/graph", h.Graph)
		r.Get("/ingredients", h.Ingredients)
	})

	return r
}

// Run serves HTTP on the configured port, reloading the dataset on change when
// watching is enabled. It returns after a graceful shutdown once ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Dataset.Watch {
		if err := s.store.Watch(ctx, s.cfg.Dataset.ReloadDebounce); err != nil {
			return fmt.Errorf("failed to watch dataset: %w", err)
		}
	}

	srv := &http.Server{
		Addr:         ":" + s.cfg.Server.Port,
		Handler:      s,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	s.log.Info("🚀 Server starting",
		"addr", srv.Addr,
		"dataset", s.store.Path(),
		"records", s.store.Index().Len(),
	)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// Close releases the rate limiter and the search index.
func (s *Server) Close() error {
	s.limiter.Stop()
	return s.search.Close()
}

// Package server exposes the picker over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pders01/packpick/internal/command"
	"github.com/pders01/packpick/internal/fragment"
	"github.com/pders01/packpick/internal/models"
	"github.com/pders01/packpick/internal/registry"
	"github.com/pders01/packpick/internal/selection"
)

const shutdownTimeout = 5 * time.Second

// Config configures a Server
type Config struct {
	Registry        registry.Loader
	Manifests       *registry.ManifestCache
	Mode            command.Mode
	PrefetchWorkers int
	Logger          *zap.Logger

	// Registerer and Gatherer default to a private registry
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// Server serves the pack list, install commands and manifests. The
// registry is loaded once; when that fails only the fallback command is
// served.
type Server struct {
	loader    registry.Loader
	manifests *registry.ManifestCache
	mode      command.Mode
	workers   int
	logger    *zap.Logger
	metrics   *Metrics
	gatherer  prometheus.Gatherer
	router    chi.Router

	index registry.Index
}

// New creates a server and its routes
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	mode := cfg.Mode
	if mode == "" {
		mode = command.ModeCurl
	}

	reg := cfg.Registerer
	gatherer := cfg.Gatherer
	if reg == nil || gatherer == nil {
		r := prometheus.NewRegistry()
		reg, gatherer = r, r
	}

	s := &Server{
		loader:    cfg.Registry,
		manifests: cfg.Manifests,
		mode:      mode,
		workers:   cfg.PrefetchWorkers,
		logger:    logger,
		metrics:   NewMetrics(reg),
		gatherer:  gatherer,
	}
	if s.manifests != nil {
		s.manifests.OnFetch(s.metrics.ObserveManifestFetch)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(tracing)
	r.Use(s.requestLogger)
	r.Use(s.metrics.Middleware)
	// inside the metrics middleware so recovered panics are counted as 500s
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/packs", s.handlePacks)
		r.Get("/packs/{name}/manifest", s.handleManifest)
		r.Get("/command", s.handleCommand)
		r.Get("/count", s.handleCount)
		r.Get("/languages", s.handleLanguages)
	})

	return r
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// LoadRegistry performs the server's single registry load
func (s *Server) LoadRegistry(ctx context.Context) error {
	packs, err := s.index.Load(ctx, s.loader)
	if err != nil {
		return err
	}
	s.metrics.registryPacks.Set(float64(len(packs)))
	return nil
}

// PrefetchDefaults warms the manifest cache for the default packs
func (s *Server) PrefetchDefaults(ctx context.Context) error {
	if s.manifests == nil {
		return nil
	}
	packs, _ := s.snapshot()

	var defaults []models.Pack
	for _, p := range packs {
		if selection.IsDefault(p.Name) {
			defaults = append(defaults, p)
		}
	}
	return s.manifests.Prefetch(ctx, defaults, s.workers)
}

// Run loads the registry, then serves on addr until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	if err := s.LoadRegistry(ctx); err != nil {
		s.logger.Warn("serving fallback command only", zap.Error(err))
	} else {
		go func() {
			if err := s.PrefetchDefaults(ctx); err != nil {
				s.logger.Debug("manifest prefetch stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

func (s *Server) snapshot() ([]models.Pack, selection.Set) {
	packs, ids, _ := s.index.Snapshot()
	return packs, ids
}

func (s *Server) loaded() bool {
	return s.index.State().IsLoaded()
}

// selectionParam resolves the "packs" query parameter, which uses the
// fragment syntax (all, none or a list); absent means the defaults
func selectionParam(r *http.Request, ids selection.Set) selection.Set {
	raw, ok := r.URL.Query()["packs"]
	if !ok || len(raw) == 0 {
		return selection.Defaults()
	}
	sel, ok := fragment.Decode(fragment.Prefix + raw[0]).Resolve(ids)
	if !ok {
		return selection.Defaults()
	}
	return sel
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("failed to write response",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, r, status, map[string]string{"error": msg})
}

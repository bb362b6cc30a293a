// Package server provides the HTTP API for marquee.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hyperjump/marquee/internal/catalog"
	"github.com/hyperjump/marquee/internal/config"
	"github.com/hyperjump/marquee/internal/keyword"
	"github.com/hyperjump/marquee/internal/metrics"
	"github.com/hyperjump/marquee/internal/recommend"
	"github.com/hyperjump/marquee/internal/session"
	"github.com/hyperjump/marquee/internal/tmdb"
)

// SessionHeader carries the session id on requests and responses.
const SessionHeader = "X-Session-ID"

// retiredIndexGrace is how long a replaced title index stays open for in-flight searches.
const retiredIndexGrace = 30 * time.Second

// requestTimeoutSlack covers catalog lookup, ranking and rate limiter waits.
const requestTimeoutSlack = 10 * time.Second

// Server is the HTTP server for the marquee API.
type Server struct {
	engine   *recommend.Engine
	sessions *session.Manager
	titles   atomic.Pointer[keyword.TitleIndex]
	breaker  *tmdb.Breaker
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	reloadMu sync.Mutex
}

// Option configures a Server.
type Option func(*Server)

// WithBreaker exposes the provider circuit state in /api/v1/status.
func WithBreaker(b *tmdb.Breaker) Option {
	return func(s *Server) { s.breaker = b }
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *recommend.Engine,
	sessions *session.Manager,
	titles *keyword.TitleIndex,
	cfg *config.Config,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	s := &Server{
		engine:   engine,
		sessions: sessions,
		config:   cfg,
		logger:   logger,
	}
	s.titles.Store(titles)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Routes returns the API router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout(s.config)))
	r.Use(middleware.Compress(5))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/movies", s.handleListMovies)
		r.Get("/movies/{position}", s.handleGetMovie)

		r.Group(func(r chi.Router) {
			r.Use(s.withSession)
			r.Post("/recommendations", s.handleRecommend)
			r.Post("/recommendations/random", s.handleRecommendRandom)
		})
		r.Delete("/session", s.handleResetSession)
	})
	return r
}

// requestTimeout bounds a request by the slowest recommendation the provider settings
// allow: per item a details lookup that 404s, a fully retried title search and a fully
// retried details lookup of the hit, for every round of the bounded fan-out.
func requestTimeout(cfg *config.Config) time.Duration {
	pc := cfg.Provider
	attempts := max(pc.MaxAttempts, 1)
	retried := time.Duration(attempts)*pc.Timeout + time.Duration(attempts-1)*pc.RetryDelay
	perItem := pc.Timeout + 2*retried

	k := max(cfg.Recommend.K, 1)
	concurrency := cfg.Recommend.Concurrency
	if concurrency <= 0 || concurrency > k {
		concurrency = k
	}
	rounds := (k + concurrency - 1) / concurrency
	return time.Duration(rounds)*perItem + requestTimeoutSlack
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Reload rebuilds the catalog store and title index from the configured artifacts
// and swaps them in. On failure the current catalog keeps serving.
func (s *Server) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	store, err := catalog.Load(s.config.Catalog.MoviesPath, s.config.Catalog.SimilarityPath)
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		s.logger.Error("catalog reload failed, keeping current catalog", zap.Error(err))
		return err
	}
	if store.Fingerprint() == s.engine.Store().Fingerprint() {
		metrics.CatalogReloads.WithLabelValues("unchanged").Inc()
		return nil
	}
	titles, err := keyword.NewTitleIndex(store.Titles())
	if err != nil {
		metrics.CatalogReloads.WithLabelValues("error").Inc()
		s.logger.Error("title index rebuild failed, keeping current catalog", zap.Error(err))
		return err
	}

	s.engine.SetStore(store)
	if old := s.titles.Swap(titles); old != nil {
		time.AfterFunc(retiredIndexGrace, func() { _ = old.Close() })
	}
	metrics.CatalogReloads.WithLabelValues("ok").Inc()
	metrics.CatalogSize.Set(float64(store.Size()))
	s.logger.Info("catalog reloaded",
		zap.Int("movies", store.Size()),
		zap.String("fingerprint", store.Fingerprint()))
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

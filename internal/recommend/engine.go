// Package recommend composes similarity ranking with metadata resolution into ordered
// recommendation lists.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/marquee/internal/catalog"
	"github.com/hyperjump/marquee/internal/metadata"
	"github.com/hyperjump/marquee/internal/metrics"
	"github.com/hyperjump/marquee/internal/models"
	"github.com/hyperjump/marquee/internal/ranking"
)

// Engine produces recommendations from the current catalog store.
type Engine struct {
	store       atomic.Pointer[catalog.Store]
	k           int
	concurrency int
	intn        func(n int) int
	logger      *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithK sets how many similar titles are returned.
func WithK(k int) Option {
	return func(e *Engine) { e.k = k }
}

// WithConcurrency bounds how many metadata lookups run at once. 1 resolves
// sequentially; values <= 0 use K.
func WithConcurrency(n int) Option {
	return func(e *Engine) { e.concurrency = n }
}

// WithRandom replaces the source used by RecommendRandom. intn must return a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(e *Engine) { e.intn = intn }
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an Engine serving store.
func NewEngine(store *catalog.Store, opts ...Option) *Engine {
	e := &Engine{
		k:      ranking.DefaultK,
		intn:   rand.IntN,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.concurrency <= 0 {
		e.concurrency = e.k
	}
	if e.concurrency <= 0 {
		e.concurrency = 1
	}
	e.store.Store(store)
	return e
}

// SetStore swaps the catalog served by the engine. In-flight requests finish on the
// store they started with.
func (e *Engine) SetStore(store *catalog.Store) {
	e.store.Store(store)
}

// Store returns the catalog currently served.
func (e *Engine) Store() *catalog.Store {
	return e.store.Load()
}

// Recommend returns the K titles most similar to title, each enriched through resolver.
// An unknown title yields an empty result together with an error wrapping
// catalog.ErrMovieNotFound.
func (e *Engine) Recommend(ctx context.Context, resolver metadata.Resolver, title string) (*models.RecommendationResult, error) {
	start := time.Now()
	store := e.store.Load()
	result := &models.RecommendationResult{
		Query: title,
		Items: []models.Recommendation{},
	}

	position, err := store.FindByTitle(title)
	if err != nil {
		metrics.Recommendations.WithLabelValues("not_found").Inc()
		result.ElapsedMS = time.Since(start).Milliseconds()
		return result, fmt.Errorf("recommend %q: %w", title, err)
	}

	scored, err := ranking.NewRanker(store).TopK(position, e.k)
	if err != nil {
		metrics.Recommendations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("rank %q: %w", title, err)
	}

	items := make([]models.Recommendation, len(scored))
	for i, s := range scored {
		entry, err := store.EntryAt(s.Position)
		if err != nil {
			metrics.Recommendations.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("recommend %q: %w", title, err)
		}
		items[i] = models.Recommendation{
			Position: entry.Position,
			ID:       entry.ID,
			Title:    entry.Title,
			Year:     entry.Year,
			Score:    s.Score,
		}
	}

	e.resolveAll(ctx, resolver, items)

	result.Items = items
	result.ElapsedMS = time.Since(start).Milliseconds()
	metrics.Recommendations.WithLabelValues("ok").Inc()
	e.logger.Debug("recommendations ready",
		zap.String("title", title),
		zap.Int("count", len(items)),
		zap.Int64("elapsed_ms", result.ElapsedMS))
	return result, nil
}

// RecommendRandom picks a catalog title uniformly at random and recommends for it.
func (e *Engine) RecommendRandom(ctx context.Context, resolver metadata.Resolver) (string, *models.RecommendationResult, error) {
	store := e.store.Load()
	if store.Size() == 0 {
		return "", nil, errors.New("catalog is empty")
	}
	entry, err := store.EntryAt(e.intn(store.Size()))
	if err != nil {
		return "", nil, err
	}
	result, err := e.Recommend(ctx, resolver, entry.Title)
	return entry.Title, result, err
}

// resolveAll fills each item's metadata. Every goroutine writes only its own slot.
func (e *Engine) resolveAll(ctx context.Context, resolver metadata.Resolver, items []models.Recommendation) {
	if e.concurrency == 1 {
		for i := range items {
			items[i].Metadata = resolver.Resolve(ctx, items[i].ID, items[i].Title, items[i].Year)
		}
		return
	}

	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup
	for i := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			items[i].Metadata = resolver.Resolve(ctx, items[i].ID, items[i].Title, items[i].Year)
		}(i)
	}
	wg.Wait()
}

// Package metadata enriches catalog entries with provider metadata. Resolution never
// fails: provider problems degrade to placeholder records with an explanatory overview.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/marquee/internal/config"
	"github.com/hyperjump/marquee/internal/metrics"
	"github.com/hyperjump/marquee/internal/models"
	"github.com/hyperjump/marquee/internal/tmdb"
)

// Resolver maps a catalog entry to its metadata record.
type Resolver interface {
	Resolve(ctx context.Context, externalID, title string, year int) models.MetadataRecord
}

// Provider is the metadata API consumed by ProviderResolver.
type Provider interface {
	GetMovie(ctx context.Context, id string) (*tmdb.Movie, error)
	SearchMovie(ctx context.Context, title string, year int) ([]tmdb.SearchResult, error)
}

// RetryPolicy is a flat retry: MaxAttempts calls in total, Delay between them.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy returns 5 attempts 2s apart.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 5, Delay: 2 * time.Second}
}

// Placeholders are the display URLs used for records without a provider poster.
type Placeholders struct {
	NoPoster string
	NotFound string
	Error    string
}

// DefaultPlaceholders returns the built-in placeholder images.
func DefaultPlaceholders() Placeholders {
	return Placeholders{
		NoPoster: config.DefaultNoPosterURL,
		NotFound: config.DefaultNotFoundURL,
		Error:    config.DefaultErrorURL,
	}
}

// ProviderResolver resolves metadata against a Provider with retries and a
// title-search fallback.
type ProviderResolver struct {
	provider     Provider
	retry        RetryPolicy
	imageBaseURL string
	placeholders Placeholders
	logger       *zap.Logger
}

// Option configures a ProviderResolver.
type Option func(*ProviderResolver)

// WithRetryPolicy sets the retry policy. MaxAttempts below 1 is treated as 1.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(r *ProviderResolver) {
		if p.MaxAttempts < 1 {
			p.MaxAttempts = 1
		}
		r.retry = p
	}
}

// WithImageBaseURL sets the prefix joined with provider poster paths.
func WithImageBaseURL(base string) Option {
	return func(r *ProviderResolver) { r.imageBaseURL = base }
}

// WithPlaceholders sets the placeholder display URLs.
func WithPlaceholders(p Placeholders) Option {
	return func(r *ProviderResolver) { r.placeholders = p }
}

// WithLogger sets a logger for retries and degraded records.
func WithLogger(l *zap.Logger) Option {
	return func(r *ProviderResolver) { r.logger = l }
}

// NewResolver creates a ProviderResolver.
func NewResolver(p Provider, opts ...Option) *ProviderResolver {
	r := &ProviderResolver{
		provider:     p,
		retry:        DefaultRetryPolicy(),
		imageBaseURL: "https://image.tmdb.org/t/p/w500/",
		placeholders: DefaultPlaceholders(),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve fetches details for externalID. A provider "not found" falls back to a
// title search (filtered by year when known). Other failures are retried per the
// retry policy and then reported in the record's overview.
func (r *ProviderResolver) Resolve(ctx context.Context, externalID, title string, year int) models.MetadataRecord {
	rec := r.resolve(ctx, externalID, title, year)
	metrics.ResolveOutcomes.WithLabelValues(string(rec.Status)).Inc()
	return rec
}

func (r *ProviderResolver) resolve(ctx context.Context, externalID, title string, year int) models.MetadataRecord {
	movie, err := r.details(ctx, externalID)
	if err == nil {
		return r.record(movie)
	}
	if !errors.Is(err, tmdb.ErrNotFound) {
		return r.failure(externalID, title, err)
	}

	r.logger.Debug("movie id not found, searching by title",
		zap.String("movie_id", externalID), zap.String("title", title), zap.Int("year", year))
	results, err := withRetry(ctx, r, "search", func(ctx context.Context) ([]tmdb.SearchResult, error) {
		return r.provider.SearchMovie(ctx, title, year)
	})
	if err != nil {
		return r.failure(externalID, title, err)
	}
	if len(results) == 0 {
		return r.notFound(externalID, title)
	}

	fallbackID := results[0].ExternalID()
	movie, err = r.details(ctx, fallbackID)
	switch {
	case err == nil:
		r.logger.Debug("resolved movie by title search",
			zap.String("movie_id", externalID), zap.String("fallback_id", fallbackID))
		return r.record(movie)
	case errors.Is(err, tmdb.ErrNotFound):
		return r.notFound(externalID, title)
	default:
		return r.failure(fallbackID, title, err)
	}
}

func (r *ProviderResolver) details(ctx context.Context, id string) (*tmdb.Movie, error) {
	return withRetry(ctx, r, "details", func(ctx context.Context) (*tmdb.Movie, error) {
		return r.provider.GetMovie(ctx, id)
	})
}

// withRetry calls fn up to MaxAttempts times with a fixed delay. Not-found answers,
// breaker rejections and a cancelled context end the loop early.
func withRetry[T any](ctx context.Context, r *ProviderResolver, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 1; attempt <= r.retry.MaxAttempts; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if errors.Is(err, tmdb.ErrNotFound) || tmdb.IsRejected(err) || ctx.Err() != nil {
			return zero, err
		}
		if attempt == r.retry.MaxAttempts {
			break
		}
		metrics.ProviderRetries.Inc()
		r.logger.Debug("provider call failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Duration("delay", r.retry.Delay),
			zap.Error(err))
		if err := sleep(ctx, r.retry.Delay); err != nil {
			return zero, lastErr
		}
	}
	return zero, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *ProviderResolver) record(m *tmdb.Movie) models.MetadataRecord {
	rec := models.MetadataRecord{
		Status:   models.PosterSuccess,
		Overview: strings.TrimSpace(m.Overview),
		Genres:   make([]string, 0, len(m.Genres)),
	}
	if m.PosterPath != nil && *m.PosterPath != "" {
		rec.PosterURL = joinURL(r.imageBaseURL, *m.PosterPath)
	} else {
		rec.Status = models.PosterMissing
		rec.PosterURL = r.placeholders.NoPoster
	}
	if rec.Overview == "" {
		rec.Overview = models.DefaultOverview
	}
	if m.VoteAverage != nil {
		rec.Rating = models.RatingOf(*m.VoteAverage)
	}
	for _, g := range m.Genres {
		if g.Name != "" {
			rec.Genres = append(rec.Genres, g.Name)
		}
	}
	rec.GenreText = models.JoinGenres(rec.Genres)
	return rec
}

func (r *ProviderResolver) notFound(externalID, title string) models.MetadataRecord {
	return models.MetadataRecord{
		Status:    models.PosterNotFound,
		PosterURL: r.placeholders.NotFound,
		Overview:  fmt.Sprintf("Movie '%s' not found (id: %s)", title, externalID),
		Genres:    []string{},
	}
}

func (r *ProviderResolver) failure(externalID, title string, err error) models.MetadataRecord {
	err = Classify(err)
	r.logger.Warn("metadata unavailable",
		zap.String("movie_id", externalID), zap.String("title", title), zap.Error(err))
	return models.MetadataRecord{
		Status:    models.PosterError,
		PosterURL: r.placeholders.Error,
		Overview:  FailureMessage(err),
		Genres:    []string{},
	}
}

func joinURL(base, path string) string {
	if base == "" {
		return path
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(path, "/")
}

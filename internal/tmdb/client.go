// Package tmdb is a small client for the TMDB movie metadata API.
package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hyperjump/marquee/internal/metrics"
)

const (
	endpointDetails = "details"
	endpointSearch  = "search"
)

var (
	// ErrNotFound is returned when the provider answers 404 for a movie id.
	ErrNotFound = errors.New("tmdb: movie not found")
	// ErrMalformedResponse is returned when a 2xx body cannot be decoded.
	ErrMalformedResponse = errors.New("tmdb: malformed response")
)

// StatusError is returned for non-2xx responses other than 404.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("tmdb: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("tmdb: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Genre is a TMDB genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is the subset of the movie details payload that marquee consumes.
type Movie struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	PosterPath  *string  `json:"poster_path"`
	Overview    string   `json:"overview"`
	VoteAverage *float64 `json:"vote_average"`
	Genres      []Genre  `json:"genres"`
	ReleaseDate string   `json:"release_date"`
}

// SearchResult is one hit of a title search.
type SearchResult struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
}

// ExternalID returns the result id in the form used by the catalog.
func (r SearchResult) ExternalID() string {
	return strconv.Itoa(r.ID)
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// Client calls the TMDB REST API. It is safe for concurrent use; the rate limiter
// and circuit breaker are shared by every caller.
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *Breaker
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLanguage sets the language query parameter for details requests.
func WithLanguage(lang string) Option {
	return func(c *Client) { c.language = lang }
}

// WithRateLimit limits outgoing requests to rps per second with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
		}
	}
}

// WithBreaker wraps requests in a circuit breaker.
func WithBreaker(b *Breaker) Option {
	return func(c *Client) { c.breaker = b }
}

// WithLogger sets a logger for request failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the API rooted at baseURL (e.g. https://api.themoviedb.org/3).
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		apiKey:   apiKey,
		language: "en-US",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Inf, 1),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetMovie fetches details for a movie id. Returns ErrNotFound for a 404.
func (c *Client) GetMovie(ctx context.Context, id string) (*Movie, error) {
	q := url.Values{}
	q.Set("language", c.language)
	var movie Movie
	if err := c.get(ctx, endpointDetails, "/movie/"+url.PathEscape(id), q, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// SearchMovie searches titles, filtered by release year when year > 0.
func (c *Client) SearchMovie(ctx context.Context, title string, year int) ([]SearchResult, error) {
	q := url.Values{}
	q.Set("query", title)
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	var resp searchResponse
	if err := c.get(ctx, endpointSearch, "/search/movie", q, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, q url.Values, out any) error {
	call := func() error { return c.do(ctx, endpoint, path, q, out) }
	if c.breaker == nil {
		return call()
	}
	err := c.breaker.Execute(call)
	if IsRejected(err) {
		metrics.ProviderRequests.WithLabelValues(endpoint, "rejected").Inc()
	}
	return err
}

func (c *Client) do(ctx context.Context, endpoint, path string, q url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("tmdb rate limit wait: %w", err)
	}
	q.Set("api_key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("tmdb build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ProviderRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		c.logger.Debug("tmdb request failed", zap.String("endpoint", endpoint), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("tmdb %s request failed: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.ProviderRequests.WithLabelValues(endpoint, "not_found").Inc()
		_, _ = io.Copy(io.Discard, resp.Body)
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		metrics.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.ProviderRequests.WithLabelValues(endpoint, "error").Inc()
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	metrics.ProviderRequests.WithLabelValues(endpoint, "ok").Inc()
	return nil
}

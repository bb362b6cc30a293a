package cli

import (
	"bytes"
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

	"github.com/hyperjump/marquee/internal/models"
)

// SessionHeader carries the session id between the CLI and the server.
const SessionHeader = "X-Session-ID"

// ErrTitleNotFound is returned when the server reports the queried title as unknown.
// The accompanying result still carries the server's suggestions.
var ErrTitleNotFound = errors.New("title not in catalog")

// Client talks to a running marquee server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	// SessionID is sent with recommendation requests and updated from responses.
	SessionID string
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		// The server bounds each request by its provider retry settings.
		httpClient: &http.Client{Timeout: 15 * time.Minute},
	}
}

// Recommend asks the server for titles similar to title.
func (c *Client) Recommend(ctx context.Context, title string) (*models.RecommendationResult, error) {
	body, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		return nil, err
	}
	return c.recommend(ctx, "/api/v1/recommendations", body)
}

// RecommendRandom asks the server to recommend for a random catalog title.
func (c *Client) RecommendRandom(ctx context.Context) (*models.RecommendationResult, error) {
	return c.recommend(ctx, "/api/v1/recommendations/random", nil)
}

func (c *Client) recommend(ctx context.Context, path string, body []byte) (*models.RecommendationResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.SessionID != "" {
		req.Header.Set(SessionHeader, c.SessionID)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if id := resp.Header.Get(SessionHeader); id != "" {
		c.SessionID = id
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return nil, statusError(resp)
	}
	var result models.RecommendationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return &result, fmt.Errorf("%w: %q", ErrTitleNotFound, result.Query)
	}
	return &result, nil
}

// Movies searches catalog titles. An empty query lists the first limit entries.
func (c *Client) Movies(ctx context.Context, query string, limit int, fuzzy bool) ([]models.CatalogEntry, error) {
	q := url.Values{}
	if query != "" {
		q.Set("q", query)
	}
	q.Set("limit", strconv.Itoa(limit))
	if fuzzy {
		q.Set("fuzzy", "true")
	}
	var out struct {
		Items []models.CatalogEntry `json:"items"`
	}
	if err := c.get(ctx, "/api/v1/movies?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// Status returns the server's /api/v1/status document.
func (c *Client) Status(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "/api/v1/status", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
}

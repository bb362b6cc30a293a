package config

import "time"

// Default placeholder images, shown by shells that do not map poster status themselves.
const (
	DefaultNoPosterURL = "https://via.placeholder.com/300x450.png?text=No+Poster"
	DefaultNotFoundURL = "https://via.placeholder.com/300x450.png?text=Not+Found"
	DefaultErrorURL    = "https://via.placeholder.com/300x450.png?text=Error"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Catalog.MoviesPath == "" {
		cfg.Catalog.MoviesPath = "/usr/local/var/marquee/data/movies.json"
	}
	if cfg.Catalog.SimilarityPath == "" {
		cfg.Catalog.SimilarityPath = "/usr/local/var/marquee/data/similarity.bin"
	}
	if cfg.Provider.BaseURL == "" {
		cfg.Provider.BaseURL = "https://api.themoviedb.org/3"
	}
	if cfg.Provider.ImageBaseURL == "" {
		cfg.Provider.ImageBaseURL = "https://image.tmdb.org/t/p/w500/"
	}
	if cfg.Provider.Language == "" {
		cfg.Provider.Language = "en-US"
	}
	if cfg.Provider.Timeout == 0 {
		cfg.Provider.Timeout = 10 * time.Second
	}
	if cfg.Provider.MaxAttempts == 0 {
		cfg.Provider.MaxAttempts = 5
	}
	if cfg.Provider.RetryDelay == 0 {
		cfg.Provider.RetryDelay = 2 * time.Second
	}
	if cfg.Provider.RequestsPerSecond == 0 {
		cfg.Provider.RequestsPerSecond = 20
	}
	if cfg.Provider.Burst == 0 {
		cfg.Provider.Burst = 10
	}
	if cfg.Provider.Breaker.MaxRequests == 0 {
		cfg.Provider.Breaker.MaxRequests = 3
	}
	if cfg.Provider.Breaker.Interval == 0 {
		cfg.Provider.Breaker.Interval = time.Minute
	}
	if cfg.Provider.Breaker.Timeout == 0 {
		cfg.Provider.Breaker.Timeout = 30 * time.Second
	}
	if cfg.Provider.Breaker.MinRequests == 0 {
		cfg.Provider.Breaker.MinRequests = 20
	}
	if cfg.Provider.Breaker.FailureRatio == 0 {
		cfg.Provider.Breaker.FailureRatio = 0.6
	}
	if cfg.Recommend.K == 0 {
		cfg.Recommend.K = 5
	}
	// Concurrency defaults to one worker per recommended item.
	if cfg.Recommend.Concurrency == 0 {
		cfg.Recommend.Concurrency = cfg.Recommend.K
	}
	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = 1024
	}
	if cfg.Cache.SessionTTL == 0 {
		cfg.Cache.SessionTTL = 30 * time.Minute
	}
	if cfg.Cache.MaxSessions == 0 {
		cfg.Cache.MaxSessions = 1000
	}
	if cfg.Placeholders.NoPoster == "" {
		cfg.Placeholders.NoPoster = DefaultNoPosterURL
	}
	if cfg.Placeholders.NotFound == "" {
		cfg.Placeholders.NotFound = DefaultNotFoundURL
	}
	if cfg.Placeholders.Error == "" {
		cfg.Placeholders.Error = DefaultErrorURL
	}
}

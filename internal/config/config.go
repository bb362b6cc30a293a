// Package config provides configuration loading and structs for the marquee server and CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// APIKeyEnv overrides provider.api_key when set.
const APIKeyEnv = "TMDB_API_KEY"

// Config holds all configuration for the application.
type Config struct {
	Debug        bool              `yaml:"debug"`
	Server       ServerConfig      `yaml:"server"`
	Catalog      CatalogConfig     `yaml:"catalog"`
	Provider     ProviderConfig    `yaml:"provider"`
	Recommend    RecommendConfig   `yaml:"recommend"`
	Cache        CacheConfig       `yaml:"cache"`
	Placeholders PlaceholderConfig `yaml:"placeholders"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CatalogConfig holds the paths of the precomputed artifacts.
type CatalogConfig struct {
	MoviesPath     string `yaml:"movies_path"`
	SimilarityPath string `yaml:"similarity_path"`
	// Watch reloads the catalog when either artifact changes on disk (server only).
	Watch bool `yaml:"watch"`
}

// ProviderConfig holds metadata provider (TMDB) settings.
type ProviderConfig struct {
	BaseURL           string        `yaml:"base_url"`
	ImageBaseURL      string        `yaml:"image_base_url"`
	APIKey            string        `yaml:"api_key"`
	Language          string        `yaml:"language"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxAttempts       int           `yaml:"max_attempts"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	Breaker           BreakerConfig `yaml:"breaker"`
}

// BreakerConfig holds circuit breaker settings for the provider client.
type BreakerConfig struct {
	MaxRequests  uint32        `yaml:"max_requests"`
	Interval     time.Duration `yaml:"interval"`
	Timeout      time.Duration `yaml:"timeout"`
	MinRequests  uint32        `yaml:"min_requests"`
	FailureRatio float64       `yaml:"failure_ratio"`
}

// RecommendConfig holds orchestrator settings.
type RecommendConfig struct {
	K           int `yaml:"k"`
	Concurrency int `yaml:"concurrency"`
}

// CacheConfig holds per-session metadata cache settings.
type CacheConfig struct {
	Capacity    int           `yaml:"capacity"`
	SessionTTL  time.Duration `yaml:"session_ttl"`
	MaxSessions int           `yaml:"max_sessions"`
}

// PlaceholderConfig holds the display URLs used when no real poster is available.
type PlaceholderConfig struct {
	NoPoster string `yaml:"no_poster"`
	NotFound string `yaml:"not_found"`
	Error    string `yaml:"error"`
}

// Load reads and parses the config file at path, expands paths, applies defaults
// and the TMDB_API_KEY override. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	ApplyEnv(&cfg)

	configDir := filepath.Dir(path)
	cfg.Catalog.MoviesPath = expandPath(cfg.Catalog.MoviesPath, configDir)
	cfg.Catalog.SimilarityPath = expandPath(cfg.Catalog.SimilarityPath, configDir)

	return &cfg, nil
}

// ApplyEnv overrides config values from the environment.
func ApplyEnv(cfg *Config) {
	if key := strings.TrimSpace(os.Getenv(APIKeyEnv)); key != "" {
		cfg.Provider.APIKey = key
	}
}

// Validate reports settings that would make the service unusable.
func (c *Config) Validate() error {
	var errs []error
	if c.Catalog.MoviesPath == "" {
		errs = append(errs, errors.New("catalog.movies_path is required"))
	}
	if c.Catalog.SimilarityPath == "" {
		errs = append(errs, errors.New("catalog.similarity_path is required"))
	}
	if c.Provider.APIKey == "" {
		errs = append(errs, fmt.Errorf("provider.api_key is required (or set %s)", APIKeyEnv))
	}
	if c.Provider.MaxAttempts < 1 {
		errs = append(errs, errors.New("provider.max_attempts must be at least 1"))
	}
	if c.Recommend.K < 1 {
		errs = append(errs, errors.New("recommend.k must be at least 1"))
	}
	return errors.Join(errs...)
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

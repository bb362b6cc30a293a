// Package main is the marquee CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/hyperjump/marquee/internal/catalog"
	"github.com/hyperjump/marquee/internal/cli"
	"github.com/hyperjump/marquee/internal/config"
	"github.com/hyperjump/marquee/internal/keyword"
	"github.com/hyperjump/marquee/internal/metadata"
	"github.com/hyperjump/marquee/internal/metrics"
	"github.com/hyperjump/marquee/internal/models"
	"github.com/hyperjump/marquee/internal/recommend"
	"github.com/hyperjump/marquee/internal/server"
	"github.com/hyperjump/marquee/internal/session"
	"github.com/hyperjump/marquee/internal/storage"
	"github.com/hyperjump/marquee/internal/tmdb"
	"github.com/hyperjump/marquee/internal/watcher"
	"github.com/hyperjump/marquee/pkg/utils"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/marquee/config.yaml"
	defaultServerURL  = "http://localhost:8080"
)

// loadConfig loads config from path. When path is the default, a config.yaml in the
// current directory takes precedence so development runs pick up the project config.
// Returns the config and the path that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "recommend":
		runRecommend()
	case "random":
		runRandom()
	case "titles":
		runTitles()
	case "import":
		runImport()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("marquee version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(
		components.Engine,
		components.Sessions,
		components.Titles,
		cfg,
		logger,
		server.WithBreaker(components.Breaker),
	)

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Catalog.Watch {
		watchSvc := watcher.New(
			[]string{cfg.Catalog.MoviesPath, cfg.Catalog.SimilarityPath},
			func() { _ = srv.Reload() },
			watcher.WithLogger(utils.Named(logger, "watcher")),
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// printRecommendUsage prints recommend subcommand usage.
func printRecommendUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: marquee recommend [flags] <title>\n\n")
	fmt.Fprintf(fs.Output(), "Title is all remaining arguments joined by spaces and must match a catalog title exactly.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Examples:
  marquee recommend Avatar
  marquee recommend "The Dark Knight Rises"
  marquee recommend --output json Heat
  marquee recommend --server "" Heat        # no server: load the catalog locally
`)
}

// buildTitle joins positional args with spaces so multi-word titles work with or
// without shell quoting.
func buildTitle(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves flags (and their values) ahead of positional args, because
// flag.Parse stops at the first non-flag argument. Positional args keep their order
// so a title split around a flag still reads the same. "--" and what follows it stay
// at the end.
func argsReorder(fs *flag.FlagSet, args []string) []string {
	flags := make([]string, 0, len(args))
	positional := make([]string, 0, len(args))
	var rest []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			rest = args[i:]
			break
		}
		if len(a) < 2 || a[0] != '-' {
			positional = append(positional, a)
			continue
		}
		flags = append(flags, a)
		name := strings.TrimLeft(a, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if f := fs.Lookup(name); f != nil && !isBoolFlag(f) && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	flags = append(flags, positional...)
	return append(flags, rest...)
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

type recommendFlags struct {
	configPath *string
	serverURL  *string
	output     *string
}

func addRecommendFlags(fs *flag.FlagSet) recommendFlags {
	return recommendFlags{
		configPath: fs.String("config", defaultConfigPath, "config file path (local mode)"),
		serverURL:  fs.String("server", defaultServerURL, `server URL (empty = load the catalog locally)`),
		output:     fs.String("output", "text", "output format: text, compact, or json"),
	}
}

func runRecommend() {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	flags := addRecommendFlags(fs)
	fs.Usage = func() { printRecommendUsage(fs) }
	_ = fs.Parse(argsReorder(fs, os.Args[2:]))

	title := buildTitle(fs.Args())
	if title == "" {
		printRecommendUsage(fs)
		os.Exit(1)
	}
	format := mustOutputFormat(*flags.output)

	ctx := context.Background()
	var result *models.RecommendationResult
	var err error
	if *flags.serverURL != "" {
		result, err = cli.NewClient(*flags.serverURL).Recommend(ctx, title)
	} else {
		components, logger := mustLocalComponents(*flags.configPath)
		defer logger.Sync()
		defer components.Close()
		result, err = components.Engine.Recommend(ctx, components.sessionResolver(), title)
		if errors.Is(err, catalog.ErrMovieNotFound) {
			result.Suggestions, _ = components.Titles.Suggest(title, 5)
		}
	}
	writeRecommendResult(result, err, format)
}

func runRandom() {
	fs := flag.NewFlagSet("random", flag.ExitOnError)
	flags := addRecommendFlags(fs)
	_ = fs.Parse(os.Args[2:])
	format := mustOutputFormat(*flags.output)

	ctx := context.Background()
	var result *models.RecommendationResult
	var err error
	if *flags.serverURL != "" {
		result, err = cli.NewClient(*flags.serverURL).RecommendRandom(ctx)
	} else {
		components, logger := mustLocalComponents(*flags.configPath)
		defer logger.Sync()
		defer components.Close()
		_, result, err = components.Engine.RecommendRandom(ctx, components.sessionResolver())
	}
	writeRecommendResult(result, err, format)
}

func writeRecommendResult(result *models.RecommendationResult, err error, format cli.OutputFormat) {
	notFound := errors.Is(err, catalog.ErrMovieNotFound) || errors.Is(err, cli.ErrTitleNotFound)
	if err != nil && !notFound {
		fmt.Fprintf(os.Stderr, "Recommend failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteRecommendations(os.Stdout, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
	if notFound {
		os.Exit(2)
	}
}

func runTitles() {
	fs := flag.NewFlagSet("titles", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (local mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = load the catalog locally)")
	limit := fs.Int("limit", 20, "maximum number of titles")
	fuzzy := fs.Bool("fuzzy", false, "enable fuzzy matching for typo tolerance")
	output := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(argsReorder(fs, os.Args[2:]))

	query := buildTitle(fs.Args())
	format := mustOutputFormat(*output)

	var entries []models.CatalogEntry
	if *serverURL != "" {
		var err error
		entries, err = cli.NewClient(*serverURL).Movies(context.Background(), query, *limit, *fuzzy)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Titles failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		store, err := catalog.Load(cfg.Catalog.MoviesPath, cfg.Catalog.SimilarityPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
			os.Exit(1)
		}
		entries, err = findTitles(store, query, *limit, *fuzzy)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Titles failed: %v\n", err)
			os.Exit(1)
		}
	}
	if err := cli.WriteTitles(os.Stdout, entries, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

// findTitles lists the first limit entries, or searches titles when query is set.
func findTitles(store *catalog.Store, query string, limit int, fuzzy bool) ([]models.CatalogEntry, error) {
	entries := []models.CatalogEntry{}
	if query == "" {
		for i := 0; i < store.Size() && i < limit; i++ {
			e, _ := store.EntryAt(i)
			entries = append(entries, e)
		}
		return entries, nil
	}
	idx, err := keyword.NewTitleIndex(store.Titles())
	if err != nil {
		return nil, err
	}
	defer idx.Close()
	hits, err := idx.Search(query, limit, fuzzy)
	if err != nil {
		return nil, err
	}
	for _, h := range hits {
		e, err := store.EntryAt(h.Position)
		if err == nil {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	dbPath := fs.String("db", "", "SQLite database to write the catalog to (required)")
	matrixOut := fs.String("matrix-out", "", "also convert the similarity matrix to the binary format at this path")
	_ = fs.Parse(argsReorder(fs, os.Args[2:]))

	if *dbPath == "" {
		fmt.Println("Usage: marquee import --db <catalog.db> [--matrix-out <similarity.bin>] [movies-file]")
		os.Exit(1)
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil && fs.NArg() == 0 {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	source := fs.Arg(0)
	if source == "" {
		source = cfg.Catalog.MoviesPath
	}

	db, err := storage.NewSQLiteCatalog(*dbPath)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		os.Exit(1)
	}
	n, err := importCatalog(context.Background(), source, db)
	_ = db.Close()
	if err != nil {
		fmt.Printf("Import failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %d movie(s) from %s into %s\n", n, source, *dbPath)

	if *matrixOut != "" {
		if cfg == nil {
			fmt.Println("--matrix-out needs a config with catalog.similarity_path")
			os.Exit(1)
		}
		m, err := catalog.ReadMatrix(cfg.Catalog.SimilarityPath)
		if err != nil {
			fmt.Printf("Failed to read matrix: %v\n", err)
			os.Exit(1)
		}
		if m.Size() != n {
			fmt.Printf("Matrix is %dx%d but catalog has %d movies\n", m.Size(), m.Size(), n)
			os.Exit(1)
		}
		if err := m.Save(*matrixOut); err != nil {
			fmt.Printf("Failed to write matrix: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %dx%d matrix to %s\n", m.Size(), m.Size(), *matrixOut)
	}
}

// importCatalog copies the movies table at source (any supported format) into db,
// replacing its contents. Returns the number of rows db holds afterwards.
func importCatalog(ctx context.Context, source string, db storage.CatalogStorage) (int, error) {
	entries, err := catalog.ReadEntries(source)
	if err != nil {
		return 0, err
	}
	if err := db.ImportMovies(ctx, entries); err != nil {
		return 0, err
	}
	stored, err := db.CountMovies(ctx)
	if err != nil {
		return 0, err
	}
	if int(stored) != len(entries) {
		return 0, fmt.Errorf("stored %d of %d movies", stored, len(entries))
	}
	return int(stored), nil
}

// statusResponse is the shape of GET /api/v1/status.
type statusResponse struct {
	Movies         int            `json:"movies"`
	Fingerprint    string         `json:"fingerprint"`
	Sessions       int            `json:"sessions"`
	DiskUsageBytes *int64         `json:"disk_usage_bytes,omitempty"`
	Provider       map[string]any `json:"provider,omitempty"`
	Config         map[string]any `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path (local mode)")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = inspect the artifacts locally)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if *serverURL != "" {
		raw, err := cli.NewClient(*serverURL).Status(context.Background())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
			os.Exit(1)
		}
		status = statusFromMap(raw)
	} else {
		cfg, _, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		store, err := catalog.Load(cfg.Catalog.MoviesPath, cfg.Catalog.SimilarityPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load catalog: %v\n", err)
			os.Exit(1)
		}
		status = statusResponse{
			Movies:      store.Size(),
			Fingerprint: store.Fingerprint(),
			Config: map[string]any{
				"movies_path":     cfg.Catalog.MoviesPath,
				"similarity_path": cfg.Catalog.SimilarityPath,
				"k":               cfg.Recommend.K,
			},
		}
		if diskBytes, err := storage.DiskUsageBytes(cfg.Catalog.MoviesPath, cfg.Catalog.SimilarityPath); err == nil {
			status.DiskUsageBytes = &diskBytes
		}
	}

	switch *outputFormat {
	case "json":
		if err := writeStatusJSON(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("movies:            %d   # titles in the catalog\n", status.Movies)
		fmt.Printf("fingerprint:       %s\n", status.Fingerprint)
		if *serverURL != "" {
			fmt.Printf("sessions:          %d   # live client sessions\n", status.Sessions)
		}
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes:  %d   # catalog artifacts on disk\n", *status.DiskUsageBytes)
		}
		if len(status.Provider) > 0 {
			fmt.Println()
			fmt.Println("# provider")
			printSection(status.Provider)
		}
		if len(status.Config) > 0 {
			fmt.Println()
			fmt.Println("# configuration")
			printSection(status.Config)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

func statusFromMap(raw map[string]any) statusResponse {
	s := statusResponse{
		Movies:      intField(raw, "movies"),
		Sessions:    intField(raw, "sessions"),
		Fingerprint: fmt.Sprint(raw["fingerprint"]),
	}
	if v, ok := raw["disk_usage_bytes"].(float64); ok {
		n := int64(v)
		s.DiskUsageBytes = &n
	}
	s.Provider, _ = raw["provider"].(map[string]any)
	s.Config, _ = raw["config"].(map[string]any)
	return s
}

func writeStatusJSON(status statusResponse) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(status)
}

func intField(m map[string]any, key string) int {
	if v, ok := m[key].(float64); ok {
		return int(v)
	}
	return 0
}

func printSection(m map[string]any) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%-18s %v\n", k+":", m[k])
	}
}

func mustOutputFormat(s string) cli.OutputFormat {
	format, err := cli.ParseOutputFormat(s)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	return format
}

// mustLocalComponents loads config and builds the full pipeline for a one-shot command.
func mustLocalComponents(configPath string) (*Components, *zap.Logger) {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	return components, logger
}

// Components holds the wired pipeline.
type Components struct {
	Store    *catalog.Store
	Titles   *keyword.TitleIndex
	Breaker  *tmdb.Breaker
	Client   *tmdb.Client
	Resolver *metadata.ProviderResolver
	Sessions *session.Manager
	Engine   *recommend.Engine
}

func (c *Components) Close() {
	if c.Titles != nil {
		_ = c.Titles.Close()
	}
}

// sessionResolver returns a fresh cache-backed resolver for a one-shot command.
func (c *Components) sessionResolver() metadata.Resolver {
	return c.Sessions.Acquire("").Resolver
}

// initializeComponents loads the catalog and wires the provider client, resolver,
// session registry and engine. A catalog that fails to load is fatal.
func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := catalog.Load(cfg.Catalog.MoviesPath, cfg.Catalog.SimilarityPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	metrics.CatalogSize.Set(float64(store.Size()))
	logger.Info("catalog loaded",
		zap.Int("movies", store.Size()),
		zap.String("movies_path", cfg.Catalog.MoviesPath),
		zap.String("similarity_path", cfg.Catalog.SimilarityPath))

	titles, err := keyword.NewTitleIndex(store.Titles())
	if err != nil {
		return nil, fmt.Errorf("failed to build title index: %w", err)
	}

	pc := cfg.Provider
	breaker := tmdb.NewBreaker(tmdb.BreakerSettings{
		MaxRequests:  pc.Breaker.MaxRequests,
		Interval:     pc.Breaker.Interval,
		Timeout:      pc.Breaker.Timeout,
		MinRequests:  pc.Breaker.MinRequests,
		FailureRatio: pc.Breaker.FailureRatio,
	}, utils.Named(logger, "breaker"))
	client := tmdb.NewClient(pc.BaseURL, pc.APIKey,
		tmdb.WithTimeout(pc.Timeout),
		tmdb.WithLanguage(pc.Language),
		tmdb.WithRateLimit(pc.RequestsPerSecond, pc.Burst),
		tmdb.WithBreaker(breaker),
		tmdb.WithLogger(utils.Named(logger, "tmdb")),
	)
	resolver := metadata.NewResolver(client,
		metadata.WithRetryPolicy(metadata.RetryPolicy{MaxAttempts: pc.MaxAttempts, Delay: pc.RetryDelay}),
		metadata.WithImageBaseURL(pc.ImageBaseURL),
		metadata.WithPlaceholders(metadata.Placeholders{
			NoPoster: cfg.Placeholders.NoPoster,
			NotFound: cfg.Placeholders.NotFound,
			Error:    cfg.Placeholders.Error,
		}),
		metadata.WithLogger(utils.Named(logger, "metadata")),
	)

	capacity := cfg.Cache.Capacity
	sessions := session.NewManager(func() *metadata.CachingResolver {
		return metadata.NewCachingResolver(resolver, metadata.NewCache(capacity))
	}, cfg.Cache.SessionTTL, cfg.Cache.MaxSessions, session.WithLogger(utils.Named(logger, "session")))

	engine := recommend.NewEngine(store,
		recommend.WithK(cfg.Recommend.K),
		recommend.WithConcurrency(cfg.Recommend.Concurrency),
		recommend.WithLogger(utils.Named(logger, "recommend")),
	)

	return &Components{
		Store:    store,
		Titles:   titles,
		Breaker:  breaker,
		Client:   client,
		Resolver: resolver,
		Sessions: sessions,
		Engine:   engine,
	}, nil
}

func printUsage() {
	fmt.Println(`marquee - Movie recommendations from a precomputed similarity matrix

Usage:
  marquee server [flags]              Start the HTTP server
  marquee recommend [flags] <title>   Recommend movies similar to a title
  marquee random [flags]              Recommend for a random catalog title
  marquee titles [flags] [query]      List or search catalog titles
  marquee import [flags] [file]       Import the movies table into SQLite
  marquee status [flags]              Show catalog/server status
  marquee version                     Show version
  marquee help                        Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/marquee/config.yaml)
  --debug            Enable debug logging

Recommend / Random Flags:
  --config string    Config file path (local mode)
  --server string    Server URL (default: http://localhost:8080). Use --server "" to load the catalog locally.
  --output string    Output format: text, compact, or json (default: text)

Titles Flags:
  --server string    Server URL (default: http://localhost:8080)
  --limit int        Maximum number of titles (default: 20)
  --fuzzy            Enable fuzzy matching for typo tolerance
  --output string    Output format: text, compact, or json

Import Flags:
  --config string      Config file path (source defaults to catalog.movies_path)
  --db string          SQLite database to write
  --matrix-out string  Also convert the similarity matrix to binary

Status Flags:
  --server string    Server URL (default: http://localhost:8080). Use --server "" to inspect artifacts locally.
  --output string    Output format: text or json (default: text)

Environment:
  TMDB_API_KEY       Overrides provider.api_key

Examples:
  marquee server
  marquee recommend Avatar
  marquee recommend --output json "The Dark Knight Rises"
  marquee random --output compact
  marquee titles --fuzzy avatr
  marquee import --db catalog.db movies.csv
  marquee status --output json`)
}

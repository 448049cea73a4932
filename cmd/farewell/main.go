// Package main is the farewell CLI entry point.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/williamtribe/2025FAREWELLPARTY/internal/cli"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/cluster"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/config"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/embedding"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/generation"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/indexer"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/keyword"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/models"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/roles"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/search"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/server"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/similarity"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/storage"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/vector"
	"github.com/williamtribe/2025FAREWELLPARTY/internal/watcher"
	"github.com/williamtribe/2025FAREWELLPARTY/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/farewell/config.yaml"

// loadConfig loads config from path. When path is the default, a config.yaml
// in the current directory takes precedence so running from the project dir
// picks up the project's config.
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
	switch os.Args[1] {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "import":
		runImport()
	case "reembed":
		runReembed()
	case "embed-jobs":
		runEmbedJobs()
	case "assign-role":
		runAssignRole()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("farewell version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// setup loads config, builds the logger, and initializes all components.
func setup(configPath string, debugFlag bool) (*config.Config, *zap.Logger, *Components) {
	cfg, resolvedPath, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debugFlag
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("config loaded", zap.String("config_path", resolvedPath))

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	return cfg, logger, components
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger, components := setup(*configPath, *debug)
	defer logger.Sync()
	defer components.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Catalog.Path != "" {
		if _, err := roles.SyncCatalog(ctx, cfg.Catalog.Path, components.Storage, components.Vectors, components.Gateway, logger); err != nil {
			logger.Warn("catalog sync failed", zap.String("path", cfg.Catalog.Path), zap.Error(err))
		}
		if cfg.Catalog.Watch {
			catalogWatch := watcher.NewFileWatcher(cfg.Catalog.Path, func(path string) {
				if _, err := roles.SyncCatalog(context.Background(), path, components.Storage, components.Vectors, components.Gateway, logger); err != nil {
					logger.Warn("catalog reload failed", zap.String("path", path), zap.Error(err))
				}
			}, watcher.WithLogger(logger))
			if err := catalogWatch.Start(ctx); err != nil {
				logger.Fatal("Failed to start catalog watcher", zap.Error(err))
			}
			defer catalogWatch.Stop()
		}
	}

	srv := server.NewServer(
		cfg,
		components.Storage,
		components.Vectors,
		components.Gateway,
		components.Searcher,
		components.Indexer,
		components.Similarity,
		components.Clusters,
		components.Resolver,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if cfg.Storage.VectorIndexPath != "" {
		if err := components.Vectors.Save(cfg.Storage.VectorIndexPath); err != nil {
			logger.Warn("vector store save failed", zap.String("path", cfg.Storage.VectorIndexPath), zap.Error(err))
		}
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
}

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	criteria := fs.String("criteria", models.NamespaceIntro, "facet to search: intro or interests")
	limit := fs.Int("limit", 10, "number of results")
	fuzzy := fs.Bool("fuzzy", false, "enable fuzzy matching for typo tolerance")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: farewell search [flags] <query>")
		os.Exit(1)
	}
	queryStr := strings.TrimSpace(strings.Join(fs.Args(), " "))
	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	_, logger, components := setup(*configPath, false)
	defer logger.Sync()
	defer components.Close()

	response, err := components.Searcher.Search(context.Background(), &models.SearchQuery{
		Query:        queryStr,
		Criteria:     *criteria,
		Limit:        *limit,
		FuzzyEnabled: *fuzzy,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: farewell import [flags] <roster.xlsx>")
		os.Exit(1)
	}

	_, logger, components := setup(*configPath, false)
	defer logger.Sync()
	defer components.Close()

	stats, err := components.Indexer.ImportRoster(context.Background(), fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %d of %d members\n", stats.Imported, stats.Total)
	for _, e := range stats.Errors {
		fmt.Printf("  error: %s\n", e)
	}
	components.save(logger)
}

func runReembed() {
	fs := flag.NewFlagSet("reembed", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	_, logger, components := setup(*configPath, false)
	defer logger.Sync()
	defer components.Close()

	stats, err := components.Indexer.ReembedAll(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Reembed failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Reembedded %d profiles (intro: %d, interests: %d, errors: %d)\n",
		stats.Total, stats.IntroSuccess, stats.InterestsSuccess, len(stats.Errors))
	for _, e := range stats.Errors {
		fmt.Printf("  error: %s\n", e)
	}
	components.save(logger)
}

func runEmbedJobs() {
	fs := flag.NewFlagSet("embed-jobs", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	catalogPath := fs.String("catalog", "", "catalog JSON file to load before embedding (default: configured catalog path)")
	_ = fs.Parse(os.Args[2:])

	cfg, logger, components := setup(*configPath, false)
	defer logger.Sync()
	defer components.Close()

	ctx := context.Background()
	path := *catalogPath
	if path == "" {
		path = cfg.Catalog.Path
	}

	var stats *models.JobEmbedStats
	var err error
	if path != "" {
		stats, err = roles.SyncCatalog(ctx, path, components.Storage, components.Vectors, components.Gateway, logger)
	} else {
		stats, err = roles.EmbedJobs(ctx, components.Storage, components.Vectors, components.Gateway, logger)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Embed jobs failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Embedded %d of %d jobs\n", stats.EmbeddedCount, stats.TotalJobs)
	for _, f := range stats.FailedJobs {
		fmt.Printf("  skipped %s: %s\n", f.Code, f.Reason)
	}
	components.save(logger)
}

func runAssignRole() {
	fs := flag.NewFlagSet("assign-role", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: farewell assign-role [flags] <member-id>")
		os.Exit(1)
	}
	format, err := cli.ParseFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	_, logger, components := setup(*configPath, false)
	defer logger.Sync()
	defer components.Close()

	ctx := context.Background()
	p, err := components.Storage.GetProfile(ctx, fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Member lookup failed: %v\n", err)
		os.Exit(1)
	}
	result, err := components.Resolver.Resolve(ctx, p)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Role assignment failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteRoleResult(os.Stdout, result, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	cfg, logger, components := setup(*configPath, false)
	defer logger.Sync()
	defer components.Close()

	ctx := context.Background()
	profileCount, err := components.Storage.CountProfiles(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Count profiles failed: %v\n", err)
		os.Exit(1)
	}
	jobCount, err := components.Storage.CountJobs(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Count jobs failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("profiles:            %d\n", profileCount)
	fmt.Printf("jobs:                %d\n", jobCount)
	for _, ns := range []string{models.NamespaceIntro, models.NamespaceInterests, models.NamespaceJobs} {
		n, countErr := components.Vectors.Count(ctx, ns)
		if countErr == nil {
			fmt.Printf("vectors[%s]: %d\n", ns, n)
		}
	}
	fmt.Printf("embedding_provider:  %s\n", cfg.Embedding.Provider)
	fmt.Printf("embedding_ready:     %t\n", components.Gateway.Configured())
	diskBytes, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.BleveIndexPath, cfg.Storage.VectorIndexPath)
	if err == nil {
		fmt.Printf("disk_usage_bytes:    %d\n", diskBytes)
	}
}

// Components holds initialized services.
type Components struct {
	Storage      storage.Storage
	Embedder     embedding.Embedder
	Gateway      *embedding.Gateway
	Vectors      *vector.MemoryStore
	KeywordIndex keyword.KeywordIndex
	Searcher     *search.Engine
	Indexer      *indexer.Indexer
	Similarity   *similarity.Engine
	Clusters     *cluster.Engine
	Resolver     *roles.Resolver

	vectorPath string
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Gateway != nil {
		_ = c.Gateway.Close()
	}
	if c.Vectors != nil {
		_ = c.Vectors.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

// save persists the vector store so one-shot commands keep their embeddings.
func (c *Components) save(logger *zap.Logger) {
	if c.vectorPath == "" {
		return
	}
	if err := c.Vectors.Save(c.vectorPath); err != nil {
		logger.Warn("vector store save failed", zap.String("path", c.vectorPath), zap.Error(err))
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// A missing provider credential degrades to an unconfigured gateway
	// rather than failing startup: profiles stay editable, the engine just
	// skips embedding work.
	embedder, err := embedding.New(cfg.Embedding)
	if err != nil {
		logger.Warn("embedding provider unavailable",
			zap.String("provider", cfg.Embedding.Provider),
			zap.Error(err))
		embedder = nil
	}
	gateway := embedding.NewGateway(embedder, logger)

	vectors, err := vector.NewMemoryStore(cfg.Embedding.Dimensions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vector store: %w", err)
	}
	if cfg.Storage.VectorIndexPath != "" {
		if loadErr := vectors.Load(cfg.Storage.VectorIndexPath); loadErr != nil {
			logger.Warn("vector store load skipped",
				zap.String("path", cfg.Storage.VectorIndexPath),
				zap.Error(loadErr))
		}
	}

	keywordIndex, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}

	var generator generation.Generator
	if gen, genErr := generation.NewOpenAIGenerator(cfg.Generation.Model, cfg.Generation.MaxTokens, cfg.Generation.Temperature); genErr != nil {
		logger.Warn("reasoning generator unavailable", zap.Error(genErr))
	} else {
		generator = gen
	}

	return &Components{
		Storage:      store,
		Embedder:     embedder,
		Gateway:      gateway,
		Vectors:      vectors,
		KeywordIndex: keywordIndex,
		Searcher:     search.NewEngine(store, gateway, vectors, keywordIndex, cfg.Search, utils.ComponentLogger(logger, "search")),
		Indexer:      indexer.NewIndexer(store, gateway, vectors, keywordIndex, utils.ComponentLogger(logger, "indexer")),
		Similarity:   similarity.NewEngine(vectors, cfg.Search.OversampleLimit, utils.ComponentLogger(logger, "similarity")),
		Clusters:     cluster.NewEngine(vectors, cfg.Cluster.Tolerance, cfg.Cluster.Seed, utils.ComponentLogger(logger, "cluster")),
		Resolver:     roles.NewResolver(store, vectors, gateway, generator, utils.ComponentLogger(logger, "roles")),
		vectorPath:   cfg.Storage.VectorIndexPath,
	}, nil
}

func printUsage() {
	fmt.Println(`farewell - member matching engine for the farewell party

Usage:
  farewell server [flags]               Start the HTTP server
  farewell search [flags] <query>       Search member profiles
  farewell import [flags] <roster.xlsx> Import members from a roster sheet
  farewell reembed [flags]              Re-embed every stored profile
  farewell embed-jobs [flags]           Load and embed the job catalog
  farewell assign-role [flags] <id>     Assign a Mafia42 role to a member
  farewell status [flags]               Show storage and index status
  farewell version                      Show version
  farewell help                         Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/farewell/config.yaml;
                     a config.yaml in the current directory takes precedence)

Server Flags:
  --debug            Enable debug logging

Search Flags:
  --criteria string  Facet to search: intro or interests (default: intro)
  --limit int        Number of results (default: 10)
  --fuzzy            Enable fuzzy matching for typo tolerance
  --output string    Output format: text, compact, or json (default: text)

Embed-jobs Flags:
  --catalog string   Catalog JSON file (default: configured catalog path)

Examples:
  farewell server
  farewell search "보드게임 좋아하는 사람"
  farewell search --criteria interests 커피
  farewell import roster.xlsx
  farewell embed-jobs --catalog jobs.json
  farewell assign-role 3f9a...
  farewell status`)
}

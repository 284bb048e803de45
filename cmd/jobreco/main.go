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
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobreco/internal/config"
	"github.com/kailas-cloud/jobreco/internal/corpus"
	dbRedis "github.com/kailas-cloud/jobreco/internal/db/redis"
	logpkg "github.com/kailas-cloud/jobreco/internal/logger"
	"github.com/kailas-cloud/jobreco/internal/metrics"
	"github.com/kailas-cloud/jobreco/internal/repository/reccache"
	"github.com/kailas-cloud/jobreco/internal/repository/s3artifacts"
	chiTransport "github.com/kailas-cloud/jobreco/internal/transport/chi"
	openaiLLM "github.com/kailas-cloud/jobreco/internal/transport/openai"
	"github.com/kailas-cloud/jobreco/internal/usecase/details"
	healthuc "github.com/kailas-cloud/jobreco/internal/usecase/health"
	"github.com/kailas-cloud/jobreco/internal/usecase/recommend"
	"github.com/kailas-cloud/jobreco/internal/usecase/skills"
	"github.com/kailas-cloud/jobreco/internal/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "build" {
		if err := runBuild(os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, "build failed:", err)
			os.Exit(1)
		}
		return
	}

	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting jobreco API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Bool("cache_enabled", cfg.Cache.Enabled()),
		zap.String("llm_model", cfg.LLM.Model),
	)

	// Register domain metrics explicitly (no init())
	metrics.RegisterDomainMetrics()

	ctx := context.Background()

	loader, err := newLoader(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to configure artifact loader", zap.Error(err))
	}
	if cfg.Artifacts.Preload {
		if _, err := loader.EnsureLoaded(ctx); err != nil {
			// Lazy loading retries on the next request.
			logger.Warn("Corpus preload failed", zap.Error(err))
		}
	}

	normalizer := recommend.Normalizer{
		Country: cfg.Recommend.CountryMarker,
		Remote:  cfg.Recommend.RemoteMarker,
	}
	recommendSvc := recommend.New(loader, normalizer)

	// Pass nil interfaces (not typed nil pointers) for disabled components.
	var recommender chiTransport.Recommender = recommendSvc
	var cachePinger healthuc.CachePinger
	if cfg.Cache.Enabled() {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))

		recommender = reccache.New(
			recommendSvc, store, cfg.Cache.KeyPrefix,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.RecommendationCacheTotal, logger,
		)
		cachePinger = store
	}

	completer := openaiLLM.NewCompleter(&openaiLLM.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     time.Duration(cfg.LLM.TimeoutSec) * time.Second,
		Breaker: openaiLLM.BreakerConfig{
			MaxRequests:      cfg.LLM.Breaker.MaxRequests,
			Interval:         time.Duration(cfg.LLM.Breaker.IntervalSec) * time.Second,
			Timeout:          time.Duration(cfg.LLM.Breaker.OpenTimeoutSec) * time.Second,
			FailureThreshold: cfg.LLM.Breaker.FailureThreshold,
		},
		Logger: logger,
	})
	var llmChecker healthuc.LLMChecker
	if completer.Configured() {
		llmChecker = completer
	} else {
		logger.Warn("LLM API key not set, job details and skill analysis are disabled")
	}
	detailsSvc := details.New(completer)
	skillsSvc := skills.New(completer)

	healthSvc := healthuc.New(loader, cachePinger, llmChecker)

	server := chiTransport.NewServer(recommender, detailsSvc, skillsSvc, healthSvc, logger).
		WithTopN(cfg.Recommend.DefaultTopN, cfg.Recommend.MaxTopN)
	handler := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		APIKeys:            cfg.Auth.APIKeys,
		AllowedOrigins:     cfg.CORS.AllowedOrigins,
		RateLimitPerMinute: cfg.HTTP.RateLimitPerMinute,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// newLoader wires the artifact search order and the optional S3 source.
func newLoader(ctx context.Context, cfg config.Config, logger *zap.Logger) (*corpus.Loader, error) {
	loc := corpus.Locations{
		ConfiguredDir: cfg.Artifacts.Dir,
		CodeDir:       cfg.Artifacts.CodeDir,
		ProjectRoot:   cfg.Artifacts.ProjectRoot,
	}
	if loc.CodeDir == "" {
		if exe, err := os.Executable(); err == nil {
			loc.CodeDir = filepath.Dir(exe)
		}
	}
	if loc.ProjectRoot == "" && loc.CodeDir != "" {
		loc.ProjectRoot = filepath.Dir(loc.CodeDir)
	}
	if wd, err := os.Getwd(); err == nil {
		loc.WorkDir = wd
	}

	loader := corpus.NewLoader(corpus.NewResolver(corpus.DefaultCandidates(loc), nil), artifactNames(cfg), logger).
		WithHint(loaderHint(cfg))

	s3cfg := cfg.Artifacts.S3
	if s3cfg.Bucket == "" {
		return loader, nil
	}
	fetcher, err := s3artifacts.New(ctx, s3artifacts.Config{
		Bucket:       s3cfg.Bucket,
		Prefix:       s3cfg.Prefix,
		Region:       s3cfg.Region,
		Endpoint:     s3cfg.Endpoint,
		AccessKey:    s3cfg.AccessKey,
		SecretKey:    s3cfg.SecretKey,
		UsePathStyle: s3cfg.UsePathStyle,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create s3 fetcher: %w", err)
	}
	dir := s3cfg.LocalDir
	if dir == "" {
		dir = cfg.Artifacts.Dir
	}
	if dir == "" {
		dir = filepath.Join(loc.WorkDir, "artifacts")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create artifact dir %s: %w", dir, err)
	}
	logger.Info("Remote artifact source enabled",
		zap.String("bucket", s3cfg.Bucket),
		zap.String("prefix", s3cfg.Prefix),
		zap.String("local_dir", dir),
	)
	return loader.WithFetcher(fetcher, dir), nil
}

func artifactNames(cfg config.Config) corpus.Artifacts {
	return corpus.Artifacts{
		Vectorizer: cfg.Artifacts.Vectorizer,
		Matrix:     cfg.Artifacts.Matrix,
		Table:      cfg.Artifacts.Table,
	}
}

// loaderHint tells operators where the service looks for missing artifacts.
func loaderHint(cfg config.Config) string {
	hint := "Place them in an 'artifacts' directory next to the service or set JOB_ARTIFACTS_DIR (artifacts.dir) to the directory containing them"
	if b := cfg.Artifacts.S3.Bucket; b != "" {
		hint += fmt.Sprintf(", or upload them to s3://%s/%s", b, cfg.Artifacts.S3.Prefix)
	}
	return hint + ". 'jobreco build' creates the vectorizer and matrix from the jobs table."
}

// runBuild fits the vectorizer over a jobs table and writes the artifacts
// under the configured names. A missing config falls back to defaults.
func runBuild(args []string) error {
	env := config.GetEnv()
	cfg, cfgErr := config.Load(env)
	if cfgErr != nil {
		cfg = config.Config{}
		cfg.ApplyDefaults()
	}

	defaultTable := cfg.Artifacts.Table
	if cfg.Artifacts.Dir != "" {
		defaultTable = filepath.Join(cfg.Artifacts.Dir, cfg.Artifacts.Table)
	}
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	table := fs.String("table", defaultTable, "path to the processed jobs table")
	out := fs.String("out", "", "output directory (default: the table's directory)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	dir := *out
	if dir == "" {
		dir = filepath.Dir(*table)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	if cfgErr != nil {
		logger.Warn("Config not loaded, using default artifact names", zap.Error(cfgErr))
	}

	names := artifactNames(cfg)
	start := time.Now()
	if err := corpus.BuildNamed(*table, dir, names); err != nil {
		return err
	}
	logger.Info("Artifacts built",
		zap.String("table", *table),
		zap.String("out_dir", dir),
		zap.String("vectorizer", names.Vectorizer),
		zap.String("matrix", names.Matrix),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

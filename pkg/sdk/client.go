package jobreco

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobreco/internal/corpus"
	dbRedis "github.com/kailas-cloud/jobreco/internal/db/redis"
	"github.com/kailas-cloud/jobreco/internal/domain/match"
	"github.com/kailas-cloud/jobreco/internal/domain/query"
	"github.com/kailas-cloud/jobreco/internal/metrics"
	"github.com/kailas-cloud/jobreco/internal/repository/reccache"
	healthuc "github.com/kailas-cloud/jobreco/internal/usecase/health"
	"github.com/kailas-cloud/jobreco/internal/usecase/recommend"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultCacheTTL         = time.Hour
	defaultCachePrefix      = "jobreco:"
)

// Internal interfaces for substitution in tests.
type recommendUseCase interface {
	Recommend(ctx context.Context, q query.Query) ([]match.Match, error)
}

type corpusLoader interface {
	EnsureLoaded(ctx context.Context) (*corpus.Corpus, error)
}

// Match is one recommended job. Location and salary are nil when unknown.
type Match struct {
	JobTitle string
	City     *string
	State    *string
	Salary   *string
	Score    float64
}

// Client is the jobreco entry point.
type Client struct {
	store     *dbRedis.Store
	loader    corpusLoader
	recSvc    recommendUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. Artifacts are loaded lazily on the first call to
// Recommend, Load or Health. The context is used for the cache readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		cacheTTL:    defaultCacheTTL,
		cachePrefix: defaultCachePrefix,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	resolver, err := newResolver(cfg)
	if err != nil {
		return nil, err
	}
	loader := corpus.NewLoader(resolver, artifactNames(cfg), logger).
		WithHint("Pass WithArtifactsDir or WithSearchDirs pointing at them, or run jobreco.Build over the jobs table.")

	normalizer := recommend.DefaultNormalizer()
	if cfg.country != "" {
		normalizer.Country = cfg.country
	}
	if cfg.remote != "" {
		normalizer.Remote = cfg.remote
	}
	recSvc := recommend.New(loader, normalizer)

	c := &Client{loader: loader, recSvc: recSvc, obs: obs}

	if len(cfg.cacheAddrs) == 0 {
		c.healthSvc = healthuc.New(loader, nil, nil)
		return c, nil
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.cacheAddrs,
		Password: cfg.cachePassword,
	})
	if err != nil {
		return nil, fmt.Errorf("jobreco: create redis store: %w", err)
	}
	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("jobreco: cache not ready: %w", err)
	}

	c.store = store
	c.recSvc = reccache.New(recSvc, store, cfg.cachePrefix, cfg.cacheTTL, metrics.RecommendationCacheTotal, logger)
	c.healthSvc = healthuc.New(loader, store, nil)
	return c, nil
}

func newResolver(cfg *clientConfig) (*corpus.Resolver, error) {
	if len(cfg.searchDirs) > 0 {
		cands := make([]corpus.Candidate, 0, len(cfg.searchDirs)+1)
		cands = append(cands, corpus.InDir(cfg.artifactsDir))
		for _, d := range cfg.searchDirs {
			cands = append(cands, corpus.InDir(d))
		}
		return corpus.NewResolver(cands, nil), nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("jobreco: working directory: %w", err)
	}
	return corpus.NewResolver([]corpus.Candidate{
		corpus.InDir(cfg.artifactsDir),
		corpus.InDir(filepath.Join(wd, "artifacts")),
		corpus.InDir(wd),
	}, nil), nil
}

func artifactNames(cfg *clientConfig) corpus.Artifacts {
	names := corpus.DefaultArtifacts()
	if cfg.vectorizer != "" {
		names.Vectorizer = cfg.vectorizer
	}
	if cfg.matrix != "" {
		names.Matrix = cfg.matrix
	}
	if cfg.table != "" {
		names.Table = cfg.table
	}
	return names
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Load resolves, builds if needed and loads the corpus.
// Returns the number of job records.
func (c *Client) Load(ctx context.Context) (n int, err error) {
	call := c.obs.begin("load")
	defer func() { call.end(err, zap.Int("documents", n)) }()

	loaded, err := c.loader.EnsureLoaded(ctx)
	if err != nil {
		return 0, fmt.Errorf("load corpus: %w", err)
	}
	c.obs.corpusSize(loaded.Size())
	return loaded.Size(), nil
}

// Recommend returns up to topN jobs most similar to text, best first.
// topN=0 uses the default of 5.
func (c *Client) Recommend(ctx context.Context, text string, topN int) (out []Match, err error) {
	call := c.obs.begin("recommend", zap.Int("top_n", topN))
	defer func() { call.end(err, zap.Int("matches", len(out))) }()

	q, err := query.New(text, topN)
	if err != nil {
		return nil, err
	}
	ms, err := c.recSvc.Recommend(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	out = make([]Match, len(ms))
	for i := range ms {
		out[i] = matchFromDomain(&ms[i])
	}
	c.obs.matches(len(out))
	return out, nil
}

// Build fits the vectorizer over the table's job titles and writes the
// vectorizer and matrix to outDir under their default names.
func Build(tablePath, outDir string) error {
	if err := corpus.Build(tablePath, outDir); err != nil {
		return fmt.Errorf("jobreco: build: %w", err)
	}
	return nil
}

func matchFromDomain(m *match.Match) Match {
	return Match{
		JobTitle: m.JobTitle(),
		City:     m.City().Ptr(),
		State:    m.State().Ptr(),
		Salary:   m.Salary().Ptr(),
		Score:    m.Score(),
	}
}

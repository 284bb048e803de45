package jobreco

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	artifactsDir string
	searchDirs   []string
	vectorizer   string
	matrix       string
	table        string

	country string
	remote  string

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration
	cachePrefix   string

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithArtifactsDir sets the highest-priority artifact directory.
// Without it the client searches <cwd>/artifacts and then <cwd>.
func WithArtifactsDir(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.artifactsDir = dir
	})
}

// WithSearchDirs replaces the default search order with dirs, tried in order.
func WithSearchDirs(dirs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.searchDirs = dirs
	})
}

// WithArtifactNames overrides the vectorizer, matrix and table file names.
// Empty values keep the defaults.
func WithArtifactNames(vectorizer, matrix, table string) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorizer = vectorizer
		c.matrix = matrix
		c.table = table
	})
}

// WithLocationMarkers sets the country and remote markers used to normalize locations.
// Defaults: "India" and "Remote".
func WithLocationMarkers(country, remote string) Option {
	return optionFunc(func(c *clientConfig) {
		c.country = country
		c.remote = remote
	})
}

// WithRedisCache caches recommendations in a Redis or Valkey instance.
func WithRedisCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithCachePrefix sets the cache key prefix. Default: "jobreco:".
func WithCachePrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.cachePrefix = prefix
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

// Package reccache caches recommendation results in a key-value store.
package reccache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobreco/internal/db"
	"github.com/kailas-cloud/jobreco/internal/domain/match"
	"github.com/kailas-cloud/jobreco/internal/domain/query"
)

// store is the consumer interface for the result cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Recommender is the decorated recommendation source.
type Recommender interface {
	Recommend(ctx context.Context, q query.Query) ([]match.Match, error)
	Fingerprint(ctx context.Context) (string, error)
}

// CachedRecommender serves repeated queries from the store.
// Keys include the corpus fingerprint, so rebuilt artifacts never hit stale entries.
type CachedRecommender struct {
	inner      Recommender
	store      store
	prefix     string
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner Recommender,
	s store,
	prefix string,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedRecommender {
	return &CachedRecommender{
		inner:      inner,
		store:      s,
		prefix:     prefix,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Recommend returns cached matches or calls the inner recommender.
// Store failures degrade to a miss and never fail the request.
func (c *CachedRecommender) Recommend(ctx context.Context, q query.Query) ([]match.Match, error) {
	fp, err := c.inner.Fingerprint(ctx)
	if err != nil {
		return nil, fmt.Errorf("corpus fingerprint: %w", err)
	}
	key := c.cacheKey(fp, q)

	if ms, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return ms, nil
	}

	c.incCache("miss")

	ms, err := c.inner.Recommend(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}

	c.putToCache(ctx, key, ms)
	return ms, nil
}

// Fingerprint delegates to the inner recommender.
func (c *CachedRecommender) Fingerprint(ctx context.Context) (string, error) {
	return c.inner.Fingerprint(ctx)
}

func (c *CachedRecommender) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedRecommender) cacheKey(fingerprint string, q query.Query) string {
	h := sha256.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(q.TopN())))
	h.Write([]byte{0})
	h.Write([]byte(q.Text()))
	return c.prefix + "reco:" + hex.EncodeToString(h.Sum(nil))
}

func (c *CachedRecommender) getFromCache(ctx context.Context, key string) ([]match.Match, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached recommendations", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var e entryDTO
	if err := json.Unmarshal(data, &e); err != nil {
		c.logger.Warn("Failed to parse cached recommendations", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return e.toDomain(), true
}

func (c *CachedRecommender) putToCache(ctx context.Context, key string, ms []match.Match) {
	data, err := json.Marshal(toEntry(ms))
	if err != nil {
		c.logger.Warn("Failed to encode recommendations", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache recommendations", zap.String("key", key), zap.Error(err))
	}
}

package reccache

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/kailas-cloud/jobreco/internal/domain"
)

func TestRecommend_MissThenHit(t *testing.T) {
	inner := &mockRecommender{matches: sampleMatches(), fingerprint: "fp1"}
	c, s := newTestCache(t, inner)
	ctx := context.Background()
	q := mustQuery(t, "backend", 2)

	first, err := c.Recommend(ctx, q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s.data) != 1 {
		t.Fatalf("expected one cached entry, got %d", len(s.data))
	}
	for k, ttl := range s.ttls {
		if !strings.HasPrefix(k, "jobreco:reco:") {
			t.Errorf("unexpected key %q", k)
		}
		if ttl != time.Hour {
			t.Errorf("expected 1h ttl, got %v", ttl)
		}
	}

	second, err := c.Recommend(ctx, q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected inner called once, got %d", inner.calls)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached result differs:\n%+v\n%+v", first, second)
	}
}

func TestRecommend_KeyDependsOnInputs(t *testing.T) {
	inner := &mockRecommender{matches: sampleMatches(), fingerprint: "fp1"}
	c, _ := newTestCache(t, inner)

	base := c.cacheKey("fp1", mustQuery(t, "backend", 2))
	variants := []string{
		c.cacheKey("fp2", mustQuery(t, "backend", 2)),
		c.cacheKey("fp1", mustQuery(t, "backend", 3)),
		c.cacheKey("fp1", mustQuery(t, "Backend", 2)),
	}
	for i, k := range variants {
		if k == base {
			t.Errorf("variant %d collides with base key", i)
		}
	}
}

func TestRecommend_FingerprintChangeMisses(t *testing.T) {
	inner := &mockRecommender{matches: sampleMatches(), fingerprint: "fp1"}
	c, _ := newTestCache(t, inner)
	ctx := context.Background()
	q := mustQuery(t, "backend", 2)

	if _, err := c.Recommend(ctx, q); err != nil {
		t.Fatal(err)
	}
	inner.fingerprint = "fp2"
	if _, err := c.Recommend(ctx, q); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("expected a miss after corpus change, inner calls=%d", inner.calls)
	}
}

func TestRecommend_StoreErrorsDegrade(t *testing.T) {
	inner := &mockRecommender{matches: sampleMatches(), fingerprint: "fp1"}
	c, s := newTestCache(t, inner)
	s.getErr = errors.New("connection reset")
	s.setErr = errors.New("connection reset")

	got, err := c.Recommend(context.Background(), mustQuery(t, "backend", 2))
	if err != nil {
		t.Fatalf("store errors must not fail the request: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 matches, got %d", len(got))
	}
}

func TestRecommend_CorruptEntryIsMiss(t *testing.T) {
	inner := &mockRecommender{matches: sampleMatches(), fingerprint: "fp1"}
	c, s := newTestCache(t, inner)
	q := mustQuery(t, "backend", 2)
	s.data[c.cacheKey("fp1", q)] = []byte("{not json")

	if _, err := c.Recommend(context.Background(), q); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 1 {
		t.Errorf("expected inner call on corrupt entry, got %d", inner.calls)
	}
}

func TestRecommend_InnerErrorNotCached(t *testing.T) {
	inner := &mockRecommender{fingerprint: "fp1", err: domain.ErrCorpusUnavailable}
	c, s := newTestCache(t, inner)

	_, err := c.Recommend(context.Background(), mustQuery(t, "backend", 2))
	if !errors.Is(err, domain.ErrCorpusUnavailable) {
		t.Fatalf("expected ErrCorpusUnavailable, got %v", err)
	}
	if len(s.data) != 0 {
		t.Error("errors must not be cached")
	}
}

func TestRecommend_FingerprintError(t *testing.T) {
	inner := &mockRecommender{fpErr: domain.ErrCorpusUnavailable}
	c, _ := newTestCache(t, inner)

	_, err := c.Recommend(context.Background(), mustQuery(t, "backend", 2))
	if !errors.Is(err, domain.ErrCorpusUnavailable) {
		t.Fatalf("expected ErrCorpusUnavailable, got %v", err)
	}
	if inner.calls != 0 {
		t.Error("inner must not be called without a fingerprint")
	}
}

package reccache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobreco/internal/db"
	"github.com/kailas-cloud/jobreco/internal/domain/job"
	"github.com/kailas-cloud/jobreco/internal/domain/match"
	"github.com/kailas-cloud/jobreco/internal/domain/query"
)

type mockRecommender struct {
	matches     []match.Match
	err         error
	fingerprint string
	fpErr       error
	calls       int
}

func (m *mockRecommender) Recommend(_ context.Context, _ query.Query) ([]match.Match, error) {
	m.calls++
	return m.matches, m.err
}

func (m *mockRecommender) Fingerprint(_ context.Context) (string, error) {
	return m.fingerprint, m.fpErr
}

// memStore is an in-memory store that records TTLs.
type memStore struct {
	data   map[string][]byte
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func sampleMatches() []match.Match {
	return []match.Match{
		match.New(2, "Backend Developer", job.Absent(), job.NewField("Texas"), job.Absent(), 0.71),
		match.New(0, "Backend Engineer", job.NewField("Remote"), job.NewField("India"), job.NewField("$120,000"), 0.42),
	}
}

func newTestCache(t *testing.T, inner *mockRecommender) (*CachedRecommender, *memStore) {
	t.Helper()
	s := newMemStore()
	return New(inner, s, "jobreco:", time.Hour, nil, zap.NewNop()), s
}

func mustQuery(t *testing.T, text string, topN int) query.Query {
	t.Helper()
	q, err := query.New(text, topN)
	if err != nil {
		t.Fatal(err)
	}
	return q
}

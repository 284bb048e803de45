package health

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/jobreco/internal/corpus"
	"github.com/kailas-cloud/jobreco/internal/domain"
	"github.com/kailas-cloud/jobreco/internal/domain/job"
)

// --- Mocks ---

type mockCorpus struct {
	err   error
	built bool
}

func (m *mockCorpus) EnsureLoaded(_ context.Context) (*corpus.Corpus, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &corpus.Corpus{Records: []job.Record{job.NewRecord("Nurse", "", "", "")}}, nil
}

func (m *mockCorpus) Stats() corpus.Stats {
	if m.err != nil {
		return corpus.Stats{Built: m.built}
	}
	return corpus.Stats{Loaded: true, Documents: 1, Vocabulary: 1, Built: m.built}
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockLLM struct {
	err error
}

func (m *mockLLM) HealthCheck(_ context.Context) error { return m.err }

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockCorpus{}, &mockPinger{}, &mockLLM{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	for _, name := range []string{"corpus", "cache", "llm"} {
		if r.Checks[name] != CheckOK {
			t.Errorf("expected %s %q, got %q", name, CheckOK, r.Checks[name])
		}
	}
	if r.Documents != 1 {
		t.Errorf("expected 1 document, got %d", r.Documents)
	}
}

func TestCheck_CorpusMissing(t *testing.T) {
	svc := New(&mockCorpus{err: domain.ErrCorpusUnavailable}, nil, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["corpus"] != CheckError {
		t.Errorf("expected corpus %q, got %q", CheckError, r.Checks["corpus"])
	}
}

func TestCheck_ReportsCorpusStats(t *testing.T) {
	svc := New(&mockCorpus{built: true}, nil, nil)
	r := svc.Check(context.Background())

	if r.Documents != 1 || r.Vocabulary != 1 || !r.Built {
		t.Errorf("unexpected stats: %+v", r)
	}

	r = New(&mockCorpus{err: domain.ErrCorpusUnavailable}, nil, nil).Check(context.Background())
	if r.Documents != 0 || r.Vocabulary != 0 {
		t.Errorf("failed load must report zero documents: %+v", r)
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(&mockCorpus{}, &mockPinger{err: errors.New("conn refused")}, nil)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError || r.Checks["corpus"] != CheckOK {
		t.Errorf("unexpected checks: %v", r.Checks)
	}
}

func TestCheck_LLMError(t *testing.T) {
	svc := New(&mockCorpus{}, nil, &mockLLM{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded || r.Checks["llm"] != CheckError {
		t.Errorf("unexpected report: %+v", r)
	}
}

func TestCheck_OptionalComponentsOmitted(t *testing.T) {
	svc := New(&mockCorpus{}, nil, nil)
	r := svc.Check(context.Background())

	if len(r.Checks) != 1 {
		t.Errorf("expected only corpus check, got %v", r.Checks)
	}
	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
}

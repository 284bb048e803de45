package recommend

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/kailas-cloud/jobreco/internal/corpus"
	"github.com/kailas-cloud/jobreco/internal/domain"
	"github.com/kailas-cloud/jobreco/internal/domain/job"
	"github.com/kailas-cloud/jobreco/internal/domain/match"
	"github.com/kailas-cloud/jobreco/internal/domain/query"
	"github.com/kailas-cloud/jobreco/internal/tfidf"
)

type fakeCorpus struct {
	c     *corpus.Corpus
	err   error
	calls int
}

func (f *fakeCorpus) EnsureLoaded(context.Context) (*corpus.Corpus, error) {
	f.calls++
	return f.c, f.err
}

func buildCorpus(t *testing.T, records ...job.Record) *corpus.Corpus {
	t.Helper()
	titles := corpus.Titles(records)
	v := tfidf.New()
	if err := v.Fit(titles); err != nil {
		t.Fatalf("fit: %v", err)
	}
	m, err := v.TransformAll(titles)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	return &corpus.Corpus{Vectorizer: v, Matrix: m, Records: records, Fingerprint: "abc123"}
}

func threeJobs(t *testing.T) *corpus.Corpus {
	return buildCorpus(t,
		job.NewRecord("Backend Engineer", "Austin", "Texas", "$120,000"),
		job.NewRecord("Nurse", "India", "India", ""),
		job.NewRecord("Backend Developer", "nan", "", "nan"),
	)
}

func mustQuery(t *testing.T, text string, topN int) query.Query {
	t.Helper()
	q, err := query.New(text, topN)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	return q
}

func titles(ms []match.Match) []string {
	out := make([]string, len(ms))
	for i := range ms {
		out[i] = ms[i].JobTitle()
	}
	return out
}

func TestRecommend_BackendQuery(t *testing.T) {
	svc := New(&fakeCorpus{c: threeJobs(t)}, DefaultNormalizer())

	got, err := svc.Recommend(context.Background(), mustQuery(t, "backend development", 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	for _, m := range got {
		if m.JobTitle() == "Nurse" {
			t.Errorf("Nurse must not be returned: %v", titles(got))
		}
		if m.Score() <= 0 || m.Score() > 1 {
			t.Errorf("score out of range: %v", m.Score())
		}
	}
	if got[0].Score() < got[1].Score() {
		t.Errorf("scores not descending: %v, %v", got[0].Score(), got[1].Score())
	}
}

func TestRecommend_ClampsToCorpusSize(t *testing.T) {
	svc := New(&fakeCorpus{c: threeJobs(t)}, DefaultNormalizer())

	got, err := svc.Recommend(context.Background(), mustQuery(t, "nurse", 20))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	if got[0].JobTitle() != "Nurse" {
		t.Errorf("expected Nurse first, got %v", titles(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score() > got[i-1].Score() {
			t.Errorf("scores increase at %d", i)
		}
	}
}

func TestRecommend_NoVocabularyOverlap(t *testing.T) {
	svc := New(&fakeCorpus{c: threeJobs(t)}, DefaultNormalizer())

	got, err := svc.Recommend(context.Background(), mustQuery(t, "@@ ## $$ zzzqqq", 2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	for _, m := range got {
		if m.Score() != 0 {
			t.Errorf("expected zero score, got %v", m.Score())
		}
	}
	if got[0].Row() != 0 || got[1].Row() != 1 {
		t.Errorf("ties must resolve by row index, got rows %d, %d", got[0].Row(), got[1].Row())
	}
}

func TestRecommend_Deterministic(t *testing.T) {
	svc := New(&fakeCorpus{c: buildCorpus(t,
		job.NewRecord("Data Analyst", "Pune", "Maharashtra", ""),
		job.NewRecord("Data Analyst", "Delhi", "Delhi", ""),
		job.NewRecord("Senior Data Analyst", "Remote", "Remote", ""),
		job.NewRecord("Chef", "Goa", "Goa", ""),
	)}, DefaultNormalizer())
	q := mustQuery(t, "data analyst", 3)

	first, err := svc.Recommend(context.Background(), q)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := svc.Recommend(context.Background(), q)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("results differ: %v vs %v", titles(first), titles(again))
		}
	}
	if first[0].Row() != 0 || first[1].Row() != 1 {
		t.Errorf("equal scores must keep row order, got %d, %d", first[0].Row(), first[1].Row())
	}
}

func TestRecommend_NormalizesLocations(t *testing.T) {
	svc := New(&fakeCorpus{c: threeJobs(t)}, DefaultNormalizer())

	got, err := svc.Recommend(context.Background(), mustQuery(t, "nurse backend", 3))
	if err != nil {
		t.Fatal(err)
	}
	byTitle := make(map[string]match.Match, len(got))
	for _, m := range got {
		byTitle[m.JobTitle()] = m
	}

	nurse := byTitle["Nurse"]
	if c, s := nurse.City(), nurse.State(); !c.Equals("Remote") || !s.Equals("India") {
		t.Errorf("nurse location: got (%v, %v)", c, s)
	}
	dev := byTitle["Backend Developer"]
	if c, s, sal := dev.City(), dev.State(), dev.Salary(); c.Present() || s.Present() || sal.Present() {
		t.Errorf("placeholder fields must be absent: %v %v %v", c, s, sal)
	}
	eng := byTitle["Backend Engineer"]
	if sal := eng.Salary(); !sal.Equals("$120,000") {
		t.Errorf("salary passthrough: got %v", sal)
	}
}

func TestRecommend_CorpusUnavailable(t *testing.T) {
	svc := New(&fakeCorpus{err: &domain.MissingArtifactsError{Missing: []string{"vectorizer.json"}}}, DefaultNormalizer())

	_, err := svc.Recommend(context.Background(), mustQuery(t, "go", 1))
	if !errors.Is(err, domain.ErrCorpusUnavailable) {
		t.Fatalf("expected ErrCorpusUnavailable, got %v", err)
	}
}

func TestFingerprint(t *testing.T) {
	svc := New(&fakeCorpus{c: threeJobs(t)}, DefaultNormalizer())
	fp, err := svc.Fingerprint(context.Background())
	if err != nil || fp != "abc123" {
		t.Fatalf("got (%q, %v)", fp, err)
	}
}

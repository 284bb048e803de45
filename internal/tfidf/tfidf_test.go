package tfidf

import (
	"math"
	"path/filepath"
	"reflect"
	"testing"
)

func fitted(t *testing.T, docs ...string) (*Vectorizer, *Matrix) {
	t.Helper()
	v := New()
	if err := v.Fit(docs); err != nil {
		t.Fatalf("fit: %v", err)
	}
	m, err := v.TransformAll(docs)
	if err != nil {
		t.Fatalf("transform all: %v", err)
	}
	return v, m
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"stop words and short tokens", "The Senior C# / Go-Developer, in a Team of 5!", []string{"senior", "developer", "team"}},
		{"golang is not a stop word", "Golang engineer", []string{"golang", "engineer"}},
		{"underscores and digits", "ml_ops k8s 2024", []string{"ml_ops", "k8s", "2024"}},
	}
	v := New()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := v.Tokenize(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFit_SortedVocabularyAndSmoothedIDF(t *testing.T) {
	v, _ := fitted(t, "Backend Engineer", "Nurse", "Backend Developer")

	if v.Size() != 4 {
		t.Fatalf("expected 4 terms, got %d", v.Size())
	}
	if v.vocabulary["backend"] != 0 || v.vocabulary["nurse"] != 3 {
		t.Errorf("unexpected column order: %v", v.vocabulary)
	}
	wantBackend := math.Log(4.0/3.0) + 1
	if math.Abs(v.idf[0]-wantBackend) > 1e-12 {
		t.Errorf("idf(backend) = %v, want %v", v.idf[0], wantBackend)
	}
}

func TestFit_OnlyStopWords(t *testing.T) {
	v := New()
	if err := v.Fit([]string{"the", "of and"}); err == nil {
		t.Fatal("expected error for empty vocabulary")
	}
}

func TestTransform_NotFitted(t *testing.T) {
	if _, err := New().Transform("go"); err != ErrNotFitted {
		t.Fatalf("expected ErrNotFitted, got %v", err)
	}
}

func TestTransform_IgnoresUnknownTerms(t *testing.T) {
	v, _ := fitted(t, "Backend Engineer", "Nurse")
	q, err := v.Transform("backend kubernetes")
	if err != nil {
		t.Fatal(err)
	}
	if len(q.Indices) != 1 || q.Indices[0] != v.vocabulary["backend"] {
		t.Errorf("expected only backend column, got %v", q.Indices)
	}
	if math.Abs(q.Norm()-1) > 1e-12 {
		t.Errorf("expected unit norm, got %v", q.Norm())
	}
	if v.Size() != 3 {
		t.Errorf("vocabulary must stay frozen, size %d", v.Size())
	}
}

func TestCosine(t *testing.T) {
	v, m := fitted(t, "Backend Engineer", "Nurse", "Backend Developer")
	q, _ := v.Transform("backend development")
	scores := Cosine(q, m)

	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}
	if scores[1] != 0 {
		t.Errorf("nurse should score 0, got %v", scores[1])
	}
	if scores[0] <= 0 || scores[2] <= 0 {
		t.Errorf("backend rows should score > 0, got %v", scores)
	}
	for i, s := range scores {
		if s < 0 || s > 1 {
			t.Errorf("score[%d]=%v out of [0,1]", i, s)
		}
	}
}

func TestCosine_ZeroQuery(t *testing.T) {
	v, m := fitted(t, "Backend Engineer", "Nurse")
	q, _ := v.Transform("@@@ ###")
	if !q.IsZero() {
		t.Fatal("expected zero query vector")
	}
	for i, s := range Cosine(q, m) {
		if s != 0 {
			t.Errorf("score[%d]=%v, want 0", i, s)
		}
	}
}

func TestCosine_EmptyRow(t *testing.T) {
	v, m := fitted(t, "Backend Engineer", "", "Nurse")
	q, _ := v.Transform("nurse")
	scores := Cosine(q, m)
	if scores[1] != 0 {
		t.Errorf("empty title row should score 0, got %v", scores[1])
	}
	if math.Abs(scores[2]-1) > 1e-12 {
		t.Errorf("exact match should score 1, got %v", scores[2])
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	docs := []string{"Backend Engineer", "Nurse", "Backend Developer", "Staff Nurse ICU"}
	v, m := fitted(t, docs...)
	dir := t.TempDir()
	vp := filepath.Join(dir, "vectorizer.json")
	mp := filepath.Join(dir, "job_matrix.json")

	if err := v.Save(vp); err != nil {
		t.Fatalf("save vectorizer: %v", err)
	}
	if err := m.Save(mp); err != nil {
		t.Fatalf("save matrix: %v", err)
	}

	v2, err := LoadVectorizer(vp)
	if err != nil {
		t.Fatalf("load vectorizer: %v", err)
	}
	m2, err := LoadMatrix(mp)
	if err != nil {
		t.Fatalf("load matrix: %v", err)
	}

	for _, query := range []string{"backend", "icu nurse", "developer engineer"} {
		q1, _ := v.Transform(query)
		q2, _ := v2.Transform(query)
		s1, s2 := Cosine(q1, m), Cosine(q2, m2)
		if !reflect.DeepEqual(s1, s2) {
			t.Errorf("query %q: scores differ after reload: %v vs %v", query, s1, s2)
		}
	}
}

func TestNewMatrix_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		cols    int
		indptr  []int
		indices []int
		data    []float64
	}{
		{"empty indptr", 2, nil, nil, nil},
		{"length mismatch", 2, []int{0, 1}, []int{0}, nil},
		{"column out of range", 2, []int{0, 1}, []int{5}, []float64{1}},
		{"non monotonic", 2, []int{0, 1, 0}, []int{0}, []float64{1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewMatrix(tc.cols, tc.indptr, tc.indices, tc.data); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

// Package tfidf implements a frozen-vocabulary TF-IDF vectorizer, a CSR
// document-term matrix and cosine scoring over it.
package tfidf

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// tokenRe matches runs of two or more word characters.
var tokenRe = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// ErrNotFitted signals a vectorizer without vocabulary.
var ErrNotFitted = errors.New("tfidf: vectorizer not fitted")

// Vectorizer maps text into a fixed term space. The vocabulary is frozen after Fit.
type Vectorizer struct {
	vocabulary map[string]int
	idf        []float64
	stopWords  bool
}

// New returns an unfitted vectorizer that filters English stop words.
func New() *Vectorizer {
	return &Vectorizer{stopWords: true}
}

// Tokenize lowercases text and splits it into vocabulary candidates.
func (v *Vectorizer) Tokenize(text string) []string {
	raw := tokenRe.FindAllString(strings.ToLower(text), -1)
	if !v.stopWords {
		return raw
	}
	out := raw[:0]
	for _, t := range raw {
		if _, stop := englishStopWords[t]; !stop {
			out = append(out, t)
		}
	}
	return out
}

// Fit learns the vocabulary and smoothed idf weights from docs.
// idf(t) = ln((1+n)/(1+df(t))) + 1; columns are terms in sorted order.
func (v *Vectorizer) Fit(docs []string) error {
	df := make(map[string]int)
	for _, d := range docs {
		seen := make(map[string]struct{})
		for _, t := range v.Tokenize(d) {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}
	if len(df) == 0 {
		return fmt.Errorf("empty vocabulary: documents contain only stop words or no tokens")
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float64, len(terms))
	for i, t := range terms {
		v.vocabulary[t] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
	return nil
}

// Size returns the vocabulary size.
func (v *Vectorizer) Size() int { return len(v.idf) }

// Transform maps text into the fitted term space. Unknown terms are ignored;
// the result is L2-normalized (zero vector when nothing matched).
func (v *Vectorizer) Transform(text string) (SparseVector, error) {
	if len(v.idf) == 0 {
		return SparseVector{}, ErrNotFitted
	}
	counts := make(map[int]float64)
	for _, t := range v.Tokenize(text) {
		if col, ok := v.vocabulary[t]; ok {
			counts[col]++
		}
	}

	vec := SparseVector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for col := range counts {
		vec.Indices = append(vec.Indices, col)
	}
	sort.Ints(vec.Indices)
	for _, col := range vec.Indices {
		vec.Values = append(vec.Values, counts[col]*v.idf[col])
	}
	vec.normalize()
	return vec, nil
}

// TransformAll builds the document-term matrix for docs, one row per doc in order.
func (v *Vectorizer) TransformAll(docs []string) (*Matrix, error) {
	m := &Matrix{cols: v.Size(), indptr: make([]int, 1, len(docs)+1)}
	for i, d := range docs {
		row, err := v.Transform(d)
		if err != nil {
			return nil, fmt.Errorf("transform row %d: %w", i, err)
		}
		m.appendRow(row)
	}
	return m, nil
}

// SparseVector is a sorted sparse row.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Norm returns the Euclidean norm.
func (s SparseVector) Norm() float64 {
	var sum float64
	for _, x := range s.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// IsZero reports whether no term carries weight.
func (s SparseVector) IsZero() bool { return s.Norm() == 0 }

func (s *SparseVector) normalize() {
	n := s.Norm()
	if n == 0 {
		return
	}
	for i := range s.Values {
		s.Values[i] /= n
	}
}

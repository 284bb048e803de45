package tfidf

import (
	"fmt"
	"math"
)

// Matrix is a CSR document-term matrix. Row i describes job record i.
type Matrix struct {
	cols    int
	indptr  []int
	indices []int
	data    []float64
	norms   []float64
}

// NewMatrix validates CSR components and returns a matrix.
func NewMatrix(cols int, indptr, indices []int, data []float64) (*Matrix, error) {
	if len(indptr) == 0 || indptr[0] != 0 {
		return nil, fmt.Errorf("indptr must start with 0")
	}
	if len(indices) != len(data) {
		return nil, fmt.Errorf("indices/data length mismatch: %d != %d", len(indices), len(data))
	}
	if indptr[len(indptr)-1] != len(data) {
		return nil, fmt.Errorf("indptr end %d != nnz %d", indptr[len(indptr)-1], len(data))
	}
	for i := 1; i < len(indptr); i++ {
		if indptr[i] < indptr[i-1] {
			return nil, fmt.Errorf("indptr not monotonic at row %d", i-1)
		}
	}
	for _, c := range indices {
		if c < 0 || c >= cols {
			return nil, fmt.Errorf("column index %d out of range [0,%d)", c, cols)
		}
	}
	m := &Matrix{cols: cols, indptr: indptr, indices: indices, data: data}
	m.computeNorms()
	return m, nil
}

// Rows returns the number of documents.
func (m *Matrix) Rows() int { return len(m.indptr) - 1 }

// Cols returns the number of vocabulary terms.
func (m *Matrix) Cols() int { return m.cols }

// Row returns row i as a sparse vector sharing the matrix storage.
func (m *Matrix) Row(i int) SparseVector {
	lo, hi := m.indptr[i], m.indptr[i+1]
	return SparseVector{Indices: m.indices[lo:hi], Values: m.data[lo:hi]}
}

func (m *Matrix) appendRow(row SparseVector) {
	m.indices = append(m.indices, row.Indices...)
	m.data = append(m.data, row.Values...)
	m.indptr = append(m.indptr, len(m.data))
	m.norms = append(m.norms, row.Norm())
}

func (m *Matrix) computeNorms() {
	m.norms = make([]float64, m.Rows())
	for i := range m.norms {
		m.norms[i] = m.Row(i).Norm()
	}
}

// Cosine scores q against every row. Rows or queries with zero norm score 0.
func Cosine(q SparseVector, m *Matrix) []float64 {
	scores := make([]float64, m.Rows())
	qn := q.Norm()
	if qn == 0 {
		return scores
	}
	dense := make(map[int]float64, len(q.Indices))
	for i, c := range q.Indices {
		dense[c] = q.Values[i]
	}
	for r := range scores {
		if m.norms[r] == 0 {
			continue
		}
		var dot float64
		lo, hi := m.indptr[r], m.indptr[r+1]
		for k := lo; k < hi; k++ {
			if w, ok := dense[m.indices[k]]; ok {
				dot += w * m.data[k]
			}
		}
		s := dot / (qn * m.norms[r])
		// rounding can push identical vectors just past 1
		scores[r] = math.Min(s, 1)
	}
	return scores
}

package tfidf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

const formatVersion = 1

type vectorizerFile struct {
	Version    int            `json:"version"`
	StopWords  bool           `json:"stop_words"`
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
}

type matrixFile struct {
	Version int       `json:"version"`
	Rows    int       `json:"rows"`
	Cols    int       `json:"cols"`
	Indptr  []int     `json:"indptr"`
	Indices []int     `json:"indices"`
	Data    []float64 `json:"data"`
}

// Save writes the fitted vectorizer to path.
func (v *Vectorizer) Save(path string) error {
	if len(v.idf) == 0 {
		return ErrNotFitted
	}
	return writeJSON(path, vectorizerFile{
		Version:    formatVersion,
		StopWords:  v.stopWords,
		Vocabulary: v.vocabulary,
		IDF:        v.idf,
	})
}

// LoadVectorizer reads a vectorizer written by Save.
func LoadVectorizer(path string) (*Vectorizer, error) {
	var f vectorizerFile
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}
	if f.Version != formatVersion {
		return nil, fmt.Errorf("unsupported vectorizer format version %d", f.Version)
	}
	if len(f.Vocabulary) != len(f.IDF) || len(f.IDF) == 0 {
		return nil, fmt.Errorf("vocabulary size %d does not match idf size %d", len(f.Vocabulary), len(f.IDF))
	}
	for term, col := range f.Vocabulary {
		if col < 0 || col >= len(f.IDF) {
			return nil, fmt.Errorf("term %q has column %d out of range", term, col)
		}
	}
	return &Vectorizer{vocabulary: f.Vocabulary, idf: f.IDF, stopWords: f.StopWords}, nil
}

// Save writes the matrix to path in CSR form.
func (m *Matrix) Save(path string) error {
	return writeJSON(path, matrixFile{
		Version: formatVersion,
		Rows:    m.Rows(),
		Cols:    m.cols,
		Indptr:  m.indptr,
		Indices: m.indices,
		Data:    m.data,
	})
}

// LoadMatrix reads a matrix written by Save.
func LoadMatrix(path string) (*Matrix, error) {
	var f matrixFile
	if err := readJSON(path, &f); err != nil {
		return nil, err
	}
	if f.Version != formatVersion {
		return nil, fmt.Errorf("unsupported matrix format version %d", f.Version)
	}
	if f.Indices == nil {
		f.Indices = []int{}
	}
	if f.Data == nil {
		f.Data = []float64{}
	}
	m, err := NewMatrix(f.Cols, f.Indptr, f.Indices, f.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid matrix %s: %w", path, err)
	}
	if m.Rows() != f.Rows {
		return nil, fmt.Errorf("matrix header says %d rows, indptr has %d", f.Rows, m.Rows())
	}
	return m, nil
}

// writeJSON writes via a temp file and rename so readers never see a partial artifact.
func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

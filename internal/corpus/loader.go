// Package corpus locates, builds and loads the job recommendation artifacts.
package corpus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobreco/internal/domain"
	"github.com/kailas-cloud/jobreco/internal/domain/job"
	"github.com/kailas-cloud/jobreco/internal/metrics"
	"github.com/kailas-cloud/jobreco/internal/tfidf"
)

// Artifacts names the three corpus files.
type Artifacts struct {
	Vectorizer string
	Matrix     string
	Table      string
}

// DefaultArtifacts returns the conventional file names.
func DefaultArtifacts() Artifacts {
	return Artifacts{
		Vectorizer: "vectorizer.json",
		Matrix:     "job_matrix.json",
		Table:      "jobs_processed.csv",
	}
}

func (a Artifacts) all() []string { return []string{a.Vectorizer, a.Matrix, a.Table} }

// Fetcher seeds dir with artifacts from a remote source. Missing remote objects are not an error.
type Fetcher interface {
	Fetch(ctx context.Context, dir string, names []string) error
}

// Corpus is the loaded artifact set. It is immutable and safe for concurrent readers.
type Corpus struct {
	Vectorizer  *tfidf.Vectorizer
	Matrix      *tfidf.Matrix
	Records     []job.Record
	Fingerprint string
	Paths       Artifacts
}

// Size returns the number of job records.
func (c *Corpus) Size() int { return len(c.Records) }

// Stats summarizes the loader state.
type Stats struct {
	Loaded     bool
	Documents  int
	Vocabulary int
	Built      bool
}

// Loader owns the lazily loaded corpus.
type Loader struct {
	resolver  *Resolver
	names     Artifacts
	fetcher   Fetcher
	fetchDir  string
	builtDir  string
	hint      string
	logger    *zap.Logger
	mu        sync.Mutex
	corpus    *Corpus
	builds    int
	buildHook func(tablePath, outDir string) error
}

// NewLoader creates a loader over the given resolver.
func NewLoader(resolver *Resolver, names Artifacts, logger *zap.Logger) *Loader {
	l := &Loader{
		resolver: resolver,
		names:    names,
		hint:     "Place them in an 'artifacts' directory next to the service or set JOB_ARTIFACTS_DIR to the directory containing them.",
		logger:   logger,
	}
	l.buildHook = func(tablePath, outDir string) error {
		return BuildNamed(tablePath, outDir, l.names)
	}
	return l
}

// WithFetcher sets a remote artifact source that fills dir before resolution.
// dir joins the search order right after the configured directory.
func (l *Loader) WithFetcher(f Fetcher, dir string) *Loader {
	l.fetcher = f
	l.fetchDir = dir
	l.resolver.include(dir)
	return l
}

// WithHint overrides the hint appended to missing-artifact errors.
func (l *Loader) WithHint(hint string) *Loader {
	l.hint = hint
	return l
}

// EnsureLoaded returns the corpus, loading or building it on first use.
// Concurrent first callers wait for one load; the build runs at most once.
// Failed loads are not cached.
func (l *Loader) EnsureLoaded(ctx context.Context) (*Corpus, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.corpus != nil {
		return l.corpus, nil
	}

	start := time.Now()
	c, err := l.load(ctx)
	if err != nil {
		metrics.CorpusLoadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.CorpusLoadsTotal.WithLabelValues("success").Inc()
	metrics.CorpusLoadDuration.Observe(time.Since(start).Seconds())
	metrics.CorpusDocuments.Set(float64(c.Size()))

	l.logger.Info("Corpus loaded",
		zap.Int("documents", c.Size()),
		zap.Int("vocabulary", c.Vectorizer.Size()),
		zap.String("vectorizer", c.Paths.Vectorizer),
		zap.String("matrix", c.Paths.Matrix),
		zap.String("table", c.Paths.Table),
		zap.Duration("duration", time.Since(start)),
	)
	l.corpus = c
	return c, nil
}

// Stats returns a snapshot of the loader state.
func (l *Loader) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := Stats{Built: l.builds > 0}
	if l.corpus != nil {
		s.Loaded = true
		s.Documents = l.corpus.Size()
		s.Vocabulary = l.corpus.Vectorizer.Size()
	}
	return s
}

func (l *Loader) load(ctx context.Context) (*Corpus, error) {
	paths, found := l.resolveAll()

	if l.fetcher != nil && len(found) < 3 {
		var missing []string
		for _, n := range l.names.all() {
			if _, ok := found[n]; !ok {
				missing = append(missing, n)
			}
		}
		if err := l.fetcher.Fetch(ctx, l.fetchDir, missing); err != nil {
			l.logger.Warn("Artifact fetch failed", zap.Strings("files", missing), zap.Error(err))
		}
		paths, found = l.resolveAll()
	}

	_, hasVec := found[l.names.Vectorizer]
	_, hasMat := found[l.names.Matrix]
	if _, hasTable := found[l.names.Table]; hasTable && (!hasVec || !hasMat) && l.builds == 0 {
		outDir := filepath.Dir(paths.Table)
		l.logger.Info("Building corpus artifacts", zap.String("table", paths.Table), zap.String("out_dir", outDir))
		if err := l.buildHook(paths.Table, outDir); err != nil {
			if errors.Is(err, domain.ErrCorpusUnavailable) {
				return nil, fmt.Errorf("build artifacts: %w", err)
			}
			return nil, domain.NewCorpusError("build artifacts in %s: %v", outDir, err)
		}
		l.builds++
		l.builtDir = outDir
		metrics.CorpusBuildsTotal.Inc()
		paths, found = l.resolveAll()
	}

	if len(found) < 3 {
		return nil, l.missingError(found)
	}

	return readCorpus(paths)
}

func (l *Loader) resolveAll() (Artifacts, map[string]struct{}) {
	found := make(map[string]struct{}, 3)
	var a Artifacts
	resolve := func(name string, dst *string) {
		if p, ok := l.resolver.Resolve(name); ok {
			*dst = p
			found[name] = struct{}{}
		}
	}
	resolve(l.names.Vectorizer, &a.Vectorizer)
	resolve(l.names.Matrix, &a.Matrix)
	resolve(l.names.Table, &a.Table)

	// Freshly built files win over stale copies earlier in the search order.
	if l.builtDir != "" {
		vec := filepath.Join(l.builtDir, l.names.Vectorizer)
		mat := filepath.Join(l.builtDir, l.names.Matrix)
		if l.resolver.exists(vec) && l.resolver.exists(mat) {
			a.Vectorizer, a.Matrix = vec, mat
			found[l.names.Vectorizer] = struct{}{}
			found[l.names.Matrix] = struct{}{}
		}
	}
	return a, found
}

func (l *Loader) missingError(found map[string]struct{}) error {
	e := &domain.MissingArtifactsError{Hint: l.hint}
	for _, n := range l.names.all() {
		if _, ok := found[n]; !ok {
			e.Missing = append(e.Missing, n)
		}
	}
	e.Checked = l.resolver.Checked(e.Missing[0])
	return e
}

// Build fits a vectorizer over the table titles and writes the vectorizer and
// matrix next to it in outDir.
func Build(tablePath, outDir string) error {
	return BuildNamed(tablePath, outDir, DefaultArtifacts())
}

// BuildNamed is Build with explicit artifact names.
func BuildNamed(tablePath, outDir string, names Artifacts) error {
	records, err := ReadTable(tablePath)
	if err != nil {
		return err
	}
	titles := Titles(records)

	v := tfidf.New()
	if err := v.Fit(titles); err != nil {
		return domain.NewCorpusError("fit vectorizer on %s: %v", filepath.Base(tablePath), err)
	}
	m, err := v.TransformAll(titles)
	if err != nil {
		return fmt.Errorf("transform titles: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("create %s: %w", outDir, err)
	}
	if err := v.Save(filepath.Join(outDir, names.Vectorizer)); err != nil {
		return fmt.Errorf("save vectorizer: %w", err)
	}
	if err := m.Save(filepath.Join(outDir, names.Matrix)); err != nil {
		return fmt.Errorf("save matrix: %w", err)
	}
	return nil
}

func readCorpus(paths Artifacts) (*Corpus, error) {
	v, err := tfidf.LoadVectorizer(paths.Vectorizer)
	if err != nil {
		return nil, domain.NewCorpusError("load vectorizer: %v", err)
	}
	m, err := tfidf.LoadMatrix(paths.Matrix)
	if err != nil {
		return nil, domain.NewCorpusError("load matrix: %v", err)
	}
	records, err := ReadTable(paths.Table)
	if err != nil {
		if errors.Is(err, domain.ErrCorpusUnavailable) {
			return nil, fmt.Errorf("load table: %w", err)
		}
		return nil, domain.NewCorpusError("load table: %v", err)
	}

	if m.Rows() != len(records) {
		return nil, domain.NewCorpusError(
			"matrix has %d rows but %s has %d records; remove the stale vectorizer and matrix to rebuild",
			m.Rows(), filepath.Base(paths.Table), len(records))
	}
	if m.Cols() != v.Size() {
		return nil, domain.NewCorpusError(
			"matrix has %d columns but vectorizer vocabulary has %d terms", m.Cols(), v.Size())
	}

	fp, err := fingerprint(paths.Vectorizer, paths.Matrix, paths.Table)
	if err != nil {
		return nil, fmt.Errorf("fingerprint corpus: %w", err)
	}

	return &Corpus{
		Vectorizer:  v,
		Matrix:      m,
		Records:     records,
		Fingerprint: fp,
		Paths:       paths,
	}, nil
}

func fingerprint(paths ...string) (string, error) {
	h := sha256.New()
	for _, p := range paths {
		f, err := os.Open(filepath.Clean(p))
		if err != nil {
			return "", fmt.Errorf("open %s: %w", p, err)
		}
		_, err = io.Copy(h, f)
		_ = f.Close()
		if err != nil {
			return "", fmt.Errorf("hash %s: %w", p, err)
		}
	}
	return hex.EncodeToString(h.Sum(nil))[:16], nil
}

package recommend

import (
	"context"

	"github.com/kailas-cloud/jobreco/internal/corpus"
)

// CorpusProvider returns the loaded corpus, loading it on first use.
type CorpusProvider interface {
	EnsureLoaded(ctx context.Context) (*corpus.Corpus, error)
}

package health

import (
	"context"

	"github.com/kailas-cloud/jobreco/internal/corpus"
)

// CorpusLoader loads the recommendation corpus and reports its state.
type CorpusLoader interface {
	EnsureLoaded(ctx context.Context) (*corpus.Corpus, error)
	Stats() corpus.Stats
}

// CachePinger checks result cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// LLMChecker checks completion provider availability.
type LLMChecker interface {
	HealthCheck(ctx context.Context) error
}

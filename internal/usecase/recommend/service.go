package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobreco/internal/domain"
	"github.com/kailas-cloud/jobreco/internal/domain/match"
	"github.com/kailas-cloud/jobreco/internal/domain/query"
	logpkg "github.com/kailas-cloud/jobreco/internal/logger"
	"github.com/kailas-cloud/jobreco/internal/metrics"
	"github.com/kailas-cloud/jobreco/internal/tfidf"
)

// Service ranks the job corpus against free-text queries.
type Service struct {
	corpus     CorpusProvider
	normalizer Normalizer
}

// New creates a recommendation service.
func New(corpus CorpusProvider, normalizer Normalizer) *Service {
	return &Service{corpus: corpus, normalizer: normalizer}
}

// Recommend returns min(q.TopN(), corpus size) matches ordered by descending score.
// A query sharing no vocabulary with the corpus still returns that many matches, all scored 0.
func (s *Service) Recommend(ctx context.Context, q query.Query) ([]match.Match, error) {
	start := time.Now()
	matches, err := s.recommend(ctx, q)
	metrics.RecommendationsTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		return nil, err
	}
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())

	logpkg.FromContext(ctx).Debug("Recommendations computed",
		zap.Int("top_n", q.TopN()),
		zap.Int("returned", len(matches)),
		zap.Duration("duration", time.Since(start)),
	)
	return matches, nil
}

func (s *Service) recommend(ctx context.Context, q query.Query) ([]match.Match, error) {
	c, err := s.corpus.EnsureLoaded(ctx)
	if err != nil {
		return nil, fmt.Errorf("ensure corpus: %w", err)
	}

	vec, err := c.Vectorizer.Transform(q.Text())
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	scores := tfidf.Cosine(vec, c.Matrix)
	ranked := Rank(scores, q.TopN())
	return s.normalizer.Normalize(c.Records, ranked), nil
}

// Fingerprint identifies the loaded corpus content; cached results are keyed by it.
func (s *Service) Fingerprint(ctx context.Context) (string, error) {
	c, err := s.corpus.EnsureLoaded(ctx)
	if err != nil {
		return "", fmt.Errorf("ensure corpus: %w", err)
	}
	return c.Fingerprint, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrCorpusUnavailable):
		return "corpus_unavailable"
	case errors.Is(err, domain.ErrInvalidQuery):
		return "invalid"
	default:
		return "error"
	}
}

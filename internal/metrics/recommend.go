package metrics

import "github.com/prometheus/client_golang/prometheus"

// Corpus and recommendation Prometheus metrics.
var (
	CorpusLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobreco",
			Name:      "corpus_loads_total",
			Help:      "Corpus load attempts by outcome",
		},
		[]string{"status"},
	)

	CorpusLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jobreco",
			Name:      "corpus_load_duration_seconds",
			Help:      "Time to resolve, build and load corpus artifacts",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	CorpusBuildsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "jobreco",
			Name:      "corpus_builds_total",
			Help:      "Vectorizer and matrix builds from the raw job table",
		},
	)

	CorpusDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobreco",
			Name:      "corpus_documents",
			Help:      "Job records in the loaded corpus",
		},
	)

	RecommendationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobreco",
			Name:      "recommendations_total",
			Help:      "Recommendation requests by outcome",
		},
		[]string{"status"}, // "success" / "corpus_unavailable" / "invalid" / "error"
	)

	RecommendationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jobreco",
			Name:      "recommendation_duration_seconds",
			Help:      "Scoring and ranking time per recommendation",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	RecommendationCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobreco",
			Name:      "recommendation_cache_total",
			Help:      "Recommendation cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobreco",
			Name:      "llm_requests_total",
			Help:      "LLM completion requests by outcome",
		},
		[]string{"model", "status"},
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jobreco",
			Name:      "llm_request_duration_seconds",
			Help:      "LLM completion latency",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model"},
	)

	SkillAnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobreco",
			Name:      "skill_analyses_total",
			Help:      "Skill gap analyses by source",
		},
		[]string{"source"}, // "llm" / "fallback"
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers corpus, recommendation, LLM and skill analysis metrics. Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		CorpusLoadsTotal,
		CorpusLoadDuration,
		CorpusBuildsTotal,
		CorpusDocuments,
		RecommendationsTotal,
		RecommendationDuration,
		RecommendationCacheTotal,
		LLMRequestsTotal,
		LLMRequestDuration,
		SkillAnalysesTotal,
	)
	domainMetricsRegistered = true
}

package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status     Status
	Checks     map[string]CheckResult
	Documents  int
	Vocabulary int
	// Built is set when the artifacts were built from the table by this process.
	Built      bool
}

// Service coordinates health checks.
type Service struct {
	corpus CorpusLoader
	cache  CachePinger
	llm    LLMChecker
}

// New creates a Service. cache and llm can be nil when those components are disabled.
func New(corpus CorpusLoader, cache CachePinger, llm LLMChecker) *Service {
	return &Service{corpus: corpus, cache: cache, llm: llm}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	_, err := s.corpus.EnsureLoaded(ctx)
	checks["corpus"] = result(err)
	stats := s.corpus.Stats()

	if s.cache != nil {
		checks["cache"] = result(s.cache.Ping(ctx))
	}
	if s.llm != nil {
		checks["llm"] = result(s.llm.HealthCheck(ctx))
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{
		Status:     status,
		Checks:     checks,
		Documents:  stats.Documents,
		Vocabulary: stats.Vocabulary,
		Built:      stats.Built,
	}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}

package jobreco

import (
	"context"

	healthuc "github.com/kailas-cloud/jobreco/internal/usecase/health"
)

// HealthStatus represents the aggregated client health.
type HealthStatus struct {
	Status     string            // "ok", "degraded"
	Checks     map[string]string // component → "ok"/"error"
	Documents  int
	Vocabulary int
	Built      bool // artifacts were built from the table by this client
}

// Health checks the corpus and, when configured, the cache.
// The corpus check loads it if needed.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:     string(report.Status),
		Checks:     checks,
		Documents:  report.Documents,
		Vocabulary: report.Vocabulary,
		Built:      report.Built,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

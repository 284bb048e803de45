package jobreco

import "github.com/kailas-cloud/jobreco/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrCorpusUnavailable = domain.ErrCorpusUnavailable
	ErrInvalidQuery      = domain.ErrInvalidQuery
)

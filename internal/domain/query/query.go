package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/jobreco/internal/domain"
)

// Recommendation query limits.
const (
	DefaultTopN = 5
	MaxTopN     = 20
	// MaxTextLength bounds resume-sized inputs.
	MaxTextLength = 20000
)

// Query is a validated recommendation request.
type Query struct {
	text string
	topN int
}

// New validates text and topN. topN=0 means DefaultTopN.
func New(text string, topN int) (Query, error) {
	if strings.TrimSpace(text) == "" {
		return Query{}, fmt.Errorf("%w: text is required", domain.ErrInvalidQuery)
	}
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("%w: text too long (max %d chars)", domain.ErrInvalidQuery, MaxTextLength)
	}
	if topN == 0 {
		topN = DefaultTopN
	}
	if topN < 1 || topN > MaxTopN {
		return Query{}, fmt.Errorf("%w: top_n must be between 1 and %d, got %d", domain.ErrInvalidQuery, MaxTopN, topN)
	}
	return Query{text: text, topN: topN}, nil
}

// Text returns the raw query text.
func (q Query) Text() string { return q.text }

// TopN returns the requested result count.
func (q Query) TopN() int { return q.topN }

package recommend

import (
	"github.com/kailas-cloud/jobreco/internal/domain/job"
	"github.com/kailas-cloud/jobreco/internal/domain/match"
)

// Normalizer shapes ranked rows into presentation-ready matches.
type Normalizer struct {
	// Country is the country-wide location marker used by the dataset.
	Country string
	// Remote replaces the city of country-wide postings.
	Remote string
}

// DefaultNormalizer returns the markers used by the bundled dataset.
func DefaultNormalizer() Normalizer {
	return Normalizer{Country: "India", Remote: "Remote"}
}

// Normalize projects each ranked row of records into a Match, cleaning up locations.
func (n Normalizer) Normalize(records []job.Record, ranked []Scored) []match.Match {
	out := make([]match.Match, len(ranked))
	for i, s := range ranked {
		r := records[s.Row]
		city, state := n.location(r.City(), r.State())
		out[i] = match.New(s.Row, r.Title(), city, state, r.Salary(), s.Score)
	}
	return out
}

// location rewrites country-wide postings to (Remote, Country).
// Absent values already come out of the table as job.Absent.
func (n Normalizer) location(city, state job.Field) (job.Field, job.Field) {
	if city.Present() && city == state && (city.Equals(n.Country) || city.Equals(n.Remote)) {
		return job.NewField(n.Remote), job.NewField(n.Country)
	}
	return city, state
}

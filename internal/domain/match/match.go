package match

import "github.com/kailas-cloud/jobreco/internal/domain/job"

// Match is a presentation-ready recommendation: one job record plus its similarity score.
type Match struct {
	row      int
	jobTitle string
	city     job.Field
	state    job.Field
	salary   job.Field
	score    float64
}

// New creates a match for corpus row.
func New(row int, jobTitle string, city, state, salary job.Field, score float64) Match {
	return Match{
		row: row, jobTitle: jobTitle,
		city: city, state: state, salary: salary,
		score: score,
	}
}

// Row returns the corpus row index the match was projected from.
func (m *Match) Row() int { return m.row }

// JobTitle returns the job title.
func (m *Match) JobTitle() string { return m.jobTitle }

// City returns the display city.
func (m *Match) City() job.Field { return m.city }

// State returns the display state.
func (m *Match) State() job.Field { return m.state }

// Salary returns the display salary.
func (m *Match) Salary() job.Field { return m.salary }

// Score returns the cosine similarity in [0,1].
func (m *Match) Score() float64 { return m.score }

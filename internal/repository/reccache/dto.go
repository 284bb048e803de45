package reccache

import (
	"github.com/kailas-cloud/jobreco/internal/domain/job"
	"github.com/kailas-cloud/jobreco/internal/domain/match"
)

type matchDTO struct {
	Row    int     `json:"row"`
	Title  string  `json:"title"`
	City   *string `json:"city,omitempty"`
	State  *string `json:"state,omitempty"`
	Salary *string `json:"salary,omitempty"`
	Score  float64 `json:"score"`
}

type entryDTO struct {
	Matches []matchDTO `json:"matches"`
}

func toEntry(ms []match.Match) entryDTO {
	e := entryDTO{Matches: make([]matchDTO, len(ms))}
	for i := range ms {
		m := &ms[i]
		e.Matches[i] = matchDTO{
			Row:    m.Row(),
			Title:  m.JobTitle(),
			City:   m.City().Ptr(),
			State:  m.State().Ptr(),
			Salary: m.Salary().Ptr(),
			Score:  m.Score(),
		}
	}
	return e
}

func (e entryDTO) toDomain() []match.Match {
	out := make([]match.Match, len(e.Matches))
	for i, d := range e.Matches {
		out[i] = match.New(d.Row, d.Title, field(d.City), field(d.State), field(d.Salary), d.Score)
	}
	return out
}

func field(p *string) job.Field {
	if p == nil {
		return job.Absent()
	}
	return job.NewField(*p)
}

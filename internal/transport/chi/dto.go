package chi

import (
	"github.com/kailas-cloud/jobreco/internal/domain/match"
	detailsuc "github.com/kailas-cloud/jobreco/internal/usecase/details"
	skillsuc "github.com/kailas-cloud/jobreco/internal/usecase/skills"
)

type recommendRequest struct {
	Text string `json:"text" validate:"required,max=20000"`
	TopN *int   `json:"top_n" validate:"omitempty,min=1,max=20"`
}

type matchResponse struct {
	JobTitle   string  `json:"job_title"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	Salary     *string `json:"salary"`
	MatchScore float64 `json:"match_score"`
}

type recommendResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Matches []matchResponse `json:"matches"`
	Error   *string         `json:"error"`
}

type jobDetailsRequest struct {
	JobTitle string `json:"job_title" validate:"required,max=200"`
}

type jobDetailsResponse struct {
	JobDescription string   `json:"job_description"`
	DayInLife      []string `json:"day_in_life"`
}

type analyzeSkillsRequest struct {
	CurrentSkills string `json:"current_skills" validate:"required,max=20000"`
	TargetSkills  string `json:"target_skills" validate:"required,max=20000"`
}

type skillAnalysisResponse struct {
	Summary         string   `json:"summary"`
	ExistingSkills  []string `json:"existing_skills"`
	MissingSkills   []string `json:"missing_skills"`
	LearningPath    []string `json:"learning_path"`
	Timeline        string   `json:"timeline"`
	ConfidenceScore float64  `json:"confidence_score"`
}

type healthResponse struct {
	Status     string            `json:"status"`
	Checks     map[string]string `json:"checks"`
	Documents  int               `json:"documents"`
	Vocabulary int               `json:"vocabulary"`
	Built      bool              `json:"built"`
}

type rootResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Version string `json:"version"`
}

func matchesToResponse(ms []match.Match) []matchResponse {
	out := make([]matchResponse, len(ms))
	for i := range ms {
		m := &ms[i]
		out[i] = matchResponse{
			JobTitle:   m.JobTitle(),
			City:       m.City().Ptr(),
			State:      m.State().Ptr(),
			Salary:     m.Salary().Ptr(),
			MatchScore: m.Score(),
		}
	}
	return out
}

func detailsToResponse(d detailsuc.Details) jobDetailsResponse {
	return jobDetailsResponse{JobDescription: d.Description, DayInLife: orEmpty(d.DayInLife)}
}

func analysisToResponse(a skillsuc.Analysis) skillAnalysisResponse {
	return skillAnalysisResponse{
		Summary:         a.Summary,
		ExistingSkills:  orEmpty(a.ExistingSkills),
		MissingSkills:   orEmpty(a.MissingSkills),
		LearningPath:    orEmpty(a.LearningPath),
		Timeline:        a.Timeline,
		ConfidenceScore: a.ConfidenceScore,
	}
}

// orEmpty keeps lists as JSON arrays rather than null.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

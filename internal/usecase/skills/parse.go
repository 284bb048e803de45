package skills

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
)

// Values used for fields the model left out or got wrong.
const (
	defaultSummary    = "Analysis completed. Please review the detailed breakdown below."
	defaultTimeline   = "3-6 months"
	defaultConfidence = 0.7
)

var objectRe = regexp.MustCompile(`\{[\s\S]*\}`)

// rawAnalysis keeps every field undecoded so one bad field does not reject the reply.
type rawAnalysis struct {
	Summary         json.RawMessage `json:"summary"`
	ExistingSkills  json.RawMessage `json:"existing_skills"`
	MissingSkills   json.RawMessage `json:"missing_skills"`
	LearningPath    json.RawMessage `json:"learning_path"`
	Timeline        json.RawMessage `json:"timeline"`
	ConfidenceScore json.RawMessage `json:"confidence_score"`
}

// ParseAnalysis extracts an analysis from a model reply. Markdown fences and
// text around the JSON object are ignored. Missing or mistyped fields get
// defaults; only a reply without a decodable object is an error.
func ParseAnalysis(reply string) (Analysis, error) {
	content := strings.TrimSpace(reply)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSpace(strings.TrimSuffix(content, "```"))
	if content == "" {
		return Analysis{}, errors.New("empty reply")
	}
	if obj := objectRe.FindString(content); obj != "" {
		content = obj
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}
	return Analysis{
		Summary:         stringOr(raw.Summary, defaultSummary),
		ExistingSkills:  stringList(raw.ExistingSkills),
		MissingSkills:   stringList(raw.MissingSkills),
		LearningPath:    stringList(raw.LearningPath),
		Timeline:        stringOr(raw.Timeline, defaultTimeline),
		ConfidenceScore: confidence(raw.ConfidenceScore),
	}, nil
}

// absent reports a field that is missing or null.
func absent(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func stringOr(raw json.RawMessage, def string) string {
	var s string
	if absent(raw) || json.Unmarshal(raw, &s) != nil {
		return def
	}
	return s
}

// stringList decodes a JSON array, skipping non-string items. Anything else is empty.
func stringList(raw json.RawMessage) []string {
	out := []string{}
	var items []json.RawMessage
	if absent(raw) || json.Unmarshal(raw, &items) != nil {
		return out
	}
	for _, item := range items {
		var s string
		if json.Unmarshal(item, &s) == nil {
			out = append(out, s)
		}
	}
	return out
}

func confidence(raw json.RawMessage) float64 {
	var f float64
	if absent(raw) || json.Unmarshal(raw, &f) != nil || f < 0 || f > 1 {
		return defaultConfidence
	}
	return f
}

// Package details generates a short description and daily activities for a job title.
package details

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jobreco/internal/domain"
	logpkg "github.com/kailas-cloud/jobreco/internal/logger"
)

// Limits for titles and generated content.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 150
	MaxBullets           = 4
)

const (
	systemPrompt      = "You are a concise career guidance assistant."
	descriptionPrompt = "Write a brief 2-3 sentence job description for a %s role. Focus on main responsibilities and keep it concise for a UI card."
	dayInLifePrompt   = "List 4 short daily activities for a %s role. Each activity should be 3-6 words maximum. Format as simple bullet points."
)

// Details is the generated summary of a job title.
type Details struct {
	Description string
	DayInLife   []string
}

// Service asks the completer for a description and day-in-the-life bullets.
type Service struct {
	llm Completer
}

// New creates a details service.
func New(llm Completer) *Service {
	return &Service{llm: llm}
}

// Describe generates details for title.
func (s *Service) Describe(ctx context.Context, title string) (Details, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Details{}, fmt.Errorf("%w: job_title is required", domain.ErrInvalidQuery)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return Details{}, fmt.Errorf("%w: job_title too long (max %d chars)", domain.ErrInvalidQuery, MaxTitleLength)
	}

	desc, err := s.llm.Complete(ctx, systemPrompt, fmt.Sprintf(descriptionPrompt, title))
	if err != nil {
		return Details{}, fmt.Errorf("generate description: %w", err)
	}

	reply, err := s.llm.Complete(ctx, systemPrompt, fmt.Sprintf(dayInLifePrompt, title))
	if err != nil {
		return Details{}, fmt.Errorf("generate day in life: %w", err)
	}
	bullets := ParseBullets(reply, MaxBullets)
	if len(bullets) == 0 {
		return Details{}, fmt.Errorf("no activities in model reply: %w", domain.ErrLLMProviderError)
	}

	logpkg.FromContext(ctx).Debug("Job details generated",
		zap.String("title", title),
		zap.Int("bullets", len(bullets)),
	)
	return Details{Description: truncate(strings.TrimSpace(desc), MaxDescriptionLength), DayInLife: bullets}, nil
}

// ParseBullets extracts up to limit short activities from a model reply.
// Lines are tried first, then sentences.
func ParseBullets(reply string, limit int) []string {
	points := collect(strings.Split(reply, "\n"), "•-*0123456789.) \t")
	if len(points) < 2 {
		if sentences := collect(splitSentences(reply), ".-!? \t"); len(sentences) > len(points) {
			points = sentences
		}
	}
	if len(points) > limit {
		points = points[:limit]
	}
	return points
}

func collect(parts []string, cutset string) []string {
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(strings.Trim(strings.TrimSpace(p), cutset))
		p = strings.Trim(p, "*")
		if n := utf8.RuneCountInString(p); n > 3 && n < 50 {
			out = append(out, p)
		}
	}
	return out
}

func splitSentences(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	return string(r[:limit-3]) + "..."
}

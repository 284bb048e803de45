// Package skills compares a candidate's current skills with a target role.
package skills

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobreco/internal/domain"
	logpkg "github.com/kailas-cloud/jobreco/internal/logger"
	"github.com/kailas-cloud/jobreco/internal/metrics"
)

// MaxInputLength caps each skills text in characters.
const MaxInputLength = 20000

const systemPrompt = "You are an expert career counselor and skill gap analyst."

const analysisPrompt = `Analyze the gap between current skills and target requirements.

Current Skills and Experience:
%s

Target Skills/Job Requirements:
%s

Respond with JSON in exactly this shape:
{
  "summary": "2-3 sentence summary of the overall skill gap and career readiness",
  "existing_skills": ["skills the person already has that match the target"],
  "missing_skills": ["skills that need to be developed"],
  "learning_path": ["learning steps in order of priority"],
  "timeline": "realistic time to bridge the gap, e.g. 6-12 months",
  "confidence_score": 0.85
}

Be specific and actionable, cover technical and soft skills, keep the learning path to at most 5 brief points and the confidence score between 0.0 and 1.0.
Respond ONLY with valid JSON, without commentary or markdown.`

// Analysis is a skill gap report.
type Analysis struct {
	Summary         string
	ExistingSkills  []string
	MissingSkills   []string
	LearningPath    []string
	Timeline        string
	ConfidenceScore float64
	// Fallback is set when the model reply could not be used.
	Fallback bool
}

// Service asks the completer for a skill gap analysis.
type Service struct {
	llm Completer
}

// New creates a skills service.
func New(llm Completer) *Service {
	return &Service{llm: llm}
}

// Analyze compares current with target. Provider failures and unusable
// replies yield the generic fallback analysis; an unconfigured or
// circuit-broken model is reported as domain.ErrLLMUnavailable.
func (s *Service) Analyze(ctx context.Context, current, target string) (Analysis, error) {
	current = strings.TrimSpace(current)
	target = strings.TrimSpace(target)
	if current == "" || target == "" {
		return Analysis{}, fmt.Errorf("%w: current_skills and target_skills are required", domain.ErrInvalidQuery)
	}
	if utf8.RuneCountInString(current) > MaxInputLength || utf8.RuneCountInString(target) > MaxInputLength {
		return Analysis{}, fmt.Errorf("%w: skills text too long (max %d chars)", domain.ErrInvalidQuery, MaxInputLength)
	}

	logger := logpkg.FromContext(ctx)
	reply, err := s.llm.Complete(ctx, systemPrompt, fmt.Sprintf(analysisPrompt, quote(current), quote(target)))
	if err != nil {
		if errors.Is(err, domain.ErrLLMUnavailable) || ctx.Err() != nil {
			return Analysis{}, fmt.Errorf("analyze skills: %w", err)
		}
		logger.Warn("Skill analysis failed, using fallback", zap.Error(err))
		metrics.SkillAnalysesTotal.WithLabelValues("fallback").Inc()
		return FallbackAnalysis(), nil
	}

	a, err := ParseAnalysis(reply)
	if err != nil {
		logger.Warn("Unusable skill analysis reply, using fallback",
			zap.Error(err),
			zap.Int("reply_len", len(reply)),
		)
		metrics.SkillAnalysesTotal.WithLabelValues("fallback").Inc()
		return FallbackAnalysis(), nil
	}

	metrics.SkillAnalysesTotal.WithLabelValues("llm").Inc()
	logger.Debug("Skill analysis generated",
		zap.Int("existing", len(a.ExistingSkills)),
		zap.Int("missing", len(a.MissingSkills)),
		zap.Float64("confidence", a.ConfidenceScore),
	)
	return a, nil
}

// quote embeds user text in the prompt as a JSON string literal.
func quote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return s
	}
	return string(b)
}

// FallbackAnalysis is returned when the model cannot produce an analysis.
func FallbackAnalysis() Analysis {
	return Analysis{
		Summary: "I've received your skill information and target goals. While I encountered some technical " +
			"difficulties with the detailed analysis, I can see you have experience to build upon.",
		ExistingSkills: []string{
			"Experience in your current field",
			"Foundation skills mentioned in your profile",
		},
		MissingSkills: []string{
			"Specific skills mentioned in target role",
			"Advanced techniques and tools",
			"Industry-specific knowledge",
		},
		LearningPath: []string{
			"Review the target role requirements in detail",
			"Identify the most critical missing skills",
			"Create a structured learning plan",
			"Practice with hands-on projects",
			"Seek mentorship or guidance",
			"Build a portfolio demonstrating new skills",
		},
		Timeline:        "6-12 months",
		ConfidenceScore: 0.6,
		Fallback:        true,
	}
}

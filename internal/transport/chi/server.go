// Package chi is the HTTP transport of the job recommendation API.
package chi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobreco/internal/domain/match"
	"github.com/kailas-cloud/jobreco/internal/domain/query"
	logpkg "github.com/kailas-cloud/jobreco/internal/logger"
	detailsuc "github.com/kailas-cloud/jobreco/internal/usecase/details"
	healthuc "github.com/kailas-cloud/jobreco/internal/usecase/health"
	skillsuc "github.com/kailas-cloud/jobreco/internal/usecase/skills"
	"github.com/kailas-cloud/jobreco/internal/version"
)

const (
	recommendOK     = "Job recommendations generated successfully"
	recommendFailed = "Failed to generate recommendations"
	rootMessage     = "Job recommendation API is running"
)

// Recommender ranks jobs for a query.
type Recommender interface {
	Recommend(ctx context.Context, q query.Query) ([]match.Match, error)
}

// Describer generates job details for a title.
type Describer interface {
	Describe(ctx context.Context, title string) (detailsuc.Details, error)
}

// SkillAnalyzer compares current skills with a target role.
type SkillAnalyzer interface {
	Analyze(ctx context.Context, current, target string) (skillsuc.Analysis, error)
}

// Server holds the HTTP handlers.
type Server struct {
	recommend     Recommender
	details       Describer
	skills        SkillAnalyzer
	health        *healthuc.Service
	logger        *zap.Logger
	validate      *validator.Validate
	defaultTopN   int
	maxTopN       int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	recommend Recommender,
	details Describer,
	skills SkillAnalyzer,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Server{
		recommend:     recommend,
		details:       details,
		skills:        skills,
		health:        health,
		logger:        logger,
		validate:      v,
		defaultTopN:   query.DefaultTopN,
		maxTopN:       query.MaxTopN,
		errorHandlers: defaultErrorHandlers(),
	}
}

// WithTopN overrides the default and maximum result counts.
func (s *Server) WithTopN(defaultTopN, maxTopN int) *Server {
	if defaultTopN > 0 {
		s.defaultTopN = defaultTopN
	}
	if maxTopN > 0 && maxTopN <= query.MaxTopN {
		s.maxTopN = maxTopN
	}
	return s
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{Message: rootMessage, Status: "healthy", Version: version.String()})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:     string(report.Status),
		Checks:     checks,
		Documents:  report.Documents,
		Vocabulary: report.Vocabulary,
		Built:      report.Built,
	})
}

// RecommendJobs handles POST /api/jobs/recommend.
func (s *Server) RecommendJobs(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeRecommendError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	s.serveRecommend(w, r, req)
}

// RecommendJobsQuery handles GET /api/jobs/recommend?text=...&top_n=...
func (s *Server) RecommendJobsQuery(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	params := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, true, "text", params, &req.Text); err != nil {
		s.writeRecommendError(w, http.StatusBadRequest, CodeBadRequest, "Invalid format for parameter text: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "top_n", params, &req.TopN); err != nil {
		s.writeRecommendError(w, http.StatusBadRequest, CodeBadRequest, "Invalid format for parameter top_n: "+err.Error())
		return
	}
	s.serveRecommend(w, r, req)
}

func (s *Server) serveRecommend(w http.ResponseWriter, r *http.Request, req recommendRequest) {
	if err := s.validateRequest(&req); err != nil {
		s.writeRecommendError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	topN := s.defaultTopN
	if req.TopN != nil {
		topN = *req.TopN
	}
	if topN > s.maxTopN {
		s.writeRecommendError(w, http.StatusBadRequest, CodeValidationFailed,
			fmt.Sprintf("top_n must be less than or equal to %d", s.maxTopN))
		return
	}

	q, err := query.New(req.Text, topN)
	if err != nil {
		s.recommendDomainError(w, err)
		return
	}

	ctx := logpkg.With(r.Context(), zap.Int("top_n", q.TopN()), zap.Int("text_len", len(q.Text())))
	matches, err := s.recommend.Recommend(ctx, q)
	if err != nil {
		s.recommendDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, recommendResponse{
		Success: true,
		Message: recommendOK,
		Matches: matchesToResponse(matches),
	})
}

// JobDetails handles POST /api/job-details.
func (s *Server) JobDetails(w http.ResponseWriter, r *http.Request) {
	var req jobDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	req.JobTitle = strings.TrimSpace(req.JobTitle)
	if err := s.validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	ctx := logpkg.With(r.Context(), zap.String("job_title", req.JobTitle))
	d, err := s.details.Describe(ctx, req.JobTitle)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, detailsToResponse(d))
}

// AnalyzeSkills handles POST /api/analyze-skills.
func (s *Server) AnalyzeSkills(w http.ResponseWriter, r *http.Request) {
	var req analyzeSkillsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	req.CurrentSkills = strings.TrimSpace(req.CurrentSkills)
	req.TargetSkills = strings.TrimSpace(req.TargetSkills)
	if err := s.validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return
	}

	ctx := logpkg.With(r.Context(),
		zap.Int("current_len", len(req.CurrentSkills)),
		zap.Int("target_len", len(req.TargetSkills)),
	)
	a, err := s.skills.Analyze(ctx, req.CurrentSkills, req.TargetSkills)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if a.Fallback {
		logpkg.FromContext(ctx).Info("Served fallback skill analysis")
	}

	writeJSON(w, http.StatusOK, analysisToResponse(a))
}

func (s *Server) recommendDomainError(w http.ResponseWriter, err error) {
	m, msg := s.mapDomainError(err)
	s.writeRecommendError(w, m.status, m.code, msg)
}

// writeRecommendError keeps the recommend envelope on failures; message carries the detail.
func (s *Server) writeRecommendError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, recommendResponse{
		Success: false,
		Message: message,
		Matches: []matchResponse{},
		Error:   &code,
	})
}

// validateRequest validates a struct using go-playground/validator.
func (s *Server) validateRequest(v any) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid request: %w", err)
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = translateError(fe)
	}
	return errors.New(strings.Join(msgs, "; "))
}

func translateError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be less than or equal to %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

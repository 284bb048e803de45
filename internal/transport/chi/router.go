package chi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobreco/internal/metrics"
)

// RouterOptions configures the middleware chain.
type RouterOptions struct {
	APIKeys        []string
	AllowedOrigins []string
	// RateLimitPerMinute caps /api requests per client IP. Zero disables the limit.
	RateLimitPerMinute int
}

// NewRouter mounts the server handlers behind the middleware chain.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}
	r.Use(BearerAuthMiddleware(opts.APIKeys))
	r.Use(metrics.Middleware())

	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		if opts.RateLimitPerMinute > 0 {
			r.Use(httprate.Limit(opts.RateLimitPerMinute, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
					writeError(w, http.StatusTooManyRequests, CodeRateLimited, "rate limit exceeded")
				}),
			))
		}
		r.Post("/jobs/recommend", s.RecommendJobs)
		r.Get("/jobs/recommend", s.RecommendJobsQuery)
		r.Post("/job-details", s.JobDetails)
		r.Post("/analyze-skills", s.AnalyzeSkills)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	s.logger.Debug("Routes mounted", zap.Int("rate_limit_per_min", opts.RateLimitPerMinute))
	return r
}

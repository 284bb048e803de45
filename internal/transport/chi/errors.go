package chi

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobreco/internal/domain"
)

// Error codes returned in the "code" field of error responses.
const (
	CodeBadRequest        = "bad_request"
	CodeNotFound          = "not_found"
	CodeMethodNotAllowed  = "method_not_allowed"
	CodeValidationFailed  = "validation_failed"
	CodeUnauthorized      = "unauthorized"
	CodeRateLimited       = "rate_limited"
	CodeCorpusUnavailable = "corpus_unavailable"
	CodeInvalidQuery      = "invalid_query"
	CodeLLMUnavailable    = "llm_unavailable"
	CodeLLMProviderError  = "llm_provider_error"
	CodeInternalError     = "internal_error"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorMapping is the HTTP rendering of a domain error.
type errorMapping struct {
	status int
	code   string
}

// errorHandler tries to map a domain error. Returns false if it does not apply.
type errorHandler func(err error) (errorMapping, bool)

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(err error) (errorMapping, bool) {
		if !errors.Is(err, sentinel) {
			return errorMapping{}, false
		}
		return errorMapping{status: status, code: code}, true
	}
}

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(domain.ErrCorpusUnavailable, http.StatusBadRequest, CodeCorpusUnavailable),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeInvalidQuery),
		sentinelHandler(domain.ErrLLMUnavailable, http.StatusServiceUnavailable, CodeLLMUnavailable),
		sentinelHandler(domain.ErrLLMProviderError, http.StatusBadGateway, CodeLLMProviderError),
	}
}

// safeDomainMessage returns a client message without exposing internals.
// Corpus errors carry the actionable detail; validation errors echo the rule that failed.
func safeDomainMessage(err error) string {
	var mae *domain.MissingArtifactsError
	if errors.As(err, &mae) {
		return mae.Error()
	}
	var ce *domain.CorpusError
	if errors.As(err, &ce) {
		return ce.Error()
	}
	if errors.Is(err, domain.ErrInvalidQuery) {
		return err.Error()
	}
	sentinels := []error{
		domain.ErrCorpusUnavailable,
		domain.ErrLLMUnavailable,
		domain.ErrLLMProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// mapDomainError resolves err to a status, code and client message, logging it on the way.
func (s *Server) mapDomainError(err error) (errorMapping, string) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if m, ok := h(err); ok {
			s.logger.Warn("domain error", zap.Error(err))
			return m, msg
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	return errorMapping{status: http.StatusInternalServerError, code: CodeInternalError}, msg
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	m, msg := s.mapDomainError(err)
	writeError(w, m.status, m.code, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

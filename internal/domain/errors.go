package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCorpusUnavailable signals missing, unbuildable or inconsistent corpus artifacts.
	// Clients can fix it by placing the artifacts; it maps to a 400-class response.
	ErrCorpusUnavailable = errors.New("corpus unavailable")
	// ErrInvalidQuery signals a recommendation query that failed validation.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrLLMUnavailable signals that the LLM provider is not configured or the breaker is open.
	ErrLLMUnavailable = errors.New("llm unavailable")
	// ErrLLMProviderError signals an LLM provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
)

// MissingArtifactsError wraps ErrCorpusUnavailable with the files that could not be located.
type MissingArtifactsError struct {
	Missing []string
	Checked []string
	Hint    string
}

func (e *MissingArtifactsError) Error() string {
	var b strings.Builder
	b.WriteString("Missing artifacts: ")
	b.WriteString(strings.Join(e.Missing, ", "))
	if len(e.Checked) > 0 {
		b.WriteString(". Checked: ")
		b.WriteString(strings.Join(e.Checked, ", "))
	}
	if e.Hint != "" {
		b.WriteString(". ")
		b.WriteString(e.Hint)
	}
	return b.String()
}

func (e *MissingArtifactsError) Unwrap() error { return ErrCorpusUnavailable }

// CorpusError describes an unreadable or inconsistent artifact. Detail is safe to show to clients.
type CorpusError struct {
	Detail string
}

func (e *CorpusError) Error() string { return ErrCorpusUnavailable.Error() + ": " + e.Detail }

func (e *CorpusError) Unwrap() error { return ErrCorpusUnavailable }

// NewCorpusError wraps a corpus problem so it maps to ErrCorpusUnavailable.
func NewCorpusError(format string, args ...any) error {
	return &CorpusError{Detail: fmt.Sprintf(format, args...)}
}

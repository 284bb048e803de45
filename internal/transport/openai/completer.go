// Package openai is a chat completion client for OpenAI-compatible APIs.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	openai "github.com/sashabaranov/go-openai"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/jobreco/internal/domain"
	"github.com/kailas-cloud/jobreco/internal/metrics"
)

// BreakerConfig controls the circuit breaker around the provider.
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

// Config holds the completion provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
	Breaker     BreakerConfig
	Logger      *zap.Logger
}

// Completer sends single-turn chat completions through a circuit breaker.
type Completer struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	breaker     *gobreaker.CircuitBreaker[string]
	logger      *zap.Logger
}

// NewCompleter creates a completer. With an empty APIKey every call fails with domain.ErrLLMUnavailable.
func NewCompleter(cfg *Config) *Completer {
	c := &Completer{
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		logger:      cfg.Logger,
	}
	if cfg.APIKey == "" {
		return c
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	c.client = openai.NewClientWithConfig(clientCfg)

	threshold := cfg.Breaker.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "llm",
		MaxRequests: cfg.Breaker.MaxRequests,
		Interval:    cfg.Breaker.Interval,
		Timeout:     cfg.Breaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return c
}

// Configured reports whether an API key was provided.
func (c *Completer) Configured() bool { return c.client != nil }

// Complete returns the assistant reply for a system and user prompt.
func (c *Completer) Complete(ctx context.Context, system, user string) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("no api key configured: %w", domain.ErrLLMUnavailable)
	}

	start := time.Now()
	out, err := c.breaker.Execute(func() (string, error) {
		return c.complete(ctx, system, user)
	})
	duration := time.Since(start)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.LLMRequestsTotal.WithLabelValues(c.model, "rejected").Inc()
		return "", fmt.Errorf("circuit breaker %s: %w", c.breaker.State(), domain.ErrLLMUnavailable)
	}
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues(c.model, "error").Inc()
		return "", err
	}

	metrics.LLMRequestsTotal.WithLabelValues(c.model, "success").Inc()
	metrics.LLMRequestDuration.WithLabelValues(c.model).Observe(duration.Seconds())
	return out, nil
}

func (c *Completer) complete(ctx context.Context, system, user string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", parseAPIError(err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("empty completion response: %w", domain.ErrLLMProviderError)
	}
	return resp.Choices[0].Message.Content, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Completer) HealthCheck(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("no api key configured: %w", domain.ErrLLMUnavailable)
	}
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrLLMProviderError for correct 502 mapping.
func parseAPIError(err error) error {
	wrap := domain.ErrLLMProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("completion API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("completion API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("completion API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("completion request failed: %v: %w", err, wrap)
}

// extractDetail extracts the "detail" field some OpenAI-compatible providers put in error bodies.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}

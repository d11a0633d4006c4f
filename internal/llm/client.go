package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/rupee-flow/internal/common"
)

// Provider names accepted in Config.Provider.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderNone      = "none"
)

var (
	// ErrUnsupportedProvider is returned by NewClient for an unknown provider name.
	ErrUnsupportedProvider = errors.New("unsupported LLM provider")
	// ErrDisabled is returned by NewClient when AI is switched off.
	ErrDisabled = errors.New("AI provider disabled")
	// ErrEmptyResponse is returned when a provider answers without any text.
	ErrEmptyResponse = errors.New("empty response from model")
)

// Client defines the interface for LLM providers.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request is a single-turn completion request.
type Request struct {
	System string
	Prompt string
	// MaxTokens overrides Config.MaxTokens when positive.
	MaxTokens int
}

// Config holds configuration for the LLM client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxRetries  int
	RetryDelay  time.Duration
	Timeout     time.Duration
	RateLimit   int
	Temperature float64
	MaxTokens   int
}

// Disabled reports whether the configuration switches AI off.
func (c Config) Disabled() bool {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	return p == "" || p == ProviderNone
}

// statusError maps a non-200 API status onto the retry taxonomy:
// 429 is a rate limit, 5xx is transient, anything else is permanent.
func statusError(provider string, status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	if len(msg) > 300 {
		msg = msg[:300]
	}
	switch {
	case status == http.StatusTooManyRequests:
		return &common.RetryableError{
			Err:       fmt.Errorf("%s API error (status %d): %w", provider, status, common.ErrRateLimit),
			Retryable: true,
		}
	case status >= http.StatusInternalServerError:
		return &common.RetryableError{
			Err:       fmt.Errorf("%s API error (status %d): %s: %w", provider, status, msg, common.ErrAIUnavailable),
			Retryable: true,
		}
	default:
		return common.Permanent(fmt.Errorf("%s API error (status %d): %s", provider, status, msg))
	}
}

package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/rupee-flow/internal/common"
	"github.com/Veraticus/rupee-flow/internal/service"
)

// GuardedClient wraps a provider with rate limiting, a per-attempt timeout and retries.
type GuardedClient struct {
	inner       Client
	limiter     *rateLimiter
	logger      *slog.Logger
	provider    string
	retryOpts   service.RetryOptions
	callTimeout time.Duration
}

// NewClient creates an LLM client for the configured provider.
func NewClient(cfg Config, logger *slog.Logger) (*GuardedClient, error) {
	if cfg.Disabled() {
		return nil, ErrDisabled
	}

	var (
		inner Client
		err   error
	)
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case ProviderOpenAI:
		inner, err = newOpenAIClient(cfg)
	case ProviderAnthropic:
		inner, err = newAnthropicClient(cfg)
	case ProviderGemini:
		inner, err = newGeminiClient(context.Background(), cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return Guard(inner, cfg, logger), nil
}

// Guard wraps any Client with the limiter and retry policy described by cfg.
func Guard(inner Client, cfg Config, logger *slog.Logger) *GuardedClient {
	if logger == nil {
		logger = slog.Default()
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}

	return &GuardedClient{
		inner:       inner,
		limiter:     newRateLimiter(cfg.RateLimit),
		logger:      logger,
		provider:    cfg.Provider,
		retryOpts:   retryOpts,
		callTimeout: timeout,
	}
}

// Complete waits for a rate-limit token, then calls the provider with retries.
func (c *GuardedClient) Complete(ctx context.Context, r Request) (string, error) {
	if err := c.limiter.wait(ctx); err != nil {
		return "", err
	}

	var text string
	err := common.WithRetry(ctx, func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.callTimeout)
		defer cancel()

		out, err := c.inner.Complete(callCtx, r)
		if err != nil {
			return err
		}
		text = out
		return nil
	}, c.retryOpts)
	if err != nil {
		c.logger.Debug("LLM completion failed", "provider", c.provider, "error", err)
		return "", err
	}
	return text, nil
}

// Provider returns the configured provider name.
func (c *GuardedClient) Provider() string {
	return c.provider
}

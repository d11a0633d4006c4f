package llm

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/rupee-flow/internal/common"
)

// scriptedClient replays a fixed list of results, one per call.
type scriptedClient struct {
	results []scriptedResult
	calls   int
	mu      sync.Mutex
}

type scriptedResult struct {
	text string
	err  error
}

func (s *scriptedClient) Complete(_ context.Context, _ Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i >= len(s.results) {
		i = len(s.results) - 1
	}
	return s.results[i].text, s.results[i].err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr error
	}{
		{name: "disabled by default", config: Config{}, wantErr: ErrDisabled},
		{name: "explicitly none", config: Config{Provider: "None"}, wantErr: ErrDisabled},
		{name: "unknown provider", config: Config{Provider: "ollama", APIKey: "k"}, wantErr: ErrUnsupportedProvider},
		{name: "openai", config: Config{Provider: "openai", APIKey: "k"}},
		{name: "anthropic", config: Config{Provider: "Anthropic", APIKey: "k"}},
		{name: "gemini", config: Config{Provider: "gemini", APIKey: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config, quietLogger())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.config.Provider, client.Provider())
		})
	}

	_, err := NewClient(Config{Provider: "openai"}, quietLogger())
	require.Error(t, err, "missing API key")
}

func TestGuardedClientRetriesTransientErrors(t *testing.T) {
	inner := &scriptedClient{results: []scriptedResult{
		{err: &common.RetryableError{Err: common.ErrAIUnavailable, Retryable: true}},
		{err: &common.RetryableError{Err: common.ErrAIUnavailable, Retryable: true}},
		{text: "done"},
	}}
	client := Guard(inner, Config{MaxRetries: 3, RetryDelay: time.Millisecond}, quietLogger())

	text, err := client.Complete(context.Background(), Request{Prompt: "x"})

	require.NoError(t, err)
	assert.Equal(t, "done", text)
	assert.Equal(t, 3, inner.calls)
}

func TestGuardedClientStopsOnPermanentError(t *testing.T) {
	errBad := errors.New("bad request")
	inner := &scriptedClient{results: []scriptedResult{{err: common.Permanent(errBad)}}}
	client := Guard(inner, Config{MaxRetries: 5, RetryDelay: time.Millisecond}, quietLogger())

	_, err := client.Complete(context.Background(), Request{Prompt: "x"})

	require.Error(t, err)
	assert.ErrorIs(t, err, errBad)
	assert.Equal(t, 1, inner.calls)
}

func TestGuardedClientCanceledWhileRateLimited(t *testing.T) {
	inner := &scriptedClient{results: []scriptedResult{{text: "ok"}}}
	client := Guard(inner, Config{RateLimit: 1, RetryDelay: time.Millisecond}, quietLogger())

	_, err := client.Complete(context.Background(), Request{Prompt: "first"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.Complete(ctx, Request{Prompt: "second"})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, inner.calls)
}

func TestGuardedClientPerCallTimeout(t *testing.T) {
	slow := clientFunc(func(ctx context.Context, _ Request) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	client := Guard(slow, Config{Timeout: 10 * time.Millisecond, RetryDelay: time.Millisecond}, quietLogger())

	_, err := client.Complete(context.Background(), Request{Prompt: "x"})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type clientFunc func(ctx context.Context, req Request) (string, error)

func (f clientFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

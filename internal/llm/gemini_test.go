package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiClient(t *testing.T) {
	_, err := newGeminiClient(context.Background(), Config{})
	require.Error(t, err)

	client, err := newGeminiClient(context.Background(), Config{APIKey: "test-key", Temperature: 0.2})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", client.model)
	assert.InDelta(t, 0.2, client.temperature, 1e-6)
}

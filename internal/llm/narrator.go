package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/rupee-flow/internal/model"
)

// Narrator writes the insights summary with a language model.
type Narrator struct {
	client Client
}

// NewNarrator creates a Narrator backed by client.
func NewNarrator(client Client) *Narrator {
	return &Narrator{client: client}
}

// Narrate returns the model's summary for report.
func (n *Narrator) Narrate(ctx context.Context, report model.PortfolioInsights) (string, error) {
	text, err := n.client.Complete(ctx, Request{
		System:    NarrativeSystemPrompt,
		Prompt:    BuildNarrativePrompt(report.Metrics, report.Risk),
		MaxTokens: 400,
	})
	if err != nil {
		return "", fmt.Errorf("narrative request failed: %w", err)
	}
	return strings.TrimSpace(cleanMarkdownWrapper(text)), nil
}

package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/rupee-flow/internal/model"
)

func TestBuildTransactionPrompt(t *testing.T) {
	prompt := BuildTransactionPrompt("Rs.500 debited from A/c XX1234")

	assert.Contains(t, prompt, "Rs.500 debited from A/c XX1234")
	for _, key := range []string{"transactionType", "amount", "balance", "merchant", "accountLastFour", "referenceNumber", "transactionMode"} {
		assert.Contains(t, prompt, `"`+key+`"`)
	}
}

func TestBuildNarrativePrompt(t *testing.T) {
	metrics := model.PortfolioMetrics{
		NetWorth:    1500000,
		EquityPct:   70,
		DebtPct:     20,
		CashPct:     10,
		ValueByType: map[string]float64{"STOCK": 1050000, "EPF": 300000, model.CashKey: 150000},
	}
	risk := model.RiskAssessment{RiskLevel: "High", RiskScore: 7, DiversificationLevel: "Good", DiversificationScore: 7}

	prompt := BuildNarrativePrompt(metrics, risk)

	assert.Contains(t, prompt, "Net worth: ₹15.00 L")
	assert.Contains(t, prompt, "equity 70.0%")
	assert.Contains(t, prompt, "Risk: High (7/10)")
	assert.Less(t, strings.Index(prompt, "- CASH"), strings.Index(prompt, "- EPF"), "holdings are listed in key order")
	assert.NotContains(t, prompt, "Projected spending")
}

func TestNarrator(t *testing.T) {
	t.Run("returns trimmed text", func(t *testing.T) {
		var seen Request
		n := NewNarrator(clientFunc(func(_ context.Context, r Request) (string, error) {
			seen = r
			return "\n  Your portfolio is growing.  \n", nil
		}))

		text, err := n.Narrate(context.Background(), model.PortfolioInsights{})

		require.NoError(t, err)
		assert.Equal(t, "Your portfolio is growing.", text)
		assert.Equal(t, NarrativeSystemPrompt, seen.System)
		assert.Equal(t, 400, seen.MaxTokens)
	})

	t.Run("wraps client errors", func(t *testing.T) {
		errDown := errors.New("down")
		n := NewNarrator(clientFunc(func(context.Context, Request) (string, error) {
			return "", errDown
		}))

		_, err := n.Narrate(context.Background(), model.PortfolioInsights{})

		require.Error(t, err)
		assert.ErrorIs(t, err, errDown)
	})
}

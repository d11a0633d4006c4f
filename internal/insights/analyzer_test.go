package insights

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/rupee-flow/internal/model"
)

func metricsWithSplit(equity, debt, gold, cash, netWorth float64) model.PortfolioMetrics {
	return model.PortfolioMetrics{
		NetWorth:  netWorth,
		Equity:    equity / 100 * netWorth,
		Debt:      debt / 100 * netWorth,
		Gold:      gold / 100 * netWorth,
		Cash:      cash / 100 * netWorth,
		EquityPct: equity,
		DebtPct:   debt,
		GoldPct:   gold,
		CashPct:   cash,
		ValueByType: map[string]float64{
			"STOCK": 1, "EPF": 1, "GOLD": 1, model.CashKey: 1,
		},
	}
}

func TestAnalyzeAllocationBalanced(t *testing.T) {
	a := AnalyzeAllocation(metricsWithSplit(60, 25, 10, 5, 1000000))

	assert.Empty(t, a.Recommendations)
	assert.Equal(t, 60.0, a.Ideal[model.BucketEquity])
	assert.Equal(t, 25.0, a.Ideal[model.BucketDebt])
	assert.Equal(t, 10.0, a.Ideal[model.BucketGold])
	assert.Equal(t, 5.0, a.Ideal[model.BucketCash])
	assert.Equal(t, 60.0, a.Current[model.BucketEquity])
}

func TestAnalyzeAllocationRules(t *testing.T) {
	tests := []struct {
		name    string
		metrics model.PortfolioMetrics
		want    []string
	}{
		{
			name:    "equity at low edge",
			metrics: metricsWithSplit(50, 25, 10, 15, 100),
			want:    nil,
		},
		{
			name:    "equity too low",
			metrics: metricsWithSplit(49.9, 30, 10, 10.1, 100),
			want:    []string{"below the 60% target"},
		},
		{
			name:    "equity at high edge",
			metrics: metricsWithSplit(75, 15, 5, 5, 100),
			want:    nil,
		},
		{
			name:    "equity too high and debt too low",
			metrics: metricsWithSplit(80, 10, 5, 5, 100),
			want:    []string{"above the 75% comfort zone", "Debt is only 10.0%"},
		},
		{
			name:    "gold too low",
			metrics: metricsWithSplit(62, 30, 4, 4, 100),
			want:    []string{"Gold is 4.0%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := AnalyzeAllocation(tt.metrics)
			require.Len(t, a.Recommendations, len(tt.want))
			for i, fragment := range tt.want {
				assert.Contains(t, a.Recommendations[i], fragment)
			}
		})
	}
}

func TestAnalyzeAllocationIndependentMessages(t *testing.T) {
	m := metricsWithSplit(40, 5, 0, 55, 1000000)

	a := AnalyzeAllocation(m)

	require.Len(t, a.Recommendations, 4)
	assert.Contains(t, a.Recommendations[0], "Equity is 40.0%")
	assert.Contains(t, a.Recommendations[1], "Debt is only 5.0%")
	assert.Contains(t, a.Recommendations[2], "₹5.50 L sitting idle")
	assert.Contains(t, a.Recommendations[3], "Gold is 0.0%")
}

func TestAssessRiskBands(t *testing.T) {
	tests := []struct {
		equity float64
		score  int
		level  string
	}{
		{equity: 95, score: 9, level: "Very High"},
		{equity: 80, score: 9, level: "Very High"},
		{equity: 79.9, score: 7, level: "High"},
		{equity: 60.01, score: 7, level: "High"},
		{equity: 60, score: 5, level: "Moderate"},
		{equity: 45, score: 5, level: "Moderate"},
		{equity: 40, score: 3, level: "Low"},
		{equity: 25, score: 3, level: "Low"},
		{equity: 20, score: 1, level: "Very Low"},
		{equity: 10, score: 1, level: "Very Low"},
		{equity: 0, score: 1, level: "Very Low"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s at %.2f", tt.level, tt.equity), func(t *testing.T) {
			r := AssessRisk(model.PortfolioMetrics{EquityPct: tt.equity})
			assert.Equal(t, tt.score, r.RiskScore)
			assert.Equal(t, tt.level, r.RiskLevel)
			assert.NotEmpty(t, r.RiskDescription)
		})
	}
}

func TestAssessRiskHeavyEquityPortfolio(t *testing.T) {
	r := AssessRisk(metricsWithSplit(80, 10, 5, 5, 1000000))

	assert.Equal(t, 9, r.RiskScore)
	assert.Equal(t, "Very High", r.RiskLevel)
	assert.Equal(t, 7, r.DiversificationScore)
	assert.Equal(t, "Good", r.DiversificationLevel)
}

func TestAssessRiskDiversification(t *testing.T) {
	tests := []struct {
		name  string
		types []string
		score int
		level string
	}{
		{name: "five types", types: []string{"STOCK", "MUTUAL_FUND", "EPF", "GOLD", "CASH"}, score: 10, level: "Excellent"},
		{name: "three types", types: []string{"STOCK", "GOLD", "CASH"}, score: 7, level: "Good"},
		{name: "two types", types: []string{"STOCK", "CASH"}, score: 4, level: "Poor — add more asset types"},
		{name: "nothing", types: nil, score: 4, level: "Poor — add more asset types"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := make(map[string]float64, len(tt.types))
			for _, k := range tt.types {
				values[k] = 1000
			}
			r := AssessRisk(model.PortfolioMetrics{ValueByType: values})
			assert.Equal(t, tt.score, r.DiversificationScore)
			assert.Equal(t, tt.level, r.DiversificationLevel)
		})
	}
}

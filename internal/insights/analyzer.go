package insights

import (
	"fmt"

	"github.com/Veraticus/rupee-flow/internal/model"
)

// IdealAllocation is the target split used for deviation messages, in percent.
var IdealAllocation = map[model.Bucket]float64{
	model.BucketEquity: 60,
	model.BucketDebt:   25,
	model.BucketGold:   10,
	model.BucketCash:   5,
}

// allocationRule emits a deviation message when its condition holds.
type allocationRule func(m model.PortfolioMetrics) (string, bool)

// allocationRules run in this order and independently of each other.
var allocationRules = []allocationRule{
	equityTooLow,
	equityTooHigh,
	debtTooLow,
	cashTooHigh,
	goldTooLow,
}

// AnalyzeAllocation compares the current bucket split against IdealAllocation.
func AnalyzeAllocation(m model.PortfolioMetrics) model.AllocationAnalysis {
	ideal := make(map[model.Bucket]float64, len(IdealAllocation))
	for k, v := range IdealAllocation {
		ideal[k] = v
	}

	out := model.AllocationAnalysis{
		Current: map[model.Bucket]float64{
			model.BucketEquity: m.EquityPct,
			model.BucketDebt:   m.DebtPct,
			model.BucketGold:   m.GoldPct,
			model.BucketCash:   m.CashPct,
		},
		Ideal:           ideal,
		Recommendations: []string{},
	}

	for _, rule := range allocationRules {
		if msg, ok := rule(m); ok {
			out.Recommendations = append(out.Recommendations, msg)
		}
	}
	return out
}

func equityTooLow(m model.PortfolioMetrics) (string, bool) {
	target := IdealAllocation[model.BucketEquity]
	if m.EquityPct >= target-10 {
		return "", false
	}
	return fmt.Sprintf("Equity is %.1f%% of your portfolio, well below the %.0f%% target. Increase equity exposure through index funds or SIPs for long-term growth.",
		m.EquityPct, target), true
}

func equityTooHigh(m model.PortfolioMetrics) (string, bool) {
	target := IdealAllocation[model.BucketEquity]
	if m.EquityPct <= target+15 {
		return "", false
	}
	return fmt.Sprintf("Equity is %.1f%% of your portfolio, above the %.0f%% comfort zone. Consider booking some profits into debt instruments.",
		m.EquityPct, target+15), true
}

func debtTooLow(m model.PortfolioMetrics) (string, bool) {
	target := IdealAllocation[model.BucketDebt]
	if m.DebtPct >= target-10 {
		return "", false
	}
	return fmt.Sprintf("Debt is only %.1f%% of your portfolio against a %.0f%% target. Add PPF, bonds or debt funds for stability.",
		m.DebtPct, target), true
}

func cashTooHigh(m model.PortfolioMetrics) (string, bool) {
	if m.CashPct <= 20 {
		return "", false
	}
	return fmt.Sprintf("Cash is %.1f%% of your portfolio, with %s sitting idle in bank accounts. Move the surplus into investments.",
		m.CashPct, Rupees(m.Cash)), true
}

func goldTooLow(m model.PortfolioMetrics) (string, bool) {
	if m.GoldPct >= 5 {
		return "", false
	}
	return fmt.Sprintf("Gold is %.1f%% of your portfolio. A 5-10%% allocation through gold ETFs or sovereign gold bonds hedges against inflation.",
		m.GoldPct), true
}

type riskBand struct {
	level       string
	description string
	minEquity   float64
	score       int
	inclusive   bool
}

func (b riskBand) matches(equity float64) bool {
	if b.inclusive {
		return equity >= b.minEquity
	}
	return equity > b.minEquity
}

// riskBands are checked top-down; the first band the equity share exceeds wins.
// An equity share of exactly 80% already counts as Very High.
var riskBands = []riskBand{
	{minEquity: 80, inclusive: true, score: 9, level: "Very High", description: "Your portfolio is heavily concentrated in equity and can fall sharply in a market downturn."},
	{minEquity: 60, score: 7, level: "High", description: "An equity-heavy portfolio with strong growth potential and significant short-term swings."},
	{minEquity: 40, score: 5, level: "Moderate", description: "A balanced mix of growth assets and stable instruments."},
	{minEquity: 20, score: 3, level: "Low", description: "A conservative portfolio with limited volatility and modest growth."},
}

var lowestRisk = riskBand{score: 1, level: "Very Low", description: "A very conservative portfolio; returns may not keep pace with inflation."}

// AssessRisk scores the portfolio from its equity share and the number of asset types held.
func AssessRisk(m model.PortfolioMetrics) model.RiskAssessment {
	band := lowestRisk
	for _, b := range riskBands {
		if b.matches(m.EquityPct) {
			band = b
			break
		}
	}

	score, level := diversification(len(m.ValueByType))
	return model.RiskAssessment{
		RiskScore:            band.score,
		RiskLevel:            band.level,
		RiskDescription:      band.description,
		EquityPct:            m.EquityPct,
		DiversificationScore: score,
		DiversificationLevel: level,
	}
}

func diversification(assetTypes int) (int, string) {
	switch {
	case assetTypes >= 5:
		return 10, "Excellent"
	case assetTypes >= 3:
		return 7, "Good"
	default:
		return 4, "Poor — add more asset types"
	}
}

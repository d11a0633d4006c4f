package insights

import (
	"fmt"

	"github.com/Veraticus/rupee-flow/internal/model"
)

// Section80CLimit is the yearly deduction cap for 80C instruments.
const Section80CLimit = 150000

type suggestionInput struct {
	metrics  model.PortfolioMetrics
	income   float64
	expenses float64
}

type suggestionRule func(in suggestionInput) (model.Suggestion, bool)

// suggestionRules run in this order; every rule that applies contributes one suggestion.
var suggestionRules = []suggestionRule{
	emergencyFund,
	taxSaving,
	startSIP,
	addGold,
	idleCash,
}

// GenerateSuggestions applies the suggestion rules to a portfolio and monthly cash flow.
func GenerateSuggestions(m model.PortfolioMetrics, monthlyIncome, monthlyExpenses float64) []model.Suggestion {
	in := suggestionInput{metrics: m, income: monthlyIncome, expenses: monthlyExpenses}
	out := []model.Suggestion{}
	for _, rule := range suggestionRules {
		if s, ok := rule(in); ok {
			out = append(out, s)
		}
	}
	return out
}

func emergencyFund(in suggestionInput) (model.Suggestion, bool) {
	required := in.expenses * 6
	if in.metrics.Cash >= required {
		return model.Suggestion{}, false
	}
	shortfall := required - in.metrics.Cash
	return model.Suggestion{
		Title:       "Build an emergency fund",
		Priority:    model.PriorityHigh,
		Description: fmt.Sprintf("Six months of expenses is %s but you hold %s in cash, a shortfall of %s.", Rupees(required), Rupees(in.metrics.Cash), Rupees(shortfall)),
		ActionItem:  fmt.Sprintf("Park %s in a savings account or liquid fund.", Rupees(shortfall)),
		IconHint:    "shield",
	}, true
}

func taxSaving(in suggestionInput) (model.Suggestion, bool) {
	current := in.metrics.ValueByType[string(model.AssetTypeEPF)] + in.metrics.ValueByType[string(model.AssetTypePPF)]
	if current >= Section80CLimit {
		return model.Suggestion{}, false
	}
	gap := Section80CLimit - current
	return model.Suggestion{
		Title:       "Use your Section 80C limit",
		Priority:    model.PriorityHigh,
		Description: fmt.Sprintf("EPF and PPF hold %s, below the ₹1.5L Section 80C limit.", Rupees(current)),
		ActionItem:  fmt.Sprintf("Invest up to %s more in PPF or ELSS this financial year.", Rupees(gap)),
		IconHint:    "receipt",
	}, true
}

func startSIP(in suggestionInput) (model.Suggestion, bool) {
	savings := in.income - in.expenses
	if savings <= 5000 {
		return model.Suggestion{}, false
	}
	sip := savings * 0.30
	return model.Suggestion{
		Title:       "Start a monthly SIP",
		Priority:    model.PriorityMedium,
		Description: fmt.Sprintf("You save about %s a month. Investing part of it regularly compounds over time.", Rupees(savings)),
		ActionItem:  fmt.Sprintf("Start a SIP of %s a month in a diversified equity fund.", Rupees(sip)),
		IconHint:    "trending_up",
	}, true
}

func addGold(in suggestionInput) (model.Suggestion, bool) {
	if in.metrics.GoldPct >= 5 || in.metrics.NetWorth <= 100000 {
		return model.Suggestion{}, false
	}
	target := in.metrics.NetWorth * 0.10
	return model.Suggestion{
		Title:       "Add gold to your portfolio",
		Priority:    model.PriorityMedium,
		Description: fmt.Sprintf("Gold is %.1f%% of your net worth. It tends to hold value when equity falls.", in.metrics.GoldPct),
		ActionItem:  fmt.Sprintf("Build a gold position of about %s through gold ETFs or sovereign gold bonds.", Rupees(target)),
		IconHint:    "gold",
	}, true
}

func idleCash(in suggestionInput) (model.Suggestion, bool) {
	if in.metrics.CashPct <= 25 {
		return model.Suggestion{}, false
	}
	excess := in.metrics.Cash - in.metrics.NetWorth*0.10
	return model.Suggestion{
		Title:       "Put idle cash to work",
		Priority:    model.PriorityHigh,
		Description: fmt.Sprintf("Cash is %.1f%% of your net worth. %s above a 10%% cash buffer is earning little.", in.metrics.CashPct, Rupees(excess)),
		ActionItem:  fmt.Sprintf("Move %s into debt funds or fixed deposits.", Rupees(excess)),
		IconHint:    "wallet",
	}, true
}

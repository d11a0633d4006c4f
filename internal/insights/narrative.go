package insights

import (
	"fmt"
	"strings"

	"github.com/Veraticus/rupee-flow/internal/model"
)

// HeuristicNarrative writes an offline summary keyed on net-worth bands.
func HeuristicNarrative(in model.PortfolioInsights) string {
	m := in.Metrics
	var b strings.Builder

	switch {
	case m.NetWorth <= 0:
		b.WriteString("Add your bank accounts, deposits and investments to see a personalised summary.")
		return b.String()
	case m.NetWorth < lakh:
		fmt.Fprintf(&b, "You are at the start of your wealth journey with a net worth of %s. Focus on an emergency fund and a habit of regular saving.", Rupees(m.NetWorth))
	case m.NetWorth < 10*lakh:
		fmt.Fprintf(&b, "Your net worth of %s is building steadily. Automating investments through SIPs will compound it faster.", Rupees(m.NetWorth))
	case m.NetWorth < crore:
		fmt.Fprintf(&b, "With a net worth of %s you have a solid base. Keep the allocation balanced and use every tax-advantaged option.", Rupees(m.NetWorth))
	default:
		fmt.Fprintf(&b, "Your net worth of %s puts you past the crore mark. Protecting it through diversification now matters as much as growing it.", Rupees(m.NetWorth))
	}

	fmt.Fprintf(&b, " Risk is %s (%d/10) and diversification is %s.", strings.ToLower(in.Risk.RiskLevel), in.Risk.RiskScore, diversificationWord(in.Risk.DiversificationLevel))

	if len(in.Suggestions) > 0 {
		fmt.Fprintf(&b, " Top priority: %s.", strings.ToLower(in.Suggestions[0].Title))
	}
	return b.String()
}

func diversificationWord(level string) string {
	if i := strings.Index(level, " "); i > 0 {
		level = level[:i]
	}
	return strings.ToLower(level)
}

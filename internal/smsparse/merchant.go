package smsparse

import (
	"strings"

	"github.com/Veraticus/rupee-flow/internal/patterns"
)

// merchantRule returns a merchant name when it applies to the message.
type merchantRule func(e *Extractor, text, lower string) (string, bool)

// merchantChain is evaluated in order; the first rule that applies wins.
// A UPI handle therefore beats the atm/pos keywords even when both are present.
var merchantChain = []merchantRule{
	upiCounterparty,
	atmWithdrawal,
	posPurchase,
	bankTransfer,
}

func (e *Extractor) merchant(text, lower string) string {
	for _, rule := range merchantChain {
		if name, ok := rule(e, text, lower); ok {
			return name
		}
	}
	return MerchantDefault
}

func upiCounterparty(e *Extractor, text, _ string) (string, bool) {
	for _, token := range e.lib.FindAll(patterns.TagMerchant, text) {
		name := cleanToken(token)
		if name == "" || e.lib.IsStopWord(name) || isShortNumber(name) {
			continue
		}
		return name, true
	}
	return "", false
}

func atmWithdrawal(_ *Extractor, _, lower string) (string, bool) {
	return MerchantATM, strings.Contains(lower, "atm")
}

func posPurchase(e *Extractor, text, lower string) (string, bool) {
	if !strings.Contains(lower, "pos") {
		return "", false
	}
	if vendor, ok := e.lib.Find(patterns.TagPOSVendor, text); ok {
		if name := strings.TrimRight(strings.TrimSpace(vendor), ".-"); name != "" {
			return name, true
		}
	}
	return MerchantPOS, true
}

func bankTransfer(e *Extractor, _, lower string) (string, bool) {
	return MerchantTransfer, e.lib.IsTransfer(lower)
}

// cleanToken drops a VPA domain and trailing punctuation from a counterparty token.
func cleanToken(token string) string {
	if i := strings.Index(token, "@"); i >= 0 {
		token = token[:i]
	}
	return strings.TrimRight(token, ".-_")
}

// isShortNumber matches times and dates that follow "at"; ten-digit mobile numbers are kept.
func isShortNumber(token string) bool {
	if len(token) >= 10 {
		return false
	}
	for _, r := range token {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

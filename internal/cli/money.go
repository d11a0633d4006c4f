package cli

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatINR renders an amount with the rupee sign and two decimals, e.g. "₹1,234.50".
func FormatINR(amount decimal.Decimal) string {
	cur := money.GetCurrency(money.INR)
	paise := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(paise.IntPart(), money.INR).Display()
}

// FormatINRFloat is FormatINR for float amounts from the insights engine.
func FormatINRFloat(amount float64) string {
	return FormatINR(decimal.NewFromFloat(amount))
}

package insights

import (
	"fmt"
	"math"
)

const (
	crore = 1_00_00_000
	lakh  = 1_00_000
)

// FormatLargeAmount renders an INR amount in the Indian short scale:
// "X.XX Cr" from one crore, "X.XX L" from one lakh, otherwise a plain integer.
func FormatLargeAmount(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	switch {
	case v >= crore:
		return fmt.Sprintf("%s%.2f Cr", sign, v/crore)
	case v >= lakh:
		return fmt.Sprintf("%s%.2f L", sign, v/lakh)
	default:
		r := math.Round(v)
		if r == 0 {
			sign = ""
		}
		return fmt.Sprintf("%s%.0f", sign, r)
	}
}

// Rupees prefixes FormatLargeAmount with the rupee sign.
func Rupees(v float64) string {
	return "₹" + FormatLargeAmount(v)
}

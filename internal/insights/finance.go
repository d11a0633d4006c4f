package insights

import "math"

// SIPFutureValue is the maturity value of a monthly SIP paid at the start of each month:
// P * ((1+r)^n - 1) / r * (1+r) with r the monthly rate. A zero rate degrades to P*n.
func SIPFutureValue(monthly, annualRatePct float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	r := annualRatePct / 100 / 12
	n := float64(months)
	if r == 0 {
		return monthly * n
	}
	return monthly * (math.Pow(1+r, n) - 1) / r * (1 + r)
}

// AnnuityDueFutureValue is the value of a constant yearly contribution compounded annually,
// each contribution made at the start of the year. A zero rate degrades to amount*years.
func AnnuityDueFutureValue(yearly, annualRatePct float64, years int) float64 {
	if years <= 0 {
		return 0
	}
	r := annualRatePct / 100
	n := float64(years)
	if r == 0 {
		return yearly * n
	}
	return yearly * (math.Pow(1+r, n) - 1) / r * (1 + r)
}

// CompoundAmount is P*(1+r)^years with annual compounding.
func CompoundAmount(principal, annualRatePct float64, years int) float64 {
	return principal * math.Pow(1+annualRatePct/100, float64(years))
}

// EMI is the equated monthly instalment for a loan. A zero rate degrades to P/n.
func EMI(principal, annualRatePct float64, months int) float64 {
	if months <= 0 {
		return 0
	}
	r := annualRatePct / 100 / 12
	n := float64(months)
	if r == 0 {
		return principal / n
	}
	f := math.Pow(1+r, n)
	return principal * r * f / (f - 1)
}

// LoanInterest is the total interest paid over the life of a loan.
func LoanInterest(principal, annualRatePct float64, months int) float64 {
	return EMI(principal, annualRatePct, months)*float64(months) - principal
}

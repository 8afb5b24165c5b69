package core

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

// ErrNotComputable means the loan terms cannot produce an installment
// estimate. Callers display "no estimate" instead of a fabricated figure.
var ErrNotComputable = errors.New("installment not computable")

// MonthlyInstallment estimates the level monthly payment for a loan using the
// standard annuity formula. The rate is a percentage, either effective annual
// (EA, converted to its equivalent monthly periodic rate) or monthly nominal
// (MV, used directly). The estimate is advisory only; it is never written
// back to the ledger unless the user accepts it.
func MonthlyInstallment(principal Money, ratePercent float64, rateType RateType, termMonths int) (Money, error) {
	if principal.Cents <= 0 || termMonths <= 0 || ratePercent < 0 {
		return Money{}, ErrNotComputable
	}
	if math.IsNaN(ratePercent) || math.IsInf(ratePercent, 0) {
		return Money{}, ErrNotComputable
	}

	var monthlyRate float64
	switch rateType {
	case RateEffectiveAnnual:
		monthlyRate = math.Pow(1+ratePercent/100, 1.0/12) - 1
	case RateMonthlyNominal:
		monthlyRate = ratePercent / 100
	default:
		return Money{}, ErrNotComputable
	}

	p := decimal.NewFromInt(principal.Cents)
	n := decimal.NewFromInt(int64(termMonths))

	if monthlyRate == 0 {
		return Money{Cents: p.Div(n).Round(0).IntPart()}, nil
	}

	// A = P * rm * (1+rm)^n / ((1+rm)^n - 1)
	rm := decimal.NewFromFloat(monthlyRate)
	one := decimal.NewFromInt(1)
	factor := one.Add(rm).Pow(n)
	a := p.Mul(rm).Mul(factor).Div(factor.Sub(one)).Round(0)

	cents := a.IntPart()
	if cents <= 0 {
		return Money{}, ErrNotComputable
	}
	return Money{Cents: cents}, nil
}

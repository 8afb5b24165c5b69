package core

import "testing"

func TestMonthlyInstallmentZeroRate(t *testing.T) {
	got, err := MonthlyInstallment(Money{Cents: 120_000_00}, 0, RateMonthlyNominal, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cents != 10_000_00 {
		t.Fatalf("expected even split, got %d", got.Cents)
	}
}

func TestMonthlyInstallmentEffectiveAnnual(t *testing.T) {
	// 120M at 12.5% EA over 20 years: installment lands near 1.31M/month.
	got, err := MonthlyInstallment(Money{Cents: 12_000_000_000}, 12.5, RateEffectiveAnnual, 240)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Cents < 129_000_000 || got.Cents > 132_000_000 {
		t.Fatalf("installment out of range: %d", got.Cents)
	}
}

func TestMonthlyInstallmentMonthlyNominal(t *testing.T) {
	// 1% monthly over 12 months on 10,000.00.
	got, err := MonthlyInstallment(Money{Cents: 1_000_000}, 1, RateMonthlyNominal, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Annuity on 1% over 12 periods is ~8.885% of principal per month.
	if got.Cents < 88_500 || got.Cents > 89_200 {
		t.Fatalf("installment out of range: %d", got.Cents)
	}
}

func TestMonthlyInstallmentRepaysPrincipal(t *testing.T) {
	// n·A ≥ P and A > 0 for every valid input combination.
	principals := []int64{100_00, 5_000_000_00, 12_000_000_000}
	rates := []float64{0, 0.5, 1.2, 12.5, 28}
	terms := []int{1, 12, 60, 240}
	types := []RateType{RateEffectiveAnnual, RateMonthlyNominal}

	for _, p := range principals {
		for _, r := range rates {
			for _, n := range terms {
				for _, rt := range types {
					a, err := MonthlyInstallment(Money{Cents: p}, r, rt, n)
					if err != nil {
						t.Fatalf("P=%d r=%v n=%d %s: %v", p, r, n, rt, err)
					}
					if a.Cents <= 0 {
						t.Fatalf("P=%d r=%v n=%d %s: non-positive installment %d", p, r, n, rt, a.Cents)
					}
					// Allow a cent of rounding slack per period on the zero-rate split.
					if int64(n)*a.Cents < p-int64(n) {
						t.Fatalf("P=%d r=%v n=%d %s: total repayment %d below principal", p, r, n, rt, int64(n)*a.Cents)
					}
				}
			}
		}
	}
}

func TestMonthlyInstallmentNotComputable(t *testing.T) {
	cases := []struct {
		name     string
		p        int64
		rate     float64
		rateType RateType
		term     int
	}{
		{"zero principal", 0, 10, RateEffectiveAnnual, 12},
		{"negative principal", -100, 10, RateEffectiveAnnual, 12},
		{"negative rate", 100, -1, RateEffectiveAnnual, 12},
		{"zero term", 100, 10, RateEffectiveAnnual, 0},
		{"unknown rate type", 100, 10, "APR", 12},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := MonthlyInstallment(Money{Cents: tc.p}, tc.rate, tc.rateType, tc.term); err != ErrNotComputable {
				t.Fatalf("expected ErrNotComputable, got %v", err)
			}
		})
	}
}

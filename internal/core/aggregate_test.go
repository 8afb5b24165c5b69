package core

import (
	"math"
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	ref := time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC)
	members := []Member{
		{ID: 1, Name: "Laura", Incomes: []Income{{Source: "salario", Amount: Money{Cents: 500_000_00}}}},
		{ID: 2, Name: "Andrés", Incomes: []Income{{Source: "honorarios", Amount: Money{Cents: 300_000_00}, Variable: true}}},
	}
	expenses := []Expense{
		{ID: 1, Amount: Money{Cents: 120_000_00}, Category: CategoryVivienda, DueDate: NewDate(2023, 11, 5), Status: StatusPaid, ResponsibleID: 1},
		{ID: 2, Amount: Money{Cents: 80_000_00}, Category: CategoryServicios, DueDate: NewDate(2023, 11, 20), Status: StatusPending, ResponsibleID: 2},
		{ID: 3, Amount: Money{Cents: 50_000_00}, Category: CategoryOtros, DueDate: NewDate(2023, 10, 1), Status: StatusPaid, ResponsibleID: 1},
	}

	s := Summarize(ref, members, expenses)

	if s.TotalIncome.Cents != 800_000_00 {
		t.Fatalf("total income: got %d", s.TotalIncome.Cents)
	}
	if s.TotalExpenses.Cents != 250_000_00 {
		t.Fatalf("total expenses: got %d", s.TotalExpenses.Cents)
	}
	if s.TotalMonthly.Cents != 200_000_00 {
		t.Fatalf("total monthly: got %d", s.TotalMonthly.Cents)
	}
	if s.PaidMonthly.Cents != 120_000_00 {
		t.Fatalf("paid monthly: got %d", s.PaidMonthly.Cents)
	}
	if s.PendingMonthly.Cents != 80_000_00 {
		t.Fatalf("pending monthly: got %d", s.PendingMonthly.Cents)
	}
	if math.Abs(s.PaymentProgressPct-60) > 0.01 {
		t.Fatalf("payment progress: got %v", s.PaymentProgressPct)
	}
	if math.Abs(s.IncomeCommitmentPct-25) > 0.01 {
		t.Fatalf("income commitment: got %v", s.IncomeCommitmentPct)
	}
	if s.HighCommitment {
		t.Fatalf("25%% commitment must not warn")
	}
}

func TestSummarizeHighCommitment(t *testing.T) {
	ref := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
	members := []Member{{ID: 1, Incomes: []Income{{Source: "salario", Amount: Money{Cents: 100_000_00}}}}}
	expenses := []Expense{{Amount: Money{Cents: 41_000_00}, Category: CategoryVivienda, DueDate: NewDate(2023, 11, 1), Status: StatusPending, ResponsibleID: 1}}

	s := Summarize(ref, members, expenses)
	if !s.HighCommitment {
		t.Fatalf("41%% commitment must warn, got %v", s.IncomeCommitmentPct)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(time.Now(), nil, nil)
	if s.TotalMonthly.Cents != 0 || s.PaymentProgressPct != 0 || s.IncomeCommitmentPct != 0 {
		t.Fatalf("empty ledger must yield zeros, got %+v", s)
	}
	if math.IsNaN(s.PaymentProgressPct) || math.IsInf(s.IncomeCommitmentPct, 0) {
		t.Fatalf("division by zero leaked: %+v", s)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	expenses := []Expense{
		{Amount: Money{Cents: 120_000_000}, Category: CategoryVivienda},
		{Amount: Money{Cents: 4_500_000}, Category: CategoryStreaming},
		{Amount: Money{Cents: 43_500_000}, Category: CategoryOtros},
	}

	shares := CategoryBreakdown(expenses)
	if len(shares) != 3 {
		t.Fatalf("expected 3 shares, got %d", len(shares))
	}
	if shares[0].Tag != CategoryVivienda || shares[1].Tag != CategoryOtros || shares[2].Tag != CategoryStreaming {
		t.Fatalf("wrong order: %v %v %v", shares[0].Tag, shares[1].Tag, shares[2].Tag)
	}

	var totalPct float64
	var totalCents int64
	for _, s := range shares {
		totalPct += s.Percent
		totalCents += s.Amount.Cents
	}
	if totalCents != 168_000_000 {
		t.Fatalf("share amounts must sum to the total, got %d", totalCents)
	}
	if math.Abs(totalPct-100) > 0.001 {
		t.Fatalf("percentages must sum to ~100, got %v", totalPct)
	}
	if math.Abs(shares[0].Percent-71.428) > 0.01 {
		t.Fatalf("vivienda percent: got %v", shares[0].Percent)
	}
	if math.Abs(shares[2].Percent-2.678) > 0.01 {
		t.Fatalf("streaming percent: got %v", shares[2].Percent)
	}
}

func TestCategoryBreakdownSkipsZeroAmounts(t *testing.T) {
	expenses := []Expense{
		{Amount: Money{Cents: 100}, Category: CategoryOtros},
		{Amount: Money{}, Category: CategoryServicios}, // awaiting reconciliation
	}
	shares := CategoryBreakdown(expenses)
	if len(shares) != 1 || shares[0].Tag != CategoryOtros {
		t.Fatalf("zero-amount categories must be omitted, got %+v", shares)
	}
}

func TestMemberBalances(t *testing.T) {
	members := []Member{
		{ID: 1, Name: "Laura", Incomes: []Income{{Amount: Money{Cents: 500}}}},
		{ID: 2, Name: "Andrés", Incomes: []Income{{Amount: Money{Cents: 100}}}},
	}
	expenses := []Expense{
		{ResponsibleID: 1, Amount: Money{Cents: 200}},
		{ResponsibleID: 2, Amount: Money{Cents: 300}},
		{ResponsibleID: 99, Amount: Money{Cents: 50}}, // dangling responsible
	}

	balances := MemberBalances(members, expenses)
	if len(balances) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(balances))
	}
	if balances[0].Balance.Cents != 300 || balances[0].OverBudget {
		t.Fatalf("laura: %+v", balances[0])
	}
	if balances[1].Balance.Cents != -200 || !balances[1].OverBudget {
		t.Fatalf("andrés: %+v", balances[1])
	}
}

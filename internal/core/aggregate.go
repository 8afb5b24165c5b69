package core

import (
	"sort"
	"time"
)

// HighCommitmentPct is the income-commitment percentage above which the
// summary carries a warning. Cosmetic threshold, not a hard limit.
const HighCommitmentPct = 40.0

// Summary holds every derived monthly figure. Nothing here is stored; it is
// recomputed from the current snapshot on each read.
type Summary struct {
	Year  int
	Month int // 1-12

	TotalIncome   Money
	TotalExpenses Money // all time, every expense
	TotalMonthly  Money // billed in the month window
	PaidMonthly   Money
	PendingMonthly Money

	PaymentProgressPct  float64
	IncomeCommitmentPct float64
	HighCommitment      bool

	ByCategory []CategoryShare
}

// CategoryShare is one row of the per-category breakdown, sorted descending
// by amount. Percent is relative to all-time total expenses.
type CategoryShare struct {
	Tag     CategoryTag
	Label   string
	Amount  Money
	Percent float64
}

// MemberBalance is the individual view: income minus the expenses the member
// is responsible for.
type MemberBalance struct {
	MemberID   int64
	Name       string
	Income     Money
	Expenses   Money
	Balance    Money
	OverBudget bool
}

// Summarize computes the monthly aggregate view for the (year, month) of ref.
// All percentages guard division by zero by returning 0.
func Summarize(ref time.Time, members []Member, expenses []Expense) Summary {
	s := Summary{Year: ref.Year(), Month: int(ref.Month())}

	for _, m := range members {
		for _, in := range m.Incomes {
			s.TotalIncome.Cents += in.Amount.Cents
		}
	}
	for _, e := range expenses {
		s.TotalExpenses.Cents += e.Amount.Cents
	}

	for _, e := range MonthWindow(ref, expenses) {
		s.TotalMonthly.Cents += e.Amount.Cents
		if e.Status == StatusPaid {
			s.PaidMonthly.Cents += e.Amount.Cents
		}
	}
	s.PendingMonthly.Cents = s.TotalMonthly.Cents - s.PaidMonthly.Cents

	if s.TotalMonthly.Cents != 0 {
		s.PaymentProgressPct = 100 * float64(s.PaidMonthly.Cents) / float64(s.TotalMonthly.Cents)
	}
	if s.TotalIncome.Cents != 0 {
		s.IncomeCommitmentPct = 100 * float64(s.TotalMonthly.Cents) / float64(s.TotalIncome.Cents)
	}
	s.HighCommitment = s.IncomeCommitmentPct > HighCommitmentPct

	s.ByCategory = CategoryBreakdown(expenses)
	return s
}

// CategoryBreakdown sums every expense by category and returns the categories
// with a positive amount, sorted descending by amount. Percentages are of the
// all-time expense total and sum to ~100 when that total is positive.
func CategoryBreakdown(expenses []Expense) []CategoryShare {
	var total int64
	byTag := make(map[CategoryTag]int64)
	for _, e := range expenses {
		total += e.Amount.Cents
		byTag[e.Category] += e.Amount.Cents
	}

	shares := make([]CategoryShare, 0, len(byTag))
	for tag, cents := range byTag {
		if cents <= 0 {
			continue
		}
		share := CategoryShare{Tag: tag, Label: tag.Label(), Amount: Money{Cents: cents}}
		if total != 0 {
			share.Percent = 100 * float64(cents) / float64(total)
		}
		shares = append(shares, share)
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Amount.Cents != shares[j].Amount.Cents {
			return shares[i].Amount.Cents > shares[j].Amount.Cents
		}
		return shares[i].Tag < shares[j].Tag
	})
	return shares
}

// MemberBalances computes the individual view for every member. Expenses
// whose responsible member no longer exists are attributed to nobody here;
// display layers resolve them to "unknown".
func MemberBalances(members []Member, expenses []Expense) []MemberBalance {
	spent := make(map[int64]int64)
	for _, e := range expenses {
		spent[e.ResponsibleID] += e.Amount.Cents
	}

	out := make([]MemberBalance, 0, len(members))
	for _, m := range members {
		var income int64
		for _, in := range m.Incomes {
			income += in.Amount.Cents
		}
		b := MemberBalance{
			MemberID: m.ID,
			Name:     m.Name,
			Income:   Money{Cents: income},
			Expenses: Money{Cents: spent[m.ID]},
		}
		b.Balance.Cents = b.Income.Cents - b.Expenses.Cents
		b.OverBudget = b.Expenses.Cents > b.Income.Cents
		out = append(out, b)
	}
	return out
}

package ledger

import (
	"fmt"
	"sort"
	"time"

	"hogar/internal/core"
)

// BatchUpdate is the "monthly values" workflow input: confirmed amounts for
// variable expenses still open in the current month, and payments made on
// credit cards. The two sets are independent; a stale id in one never blocks
// the other.
type BatchUpdate struct {
	ExpenseAmounts map[int64]core.Money `json:"expense_amounts"`
	CardPayments   map[int64]core.Money `json:"card_payments"`
}

// BatchResult reports what a reconciliation batch actually did. Skipped
// counts entries with non-positive amounts ("leave blank to skip") plus
// entries whose target could not be applied.
type BatchResult struct {
	UpdatedExpenses []int64        `json:"updated_expenses"`
	CreatedExpenses []core.Expense `json:"created_expenses"`
	Skipped         int            `json:"skipped"`
}

// Reconcile applies a batch update against the month window of now.
//
// Variable-expense updates overwrite the amount of an unpaid variable
// recurring expense due this month and mark it confirmed; identity, due date
// and status are untouched. A paid expense is never reset.
//
// Card payments materialize a new one-off expense per card: titled from the
// card, categorized as debt, due today, owned by the card's owner, pending.
func (l *Ledger) Reconcile(now time.Time, batch BatchUpdate) BatchResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	var res BatchResult
	today := core.NewDate(now.Year(), int(now.Month()), now.Day())

	for _, id := range sortedIDs(batch.ExpenseAmounts) {
		amount := batch.ExpenseAmounts[id]
		if amount.Cents <= 0 {
			res.Skipped++
			continue
		}
		i := l.expenseIndex(id)
		if i < 0 {
			res.Skipped++
			continue
		}
		e := &l.expenses[i]
		if !e.Recurring || e.Recurrence != core.RecurrenceVariable || !e.DueDate.SameMonth(now) || e.Status == core.StatusPaid {
			res.Skipped++
			continue
		}
		e.Amount = amount
		e.AmountStatus = core.AmountConfirmed
		res.UpdatedExpenses = append(res.UpdatedExpenses, id)
	}

	for _, cardID := range sortedIDs(batch.CardPayments) {
		amount := batch.CardPayments[cardID]
		if amount.Cents <= 0 {
			res.Skipped++
			continue
		}
		card, ok := l.findCard(cardID)
		if !ok {
			res.Skipped++
			continue
		}
		e := core.Expense{
			ID:            l.mintID(),
			Title:         fmt.Sprintf("Pago %s *%s", card.Name, card.Last4),
			Amount:        amount,
			AmountStatus:  core.AmountConfirmed,
			Category:      core.CategoryDeudas,
			DueDate:       today,
			ResponsibleID: card.OwnerID,
			Status:        core.StatusPending,
		}
		l.expenses = append(l.expenses, e)
		res.CreatedExpenses = append(res.CreatedExpenses, e)
	}

	return res
}

func (l *Ledger) findCard(id int64) (core.Card, bool) {
	for _, m := range l.members {
		for _, c := range m.Cards {
			if c.ID == id {
				return c, true
			}
		}
	}
	return core.Card{}, false
}

// sortedIDs keeps batch application deterministic regardless of map order.
func sortedIDs(m map[int64]core.Money) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

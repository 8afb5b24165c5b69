package core

import "time"

// MonthWindow selects the expenses whose due date falls in the same calendar
// (year, month) as ref. Expenses without a due date are excluded. The input
// is never mutated and the same input always yields the same output set.
func MonthWindow(ref time.Time, expenses []Expense) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if e.DueDate.IsZero() {
			continue
		}
		if e.DueDate.SameMonth(ref) {
			out = append(out, e)
		}
	}
	return out
}

package ocr

import (
	"strings"
	"time"

	"hogar/internal/core"
)

const fallbackTitle = "Factura"

// Draft maps a suggestion into a pre-filled expense. Unknown catalog tags
// fall back to otros, bad amounts fall back to zero, and bad dates fall back
// to today; the result still goes through the normal create validation when
// the user submits it.
func Draft(s Suggestion, responsibleID int64, now time.Time) core.Expense {
	e := core.Expense{
		Title:         strings.TrimSpace(s.Title),
		Provider:      strings.TrimSpace(s.Provider),
		Category:      core.CategoryOtros,
		Status:        core.StatusPending,
		ResponsibleID: responsibleID,
		DueDate:       core.NewDate(now.Year(), int(now.Month()), now.Day()),
	}
	if e.Title == "" {
		e.Title = fallbackTitle
	}

	tag := core.CategoryTag(strings.ToLower(strings.TrimSpace(s.Category)))
	if tag.Validate() == nil {
		e.Category = tag
	}

	if cents, err := core.ParseDecimalToCents(s.Amount); err == nil {
		e.Amount = core.Money{Cents: cents}
	}

	if d, err := time.Parse("2006-01-02", s.DueDate); err == nil {
		e.DueDate = core.NewDate(d.Year(), int(d.Month()), d.Day())
	}

	policy := core.ClassifyCategory(e.Category)
	e.Recurring = policy.Recurring || s.Recurring
	if e.Recurring {
		e.Recurrence = policy.Recurrence
		if e.Recurrence == "" {
			e.Recurrence = core.RecurrenceFixed
		}
	}
	if e.Recurring && e.Recurrence == core.RecurrenceVariable {
		e.AmountStatus = core.AmountEstimated
	} else {
		e.AmountStatus = core.AmountConfirmed
	}

	if e.Category == core.CategoryServicios {
		st := core.ServiceType(strings.ToLower(strings.TrimSpace(s.ServiceType)))
		if st.Validate() == nil {
			e.ServiceType = st
		}
	}
	return e
}

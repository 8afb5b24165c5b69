package core

import (
	"errors"
	"strings"
	"time"
)

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"

	RecurrenceFixed    Recurrence = "fixed"
	RecurrenceVariable Recurrence = "variable"

	StatusPending ExpenseStatus = "pending"
	StatusPaid    ExpenseStatus = "paid"

	AmountEstimated AmountStatus = "estimated"
	AmountConfirmed AmountStatus = "confirmed"

	RateEffectiveAnnual RateType = "EA"
	RateMonthlyNominal  RateType = "MV"
)

type (
	Role          string
	Recurrence    string
	ExpenseStatus string
	AmountStatus  string
	RateType      string

	Date struct {
		time.Time
	}

	// Member is one person in the household. Incomes, cards and loans are
	// owned exclusively by their member.
	Member struct {
		ID      int64
		Name    string
		Email   string
		Role    Role
		Incomes []Income
		Cards   []Card
		Loans   []Loan
	}

	Income struct {
		ID       int64
		Source   string
		Amount   Money
		Variable bool
	}

	// Expense is a dated obligation. A recurring expense with variable
	// recurrence is "awaiting its real amount" until reconciled; its
	// AmountStatus stays estimated until the batch update confirms it.
	Expense struct {
		ID            int64
		Title         string
		Amount        Money
		AmountStatus  AmountStatus
		Category      CategoryTag
		DueDate       Date
		ResponsibleID int64
		Recurring     bool
		Recurrence    Recurrence
		AutoDebit     bool
		Status        ExpenseStatus
		PaymentURL    string
		// BillArrivalDay is the day of month the real bill is expected,
		// meaningful only for recurring variable expenses.
		BillArrivalDay int
		ServiceType    ServiceType
		Provider       string
	}

	Card struct {
		ID        int64
		Name      string
		Last4     string
		CutoffDay int
		OwnerID   int64
	}

	Loan struct {
		ID          int64
		Bank        BankTag // empty when the lender is a person
		Lender      string  // free-text person name when Bank is empty
		Label       string
		Principal   Money
		RatePercent float64
		RateType    RateType
		TermMonths  int
		DisbursedOn Date
		AutoDebit   bool
	}

	// Settings is process-wide household configuration.
	Settings struct {
		Currency string
		Country  string
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyTitle         = errors.New("empty title")
	ErrEmptyName          = errors.New("empty name")
	ErrEmptySource        = errors.New("empty income source")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidRecurrence  = errors.New("invalid recurrence type")
	ErrInvalidStatus      = errors.New("invalid expense status")
	ErrInvalidDay         = errors.New("day must be between 1 and 31")
	ErrInvalidLast4       = errors.New("last4 must be four digits")
	ErrMissingResponsible = errors.New("missing responsible member")
	ErrMissingLender      = errors.New("missing lender")
)

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date at UTC midnight.
func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// SameMonth reports whether d falls in the same calendar (year, month) as t.
// Day-of-month and time-of-day never participate in the comparison.
func (d Date) SameMonth(t time.Time) bool {
	return d.Year() == t.Year() && d.Month() == t.Month()
}

func (r Role) Validate() error {
	switch r {
	case RoleAdmin, RoleMember:
		return nil
	default:
		return ErrInvalidRole
	}
}

func (s ExpenseStatus) Validate() error {
	switch s {
	case StatusPending, StatusPaid:
		return nil
	default:
		return ErrInvalidStatus
	}
}

// Toggle flips pending to paid and paid to pending. Toggling twice returns
// the original status.
func (s ExpenseStatus) Toggle() ExpenseStatus {
	if s == StatusPaid {
		return StatusPending
	}
	return StatusPaid
}

func (m Member) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if !strings.Contains(m.Email, "@") {
		return errors.New("invalid email")
	}
	if err := m.Role.Validate(); err != nil {
		return err
	}
	return nil
}

func (i Income) Validate() error {
	if strings.TrimSpace(i.Source) == "" {
		return ErrEmptySource
	}
	return i.Amount.Validate()
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if len(e.Title) > 200 {
		return errors.New("title too long (max 200 characters)")
	}
	if err := e.DueDate.Validate(); err != nil {
		return err
	}
	if e.ResponsibleID <= 0 {
		return ErrMissingResponsible
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Category.Validate(); err != nil {
		return err
	}
	if e.Recurring {
		switch e.Recurrence {
		case RecurrenceFixed, RecurrenceVariable:
		default:
			return ErrInvalidRecurrence
		}
	} else if e.Recurrence != "" {
		// A recurrence type is meaningless on a one-off expense.
		return ErrInvalidRecurrence
	}
	if e.BillArrivalDay != 0 {
		if e.BillArrivalDay < 1 || e.BillArrivalDay > 31 {
			return ErrInvalidDay
		}
		if !e.Recurring || e.Recurrence != RecurrenceVariable {
			return errors.New("bill arrival day only applies to variable recurring expenses")
		}
	}
	if e.ServiceType != "" {
		if e.Category != CategoryServicios {
			return errors.New("service type only applies to the servicios category")
		}
		if err := e.ServiceType.Validate(); err != nil {
			return err
		}
	}
	if err := e.Status.Validate(); err != nil {
		return err
	}
	return nil
}

func (c Card) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Last4) != 4 {
		return ErrInvalidLast4
	}
	for _, r := range c.Last4 {
		if r < '0' || r > '9' {
			return ErrInvalidLast4
		}
	}
	if c.CutoffDay < 1 || c.CutoffDay > 31 {
		return ErrInvalidDay
	}
	if c.OwnerID <= 0 {
		return ErrMissingResponsible
	}
	return nil
}

func (l Loan) Validate() error {
	if l.Bank == "" && strings.TrimSpace(l.Lender) == "" {
		return ErrMissingLender
	}
	if l.Bank != "" {
		if err := l.Bank.Validate(); err != nil {
			return err
		}
	}
	if l.Principal.Cents <= 0 {
		return ErrInvalidAmount
	}
	if l.RatePercent < 0 {
		return ErrInvalidAmount
	}
	switch l.RateType {
	case RateEffectiveAnnual, RateMonthlyNominal:
	default:
		return errors.New("invalid rate type")
	}
	if l.TermMonths <= 0 {
		return errors.New("term must be at least one month")
	}
	if err := l.DisbursedOn.Validate(); err != nil {
		return err
	}
	return nil
}

package core

import (
	"testing"
	"time"
)

func validExpense() Expense {
	return Expense{
		Title:         "Energía noviembre",
		Amount:        Money{Cents: 8500000},
		AmountStatus:  AmountEstimated,
		Category:      CategoryServicios,
		DueDate:       NewDate(2023, 11, 28),
		ResponsibleID: 1,
		Recurring:     true,
		Recurrence:    RecurrenceVariable,
		Status:        StatusPending,
	}
}

func TestExpenseValidate(t *testing.T) {
	if err := validExpense().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Expense)
	}{
		{"empty title", func(e *Expense) { e.Title = "  " }},
		{"zero due date", func(e *Expense) { e.DueDate = Date{Time: time.Time{}} }},
		{"no responsible", func(e *Expense) { e.ResponsibleID = 0 }},
		{"negative amount", func(e *Expense) { e.Amount = Money{Cents: -1} }},
		{"unknown category", func(e *Expense) { e.Category = "loteria" }},
		{"recurring without type", func(e *Expense) { e.Recurrence = "" }},
		{"recurrence on one-off", func(e *Expense) { e.Recurring = false }},
		{"bill day out of range", func(e *Expense) { e.BillArrivalDay = 32 }},
		{"bill day on fixed expense", func(e *Expense) {
			e.Recurrence = RecurrenceFixed
			e.BillArrivalDay = 15
		}},
		{"service type outside servicios", func(e *Expense) {
			e.Category = CategoryStreaming
			e.Recurring = true
			e.Recurrence = RecurrenceFixed
			e.ServiceType = ServiceEnergia
		}},
		{"unknown service type", func(e *Expense) { e.ServiceType = "carbon" }},
		{"bad status", func(e *Expense) { e.Status = "archived" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := validExpense()
			tc.mutate(&e)
			if err := e.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestExpenseZeroAmountAllowed(t *testing.T) {
	e := validExpense()
	e.Amount = Money{}
	if err := e.Validate(); err != nil {
		t.Fatalf("variable expense awaiting reconciliation must validate, got %v", err)
	}
}

func TestMemberValidate(t *testing.T) {
	m := Member{Name: "Laura", Email: "laura@example.com", Role: RoleAdmin}
	if err := m.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Member{
		{Name: "", Email: "a@b.co", Role: RoleMember},
		{Name: "x", Email: "not-an-email", Role: RoleMember},
		{Name: "x", Email: "a@b.co", Role: "owner"},
	}
	for i, m := range bads {
		if err := m.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCardValidate(t *testing.T) {
	c := Card{Name: "Visa Gold", Last4: "4242", CutoffDay: 15, OwnerID: 1}
	if err := c.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Card{
		{Name: "", Last4: "4242", CutoffDay: 15, OwnerID: 1},
		{Name: "x", Last4: "424", CutoffDay: 15, OwnerID: 1},
		{Name: "x", Last4: "42ab", CutoffDay: 15, OwnerID: 1},
		{Name: "x", Last4: "4242", CutoffDay: 0, OwnerID: 1},
		{Name: "x", Last4: "4242", CutoffDay: 32, OwnerID: 1},
		{Name: "x", Last4: "4242", CutoffDay: 15, OwnerID: 0},
	}
	for i, c := range bads {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestLoanValidate(t *testing.T) {
	l := Loan{
		Bank:        BankBancolombia,
		Label:       "Hipoteca",
		Principal:   Money{Cents: 12_000_000_000},
		RatePercent: 12.5,
		RateType:    RateEffectiveAnnual,
		TermMonths:  240,
		DisbursedOn: NewDate(2023, 1, 15),
	}
	if err := l.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	person := l
	person.Bank = ""
	person.Lender = "Tía Marta"
	if err := person.Validate(); err != nil {
		t.Fatalf("person lender must validate, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Loan)
	}{
		{"no lender at all", func(l *Loan) { l.Bank = ""; l.Lender = " " }},
		{"unknown bank", func(l *Loan) { l.Bank = "banco_pirata" }},
		{"zero principal", func(l *Loan) { l.Principal = Money{} }},
		{"negative rate", func(l *Loan) { l.RatePercent = -1 }},
		{"bad rate type", func(l *Loan) { l.RateType = "APR" }},
		{"zero term", func(l *Loan) { l.TermMonths = 0 }},
		{"zero disbursement date", func(l *Loan) { l.DisbursedOn = Date{} }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bad := l
			tc.mutate(&bad)
			if err := bad.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestStatusToggle(t *testing.T) {
	if StatusPending.Toggle() != StatusPaid {
		t.Fatalf("pending must toggle to paid")
	}
	if StatusPaid.Toggle() != StatusPending {
		t.Fatalf("paid must toggle to pending")
	}
	for _, s := range []ExpenseStatus{StatusPending, StatusPaid} {
		if s.Toggle().Toggle() != s {
			t.Fatalf("double toggle must return to %s", s)
		}
	}
}

func TestDateSameMonth(t *testing.T) {
	d := NewDate(2023, 11, 28)
	cases := []struct {
		ref  time.Time
		want bool
	}{
		{time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC), true},
		{time.Date(2023, 11, 30, 23, 59, 59, 0, time.UTC), true},
		{time.Date(2023, 10, 28, 0, 0, 0, 0, time.UTC), false},
		{time.Date(2024, 11, 28, 0, 0, 0, 0, time.UTC), false},
	}
	for i, tc := range cases {
		if got := d.SameMonth(tc.ref); got != tc.want {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}

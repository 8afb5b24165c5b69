package google

import (
	"testing"
	"time"

	"hogar/internal/core"
	"hogar/internal/ledger"
)

func testSnapshot() ledger.Snapshot {
	return ledger.Snapshot{
		Members: []core.Member{
			{
				ID: 1, Name: "Clara", Email: "clara@example.com", Role: core.RoleAdmin,
				Incomes: []core.Income{{ID: 10, Source: "salario", Amount: core.Money{Cents: 4_500_000_00}}},
				Cards:   []core.Card{{ID: 20, Name: "Visa", Last4: "4821", CutoffDay: 15, OwnerID: 1}},
				Loans: []core.Loan{{
					ID: 30, Bank: core.BankBancolombia, Label: "Hipoteca",
					Principal: core.Money{Cents: 120_000_000_00}, RatePercent: 12.5,
					RateType: core.RateEffectiveAnnual, TermMonths: 240,
					DisbursedOn: core.NewDate(2024, 3, 1),
				}},
			},
			{ID: 2, Name: "Mateo", Email: "mateo@example.com", Role: core.RoleMember},
		},
		Expenses: []core.Expense{
			{
				ID: 40, Title: "Arriendo", Amount: core.Money{Cents: 1_800_000_00},
				AmountStatus: core.AmountConfirmed, Category: core.CategoryVivienda,
				DueDate: core.NewDate(2026, 8, 5), ResponsibleID: 1,
				Recurring: true, Recurrence: core.RecurrenceFixed, Status: core.StatusPaid,
			},
			{
				ID: 41, Title: "Energía", Amount: core.Money{Cents: 185_430_00},
				AmountStatus: core.AmountEstimated, Category: core.CategoryServicios,
				DueDate: core.NewDate(2026, 8, 18), ResponsibleID: 99,
				Recurring: true, Recurrence: core.RecurrenceVariable, Status: core.StatusPending,
			},
		},
		Settings: core.Settings{Currency: "COP", Country: "CO"},
	}
}

func TestExpenseRows(t *testing.T) {
	rows := expenseRows(testSnapshot())
	if len(rows) != 3 {
		t.Fatalf("want header + 2 rows, got %d", len(rows))
	}
	arriendo := rows[1]
	if arriendo[1] != "Arriendo" || arriendo[2] != 1_800_000.0 || arriendo[6] != "Clara" {
		t.Errorf("unexpected row %v", arriendo)
	}
	energia := rows[2]
	if energia[6] != "unknown" {
		t.Errorf("dangling responsible should render as unknown, got %v", energia[6])
	}
	if energia[7] != "variable" {
		t.Errorf("recurrence cell = %v", energia[7])
	}
}

func TestNestedEntityRows(t *testing.T) {
	snap := testSnapshot()

	if rows := incomeRows(snap.Members); len(rows) != 2 || rows[1][1] != "Clara" || rows[1][3] != 4_500_000.0 {
		t.Errorf("income rows = %v", rows)
	}
	if rows := cardRows(snap.Members); len(rows) != 2 || rows[1][3] != "4821" {
		t.Errorf("card rows = %v", rows)
	}
	rows := loanRows(snap.Members)
	if len(rows) != 2 {
		t.Fatalf("loan rows = %v", rows)
	}
	if rows[1][2] != "Bancolombia" {
		t.Errorf("bank tag should render its label, got %v", rows[1][2])
	}
	if rows[1][8] != "2024-03-01" {
		t.Errorf("disbursed date cell = %v", rows[1][8])
	}
}

func TestSummaryRows(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	rows := summaryRows(testSnapshot(), 7, now)

	if rows[0][1] != "2026-08" {
		t.Errorf("period cell = %v", rows[0][1])
	}
	if rows[1][1] != int64(7) {
		t.Errorf("revision cell = %v", rows[1][1])
	}
	// Both expenses fall in August 2026, only Arriendo is paid.
	var paid any
	for _, r := range rows {
		if len(r) == 2 && r[0] == "Pagado" {
			paid = r[1]
		}
	}
	if paid != 1_800_000.0 {
		t.Errorf("paid cell = %v", paid)
	}
}

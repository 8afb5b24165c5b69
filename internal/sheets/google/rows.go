package google

import (
	"fmt"
	"time"

	"hogar/internal/core"
	"hogar/internal/ledger"
)

// Row builders turn a snapshot into spreadsheet values. Amounts are written
// as decimal units so the sheet can format them as currency.

func pesos(m core.Money) float64 {
	return float64(m.Cents) / 100.0
}

func dateCell(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

func memberRows(members []core.Member) [][]any {
	rows := [][]any{{"ID", "Nombre", "Email", "Rol"}}
	for _, m := range members {
		rows = append(rows, []any{m.ID, m.Name, m.Email, string(m.Role)})
	}
	return rows
}

func incomeRows(members []core.Member) [][]any {
	rows := [][]any{{"ID", "Miembro", "Fuente", "Monto", "Variable"}}
	for _, m := range members {
		for _, in := range m.Incomes {
			rows = append(rows, []any{in.ID, m.Name, in.Source, pesos(in.Amount), in.Variable})
		}
	}
	return rows
}

func expenseRows(snap ledger.Snapshot) [][]any {
	names := make(map[int64]string, len(snap.Members))
	for _, m := range snap.Members {
		names[m.ID] = m.Name
	}
	rows := [][]any{{"ID", "Título", "Monto", "Estado monto", "Categoría", "Vence", "Responsable", "Recurrente", "Estado"}}
	for _, e := range snap.Expenses {
		resp := names[e.ResponsibleID]
		if resp == "" {
			resp = "unknown"
		}
		recurrence := ""
		if e.Recurring {
			recurrence = string(e.Recurrence)
		}
		rows = append(rows, []any{
			e.ID, e.Title, pesos(e.Amount), string(e.AmountStatus), string(e.Category),
			dateCell(e.DueDate), resp, recurrence, string(e.Status),
		})
	}
	return rows
}

func cardRows(members []core.Member) [][]any {
	rows := [][]any{{"ID", "Miembro", "Nombre", "Últimos 4", "Día de corte"}}
	for _, m := range members {
		for _, c := range m.Cards {
			rows = append(rows, []any{c.ID, m.Name, c.Name, c.Last4, c.CutoffDay})
		}
	}
	return rows
}

func loanRows(members []core.Member) [][]any {
	rows := [][]any{{"ID", "Miembro", "Prestamista", "Etiqueta", "Capital", "Tasa", "Tipo", "Plazo", "Desembolso"}}
	for _, m := range members {
		for _, l := range m.Loans {
			lender := l.Lender
			if l.Bank != "" {
				lender = l.Bank.Label()
			}
			rows = append(rows, []any{
				l.ID, m.Name, lender, l.Label, pesos(l.Principal),
				l.RatePercent, string(l.RateType), l.TermMonths, dateCell(l.DisbursedOn),
			})
		}
	}
	return rows
}

func summaryRows(snap ledger.Snapshot, revision int64, now time.Time) [][]any {
	s := core.Summarize(now, snap.Members, snap.Expenses)
	rows := [][]any{
		{"Resumen", fmt.Sprintf("%04d-%02d", s.Year, s.Month)},
		{"Revisión", revision},
		{"Ingresos totales", pesos(s.TotalIncome)},
		{"Gastos del mes", pesos(s.TotalMonthly)},
		{"Pagado", pesos(s.PaidMonthly)},
		{"Pendiente", pesos(s.PendingMonthly)},
		{"Progreso de pago %", s.PaymentProgressPct},
		{"Compromiso de ingreso %", s.IncomeCommitmentPct},
		{},
		{"Categoría", "Monto", "%"},
	}
	for _, share := range s.ByCategory {
		rows = append(rows, []any{share.Label, pesos(share.Amount), share.Percent})
	}
	return rows
}

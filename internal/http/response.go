package http

import (
	"hogar/internal/core"
	"hogar/internal/ledger"
)

type incomeResponse struct {
	ID       int64  `json:"id"`
	Source   string `json:"source"`
	Cents    int64  `json:"amount_cents"`
	Variable bool   `json:"variable"`
}

type cardResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Last4     string `json:"last4"`
	CutoffDay int    `json:"cutoff_day"`
	OwnerID   int64  `json:"owner_id"`
}

type loanResponse struct {
	ID          int64   `json:"id"`
	Bank        string  `json:"bank,omitempty"`
	Lender      string  `json:"lender,omitempty"`
	Label       string  `json:"label"`
	Cents       int64   `json:"principal_cents"`
	RatePercent float64 `json:"rate_percent"`
	RateType    string  `json:"rate_type"`
	TermMonths  int     `json:"term_months"`
	DisbursedOn string  `json:"disbursed_on,omitempty"`
	AutoDebit   bool    `json:"auto_debit"`
}

type memberResponse struct {
	ID      int64            `json:"id"`
	Name    string           `json:"name"`
	Email   string           `json:"email"`
	Role    string           `json:"role"`
	Incomes []incomeResponse `json:"incomes"`
	Cards   []cardResponse   `json:"cards"`
	Loans   []loanResponse   `json:"loans"`
}

type expenseResponse struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Cents          int64  `json:"amount_cents"`
	AmountStatus   string `json:"amount_status"`
	Category       string `json:"category"`
	DueDate        string `json:"due_date"`
	ResponsibleID  int64  `json:"responsible_id"`
	Responsible    string `json:"responsible"`
	Recurring      bool   `json:"recurring"`
	Recurrence     string `json:"recurrence,omitempty"`
	AutoDebit      bool   `json:"auto_debit"`
	Status         string `json:"status"`
	PaymentURL     string `json:"payment_url,omitempty"`
	BillArrivalDay int    `json:"bill_arrival_day,omitempty"`
	ServiceType    string `json:"service_type,omitempty"`
	Provider       string `json:"provider,omitempty"`
}

type categoryShareResponse struct {
	Tag     string  `json:"tag"`
	Label   string  `json:"label"`
	Cents   int64   `json:"amount_cents"`
	Percent float64 `json:"percent"`
}

type balanceResponse struct {
	MemberID   int64  `json:"member_id"`
	Name       string `json:"name"`
	Income     int64  `json:"income_cents"`
	Expenses   int64  `json:"expenses_cents"`
	Balance    int64  `json:"balance_cents"`
	OverBudget bool   `json:"over_budget"`
}

type dashboardResponse struct {
	Year                int                     `json:"year"`
	Month               int                     `json:"month"`
	TotalIncome         int64                   `json:"total_income_cents"`
	TotalExpenses       int64                   `json:"total_expenses_cents"`
	TotalMonthly        int64                   `json:"total_monthly_cents"`
	PaidMonthly         int64                   `json:"paid_monthly_cents"`
	PendingMonthly      int64                   `json:"pending_monthly_cents"`
	PaymentProgressPct  float64                 `json:"payment_progress_pct"`
	IncomeCommitmentPct float64                 `json:"income_commitment_pct"`
	HighCommitment      bool                    `json:"high_commitment"`
	ByCategory          []categoryShareResponse `json:"by_category"`
	Window              []expenseResponse       `json:"window"`
}

type reconcileResponse struct {
	UpdatedExpenses []int64           `json:"updated_expenses"`
	CreatedExpenses []expenseResponse `json:"created_expenses"`
	Skipped         int               `json:"skipped"`
}

type estimateResponse struct {
	InstallmentCents int64 `json:"installment_cents"`
	TermMonths       int   `json:"term_months"`
	TotalCents       int64 `json:"total_cents"`
}

func toIncomeResponse(in core.Income) incomeResponse {
	return incomeResponse{ID: in.ID, Source: in.Source, Cents: in.Amount.Cents, Variable: in.Variable}
}

func toCardResponse(c core.Card) cardResponse {
	return cardResponse{ID: c.ID, Name: c.Name, Last4: c.Last4, CutoffDay: c.CutoffDay, OwnerID: c.OwnerID}
}

func toLoanResponse(l core.Loan) loanResponse {
	out := loanResponse{
		ID:          l.ID,
		Bank:        string(l.Bank),
		Lender:      l.Lender,
		Label:       l.Label,
		Cents:       l.Principal.Cents,
		RatePercent: l.RatePercent,
		RateType:    string(l.RateType),
		TermMonths:  l.TermMonths,
		AutoDebit:   l.AutoDebit,
	}
	if !l.DisbursedOn.IsZero() {
		out.DisbursedOn = l.DisbursedOn.Format(dateLayout)
	}
	return out
}

func toMemberResponse(m core.Member) memberResponse {
	out := memberResponse{
		ID:      m.ID,
		Name:    m.Name,
		Email:   m.Email,
		Role:    string(m.Role),
		Incomes: make([]incomeResponse, 0, len(m.Incomes)),
		Cards:   make([]cardResponse, 0, len(m.Cards)),
		Loans:   make([]loanResponse, 0, len(m.Loans)),
	}
	for _, in := range m.Incomes {
		out.Incomes = append(out.Incomes, toIncomeResponse(in))
	}
	for _, c := range m.Cards {
		out.Cards = append(out.Cards, toCardResponse(c))
	}
	for _, l := range m.Loans {
		out.Loans = append(out.Loans, toLoanResponse(l))
	}
	return out
}

func (s *Server) toExpenseResponse(e core.Expense) expenseResponse {
	out := expenseResponse{
		ID:             e.ID,
		Title:          e.Title,
		Cents:          e.Amount.Cents,
		AmountStatus:   string(e.AmountStatus),
		Category:       string(e.Category),
		ResponsibleID:  e.ResponsibleID,
		Responsible:    s.svc.ResponsibleName(e.ResponsibleID),
		Recurring:      e.Recurring,
		AutoDebit:      e.AutoDebit,
		Status:         string(e.Status),
		PaymentURL:     e.PaymentURL,
		BillArrivalDay: e.BillArrivalDay,
		ServiceType:    string(e.ServiceType),
		Provider:       e.Provider,
	}
	if e.Recurring {
		out.Recurrence = string(e.Recurrence)
	}
	if !e.DueDate.IsZero() {
		out.DueDate = e.DueDate.Format(dateLayout)
	}
	return out
}

func (s *Server) toExpenseResponses(expenses []core.Expense) []expenseResponse {
	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, s.toExpenseResponse(e))
	}
	return out
}

func (s *Server) toReconcileResponse(result ledger.BatchResult) reconcileResponse {
	out := reconcileResponse{
		UpdatedExpenses: result.UpdatedExpenses,
		CreatedExpenses: s.toExpenseResponses(result.CreatedExpenses),
		Skipped:         result.Skipped,
	}
	if out.UpdatedExpenses == nil {
		out.UpdatedExpenses = []int64{}
	}
	return out
}

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"hogar/internal/core"
	"hogar/internal/ledger"
)

const dateLayout = "2006-01-02"

var errBadID = errors.New("invalid id in path")

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

func parseAmount(s string) (core.Money, error) {
	cents, err := core.ParseDecimalToCents(s)
	if err != nil {
		return core.Money{}, err
	}
	return core.Money{Cents: cents}, nil
}

func parseDate(s string) (core.Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}, fmt.Errorf("%w: want YYYY-MM-DD", core.ErrInvalidDate)
	}
	return core.NewDate(t.Year(), int(t.Month()), t.Day()), nil
}

type memberRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type incomeRequest struct {
	Source   string `json:"source"`
	Amount   string `json:"amount"`
	Variable *bool  `json:"variable"`
}

func (req incomeRequest) toIncome(id int64) (core.Income, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Income{}, err
	}
	in := core.Income{ID: id, Source: req.Source, Amount: amount}
	if req.Variable != nil {
		in.Variable = *req.Variable
	} else {
		in.Variable = core.ClassifyIncomeSource(req.Source)
	}
	return in, nil
}

type expenseRequest struct {
	Title          string `json:"title"`
	Amount         string `json:"amount"`
	Category       string `json:"category"`
	DueDate        string `json:"due_date"`
	ResponsibleID  int64  `json:"responsible_id"`
	Recurring      *bool  `json:"recurring"`
	Recurrence     string `json:"recurrence"`
	AutoDebit      bool   `json:"auto_debit"`
	PaymentURL     string `json:"payment_url"`
	BillArrivalDay int    `json:"bill_arrival_day"`
	ServiceType    string `json:"service_type"`
	Provider       string `json:"provider"`
}

// toExpense builds a draft for creation. When the client does not choose a
// recurrence the category's catalog default applies.
func (req expenseRequest) toExpense() (core.Expense, error) {
	amount := core.Money{}
	if req.Amount != "" {
		var err error
		amount, err = parseAmount(req.Amount)
		if err != nil {
			return core.Expense{}, err
		}
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		return core.Expense{}, err
	}

	e := core.Expense{
		Title:          req.Title,
		Amount:         amount,
		Category:       core.CategoryTag(req.Category),
		DueDate:        due,
		ResponsibleID:  req.ResponsibleID,
		AutoDebit:      req.AutoDebit,
		PaymentURL:     req.PaymentURL,
		BillArrivalDay: req.BillArrivalDay,
		ServiceType:    core.ServiceType(req.ServiceType),
		Provider:       req.Provider,
	}

	switch {
	case req.Recurring != nil:
		e.Recurring = *req.Recurring
		e.Recurrence = core.Recurrence(req.Recurrence)
	case req.Recurrence != "":
		e.Recurring = true
		e.Recurrence = core.Recurrence(req.Recurrence)
	default:
		policy := core.ClassifyCategory(e.Category)
		e.Recurring = policy.Recurring
		e.Recurrence = policy.Recurrence
	}
	return e, nil
}

type expenseUpdateRequest struct {
	Title          *string `json:"title"`
	Amount         *string `json:"amount"`
	Category       *string `json:"category"`
	DueDate        *string `json:"due_date"`
	ResponsibleID  *int64  `json:"responsible_id"`
	Recurring      *bool   `json:"recurring"`
	Recurrence     *string `json:"recurrence"`
	AutoDebit      *bool   `json:"auto_debit"`
	PaymentURL     *string `json:"payment_url"`
	BillArrivalDay *int    `json:"bill_arrival_day"`
	ServiceType    *string `json:"service_type"`
	Provider       *string `json:"provider"`
}

func (req expenseUpdateRequest) toUpdate() (ledger.ExpenseUpdate, error) {
	upd := ledger.ExpenseUpdate{
		Title:          req.Title,
		ResponsibleID:  req.ResponsibleID,
		Recurring:      req.Recurring,
		AutoDebit:      req.AutoDebit,
		PaymentURL:     req.PaymentURL,
		BillArrivalDay: req.BillArrivalDay,
		Provider:       req.Provider,
	}
	if req.Amount != nil {
		amount, err := parseAmount(*req.Amount)
		if err != nil {
			return ledger.ExpenseUpdate{}, err
		}
		upd.Amount = &amount
	}
	if req.Category != nil {
		cat := core.CategoryTag(*req.Category)
		upd.Category = &cat
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			return ledger.ExpenseUpdate{}, err
		}
		upd.DueDate = &due
	}
	if req.Recurrence != nil {
		rec := core.Recurrence(*req.Recurrence)
		upd.Recurrence = &rec
	}
	if req.ServiceType != nil {
		st := core.ServiceType(*req.ServiceType)
		upd.ServiceType = &st
	}
	return upd, nil
}

type cardRequest struct {
	Name      string `json:"name"`
	Last4     string `json:"last4"`
	CutoffDay int    `json:"cutoff_day"`
}

func (req cardRequest) toCard(id int64) core.Card {
	return core.Card{ID: id, Name: req.Name, Last4: req.Last4, CutoffDay: req.CutoffDay}
}

type loanRequest struct {
	Bank        string  `json:"bank"`
	Lender      string  `json:"lender"`
	Label       string  `json:"label"`
	Principal   string  `json:"principal"`
	RatePercent float64 `json:"rate_percent"`
	RateType    string  `json:"rate_type"`
	TermMonths  int     `json:"term_months"`
	DisbursedOn string  `json:"disbursed_on"`
	AutoDebit   bool    `json:"auto_debit"`
}

func (req loanRequest) toLoan(id int64) (core.Loan, error) {
	principal, err := parseAmount(req.Principal)
	if err != nil {
		return core.Loan{}, err
	}
	loan := core.Loan{
		ID:          id,
		Bank:        core.BankTag(req.Bank),
		Lender:      req.Lender,
		Label:       req.Label,
		Principal:   principal,
		RatePercent: req.RatePercent,
		RateType:    core.RateType(req.RateType),
		TermMonths:  req.TermMonths,
		AutoDebit:   req.AutoDebit,
	}
	if req.DisbursedOn != "" {
		loan.DisbursedOn, err = parseDate(req.DisbursedOn)
		if err != nil {
			return core.Loan{}, err
		}
	}
	return loan, nil
}

type estimateRequest struct {
	Principal   string  `json:"principal"`
	RatePercent float64 `json:"rate_percent"`
	RateType    string  `json:"rate_type"`
	TermMonths  int     `json:"term_months"`
}

type reconcileRequest struct {
	Expenses []struct {
		ID     int64  `json:"id"`
		Amount string `json:"amount"`
	} `json:"expenses"`
	CardPayments []struct {
		CardID int64  `json:"card_id"`
		Amount string `json:"amount"`
	} `json:"card_payments"`
}

func (req reconcileRequest) toBatch() (ledger.BatchUpdate, error) {
	batch := ledger.BatchUpdate{
		ExpenseAmounts: make(map[int64]core.Money, len(req.Expenses)),
		CardPayments:   make(map[int64]core.Money, len(req.CardPayments)),
	}
	// A blank amount means "leave this entry alone"; the engine counts the
	// resulting zero as skipped.
	for _, item := range req.Expenses {
		amount := core.Money{}
		if strings.TrimSpace(item.Amount) != "" {
			var err error
			amount, err = parseAmount(item.Amount)
			if err != nil {
				return ledger.BatchUpdate{}, fmt.Errorf("expense %d: %w", item.ID, err)
			}
		}
		batch.ExpenseAmounts[item.ID] = amount
	}
	for _, item := range req.CardPayments {
		amount := core.Money{}
		if strings.TrimSpace(item.Amount) != "" {
			var err error
			amount, err = parseAmount(item.Amount)
			if err != nil {
				return ledger.BatchUpdate{}, fmt.Errorf("card %d: %w", item.CardID, err)
			}
		}
		batch.CardPayments[item.CardID] = amount
	}
	return batch, nil
}

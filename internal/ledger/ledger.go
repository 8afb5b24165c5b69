package ledger

import (
	"errors"
	"strings"
	"sync"
	"time"

	"hogar/internal/core"
)

var (
	ErrMemberNotFound  = errors.New("member not found")
	ErrExpenseNotFound = errors.New("expense not found")
	ErrIncomeNotFound  = errors.New("income not found")
	ErrCardNotFound    = errors.New("card not found")
	ErrLoanNotFound    = errors.New("loan not found")
	ErrLastMember      = errors.New("cannot delete the last household member")
	ErrDuplicateEmail  = errors.New("email already registered in household")
)

// Ledger is the household aggregate. All mutations are synchronous state
// transitions through this API; derived views (summary, window, balances)
// are recomputed from the current state on each read, never cached.
type Ledger struct {
	mu       sync.Mutex
	members  []core.Member
	expenses []core.Expense
	settings core.Settings
	nextID   int64
}

// New creates an empty ledger with the given household settings.
func New(settings core.Settings) *Ledger {
	return &Ledger{settings: settings, nextID: 1}
}

// FromSnapshot restores a ledger from a persisted snapshot.
func FromSnapshot(snap Snapshot) *Ledger {
	snap = snap.Clone()
	return &Ledger{
		members:  snap.Members,
		expenses: snap.Expenses,
		settings: snap.Settings,
		nextID:   snap.MaxID() + 1,
	}
}

// Snapshot returns a deep copy of the current state.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{Members: l.members, Expenses: l.expenses, Settings: l.settings}.Clone()
}

func (l *Ledger) Settings() core.Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.settings
}

func (l *Ledger) mintID() int64 {
	id := l.nextID
	l.nextID++
	return id
}

func (l *Ledger) memberIndex(id int64) int {
	for i := range l.members {
		if l.members[i].ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) expenseIndex(id int64) int {
	for i := range l.expenses {
		if l.expenses[i].ID == id {
			return i
		}
	}
	return -1
}

// Members returns a deep copy of the member list.
func (l *Ledger) Members() []core.Member {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.Member, len(l.members))
	for i, m := range l.members {
		out[i] = cloneMember(m)
	}
	return out
}

// Expenses returns a copy of the full expense list.
func (l *Ledger) Expenses() []core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Expense(nil), l.expenses...)
}

// Member returns a copy of one member.
func (l *Ledger) Member(id int64) (core.Member, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.memberIndex(id)
	if i < 0 {
		return core.Member{}, ErrMemberNotFound
	}
	return cloneMember(l.members[i]), nil
}

// ResponsibleName resolves an expense's responsible member for display.
// A dangling reference degrades to "unknown" instead of failing.
func (l *Ledger) ResponsibleName(id int64) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.memberIndex(id); i >= 0 {
		return l.members[i].Name
	}
	return "unknown"
}

// AddMember registers a new household member. Email must be unique within
// the household.
func (l *Ledger) AddMember(name, email string, role core.Role) (core.Member, error) {
	m := core.Member{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email), Role: role}
	if err := m.Validate(); err != nil {
		return core.Member{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.members {
		if strings.EqualFold(existing.Email, m.Email) {
			return core.Member{}, ErrDuplicateEmail
		}
	}
	m.ID = l.mintID()
	l.members = append(l.members, m)
	return cloneMember(m), nil
}

// UpdateMember edits name, email and role. The id never changes.
func (l *Ledger) UpdateMember(id int64, name, email string, role core.Role) (core.Member, error) {
	upd := core.Member{ID: id, Name: strings.TrimSpace(name), Email: strings.TrimSpace(email), Role: role}
	if err := upd.Validate(); err != nil {
		return core.Member{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.memberIndex(id)
	if i < 0 {
		return core.Member{}, ErrMemberNotFound
	}
	for j, existing := range l.members {
		if j != i && strings.EqualFold(existing.Email, upd.Email) {
			return core.Member{}, ErrDuplicateEmail
		}
	}
	l.members[i].Name = upd.Name
	l.members[i].Email = upd.Email
	l.members[i].Role = upd.Role
	return cloneMember(l.members[i]), nil
}

// DeleteMember removes a member. The household must keep at least one
// member, regardless of roles. Expenses referencing the deleted member keep
// their responsible id; display resolution degrades to "unknown".
func (l *Ledger) DeleteMember(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.memberIndex(id)
	if i < 0 {
		return ErrMemberNotFound
	}
	if len(l.members) == 1 {
		return ErrLastMember
	}
	l.members = append(l.members[:i], l.members[i+1:]...)
	return nil
}

// AddIncome appends an income to its owner. The caller decides Variable
// (typically pre-filled from the source catalog suggestion).
func (l *Ledger) AddIncome(memberID int64, in core.Income) (core.Income, error) {
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.memberIndex(memberID)
	if i < 0 {
		return core.Income{}, ErrMemberNotFound
	}
	in.ID = l.mintID()
	l.members[i].Incomes = append(l.members[i].Incomes, in)
	return in, nil
}

// UpdateIncome edits an existing income in place, preserving its id.
func (l *Ledger) UpdateIncome(memberID int64, in core.Income) (core.Income, error) {
	if err := in.Validate(); err != nil {
		return core.Income{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	mi := l.memberIndex(memberID)
	if mi < 0 {
		return core.Income{}, ErrMemberNotFound
	}
	for j := range l.members[mi].Incomes {
		if l.members[mi].Incomes[j].ID == in.ID {
			in.ID = l.members[mi].Incomes[j].ID
			l.members[mi].Incomes[j] = in
			return in, nil
		}
	}
	return core.Income{}, ErrIncomeNotFound
}

func (l *Ledger) DeleteIncome(memberID, incomeID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	mi := l.memberIndex(memberID)
	if mi < 0 {
		return ErrMemberNotFound
	}
	incomes := l.members[mi].Incomes
	for j := range incomes {
		if incomes[j].ID == incomeID {
			l.members[mi].Incomes = append(incomes[:j], incomes[j+1:]...)
			return nil
		}
	}
	return ErrIncomeNotFound
}

// CreateExpense validates the draft, resolves the responsible member and
// mints an id. A recurring variable expense starts with an estimated amount
// status; everything else is confirmed on entry.
func (l *Ledger) CreateExpense(e core.Expense) (core.Expense, error) {
	if e.Status == "" {
		e.Status = core.StatusPending
	}
	if e.AmountStatus == "" {
		if e.Recurring && e.Recurrence == core.RecurrenceVariable {
			e.AmountStatus = core.AmountEstimated
		} else {
			e.AmountStatus = core.AmountConfirmed
		}
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.memberIndex(e.ResponsibleID) < 0 {
		return core.Expense{}, ErrMemberNotFound
	}
	e.ID = l.mintID()
	l.expenses = append(l.expenses, e)
	return e, nil
}

// ExpenseUpdate carries the fields of an edit. Nil means "not touched", so
// the engine can tell an explicit user choice apart from an omission: a
// category change re-applies the catalog's default recurrence only when the
// caller did not set the recurrence fields themselves.
type ExpenseUpdate struct {
	Title          *string
	Amount         *core.Money
	Category       *core.CategoryTag
	DueDate        *core.Date
	ResponsibleID  *int64
	Recurring      *bool
	Recurrence     *core.Recurrence
	AutoDebit      *bool
	PaymentURL     *string
	BillArrivalDay *int
	ServiceType    *core.ServiceType
	Provider       *string
}

// UpdateExpense edits an expense in place. The id and status are never
// touched here (status changes go through TogglePaid or reconciliation).
func (l *Ledger) UpdateExpense(id int64, upd ExpenseUpdate) (core.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.expenseIndex(id)
	if i < 0 {
		return core.Expense{}, ErrExpenseNotFound
	}

	e := l.expenses[i]
	if upd.Title != nil {
		e.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Amount != nil {
		e.Amount = *upd.Amount
		e.AmountStatus = core.AmountConfirmed
	}
	if upd.DueDate != nil {
		e.DueDate = *upd.DueDate
	}
	if upd.ResponsibleID != nil {
		if l.memberIndex(*upd.ResponsibleID) < 0 {
			return core.Expense{}, ErrMemberNotFound
		}
		e.ResponsibleID = *upd.ResponsibleID
	}
	categoryChanged := upd.Category != nil && *upd.Category != e.Category
	if upd.Category != nil {
		e.Category = *upd.Category
		if e.Category != core.CategoryServicios {
			e.ServiceType = ""
		}
	}
	if categoryChanged && upd.Recurring == nil && upd.Recurrence == nil {
		// Explicit category change without an explicit recurrence choice:
		// the catalog default applies again.
		policy := core.ClassifyCategory(e.Category)
		e.Recurring = policy.Recurring
		e.Recurrence = policy.Recurrence
		if !policy.Recurring || policy.Recurrence != core.RecurrenceVariable {
			e.BillArrivalDay = 0
		}
	}
	if upd.Recurring != nil {
		e.Recurring = *upd.Recurring
		if !e.Recurring {
			e.Recurrence = ""
			e.BillArrivalDay = 0
		}
	}
	if upd.Recurrence != nil {
		e.Recurrence = *upd.Recurrence
		if e.Recurrence != core.RecurrenceVariable {
			e.BillArrivalDay = 0
		}
	}
	if upd.AutoDebit != nil {
		e.AutoDebit = *upd.AutoDebit
	}
	if upd.PaymentURL != nil {
		e.PaymentURL = *upd.PaymentURL
	}
	if upd.BillArrivalDay != nil {
		e.BillArrivalDay = *upd.BillArrivalDay
	}
	if upd.ServiceType != nil {
		e.ServiceType = *upd.ServiceType
	}
	if upd.Provider != nil {
		e.Provider = *upd.Provider
	}

	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	l.expenses[i] = e
	return e, nil
}

func (l *Ledger) DeleteExpense(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.expenseIndex(id)
	if i < 0 {
		return ErrExpenseNotFound
	}
	l.expenses = append(l.expenses[:i], l.expenses[i+1:]...)
	return nil
}

// TogglePaid flips an expense between pending and paid. Amount, due date,
// category and responsible are never altered; toggling twice restores the
// original status.
func (l *Ledger) TogglePaid(id int64) (core.Expense, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.expenseIndex(id)
	if i < 0 {
		return core.Expense{}, ErrExpenseNotFound
	}
	l.expenses[i].Status = l.expenses[i].Status.Toggle()
	return l.expenses[i], nil
}

// AddCard registers a card under its owner.
func (l *Ledger) AddCard(memberID int64, c core.Card) (core.Card, error) {
	c.OwnerID = memberID
	if err := c.Validate(); err != nil {
		return core.Card{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.memberIndex(memberID)
	if i < 0 {
		return core.Card{}, ErrMemberNotFound
	}
	c.ID = l.mintID()
	l.members[i].Cards = append(l.members[i].Cards, c)
	return c, nil
}

func (l *Ledger) UpdateCard(memberID int64, c core.Card) (core.Card, error) {
	c.OwnerID = memberID
	if err := c.Validate(); err != nil {
		return core.Card{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	mi := l.memberIndex(memberID)
	if mi < 0 {
		return core.Card{}, ErrMemberNotFound
	}
	for j := range l.members[mi].Cards {
		if l.members[mi].Cards[j].ID == c.ID {
			l.members[mi].Cards[j] = c
			return c, nil
		}
	}
	return core.Card{}, ErrCardNotFound
}

func (l *Ledger) DeleteCard(memberID, cardID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	mi := l.memberIndex(memberID)
	if mi < 0 {
		return ErrMemberNotFound
	}
	cards := l.members[mi].Cards
	for j := range cards {
		if cards[j].ID == cardID {
			l.members[mi].Cards = append(cards[:j], cards[j+1:]...)
			return nil
		}
	}
	return ErrCardNotFound
}

// Cards returns every card in the household with its owner id set.
func (l *Ledger) Cards() []core.Card {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []core.Card
	for _, m := range l.members {
		out = append(out, m.Cards...)
	}
	return out
}

// AddLoan registers a loan under its owner.
func (l *Ledger) AddLoan(memberID int64, loan core.Loan) (core.Loan, error) {
	if err := loan.Validate(); err != nil {
		return core.Loan{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.memberIndex(memberID)
	if i < 0 {
		return core.Loan{}, ErrMemberNotFound
	}
	loan.ID = l.mintID()
	l.members[i].Loans = append(l.members[i].Loans, loan)
	return loan, nil
}

func (l *Ledger) UpdateLoan(memberID int64, loan core.Loan) (core.Loan, error) {
	if err := loan.Validate(); err != nil {
		return core.Loan{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	mi := l.memberIndex(memberID)
	if mi < 0 {
		return core.Loan{}, ErrMemberNotFound
	}
	for j := range l.members[mi].Loans {
		if l.members[mi].Loans[j].ID == loan.ID {
			l.members[mi].Loans[j] = loan
			return loan, nil
		}
	}
	return core.Loan{}, ErrLoanNotFound
}

func (l *Ledger) DeleteLoan(memberID, loanID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	mi := l.memberIndex(memberID)
	if mi < 0 {
		return ErrMemberNotFound
	}
	loans := l.members[mi].Loans
	for j := range loans {
		if loans[j].ID == loanID {
			l.members[mi].Loans = append(loans[:j], loans[j+1:]...)
			return nil
		}
	}
	return ErrLoanNotFound
}

// Summary recomputes the monthly aggregate view for the month of ref.
func (l *Ledger) Summary(ref time.Time) core.Summary {
	l.mu.Lock()
	defer l.mu.Unlock()
	return core.Summarize(ref, l.members, l.expenses)
}

// Window returns the expenses due in the month of ref.
func (l *Ledger) Window(ref time.Time) []core.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return core.MonthWindow(ref, l.expenses)
}

// Balances recomputes the per-member individual view.
func (l *Ledger) Balances() []core.MemberBalance {
	l.mu.Lock()
	defer l.mu.Unlock()
	return core.MemberBalances(l.members, l.expenses)
}

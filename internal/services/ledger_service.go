// Package services orchestrates the ledger aggregate across durable storage
// and the sync queue.
package services

import (
	"context"
	"fmt"
	"time"

	"hogar/internal/core"
	"hogar/internal/ledger"
	"hogar/internal/log"
)

// Repository is what the service needs from durable storage: the ledger
// store plus the revision counter the sync message carries.
type Repository interface {
	ledger.Store
	Revision(ctx context.Context) (int64, error)
}

// SyncPublisher notifies the worker that a new revision exists. A nil
// publisher disables sync.
type SyncPublisher interface {
	PublishLedgerSync(ctx context.Context, revision int64) error
}

// LedgerService wraps every mutation with persist-then-notify: the snapshot
// is saved before the call returns, the sync message is best effort. A lost
// message is recovered by the next one since the worker always re-reads the
// full snapshot.
type LedgerService struct {
	ledger    *ledger.Ledger
	repo      Repository
	publisher SyncPublisher
	logger    *log.Logger
}

// NewLedgerService loads the stored snapshot and builds the in-memory
// aggregate from it. An empty store starts an empty ledger with the given
// settings.
func NewLedgerService(ctx context.Context, repo Repository, publisher SyncPublisher, settings core.Settings, logger *log.Logger) (*LedgerService, error) {
	snap, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var l *ledger.Ledger
	if len(snap.Members) == 0 && len(snap.Expenses) == 0 {
		snap.Settings = settings
		l = ledger.New(settings)
	} else {
		l = ledger.FromSnapshot(snap)
	}

	return &LedgerService{
		ledger:    l,
		repo:      repo,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentLedger),
	}, nil
}

// persist saves the current snapshot and publishes the new revision. The
// publish never fails the mutation.
func (s *LedgerService) persist(ctx context.Context, op string) error {
	snap := s.ledger.Snapshot()
	if err := s.repo.Save(ctx, snap); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	rev, err := s.repo.Revision(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "revision lookup failed, skipping sync publish",
			log.FieldOperation, op, log.FieldError, err)
		return nil
	}

	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.PublishLedgerSync(ctx, rev); err != nil {
		s.logger.WarnContext(ctx, "sync publish failed",
			log.FieldOperation, op, log.FieldRevision, rev, log.FieldError, err)
	}
	return nil
}

// Members

func (s *LedgerService) AddMember(ctx context.Context, name, email string, role core.Role) (core.Member, error) {
	m, err := s.ledger.AddMember(name, email, role)
	if err != nil {
		return core.Member{}, err
	}
	if err := s.persist(ctx, log.OpCreate); err != nil {
		return core.Member{}, err
	}
	return m, nil
}

func (s *LedgerService) UpdateMember(ctx context.Context, id int64, name, email string, role core.Role) (core.Member, error) {
	m, err := s.ledger.UpdateMember(id, name, email, role)
	if err != nil {
		return core.Member{}, err
	}
	if err := s.persist(ctx, log.OpUpdate); err != nil {
		return core.Member{}, err
	}
	return m, nil
}

func (s *LedgerService) DeleteMember(ctx context.Context, id int64) error {
	if err := s.ledger.DeleteMember(id); err != nil {
		return err
	}
	return s.persist(ctx, log.OpDelete)
}

func (s *LedgerService) Members() []core.Member          { return s.ledger.Members() }
func (s *LedgerService) Member(id int64) (core.Member, error) { return s.ledger.Member(id) }

// Incomes

func (s *LedgerService) AddIncome(ctx context.Context, memberID int64, in core.Income) (core.Income, error) {
	out, err := s.ledger.AddIncome(memberID, in)
	if err != nil {
		return core.Income{}, err
	}
	if err := s.persist(ctx, log.OpCreate); err != nil {
		return core.Income{}, err
	}
	return out, nil
}

func (s *LedgerService) UpdateIncome(ctx context.Context, memberID int64, in core.Income) (core.Income, error) {
	out, err := s.ledger.UpdateIncome(memberID, in)
	if err != nil {
		return core.Income{}, err
	}
	if err := s.persist(ctx, log.OpUpdate); err != nil {
		return core.Income{}, err
	}
	return out, nil
}

func (s *LedgerService) DeleteIncome(ctx context.Context, memberID, incomeID int64) error {
	if err := s.ledger.DeleteIncome(memberID, incomeID); err != nil {
		return err
	}
	return s.persist(ctx, log.OpDelete)
}

// Expenses

func (s *LedgerService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	out, err := s.ledger.CreateExpense(e)
	if err != nil {
		return core.Expense{}, err
	}
	if err := s.persist(ctx, log.OpCreate); err != nil {
		return core.Expense{}, err
	}
	s.logger.InfoContext(ctx, "expense created",
		log.FieldExpenseID, out.ID, log.FieldCategory, string(out.Category), log.FieldAmountCents, out.Amount.Cents)
	return out, nil
}

func (s *LedgerService) UpdateExpense(ctx context.Context, id int64, upd ledger.ExpenseUpdate) (core.Expense, error) {
	out, err := s.ledger.UpdateExpense(id, upd)
	if err != nil {
		return core.Expense{}, err
	}
	if err := s.persist(ctx, log.OpUpdate); err != nil {
		return core.Expense{}, err
	}
	return out, nil
}

func (s *LedgerService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.ledger.DeleteExpense(id); err != nil {
		return err
	}
	return s.persist(ctx, log.OpDelete)
}

func (s *LedgerService) TogglePaid(ctx context.Context, id int64) (core.Expense, error) {
	out, err := s.ledger.TogglePaid(id)
	if err != nil {
		return core.Expense{}, err
	}
	if err := s.persist(ctx, log.OpUpdate); err != nil {
		return core.Expense{}, err
	}
	return out, nil
}

func (s *LedgerService) Expenses() []core.Expense { return s.ledger.Expenses() }

// Cards

func (s *LedgerService) AddCard(ctx context.Context, memberID int64, c core.Card) (core.Card, error) {
	out, err := s.ledger.AddCard(memberID, c)
	if err != nil {
		return core.Card{}, err
	}
	if err := s.persist(ctx, log.OpCreate); err != nil {
		return core.Card{}, err
	}
	return out, nil
}

func (s *LedgerService) UpdateCard(ctx context.Context, memberID int64, c core.Card) (core.Card, error) {
	out, err := s.ledger.UpdateCard(memberID, c)
	if err != nil {
		return core.Card{}, err
	}
	if err := s.persist(ctx, log.OpUpdate); err != nil {
		return core.Card{}, err
	}
	return out, nil
}

func (s *LedgerService) DeleteCard(ctx context.Context, memberID, cardID int64) error {
	if err := s.ledger.DeleteCard(memberID, cardID); err != nil {
		return err
	}
	return s.persist(ctx, log.OpDelete)
}

// Loans

func (s *LedgerService) AddLoan(ctx context.Context, memberID int64, loan core.Loan) (core.Loan, error) {
	out, err := s.ledger.AddLoan(memberID, loan)
	if err != nil {
		return core.Loan{}, err
	}
	if err := s.persist(ctx, log.OpCreate); err != nil {
		return core.Loan{}, err
	}
	return out, nil
}

func (s *LedgerService) UpdateLoan(ctx context.Context, memberID int64, loan core.Loan) (core.Loan, error) {
	out, err := s.ledger.UpdateLoan(memberID, loan)
	if err != nil {
		return core.Loan{}, err
	}
	if err := s.persist(ctx, log.OpUpdate); err != nil {
		return core.Loan{}, err
	}
	return out, nil
}

func (s *LedgerService) DeleteLoan(ctx context.Context, memberID, loanID int64) error {
	if err := s.ledger.DeleteLoan(memberID, loanID); err != nil {
		return err
	}
	return s.persist(ctx, log.OpDelete)
}

// Reconcile applies one batch of real bill amounts and card payments, then
// persists once for the whole batch.
func (s *LedgerService) Reconcile(ctx context.Context, now time.Time, batch ledger.BatchUpdate) (ledger.BatchResult, error) {
	result := s.ledger.Reconcile(now, batch)
	if err := s.persist(ctx, log.OpReconcile); err != nil {
		return ledger.BatchResult{}, err
	}
	s.logger.InfoContext(ctx, "reconciliation batch applied",
		log.FieldOperation, log.OpReconcile,
		"updated", len(result.UpdatedExpenses),
		"created", len(result.CreatedExpenses),
		"skipped", result.Skipped)
	return result, nil
}

// Read views

func (s *LedgerService) Summary(ref time.Time) core.Summary       { return s.ledger.Summary(ref) }
func (s *LedgerService) Window(ref time.Time) []core.Expense      { return s.ledger.Window(ref) }
func (s *LedgerService) Balances() []core.MemberBalance           { return s.ledger.Balances() }
func (s *LedgerService) Settings() core.Settings                  { return s.ledger.Settings() }
func (s *LedgerService) ResponsibleName(id int64) string          { return s.ledger.ResponsibleName(id) }

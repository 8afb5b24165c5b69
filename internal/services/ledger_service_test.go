package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hogar/internal/core"
	"hogar/internal/ledger"
	"hogar/internal/log"
	"hogar/internal/storage"
)

type recordingPublisher struct {
	mu        sync.Mutex
	revisions []int64
	err       error
}

func (p *recordingPublisher) PublishLedgerSync(ctx context.Context, revision int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.revisions = append(p.revisions, revision)
	return nil
}

func newTestService(t *testing.T, pub SyncPublisher) (*LedgerService, *storage.MemoryRepository) {
	t.Helper()
	repo := storage.NewMemoryRepository()
	svc, err := NewLedgerService(context.Background(), repo, pub,
		core.Settings{Currency: "COP", Country: "CO"}, log.New(log.DefaultConfig()))
	if err != nil {
		t.Fatalf("NewLedgerService: %v", err)
	}
	return svc, repo
}

func TestMutationPersistsAndPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	svc, repo := newTestService(t, pub)
	ctx := context.Background()

	m, err := svc.AddMember(ctx, "Clara", "clara@example.com", core.RoleAdmin)
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	snap, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Members) != 1 || snap.Members[0].ID != m.ID {
		t.Fatalf("snapshot not persisted: %+v", snap)
	}
	if len(pub.revisions) != 1 || pub.revisions[0] != 1 {
		t.Fatalf("want publish of revision 1, got %v", pub.revisions)
	}
}

func TestPublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc, repo := newTestService(t, pub)
	ctx := context.Background()

	if _, err := svc.AddMember(ctx, "Clara", "clara@example.com", core.RoleAdmin); err != nil {
		t.Fatalf("mutation must survive a failed publish: %v", err)
	}
	snap, _ := repo.Load(ctx)
	if len(snap.Members) != 1 {
		t.Fatal("snapshot must still be saved when publish fails")
	}
}

func TestNilPublisherDisablesSync(t *testing.T) {
	svc, _ := newTestService(t, nil)
	if _, err := svc.AddMember(context.Background(), "Clara", "clara@example.com", core.RoleAdmin); err != nil {
		t.Fatalf("AddMember with nil publisher: %v", err)
	}
}

func TestServiceRestartRestoresLedger(t *testing.T) {
	repo := storage.NewMemoryRepository()
	ctx := context.Background()
	settings := core.Settings{Currency: "COP", Country: "CO"}
	logger := log.New(log.DefaultConfig())

	svc1, err := NewLedgerService(ctx, repo, nil, settings, logger)
	if err != nil {
		t.Fatalf("NewLedgerService: %v", err)
	}
	m, err := svc1.AddMember(ctx, "Clara", "clara@example.com", core.RoleAdmin)
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if _, err := svc1.CreateExpense(ctx, core.Expense{
		Title: "Arriendo", Amount: core.Money{Cents: 1_800_000_00},
		Category: core.CategoryVivienda, DueDate: core.NewDate(2026, 8, 5),
		ResponsibleID: m.ID,
	}); err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}

	svc2, err := NewLedgerService(ctx, repo, nil, settings, logger)
	if err != nil {
		t.Fatalf("restart: %v", err)
	}
	if got := len(svc2.Expenses()); got != 1 {
		t.Fatalf("restored expenses = %d, want 1", got)
	}
	if got := len(svc2.Members()); got != 1 {
		t.Fatalf("restored members = %d, want 1", got)
	}
}

func TestReconcilePersistsOnceForBatch(t *testing.T) {
	pub := &recordingPublisher{}
	svc, _ := newTestService(t, pub)
	ctx := context.Background()
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	m, _ := svc.AddMember(ctx, "Clara", "clara@example.com", core.RoleAdmin)
	e, err := svc.CreateExpense(ctx, core.Expense{
		Title: "Energía", Category: core.CategoryServicios,
		Recurring: true, Recurrence: core.RecurrenceVariable,
		DueDate: core.NewDate(2026, 8, 18), ResponsibleID: m.ID,
	})
	if err != nil {
		t.Fatalf("CreateExpense: %v", err)
	}
	published := len(pub.revisions)

	result, err := svc.Reconcile(ctx, now, ledger.BatchUpdate{
		ExpenseAmounts: map[int64]core.Money{e.ID: {Cents: 185_430_00}},
	})
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(result.UpdatedExpenses) != 1 {
		t.Fatalf("updated = %v", result.UpdatedExpenses)
	}
	if len(pub.revisions) != published+1 {
		t.Fatalf("batch must publish exactly once, got %d new publishes", len(pub.revisions)-published)
	}
}

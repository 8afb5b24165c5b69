package storage

import (
	"context"
	"sync"

	"hogar/internal/ledger"
)

// MemoryRepository keeps the snapshot in process memory. Used by the memory
// backend and by tests; data is lost on restart.
type MemoryRepository struct {
	mu       sync.Mutex
	snap     ledger.Snapshot
	revision int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Save(ctx context.Context, snap ledger.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snap = snap.Clone()
	r.revision++
	return nil
}

func (r *MemoryRepository) Load(ctx context.Context) (ledger.Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap.Clone(), nil
}

func (r *MemoryRepository) Revision(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.revision, nil
}

func (r *MemoryRepository) Close() error { return nil }

// Package ledger holds the in-memory household aggregate: the mutation API,
// the reconciliation batch and the snapshot that travels to durable storage.
package ledger

import (
	"context"

	"hogar/internal/core"
)

// Snapshot is the full serializable state of one household ledger.
type Snapshot struct {
	Members  []core.Member `json:"members"`
	Expenses []core.Expense `json:"expenses"`
	Settings core.Settings `json:"settings"`
}

// Store is the durable persistence port. The ledger requires no
// transactionality from it; last-write-wins is acceptable.
type Store interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// Clone returns a deep copy so callers can hold a snapshot without aliasing
// ledger-internal slices.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Settings: s.Settings}
	out.Members = make([]core.Member, len(s.Members))
	for i, m := range s.Members {
		out.Members[i] = cloneMember(m)
	}
	out.Expenses = append([]core.Expense(nil), s.Expenses...)
	return out
}

func cloneMember(m core.Member) core.Member {
	c := m
	c.Incomes = append([]core.Income(nil), m.Incomes...)
	c.Cards = append([]core.Card(nil), m.Cards...)
	c.Loans = append([]core.Loan(nil), m.Loans...)
	return c
}

// MaxID returns the highest identifier used anywhere in the snapshot. The
// ledger mints new ids above it so reconciliation batches can materialize
// several expenses without collision.
func (s Snapshot) MaxID() int64 {
	var max int64
	bump := func(id int64) {
		if id > max {
			max = id
		}
	}
	for _, m := range s.Members {
		bump(m.ID)
		for _, in := range m.Incomes {
			bump(in.ID)
		}
		for _, c := range m.Cards {
			bump(c.ID)
		}
		for _, l := range m.Loans {
			bump(l.ID)
		}
	}
	for _, e := range s.Expenses {
		bump(e.ID)
	}
	return max
}

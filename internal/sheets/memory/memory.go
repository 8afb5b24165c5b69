// Package memory provides an in-memory exporter for development and tests.
package memory

import (
	"context"
	"sync"

	"hogar/internal/ledger"
	ports "hogar/internal/sheets"
)

// Exporter records every exported snapshot instead of talking to a real
// spreadsheet.
type Exporter struct {
	mu      sync.Mutex
	exports []Export
	failure error
}

type Export struct {
	Snapshot ledger.Snapshot
	Revision int64
}

var _ ports.SnapshotExporter = (*Exporter)(nil)

func NewExporter() *Exporter { return &Exporter{} }

func (e *Exporter) Export(ctx context.Context, snap ledger.Snapshot, revision int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failure != nil {
		return e.failure
	}
	e.exports = append(e.exports, Export{Snapshot: snap.Clone(), Revision: revision})
	return nil
}

// Exports returns a copy of everything exported so far.
func (e *Exporter) Exports() []Export {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Export(nil), e.exports...)
}

// Fail makes subsequent exports return err until called with nil.
func (e *Exporter) Fail(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failure = err
}

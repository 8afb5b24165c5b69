package sheets

import (
	"context"

	"hogar/internal/ledger"
)

// Ports for outbound adapters.
type (
	// SnapshotExporter mirrors a full ledger snapshot into an external
	// spreadsheet. Exports are idempotent per revision: re-exporting the
	// same revision rewrites the same data.
	SnapshotExporter interface {
		Export(ctx context.Context, snap ledger.Snapshot, revision int64) error
	}
)

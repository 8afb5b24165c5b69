// Package worker mirrors ledger snapshots into the export spreadsheet.
package worker

import (
	"context"
	"fmt"
	"sync"

	"hogar/internal/amqp"
	"hogar/internal/log"
	"hogar/internal/services"
	"hogar/internal/sheets"
)

// SyncWorker consumes ledger sync messages and re-exports the full snapshot.
// The message carries only the revision: the worker always reads the current
// state from storage, so a lost or reordered message is healed by the next
// one.
type SyncWorker struct {
	repo     services.Repository
	exporter sheets.SnapshotExporter
	logger   *log.Logger

	mu           sync.Mutex
	lastExported int64
}

func NewSyncWorker(repo services.Repository, exporter sheets.SnapshotExporter, logger *log.Logger) *SyncWorker {
	return &SyncWorker{
		repo:     repo,
		exporter: exporter,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

// HandleSyncMessage processes one sync message. Messages at or below the
// last exported revision are acknowledged without work: the export that
// covered them already ran.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.LedgerSyncMessage) error {
	w.mu.Lock()
	last := w.lastExported
	w.mu.Unlock()
	if msg.Revision <= last {
		w.logger.InfoContext(ctx, "revision already exported, skipping",
			log.FieldRevision, msg.Revision, "last_exported", last)
		return nil
	}

	return w.ExportCurrent(ctx)
}

// ExportCurrent loads the snapshot from storage and exports it at its
// current revision. Also used by the periodic fallback tick.
func (w *SyncWorker) ExportCurrent(ctx context.Context) error {
	snap, err := w.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	rev, err := w.repo.Revision(ctx)
	if err != nil {
		return fmt.Errorf("read revision: %w", err)
	}

	if err := w.exporter.Export(ctx, snap, rev); err != nil {
		return fmt.Errorf("export revision %d: %w", rev, err)
	}

	w.mu.Lock()
	if rev > w.lastExported {
		w.lastExported = rev
	}
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "snapshot exported",
		log.FieldOperation, log.OpSync,
		log.FieldRevision, rev,
		"members", len(snap.Members),
		"expenses", len(snap.Expenses))
	return nil
}

// Package backend wires storage, AMQP and the ledger service together from
// configuration.
package backend

import (
	"context"
	"fmt"

	"hogar/internal/amqp"
	"hogar/internal/config"
	"hogar/internal/core"
	"hogar/internal/log"
	"hogar/internal/services"
	"hogar/internal/storage"
)

// Type selects the durable store behind the ledger service.
type Type string

const (
	MemoryBackend Type = "memory"
	SQLiteBackend Type = "sqlite"
)

func (t Type) IsValid() bool {
	return t == MemoryBackend || t == SQLiteBackend
}

// CleanupFunc releases backend resources on shutdown.
type CleanupFunc func() error

// Result is a wired ledger service plus its cleanup.
type Result struct {
	Service *services.LedgerService
	Repo    services.Repository
	Cleanup CleanupFunc
}

// Build creates the repository for the configured backend, attaches the
// optional AMQP publisher and loads the ledger service from the stored
// snapshot. AMQP is best effort at build time too: a failed broker
// connection degrades to no sync instead of failing startup.
func Build(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Result, error) {
	l := logger.WithComponent(log.ComponentBackend)

	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.DataBackend)
	}

	var (
		repo    services.Repository
		cleanup CleanupFunc = func() error { return nil }
	)
	switch t {
	case SQLiteBackend:
		sqliteRepo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("sqlite repository: %w", err)
		}
		repo, cleanup = sqliteRepo, sqliteRepo.Close
		l.Info("initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
	case MemoryBackend:
		repo = storage.NewMemoryRepository()
		l.Info("initialized memory backend")
	}

	var publisher services.SyncPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			l.Warn("amqp unavailable, continuing without sync", log.FieldError, err)
		} else {
			publisher = client
			prev := cleanup
			cleanup = func() error {
				cerr := client.Close()
				if perr := prev(); perr != nil {
					return perr
				}
				return cerr
			}
			l.Info("initialized amqp publisher",
				"exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	settings := core.Settings{Currency: cfg.Currency, Country: cfg.Country}
	svc, err := services.NewLedgerService(ctx, repo, publisher, settings, logger)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("ledger service: %w", err)
	}

	return &Result{Service: svc, Repo: repo, Cleanup: cleanup}, nil
}

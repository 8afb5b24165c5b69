// Package storage persists ledger snapshots to SQLite. Each Save rewrites
// the whole household state in one transaction and bumps a revision counter
// used by the sync worker; the ledger asked for last-write-wins and gets it.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"hogar/internal/core"
	"hogar/internal/ledger"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Save implements ledger.Store. The snapshot replaces everything previously
// stored; partial updates are not a thing at this layer.
func (r *SQLiteRepository) Save(ctx context.Context, snap ledger.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"members", "incomes", "cards", "loans", "expenses"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, m := range snap.Members {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO members (id, name, email, role) VALUES (?, ?, ?, ?)`,
			m.ID, m.Name, m.Email, string(m.Role)); err != nil {
			return fmt.Errorf("insert member %d: %w", m.ID, err)
		}
		for _, in := range m.Incomes {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO incomes (id, member_id, source, amount_cents, variable) VALUES (?, ?, ?, ?, ?)`,
				in.ID, m.ID, in.Source, in.Amount.Cents, boolInt(in.Variable)); err != nil {
				return fmt.Errorf("insert income %d: %w", in.ID, err)
			}
		}
		for _, c := range m.Cards {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO cards (id, member_id, name, last4, cutoff_day) VALUES (?, ?, ?, ?, ?)`,
				c.ID, m.ID, c.Name, c.Last4, c.CutoffDay); err != nil {
				return fmt.Errorf("insert card %d: %w", c.ID, err)
			}
		}
		for _, ln := range m.Loans {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO loans (id, member_id, bank, lender, label, principal_cents, rate_percent, rate_type, term_months, disbursed_on, auto_debit)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				ln.ID, m.ID, string(ln.Bank), ln.Lender, ln.Label, ln.Principal.Cents,
				ln.RatePercent, string(ln.RateType), ln.TermMonths,
				ln.DisbursedOn.Format(dateLayout), boolInt(ln.AutoDebit)); err != nil {
				return fmt.Errorf("insert loan %d: %w", ln.ID, err)
			}
		}
	}

	for _, e := range snap.Expenses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (id, title, amount_cents, amount_status, category, due_date, responsible_id, recurring, recurrence, auto_debit, status, payment_url, bill_arrival_day, service_type, provider)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.Title, e.Amount.Cents, string(e.AmountStatus), string(e.Category),
			e.DueDate.Format(dateLayout), e.ResponsibleID, boolInt(e.Recurring),
			string(e.Recurrence), boolInt(e.AutoDebit), string(e.Status),
			e.PaymentURL, e.BillArrivalDay, string(e.ServiceType), e.Provider); err != nil {
			return fmt.Errorf("insert expense %d: %w", e.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO household (id, currency, country, revision, updated_at)
		 VALUES (1, ?, ?, 1, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   currency = excluded.currency,
		   country = excluded.country,
		   revision = household.revision + 1,
		   updated_at = excluded.updated_at`,
		snap.Settings.Currency, snap.Settings.Country,
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("update household row: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot saved to SQLite",
		"members", len(snap.Members),
		"expenses", len(snap.Expenses))
	return nil
}

// Load implements ledger.Store. An empty database yields an empty snapshot,
// not an error.
func (r *SQLiteRepository) Load(ctx context.Context) (ledger.Snapshot, error) {
	var snap ledger.Snapshot

	err := r.db.QueryRowContext(ctx,
		`SELECT currency, country FROM household WHERE id = 1`).
		Scan(&snap.Settings.Currency, &snap.Settings.Country)
	if err != nil && err != sql.ErrNoRows {
		return snap, fmt.Errorf("load household row: %w", err)
	}

	members, err := r.loadMembers(ctx)
	if err != nil {
		return snap, err
	}
	snap.Members = members

	expenses, err := r.loadExpenses(ctx)
	if err != nil {
		return snap, err
	}
	snap.Expenses = expenses

	return snap, nil
}

// Revision returns the current snapshot revision, 0 when nothing was saved.
func (r *SQLiteRepository) Revision(ctx context.Context) (int64, error) {
	var rev int64
	err := r.db.QueryRowContext(ctx, `SELECT revision FROM household WHERE id = 1`).Scan(&rev)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load revision: %w", err)
	}
	return rev, nil
}

func (r *SQLiteRepository) loadMembers(ctx context.Context) ([]core.Member, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, email, role FROM members ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []core.Member
	index := make(map[int64]int)
	for rows.Next() {
		var m core.Member
		var role string
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &role); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		m.Role = core.Role(role)
		index[m.ID] = len(members)
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}

	if err := r.loadIncomes(ctx, members, index); err != nil {
		return nil, err
	}
	if err := r.loadCards(ctx, members, index); err != nil {
		return nil, err
	}
	if err := r.loadLoans(ctx, members, index); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *SQLiteRepository) loadIncomes(ctx context.Context, members []core.Member, index map[int64]int) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, member_id, source, amount_cents, variable FROM incomes ORDER BY id`)
	if err != nil {
		return fmt.Errorf("query incomes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var in core.Income
		var memberID int64
		var variable int
		if err := rows.Scan(&in.ID, &memberID, &in.Source, &in.Amount.Cents, &variable); err != nil {
			return fmt.Errorf("scan income: %w", err)
		}
		in.Variable = variable != 0
		if i, ok := index[memberID]; ok {
			members[i].Incomes = append(members[i].Incomes, in)
		}
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadCards(ctx context.Context, members []core.Member, index map[int64]int) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, member_id, name, last4, cutoff_day FROM cards ORDER BY id`)
	if err != nil {
		return fmt.Errorf("query cards: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c core.Card
		var memberID int64
		if err := rows.Scan(&c.ID, &memberID, &c.Name, &c.Last4, &c.CutoffDay); err != nil {
			return fmt.Errorf("scan card: %w", err)
		}
		c.OwnerID = memberID
		if i, ok := index[memberID]; ok {
			members[i].Cards = append(members[i].Cards, c)
		}
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadLoans(ctx context.Context, members []core.Member, index map[int64]int) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, member_id, bank, lender, label, principal_cents, rate_percent, rate_type, term_months, disbursed_on, auto_debit
		 FROM loans ORDER BY id`)
	if err != nil {
		return fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ln core.Loan
		var memberID int64
		var bank, rateType, disbursed string
		var autoDebit int
		if err := rows.Scan(&ln.ID, &memberID, &bank, &ln.Lender, &ln.Label,
			&ln.Principal.Cents, &ln.RatePercent, &rateType, &ln.TermMonths,
			&disbursed, &autoDebit); err != nil {
			return fmt.Errorf("scan loan: %w", err)
		}
		ln.Bank = core.BankTag(bank)
		ln.RateType = core.RateType(rateType)
		ln.AutoDebit = autoDebit != 0
		if d, err := time.Parse(dateLayout, disbursed); err == nil {
			ln.DisbursedOn = core.Date{Time: d}
		}
		if i, ok := index[memberID]; ok {
			members[i].Loans = append(members[i].Loans, ln)
		}
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, amount_cents, amount_status, category, due_date, responsible_id, recurring, recurrence, auto_debit, status, payment_url, bill_arrival_day, service_type, provider
		 FROM expenses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var e core.Expense
		var amountStatus, category, dueDate, recurrence, status, serviceType string
		var recurring, autoDebit int
		if err := rows.Scan(&e.ID, &e.Title, &e.Amount.Cents, &amountStatus,
			&category, &dueDate, &e.ResponsibleID, &recurring, &recurrence,
			&autoDebit, &status, &e.PaymentURL, &e.BillArrivalDay,
			&serviceType, &e.Provider); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.AmountStatus = core.AmountStatus(amountStatus)
		e.Category = core.CategoryTag(category)
		e.Recurring = recurring != 0
		e.Recurrence = core.Recurrence(recurrence)
		e.AutoDebit = autoDebit != 0
		e.Status = core.ExpenseStatus(status)
		e.ServiceType = core.ServiceType(serviceType)
		if d, err := time.Parse(dateLayout, dueDate); err == nil {
			e.DueDate = core.Date{Time: d}
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

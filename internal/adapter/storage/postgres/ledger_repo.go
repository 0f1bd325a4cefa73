package postgres

import (
	"context"
	"errors"
	"fmt"

	"fincore/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// LedgerRepo implements ports.LedgerRepository. Entries and their
// lines are written once inside the posting transaction and never
// updated: corrections are fresh entries.
type LedgerRepo struct {
	pool Pool
}

// NewLedgerRepo creates a new LedgerRepo.
func NewLedgerRepo(pool Pool) *LedgerRepo {
	return &LedgerRepo{pool: pool}
}

// CreateEntry inserts a ledger entry and its lines within a database
// transaction. Line order is preserved through line_no.
func (r *LedgerRepo) CreateEntry(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error {
	query := `INSERT INTO ledger_entries (id, description, currency, transaction_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := tx.Exec(ctx, query,
		entry.ID, entry.Description, entry.Currency, entry.TransactionID, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}

	lineQuery := `INSERT INTO ledger_lines (entry_id, line_no, account_code, debit, credit)
		VALUES ($1, $2, $3, $4, $5)`

	for i, line := range entry.Lines {
		_, err := tx.Exec(ctx, lineQuery, entry.ID, i, line.Account, line.Debit, line.Credit)
		if err != nil {
			return fmt.Errorf("insert ledger line %d: %w", i, err)
		}
	}
	return nil
}

// GetEntry fetches one entry with its lines.
func (r *LedgerRepo) GetEntry(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error) {
	query := `SELECT id, description, currency, transaction_id, created_at
		FROM ledger_entries WHERE id = $1`

	e := &domain.LedgerEntry{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.Description, &e.Currency, &e.TransactionID, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger entry: %w", err)
	}

	lines, err := r.loadLines(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	e.Lines = lines
	return e, nil
}

// ListByTransaction fetches all entries posted for one transaction, in
// posting order. A held transaction accumulates entries over its life
// (initiation, then release or cancellation).
func (r *LedgerRepo) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.LedgerEntry, error) {
	query := `SELECT id, description, currency, transaction_id, created_at
		FROM ledger_entries WHERE transaction_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e := domain.LedgerEntry{}
		if err := rows.Scan(&e.ID, &e.Description, &e.Currency, &e.TransactionID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entry rows: %w", err)
	}

	for i := range entries {
		lines, err := r.loadLines(ctx, entries[i].ID)
		if err != nil {
			return nil, err
		}
		entries[i].Lines = lines
	}
	return entries, nil
}

// SumLineDeltas recomputes an account's balance as SUM(credit - debit)
// over every line ever posted against it.
func (r *LedgerRepo) SumLineDeltas(ctx context.Context, account domain.LedgerAccountCode, currency domain.Currency) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(l.credit - l.debit), 0)
		FROM ledger_lines l
		JOIN ledger_entries e ON e.id = l.entry_id
		WHERE l.account_code = $1 AND e.currency = $2`

	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, account, currency).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum ledger line deltas: %w", err)
	}
	return sum, nil
}

func (r *LedgerRepo) loadLines(ctx context.Context, entryID uuid.UUID) ([]domain.LedgerLine, error) {
	query := `SELECT account_code, debit, credit FROM ledger_lines
		WHERE entry_id = $1 ORDER BY line_no`

	rows, err := r.pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("load ledger lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.LedgerLine
	for rows.Next() {
		l := domain.LedgerLine{}
		if err := rows.Scan(&l.Account, &l.Debit, &l.Credit); err != nil {
			return nil, fmt.Errorf("scan ledger line row: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger line rows: %w", err)
	}
	return lines, nil
}

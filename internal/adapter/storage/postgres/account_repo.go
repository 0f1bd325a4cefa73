package postgres

import (
	"context"
	"errors"
	"fmt"

	"fincore/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountRepo implements ports.AccountRepository over the two fixed
// account tables: internal_accounts (money of record per bucket) and
// ledger_accounts (the double-entry chart). Rows are seeded by
// migration; the repo only reads and updates balances.
type AccountRepo struct {
	pool Pool
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(pool Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

// GetInternalForUpdate fetches an internal account with a row lock,
// within a database transaction.
func (r *AccountRepo) GetInternalForUpdate(ctx context.Context, tx pgx.Tx, code domain.InternalAccountCode, currency domain.Currency) (*domain.InternalAccount, error) {
	query := `SELECT code, currency, balance, updated_at FROM internal_accounts
		WHERE code = $1 AND currency = $2 FOR UPDATE`

	a := &domain.InternalAccount{}
	err := tx.QueryRow(ctx, query, code, currency).Scan(&a.Code, &a.Currency, &a.Balance, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get internal account: %w", err)
	}
	return a, nil
}

// UpdateInternalBalance sets an internal account balance within a
// database transaction.
func (r *AccountRepo) UpdateInternalBalance(ctx context.Context, tx pgx.Tx, code domain.InternalAccountCode, currency domain.Currency, balance decimal.Decimal) error {
	query := `UPDATE internal_accounts SET balance = $1, updated_at = NOW()
		WHERE code = $2 AND currency = $3`

	tag, err := tx.Exec(ctx, query, balance, code, currency)
	if err != nil {
		return fmt.Errorf("update internal account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("internal account not found: %s %s", code, currency)
	}
	return nil
}

// ListInternal fetches every internal account in one currency, in
// stable code order.
func (r *AccountRepo) ListInternal(ctx context.Context, currency domain.Currency) ([]domain.InternalAccount, error) {
	query := `SELECT code, currency, balance, updated_at FROM internal_accounts
		WHERE currency = $1 ORDER BY code`

	rows, err := r.pool.Query(ctx, query, currency)
	if err != nil {
		return nil, fmt.Errorf("list internal accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.InternalAccount
	for rows.Next() {
		a := domain.InternalAccount{}
		if err := rows.Scan(&a.Code, &a.Currency, &a.Balance, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan internal account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate internal account rows: %w", err)
	}
	return accounts, nil
}

// GetLedgerForUpdate fetches a ledger account with a row lock, within
// a database transaction.
func (r *AccountRepo) GetLedgerForUpdate(ctx context.Context, tx pgx.Tx, code domain.LedgerAccountCode, currency domain.Currency) (*domain.LedgerAccount, error) {
	query := `SELECT code, currency, balance, updated_at FROM ledger_accounts
		WHERE code = $1 AND currency = $2 FOR UPDATE`

	a := &domain.LedgerAccount{}
	err := tx.QueryRow(ctx, query, code, currency).Scan(&a.Code, &a.Currency, &a.Balance, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ledger account: %w", err)
	}
	return a, nil
}

// UpdateLedgerBalance sets a ledger account balance within a database
// transaction.
func (r *AccountRepo) UpdateLedgerBalance(ctx context.Context, tx pgx.Tx, code domain.LedgerAccountCode, currency domain.Currency, balance decimal.Decimal) error {
	query := `UPDATE ledger_accounts SET balance = $1, updated_at = NOW()
		WHERE code = $2 AND currency = $3`

	tag, err := tx.Exec(ctx, query, balance, code, currency)
	if err != nil {
		return fmt.Errorf("update ledger account balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("ledger account not found: %s %s", code, currency)
	}
	return nil
}

// ListLedger fetches every ledger account in one currency, in stable
// code order.
func (r *AccountRepo) ListLedger(ctx context.Context, currency domain.Currency) ([]domain.LedgerAccount, error) {
	query := `SELECT code, currency, balance, updated_at FROM ledger_accounts
		WHERE currency = $1 ORDER BY code`

	rows, err := r.pool.Query(ctx, query, currency)
	if err != nil {
		return nil, fmt.Errorf("list ledger accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.LedgerAccount
	for rows.Next() {
		a := domain.LedgerAccount{}
		if err := rows.Scan(&a.Code, &a.Currency, &a.Balance, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan ledger account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger account rows: %w", err)
	}
	return accounts, nil
}

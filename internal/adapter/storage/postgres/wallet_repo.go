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

// WalletRepo implements ports.WalletRepository.
type WalletRepo struct {
	pool Pool
}

// NewWalletRepo creates a new WalletRepo.
func NewWalletRepo(pool Pool) *WalletRepo {
	return &WalletRepo{pool: pool}
}

const walletColumns = `id, owner_id, currency, purpose, balance, frozen_balance, active, created_at, updated_at`

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	w := &domain.Wallet{}
	err := row.Scan(
		&w.ID, &w.OwnerID, &w.Currency, &w.Purpose, &w.Balance,
		&w.FrozenBalance, &w.Active, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Create inserts a new wallet into the database.
func (r *WalletRepo) Create(ctx context.Context, w *domain.Wallet) error {
	query := `INSERT INTO wallets (id, owner_id, currency, purpose, balance, frozen_balance, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.OwnerID, w.Currency, w.Purpose, w.Balance,
		w.FrozenBalance, w.Active, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert wallet: %w", err)
	}
	return nil
}

// GetByID fetches a wallet by its UUID (without locking).
func (r *WalletRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by id: %w", err)
	}
	return w, nil
}

// GetByOwner fetches the wallet for one (owner, currency, purpose)
// cell (non-locking read).
func (r *WalletRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID, currency domain.Currency, purpose domain.WalletPurpose) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets
		WHERE owner_id = $1 AND currency = $2 AND purpose = $3`

	w, err := scanWallet(r.pool.QueryRow(ctx, query, ownerID, currency, purpose))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet by owner: %w", err)
	}
	return w, nil
}

// ListByOwner fetches all of an owner's wallets.
func (r *WalletRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets
		WHERE owner_id = $1 ORDER BY currency, purpose`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list wallets by owner: %w", err)
	}
	defer rows.Close()

	var wallets []domain.Wallet
	for rows.Next() {
		w := domain.Wallet{}
		if err := rows.Scan(
			&w.ID, &w.OwnerID, &w.Currency, &w.Purpose, &w.Balance,
			&w.FrozenBalance, &w.Active, &w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan wallet row: %w", err)
		}
		wallets = append(wallets, w)
	}
	return wallets, rows.Err()
}

// GetByIDForUpdate fetches a wallet by ID with pessimistic locking.
// This MUST be called within a transaction.
func (r *WalletRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE id = $1 FOR UPDATE`

	w, err := scanWallet(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get wallet for update: %w", err)
	}
	return w, nil
}

// UpdateBalances writes a wallet's balance and frozen balance within a
// transaction. The row must already be locked.
func (r *WalletRepo) UpdateBalances(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance, frozen decimal.Decimal) error {
	query := `UPDATE wallets SET balance = $1, frozen_balance = $2, updated_at = NOW() WHERE id = $3`

	tag, err := tx.Exec(ctx, query, balance, frozen, walletID)
	if err != nil {
		return fmt.Errorf("update wallet balances: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	return nil
}

// SetActive flips a wallet's active flag.
func (r *WalletRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE wallets SET active = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("set wallet active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("wallet not found: %s", id)
	}
	return nil
}

// SumBalances aggregates wallet balances by currency and purpose,
// bypassing the running account balances for reconciliation.
func (r *WalletRepo) SumBalances(ctx context.Context, currency domain.Currency, purpose domain.WalletPurpose) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(balance), 0) FROM wallets WHERE currency = $1 AND purpose = $2`

	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, currency, purpose).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum wallet balances: %w", err)
	}
	return sum, nil
}

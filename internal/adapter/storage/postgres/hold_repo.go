package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fincore/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// HoldRepo implements ports.HoldRepository.
type HoldRepo struct {
	pool Pool
}

// NewHoldRepo creates a new HoldRepo.
func NewHoldRepo(pool Pool) *HoldRepo {
	return &HoldRepo{pool: pool}
}

const holdColumns = `id, transaction_id, wallet_id, amount, currency, reason, status,
		resolved_by, resolved_at, created_at`

// Create inserts a hold record within a database transaction, in the
// same atomic unit as the suspense posting that parks the funds.
func (r *HoldRepo) Create(ctx context.Context, tx pgx.Tx, h *domain.HeldTransaction) error {
	query := `INSERT INTO held_transactions (id, transaction_id, wallet_id, amount, currency, reason, status,
		resolved_by, resolved_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		h.ID, h.TransactionID, h.WalletID, h.Amount, h.Currency,
		h.Reason, h.Status, h.ResolvedBy, h.ResolvedAt, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert held transaction: %w", err)
	}
	return nil
}

// GetByID fetches a hold by UUID.
func (r *HoldRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.HeldTransaction, error) {
	query := `SELECT ` + holdColumns + ` FROM held_transactions WHERE id = $1`

	return r.scanHold(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate fetches a hold with a row lock, within a database
// transaction. Resolution paths lock the hold first so concurrent
// release and cancel cannot both pass the status check.
func (r *HoldRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.HeldTransaction, error) {
	query := `SELECT ` + holdColumns + ` FROM held_transactions WHERE id = $1 FOR UPDATE`

	return r.scanHold(tx.QueryRow(ctx, query, id))
}

// GetByTransactionID fetches the hold parked for one transaction.
func (r *HoldRepo) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*domain.HeldTransaction, error) {
	query := `SELECT ` + holdColumns + ` FROM held_transactions WHERE transaction_id = $1`

	return r.scanHold(r.pool.QueryRow(ctx, query, transactionID))
}

// List fetches holds with optional status filtering and pagination.
func (r *HoldRepo) List(ctx context.Context, status *domain.HoldStatus, page, pageSize int) ([]domain.HeldTransaction, int64, error) {
	where := ""
	var args []any
	argIdx := 1
	if status != nil {
		where = fmt.Sprintf("WHERE status = $%d", argIdx)
		args = append(args, *status)
		argIdx++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM held_transactions %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count held transactions: %w", err)
	}

	offset := (page - 1) * pageSize
	dataQuery := fmt.Sprintf(`SELECT `+holdColumns+`
		FROM held_transactions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list held transactions: %w", err)
	}
	defer rows.Close()

	var holds []domain.HeldTransaction
	for rows.Next() {
		h := domain.HeldTransaction{}
		err := rows.Scan(
			&h.ID, &h.TransactionID, &h.WalletID, &h.Amount, &h.Currency,
			&h.Reason, &h.Status, &h.ResolvedBy, &h.ResolvedAt, &h.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan held transaction row: %w", err)
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate held transaction rows: %w", err)
	}
	return holds, total, nil
}

// UpdateStatus resolves a hold within a database transaction.
func (r *HoldRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.HoldStatus, resolvedBy uuid.UUID, resolvedAt time.Time) error {
	query := `UPDATE held_transactions SET status = $1, resolved_by = $2, resolved_at = $3
		WHERE id = $4`

	tag, err := tx.Exec(ctx, query, status, resolvedBy, resolvedAt, id)
	if err != nil {
		return fmt.Errorf("update hold status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("held transaction not found: %s", id)
	}
	return nil
}

// SumHeld totals currently held amounts in one currency, for
// reconciliation against the suspense account.
func (r *HoldRepo) SumHeld(ctx context.Context, currency domain.Currency) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM held_transactions
		WHERE currency = $1 AND status = 'HELD'`

	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, currency).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum held amounts: %w", err)
	}
	return sum, nil
}

// scanHold is a helper to scan a single row into a HeldTransaction.
func (r *HoldRepo) scanHold(row pgx.Row) (*domain.HeldTransaction, error) {
	h := &domain.HeldTransaction{}
	err := row.Scan(
		&h.ID, &h.TransactionID, &h.WalletID, &h.Amount, &h.Currency,
		&h.Reason, &h.Status, &h.ResolvedBy, &h.ResolvedAt, &h.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan held transaction: %w", err)
	}
	return h, nil
}

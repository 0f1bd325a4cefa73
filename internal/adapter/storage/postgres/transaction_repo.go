package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fincore/internal/core/domain"
	"fincore/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TransactionRepo implements ports.TransactionRepository.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

const transactionColumns = `id, reference_number, client_reference, type, amount, platform_fee,
		agent_fee, net_amount, currency, status, sender_wallet_id, recipient_wallet_id,
		initiator_id, counterparty_id, note, created_at, completed_at`

// Create inserts a new transaction within a database transaction.
// The (initiator_id, client_reference) unique constraint is the
// idempotency backstop; callers map unique violations to
// DuplicateReference.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, reference_number, client_reference, type, amount, platform_fee,
		agent_fee, net_amount, currency, status, sender_wallet_id, recipient_wallet_id,
		initiator_id, counterparty_id, note, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.ReferenceNumber, t.ClientReference, t.Type,
		t.Amount, t.PlatformFee, t.AgentFee, t.NetAmount,
		t.Currency, t.Status, t.SenderWalletID, t.RecipientWalletID,
		t.InitiatorID, t.CounterpartyID, t.Note, t.CreatedAt, t.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a transaction by UUID.
func (r *TransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	return r.scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// GetByReference fetches a transaction by its reference number.
func (r *TransactionRepo) GetByReference(ctx context.Context, referenceNumber string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE reference_number = $1`

	return r.scanTransaction(r.pool.QueryRow(ctx, query, referenceNumber))
}

// GetByClientReference fetches a transaction by the caller-supplied
// idempotency reference.
func (r *TransactionRepo) GetByClientReference(ctx context.Context, initiatorID uuid.UUID, clientReference string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE initiator_id = $1 AND client_reference = $2`

	return r.scanTransaction(r.pool.QueryRow(ctx, query, initiatorID, clientReference))
}

// UpdateStatus updates a transaction's status within a database transaction.
func (r *TransactionRepo) UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus, completedAt *time.Time) error {
	query := `UPDATE transactions SET status = $1, completed_at = $2 WHERE id = $3`

	tag, err := tx.Exec(ctx, query, status, completedAt, id)
	if err != nil {
		return fmt.Errorf("update transaction status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found: %s", id)
	}
	return nil
}

// CountSince counts an initiator's transactions created in the
// trailing window, for the rapid-transaction check.
func (r *TransactionRepo) CountSince(ctx context.Context, initiatorID uuid.UUID, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE initiator_id = $1 AND created_at >= $2`

	var count int
	if err := r.pool.QueryRow(ctx, query, initiatorID, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions since: %w", err)
	}
	return count, nil
}

// List fetches transactions with filtering and pagination.
func (r *TransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.InitiatorID != nil {
		conditions = append(conditions, fmt.Sprintf("(initiator_id = $%d OR counterparty_id = $%d)", argIdx, argIdx))
		args = append(args, *params.InitiatorID)
		argIdx++
	}
	if params.WalletID != nil {
		conditions = append(conditions, fmt.Sprintf("(sender_wallet_id = $%d OR recipient_wallet_id = $%d)", argIdx, argIdx))
		args = append(args, *params.WalletID)
		argIdx++
	}
	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, *params.Type)
		argIdx++
	}
	if params.Currency != nil {
		conditions = append(conditions, fmt.Sprintf("currency = $%d", argIdx))
		args = append(args, *params.Currency)
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	// Count total
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM transactions %s", where)
	var total int64
	err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	// Fetch page
	offset := (params.Page - 1) * params.PageSize
	dataQuery := fmt.Sprintf(`SELECT `+transactionColumns+`
		FROM transactions %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.ReferenceNumber, &t.ClientReference, &t.Type,
			&t.Amount, &t.PlatformFee, &t.AgentFee, &t.NetAmount,
			&t.Currency, &t.Status, &t.SenderWalletID, &t.RecipientWalletID,
			&t.InitiatorID, &t.CounterpartyID, &t.Note, &t.CreatedAt, &t.CompletedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, total, nil
}

// GetStats retrieves aggregated transaction statistics for an initiator.
func (r *TransactionRepo) GetStats(ctx context.Context, initiatorID uuid.UUID, currency domain.Currency, from *time.Time) (*ports.TransactionStats, error) {
	var args []any
	argIdx := 1

	condition := fmt.Sprintf("(initiator_id = $%d OR counterparty_id = $%d) AND currency = $%d", argIdx, argIdx, argIdx+1)
	args = append(args, initiatorID, currency)
	argIdx += 2

	if from != nil {
		condition += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *from)
	}

	query := fmt.Sprintf(`SELECT
		COUNT(*) AS total,
		COUNT(*) FILTER (WHERE status = 'COMPLETED') AS completed,
		COUNT(*) FILTER (WHERE status = 'CANCELLED') AS cancelled,
		COUNT(*) FILTER (WHERE status = 'PROCESSING') AS held,
		COALESCE(SUM(amount) FILTER (WHERE status = 'COMPLETED'), 0) AS volume,
		COALESCE(SUM(platform_fee) FILTER (WHERE status = 'COMPLETED'), 0) AS fees
		FROM transactions WHERE %s`, condition)

	stats := &ports.TransactionStats{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&stats.TotalCount, &stats.CompletedCount, &stats.CancelledCount, &stats.HeldCount,
		&stats.TotalVolume, &stats.TotalFees,
	)
	if err != nil {
		return nil, fmt.Errorf("get transaction stats: %w", err)
	}
	return stats, nil
}

// scanTransaction is a helper to scan a single row into a Transaction.
func (r *TransactionRepo) scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	t := &domain.Transaction{}
	err := row.Scan(
		&t.ID, &t.ReferenceNumber, &t.ClientReference, &t.Type,
		&t.Amount, &t.PlatformFee, &t.AgentFee, &t.NetAmount,
		&t.Currency, &t.Status, &t.SenderWalletID, &t.RecipientWalletID,
		&t.InitiatorID, &t.CounterpartyID, &t.Note, &t.CreatedAt, &t.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	return t, nil
}

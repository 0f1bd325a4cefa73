package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fincore/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RiskAlertRepo implements ports.RiskAlertRepository.
type RiskAlertRepo struct {
	pool Pool
}

// NewRiskAlertRepo creates a new RiskAlertRepo.
func NewRiskAlertRepo(pool Pool) *RiskAlertRepo {
	return &RiskAlertRepo{pool: pool}
}

const riskAlertColumns = `id, user_id, transaction_id, type, score, reason, status,
		reviewed_by, reviewed_at, created_at`

const insertRiskAlertQuery = `INSERT INTO risk_alerts (id, user_id, transaction_id, type, score, reason, status,
		reviewed_by, reviewed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Create inserts an alert using the pool directly. Used on the
// hard-rejection path, where no posting transaction exists.
func (r *RiskAlertRepo) Create(ctx context.Context, a *domain.RiskAlert) error {
	_, err := r.pool.Exec(ctx, insertRiskAlertQuery,
		a.ID, a.UserID, a.TransactionID, a.Type, a.Score,
		a.Reason, a.Status, a.ReviewedBy, a.ReviewedAt, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert risk alert: %w", err)
	}
	return nil
}

// CreateInTx inserts an alert within a database transaction, in the
// same atomic unit as the hold it accompanies.
func (r *RiskAlertRepo) CreateInTx(ctx context.Context, tx pgx.Tx, a *domain.RiskAlert) error {
	_, err := tx.Exec(ctx, insertRiskAlertQuery,
		a.ID, a.UserID, a.TransactionID, a.Type, a.Score,
		a.Reason, a.Status, a.ReviewedBy, a.ReviewedAt, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert risk alert: %w", err)
	}
	return nil
}

// GetByID fetches an alert by UUID.
func (r *RiskAlertRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.RiskAlert, error) {
	query := `SELECT ` + riskAlertColumns + ` FROM risk_alerts WHERE id = $1`

	a := &domain.RiskAlert{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.TransactionID, &a.Type, &a.Score,
		&a.Reason, &a.Status, &a.ReviewedBy, &a.ReviewedAt, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get risk alert by id: %w", err)
	}
	return a, nil
}

// List fetches alerts with optional status filtering and pagination.
func (r *RiskAlertRepo) List(ctx context.Context, status *domain.AlertStatus, page, pageSize int) ([]domain.RiskAlert, int64, error) {
	where := ""
	var args []any
	argIdx := 1
	if status != nil {
		where = fmt.Sprintf("WHERE status = $%d", argIdx)
		args = append(args, *status)
		argIdx++
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM risk_alerts %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count risk alerts: %w", err)
	}

	offset := (page - 1) * pageSize
	dataQuery := fmt.Sprintf(`SELECT `+riskAlertColumns+`
		FROM risk_alerts %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list risk alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.RiskAlert
	for rows.Next() {
		a := domain.RiskAlert{}
		err := rows.Scan(
			&a.ID, &a.UserID, &a.TransactionID, &a.Type, &a.Score,
			&a.Reason, &a.Status, &a.ReviewedBy, &a.ReviewedAt, &a.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("scan risk alert row: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate risk alert rows: %w", err)
	}
	return alerts, total, nil
}

// UpdateStatus records an admin review decision on an alert.
func (r *RiskAlertRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AlertStatus, reviewedBy uuid.UUID, reviewedAt time.Time) error {
	query := `UPDATE risk_alerts SET status = $1, reviewed_by = $2, reviewed_at = $3
		WHERE id = $4`

	tag, err := r.pool.Exec(ctx, query, status, reviewedBy, reviewedAt, id)
	if err != nil {
		return fmt.Errorf("update risk alert status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("risk alert not found: %s", id)
	}
	return nil
}

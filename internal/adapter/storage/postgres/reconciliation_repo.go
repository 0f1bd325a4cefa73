package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fincore/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ReconciliationRepo implements ports.ReconciliationRepository.
// Individual checks are stored as jsonb alongside the overall verdict.
type ReconciliationRepo struct {
	pool Pool
}

// NewReconciliationRepo creates a new ReconciliationRepo.
func NewReconciliationRepo(pool Pool) *ReconciliationRepo {
	return &ReconciliationRepo{pool: pool}
}

// Create inserts a reconciliation report.
func (r *ReconciliationRepo) Create(ctx context.Context, report *domain.ReconciliationReport) error {
	checks, err := json.Marshal(report.Checks)
	if err != nil {
		return fmt.Errorf("marshal reconciliation checks: %w", err)
	}

	query := `INSERT INTO reconciliation_reports (id, ran_at, status, checks, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err = r.pool.Exec(ctx, query, report.ID, report.RanAt, report.Status, checks, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert reconciliation report: %w", err)
	}
	return nil
}

// GetLatest fetches the most recent report.
func (r *ReconciliationRepo) GetLatest(ctx context.Context) (*domain.ReconciliationReport, error) {
	query := `SELECT id, ran_at, status, checks, created_at
		FROM reconciliation_reports ORDER BY ran_at DESC LIMIT 1`

	report := &domain.ReconciliationReport{}
	var checks []byte
	err := r.pool.QueryRow(ctx, query).Scan(&report.ID, &report.RanAt, &report.Status, &checks, &report.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest reconciliation report: %w", err)
	}
	if err := json.Unmarshal(checks, &report.Checks); err != nil {
		return nil, fmt.Errorf("unmarshal reconciliation checks: %w", err)
	}
	return report, nil
}

// List fetches reports newest first.
func (r *ReconciliationRepo) List(ctx context.Context, page, pageSize int) ([]domain.ReconciliationReport, int64, error) {
	countQuery := `SELECT COUNT(*) FROM reconciliation_reports`
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reconciliation reports: %w", err)
	}

	offset := (page - 1) * pageSize
	dataQuery := `SELECT id, ran_at, status, checks, created_at
		FROM reconciliation_reports ORDER BY ran_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, dataQuery, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reconciliation reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.ReconciliationReport
	for rows.Next() {
		report := domain.ReconciliationReport{}
		var checks []byte
		if err := rows.Scan(&report.ID, &report.RanAt, &report.Status, &checks, &report.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan reconciliation report row: %w", err)
		}
		if err := json.Unmarshal(checks, &report.Checks); err != nil {
			return nil, 0, fmt.Errorf("unmarshal reconciliation checks: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reconciliation report rows: %w", err)
	}
	return reports, total, nil
}

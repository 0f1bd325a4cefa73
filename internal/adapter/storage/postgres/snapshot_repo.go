package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fincore/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// SnapshotRepo implements ports.SnapshotRepository. Balance and total
// rows are stored as jsonb; the (period, period_start) unique
// constraint makes snapshot creation idempotent per bucket.
type SnapshotRepo struct {
	pool Pool
}

// NewSnapshotRepo creates a new SnapshotRepo.
func NewSnapshotRepo(pool Pool) *SnapshotRepo {
	return &SnapshotRepo{pool: pool}
}

// Create inserts a snapshot.
func (r *SnapshotRepo) Create(ctx context.Context, s *domain.Snapshot) error {
	balances, err := json.Marshal(s.Balances)
	if err != nil {
		return fmt.Errorf("marshal snapshot balances: %w", err)
	}
	totals, err := json.Marshal(s.Totals)
	if err != nil {
		return fmt.Errorf("marshal snapshot totals: %w", err)
	}

	query := `INSERT INTO balance_snapshots (id, period, period_start, balances, totals, checksum, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.pool.Exec(ctx, query,
		s.ID, s.Period, s.PeriodStart, balances, totals, s.Checksum, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert balance snapshot: %w", err)
	}
	return nil
}

// GetByBucket fetches the snapshot for one period bucket.
func (r *SnapshotRepo) GetByBucket(ctx context.Context, period domain.PeriodType, periodStart time.Time) (*domain.Snapshot, error) {
	query := `SELECT id, period, period_start, balances, totals, checksum, created_at
		FROM balance_snapshots WHERE period = $1 AND period_start = $2`

	return r.scanSnapshot(r.pool.QueryRow(ctx, query, period, periodStart))
}

// GetLatest fetches the most recent snapshot for a period type.
func (r *SnapshotRepo) GetLatest(ctx context.Context, period domain.PeriodType) (*domain.Snapshot, error) {
	query := `SELECT id, period, period_start, balances, totals, checksum, created_at
		FROM balance_snapshots WHERE period = $1 ORDER BY period_start DESC LIMIT 1`

	return r.scanSnapshot(r.pool.QueryRow(ctx, query, period))
}

// List fetches snapshots for a period type, newest first.
func (r *SnapshotRepo) List(ctx context.Context, period domain.PeriodType, page, pageSize int) ([]domain.Snapshot, int64, error) {
	countQuery := `SELECT COUNT(*) FROM balance_snapshots WHERE period = $1`
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, period).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count balance snapshots: %w", err)
	}

	offset := (page - 1) * pageSize
	dataQuery := `SELECT id, period, period_start, balances, totals, checksum, created_at
		FROM balance_snapshots WHERE period = $1 ORDER BY period_start DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, dataQuery, period, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list balance snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.Snapshot
	for rows.Next() {
		s := domain.Snapshot{}
		var balances, totals []byte
		err := rows.Scan(&s.ID, &s.Period, &s.PeriodStart, &balances, &totals, &s.Checksum, &s.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scan balance snapshot row: %w", err)
		}
		if err := unmarshalSnapshot(&s, balances, totals); err != nil {
			return nil, 0, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate balance snapshot rows: %w", err)
	}
	return snapshots, total, nil
}

// scanSnapshot is a helper to scan a single row into a Snapshot.
func (r *SnapshotRepo) scanSnapshot(row pgx.Row) (*domain.Snapshot, error) {
	s := &domain.Snapshot{}
	var balances, totals []byte
	err := row.Scan(&s.ID, &s.Period, &s.PeriodStart, &balances, &totals, &s.Checksum, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan balance snapshot: %w", err)
	}
	if err := unmarshalSnapshot(s, balances, totals); err != nil {
		return nil, err
	}
	return s, nil
}

func unmarshalSnapshot(s *domain.Snapshot, balances, totals []byte) error {
	if err := json.Unmarshal(balances, &s.Balances); err != nil {
		return fmt.Errorf("unmarshal snapshot balances: %w", err)
	}
	if err := json.Unmarshal(totals, &s.Totals); err != nil {
		return fmt.Errorf("unmarshal snapshot totals: %w", err)
	}
	return nil
}

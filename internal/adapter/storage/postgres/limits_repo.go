package postgres

import (
	"context"
	"errors"
	"fmt"

	"fincore/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// LimitsRepo implements ports.LimitsRepository over the per-user
// rolling spend counters. Both methods run inside the small limit-check
// transaction so concurrent debits cannot double-spend a window.
type LimitsRepo struct {
	pool Pool
}

// NewLimitsRepo creates a new LimitsRepo.
func NewLimitsRepo(pool Pool) *LimitsRepo {
	return &LimitsRepo{pool: pool}
}

// GetForUpdate fetches a user's counters for one currency with a row
// lock. Returns nil when the user has no counters yet.
func (r *LimitsRepo) GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID, currency domain.Currency) (*domain.UserTransactionLimits, error) {
	query := `SELECT user_id, currency, daily_spent, weekly_spent, monthly_spent,
		daily_reset_at, weekly_reset_at, monthly_reset_at
		FROM user_transaction_limits WHERE user_id = $1 AND currency = $2 FOR UPDATE`

	l := &domain.UserTransactionLimits{}
	err := tx.QueryRow(ctx, query, userID, currency).Scan(
		&l.UserID, &l.Currency, &l.DailySpent, &l.WeeklySpent, &l.MonthlySpent,
		&l.DailyResetAt, &l.WeeklyResetAt, &l.MonthlyResetAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction limits: %w", err)
	}
	return l, nil
}

// Upsert writes a user's counters back within the same transaction.
func (r *LimitsRepo) Upsert(ctx context.Context, tx pgx.Tx, l *domain.UserTransactionLimits) error {
	query := `INSERT INTO user_transaction_limits (user_id, currency, daily_spent, weekly_spent, monthly_spent,
		daily_reset_at, weekly_reset_at, monthly_reset_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, currency)
		DO UPDATE SET daily_spent = EXCLUDED.daily_spent,
			weekly_spent = EXCLUDED.weekly_spent,
			monthly_spent = EXCLUDED.monthly_spent,
			daily_reset_at = EXCLUDED.daily_reset_at,
			weekly_reset_at = EXCLUDED.weekly_reset_at,
			monthly_reset_at = EXCLUDED.monthly_reset_at`

	_, err := tx.Exec(ctx, query,
		l.UserID, l.Currency, l.DailySpent, l.WeeklySpent, l.MonthlySpent,
		l.DailyResetAt, l.WeeklyResetAt, l.MonthlyResetAt,
	)
	if err != nil {
		return fmt.Errorf("upsert transaction limits: %w", err)
	}
	return nil
}

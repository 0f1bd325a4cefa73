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

// OTPRepo implements ports.OTPRepository. A user holds at most one
// pending transfer; initiating a new one replaces the old row.
type OTPRepo struct {
	pool Pool
}

// NewOTPRepo creates a new OTPRepo.
func NewOTPRepo(pool Pool) *OTPRepo {
	return &OTPRepo{pool: pool}
}

// Replace swaps the user's pending transfer for a new one in a single
// statement.
func (r *OTPRepo) Replace(ctx context.Context, otp *domain.TransferOTP) error {
	query := `INSERT INTO transfer_otps (id, user_id, code_hash, payload, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id)
		DO UPDATE SET id = EXCLUDED.id,
			code_hash = EXCLUDED.code_hash,
			payload = EXCLUDED.payload,
			expires_at = EXCLUDED.expires_at,
			created_at = EXCLUDED.created_at`

	_, err := r.pool.Exec(ctx, query,
		otp.ID, otp.UserID, otp.CodeHash, otp.Payload, otp.ExpiresAt, otp.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("replace transfer otp: %w", err)
	}
	return nil
}

// GetActive fetches the user's pending transfer, expired or not.
// Expiry is checked by the caller so it can distinguish a stale code
// from a missing one.
func (r *OTPRepo) GetActive(ctx context.Context, userID uuid.UUID) (*domain.TransferOTP, error) {
	query := `SELECT id, user_id, code_hash, payload, expires_at, created_at
		FROM transfer_otps WHERE user_id = $1`

	o := &domain.TransferOTP{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&o.ID, &o.UserID, &o.CodeHash, &o.Payload, &o.ExpiresAt, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer otp: %w", err)
	}
	return o, nil
}

// Delete removes a consumed or abandoned pending transfer.
func (r *OTPRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM transfer_otps WHERE id = $1`

	if _, err := r.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete transfer otp: %w", err)
	}
	return nil
}

// PurgeExpired removes the user's expired rows. Called lazily on the
// next OTP operation rather than by a background sweep.
func (r *OTPRepo) PurgeExpired(ctx context.Context, userID uuid.UUID, now time.Time) error {
	query := `DELETE FROM transfer_otps WHERE user_id = $1 AND expires_at <= $2`

	if _, err := r.pool.Exec(ctx, query, userID, now); err != nil {
		return fmt.Errorf("purge expired transfer otps: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"fincore/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DeviceRepo implements ports.DeviceRepository.
type DeviceRepo struct {
	pool Pool
}

// NewDeviceRepo creates a new DeviceRepo.
func NewDeviceRepo(pool Pool) *DeviceRepo {
	return &DeviceRepo{pool: pool}
}

// Get fetches one device record for a user.
func (r *DeviceRepo) Get(ctx context.Context, userID uuid.UUID, deviceID string) (*domain.TrustedDevice, error) {
	query := `SELECT user_id, device_id, trusted, first_seen, last_seen
		FROM trusted_devices WHERE user_id = $1 AND device_id = $2`

	d := &domain.TrustedDevice{}
	err := r.pool.QueryRow(ctx, query, userID, deviceID).Scan(
		&d.UserID, &d.DeviceID, &d.Trusted, &d.FirstSeen, &d.LastSeen,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get trusted device: %w", err)
	}
	return d, nil
}

// Upsert inserts or refreshes a device record. first_seen is kept from
// the original row so the trust window keeps counting from the first
// sighting.
func (r *DeviceRepo) Upsert(ctx context.Context, d *domain.TrustedDevice) error {
	query := `INSERT INTO trusted_devices (user_id, device_id, trusted, first_seen, last_seen)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, device_id)
		DO UPDATE SET trusted = EXCLUDED.trusted, last_seen = EXCLUDED.last_seen`

	_, err := r.pool.Exec(ctx, query, d.UserID, d.DeviceID, d.Trusted, d.FirstSeen, d.LastSeen)
	if err != nil {
		return fmt.Errorf("upsert trusted device: %w", err)
	}
	return nil
}

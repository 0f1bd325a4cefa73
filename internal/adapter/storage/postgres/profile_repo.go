package postgres

import (
	"context"
	"errors"
	"fmt"

	"fincore/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProfileRepo implements ports.ProfileRepository.
type ProfileRepo struct {
	pool Pool
}

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(pool Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// Create inserts a new profile into the database.
func (r *ProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	query := `INSERT INTO profiles (id, kind, display_name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Kind, p.DisplayName, p.Status, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetByID fetches a profile by its UUID.
func (r *ProfileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	query := `SELECT id, kind, display_name, status, created_at, updated_at
		FROM profiles WHERE id = $1`

	p := &domain.Profile{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Kind, &p.DisplayName, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile by id: %w", err)
	}
	return p, nil
}

// UpdateStatus updates a profile's lifecycle status.
func (r *ProfileRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProfileStatus) error {
	query := `UPDATE profiles SET status = $1, updated_at = NOW() WHERE id = $2`

	tag, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("update profile status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", id)
	}
	return nil
}

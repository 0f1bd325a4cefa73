package service

import (
	"context"
	"fmt"
	"time"

	"fincore/internal/core/domain"
	"fincore/internal/core/ports"
	"fincore/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ProfileServiceImpl implements ports.ProfileService. The registry is
// deliberately thin: identity and authentication live in the external
// provider, the core only tracks who may hold value and in what role.
type ProfileServiceImpl struct {
	profileRepo ports.ProfileRepository
	creditRepo  ports.AgentCreditRepository
	auditSvc    ports.AuditService
	log         zerolog.Logger
}

// NewProfileService creates a new ProfileServiceImpl.
func NewProfileService(
	profileRepo ports.ProfileRepository,
	creditRepo ports.AgentCreditRepository,
	auditSvc ports.AuditService,
	log zerolog.Logger,
) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		profileRepo: profileRepo,
		creditRepo:  creditRepo,
		auditSvc:    auditSvc,
		log:         log,
	}
}

// Create registers a participant. Agents get zero-value credit lines
// in every currency so grants and settlements always find a row.
// Admin only.
func (s *ProfileServiceImpl) Create(ctx context.Context, actor domain.Actor, req ports.CreateProfileRequest) (*domain.Profile, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden()
	}
	if !domain.ValidProfileKind(req.Kind) {
		return nil, apperror.Validation("kind must be USER, AGENT, or MERCHANT")
	}
	if req.DisplayName == "" {
		return nil, apperror.Validation("display_name is required")
	}

	now := time.Now().UTC()
	profile := &domain.Profile{
		ID:          uuid.New(),
		Kind:        req.Kind,
		DisplayName: req.DisplayName,
		Status:      domain.ProfileStatusActive,
		CreatedAt:   now,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create profile: %w", err))
	}

	if req.Kind == domain.ProfileKindAgent {
		for _, currency := range domain.Currencies() {
			credit := &domain.AgentCredit{
				AgentID:   profile.ID,
				Currency:  currency,
				Balance:   decimal.Zero,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := s.creditRepo.Create(ctx, credit); err != nil && !isUniqueViolation(err) {
				return nil, apperror.InternalError(fmt.Errorf("create credit line: %w", err))
			}
		}
	}

	s.log.Info().
		Str("profile_id", profile.ID.String()).
		Str("kind", string(req.Kind)).
		Msg("profile created")

	return profile, nil
}

// Get returns one profile; visible to its owner and admins.
func (s *ProfileServiceImpl) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Profile, error) {
	if !actor.CanAccess(id) {
		return nil, apperror.ErrForbidden()
	}
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get profile: %w", err))
	}
	if profile == nil {
		return nil, apperror.ErrNotFound("profile")
	}
	return profile, nil
}

// SetStatus suspends, reactivates, or closes a participant. Suspended
// participants keep their balances but can no longer transact. Admin
// only.
func (s *ProfileServiceImpl) SetStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, status domain.ProfileStatus, clientIP string) (*domain.Profile, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden()
	}
	if !domain.ValidProfileStatus(status) {
		return nil, apperror.Validation("status must be ACTIVE, SUSPENDED, or CLOSED")
	}

	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get profile: %w", err))
	}
	if profile == nil {
		return nil, apperror.ErrNotFound("profile")
	}
	if profile.Status == status {
		return profile, nil
	}
	if profile.Status == domain.ProfileStatusClosed {
		return nil, apperror.ErrInvalidStateTransition(string(profile.Status), string(status))
	}

	before := profile.Status
	if err := s.profileRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update profile status: %w", err))
	}
	profile.Status = status

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:         uuid.New(),
		ActorID:    actor.ID,
		Action:     domain.AuditActionProfileStatus,
		EntityType: "profile",
		EntityID:   id.String(),
		Before:     string(before),
		After:      string(status),
		IPAddress:  clientIP,
		CreatedAt:  time.Now().UTC(),
	})
	s.log.Info().
		Str("profile_id", id.String()).
		Str("status", string(status)).
		Msg("profile status changed")

	return profile, nil
}

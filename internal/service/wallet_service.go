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

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	walletRepo  ports.WalletRepository
	profileRepo ports.ProfileRepository
	log         zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	walletRepo ports.WalletRepository,
	profileRepo ports.ProfileRepository,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		walletRepo:  walletRepo,
		profileRepo: profileRepo,
		log:         log,
	}
}

// GetOrCreate returns the owner's wallet for the currency and purpose,
// creating it if absent. The owner must be a registered, active
// participant; agents hold credit lines, not wallets.
func (s *WalletServiceImpl) GetOrCreate(ctx context.Context, actor domain.Actor, ownerID uuid.UUID, currency domain.Currency, purpose domain.WalletPurpose) (*domain.Wallet, error) {
	if !actor.CanAccess(ownerID) {
		return nil, apperror.ErrForbidden()
	}
	if !domain.ValidCurrency(currency) {
		return nil, apperror.ErrInvalidCurrency(string(currency))
	}
	if !domain.ValidPurpose(purpose) {
		return nil, apperror.Validation("invalid wallet purpose")
	}

	profile, err := s.profileRepo.GetByID(ctx, ownerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get profile: %w", err))
	}
	if profile == nil {
		return nil, apperror.ErrNotFound("profile")
	}
	if !profile.IsActive() {
		return nil, apperror.ErrProfileSuspended()
	}
	switch profile.Kind {
	case domain.ProfileKindAgent:
		return nil, apperror.Validation("agents operate on credit lines, not wallets")
	case domain.ProfileKindMerchant:
		if purpose != domain.PurposeBusiness {
			return nil, apperror.Validation("merchants hold business wallets")
		}
	case domain.ProfileKindUser:
		if purpose != domain.PurposePersonal {
			return nil, apperror.Validation("users hold personal wallets")
		}
	}

	existing, err := s.walletRepo.GetByOwner(ctx, ownerID, currency, purpose)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if existing != nil {
		return existing, nil
	}

	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Currency:      currency,
		Purpose:       purpose,
		Balance:       decimal.Zero,
		FrozenBalance: decimal.Zero,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		// Concurrent create on the same (owner, currency, purpose):
		// return the row that won.
		if isUniqueViolation(err) {
			return s.walletRepo.GetByOwner(ctx, ownerID, currency, purpose)
		}
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().
		Str("wallet_id", wallet.ID.String()).
		Str("owner_id", ownerID.String()).
		Str("currency", string(currency)).
		Str("purpose", string(purpose)).
		Msg("wallet created")

	return wallet, nil
}

// Get fetches a wallet by ID with an ownership check.
func (s *WalletServiceImpl) Get(ctx context.Context, actor domain.Actor, walletID uuid.UUID) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	if !actor.CanAccess(wallet.OwnerID) {
		return nil, apperror.ErrForbidden()
	}
	return wallet, nil
}

// ListByOwner lists every wallet the owner holds across currencies and
// purposes.
func (s *WalletServiceImpl) ListByOwner(ctx context.Context, actor domain.Actor, ownerID uuid.UUID) ([]domain.Wallet, error) {
	if !actor.CanAccess(ownerID) {
		return nil, apperror.ErrForbidden()
	}
	wallets, err := s.walletRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list wallets: %w", err))
	}
	return wallets, nil
}

// SetActive freezes or unfreezes a wallet. Admin only; an inactive
// wallet cannot initiate or receive new transactions, but funds already
// in suspense still resolve back to it.
func (s *WalletServiceImpl) SetActive(ctx context.Context, actor domain.Actor, walletID uuid.UUID, active bool) (*domain.Wallet, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden()
	}
	wallet, err := s.walletRepo.GetByID(ctx, walletID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	if err := s.walletRepo.SetActive(ctx, walletID, active); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("set wallet active: %w", err))
	}
	wallet.Active = active

	s.log.Info().
		Str("wallet_id", walletID.String()).
		Bool("active", active).
		Str("actor_id", actor.ID.String()).
		Msg("wallet active state changed")

	return wallet, nil
}

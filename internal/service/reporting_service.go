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

// ReportingServiceImpl implements ports.ReportingService: read-only
// aggregates for dashboards and the operator's view of the books.
type ReportingServiceImpl struct {
	txRepo      ports.TransactionRepository
	accountRepo ports.AccountRepository
	ledgerRepo  ports.LedgerRepository
	auditRepo   ports.AuditRepository
	log         zerolog.Logger
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(
	txRepo ports.TransactionRepository,
	accountRepo ports.AccountRepository,
	ledgerRepo ports.LedgerRepository,
	auditRepo ports.AuditRepository,
	log zerolog.Logger,
) *ReportingServiceImpl {
	return &ReportingServiceImpl{
		txRepo:      txRepo,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		auditRepo:   auditRepo,
		log:         log,
	}
}

// Stats aggregates an initiator's transaction counts and volumes;
// visible to the initiator and admins.
func (s *ReportingServiceImpl) Stats(ctx context.Context, actor domain.Actor, initiatorID uuid.UUID, currency domain.Currency, from *time.Time) (*ports.TransactionStats, error) {
	if !actor.CanAccess(initiatorID) {
		return nil, apperror.ErrForbidden()
	}
	if !domain.ValidCurrency(currency) {
		return nil, apperror.ErrInvalidCurrency(string(currency))
	}
	stats, err := s.txRepo.GetStats(ctx, initiatorID, currency, from)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get stats: %w", err))
	}
	return stats, nil
}

// LedgerOverview returns both account charts for one currency along
// with the zero-sum check value. Admin only.
func (s *ReportingServiceImpl) LedgerOverview(ctx context.Context, actor domain.Actor, currency domain.Currency) (*ports.LedgerOverview, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden()
	}
	if !domain.ValidCurrency(currency) {
		return nil, apperror.ErrInvalidCurrency(string(currency))
	}

	internal, err := s.accountRepo.ListInternal(ctx, currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list internal accounts: %w", err))
	}
	ledger, err := s.accountRepo.ListLedger(ctx, currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list ledger accounts: %w", err))
	}

	zeroSum := decimal.Zero
	for _, a := range internal {
		zeroSum = zeroSum.Add(a.Balance)
	}

	return &ports.LedgerOverview{
		Currency: currency,
		Internal: internal,
		Ledger:   ledger,
		ZeroSum:  zeroSum,
	}, nil
}

// EntriesByTransaction returns the ledger entries documenting one
// transaction, including the resolution entries of a held one; visible
// to the transaction's participants and admins.
func (s *ReportingServiceImpl) EntriesByTransaction(ctx context.Context, actor domain.Actor, transactionID uuid.UUID) ([]domain.LedgerEntry, error) {
	txn, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	if !canSeeTransaction(actor, txn) {
		return nil, apperror.ErrForbidden()
	}

	entries, err := s.ledgerRepo.ListByTransaction(ctx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list entries: %w", err))
	}
	return entries, nil
}

// AuditTrail returns a page of recorded admin actions, optionally
// filtered by the acting admin. Admin only.
func (s *ReportingServiceImpl) AuditTrail(ctx context.Context, actor domain.Actor, actorFilter *uuid.UUID, page, pageSize int) ([]domain.AuditLog, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, apperror.ErrForbidden()
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	logs, total, err := s.auditRepo.List(ctx, actorFilter, page, pageSize)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list audit logs: %w", err))
	}
	return logs, total, nil
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fincore/internal/core/domain"
	"fincore/internal/core/ports"
	"fincore/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// HoldServiceImpl implements ports.HoldService. Resolving a hold never
// edits the original entry: release and cancel post fresh mirror
// entries that move the suspended amount out, flip the transaction
// status, and mark the hold, all in one atomic unit.
type HoldServiceImpl struct {
	holdRepo ports.HoldRepository
	txRepo   ports.TransactionRepository
	ledger   ports.LedgerPoster
	auditSvc ports.AuditService
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewHoldService creates a new HoldServiceImpl.
func NewHoldService(
	holdRepo ports.HoldRepository,
	txRepo ports.TransactionRepository,
	ledger ports.LedgerPoster,
	auditSvc ports.AuditService,
	notifier ports.Notifier,
	log zerolog.Logger,
) *HoldServiceImpl {
	return &HoldServiceImpl{
		holdRepo: holdRepo,
		txRepo:   txRepo,
		ledger:   ledger,
		auditSvc: auditSvc,
		notifier: notifier,
		log:      log,
	}
}

// List returns a page of held transactions for the review queue.
func (s *HoldServiceImpl) List(ctx context.Context, actor domain.Actor, status *domain.HoldStatus, page, pageSize int) ([]domain.HeldTransaction, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, apperror.ErrForbidden()
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	holds, total, err := s.holdRepo.List(ctx, status, page, pageSize)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list holds: %w", err))
	}
	return holds, total, nil
}

// Release completes a held transaction: the suspended amount moves to
// its destination, net of the fees recorded at initiation. Admin only.
func (s *HoldServiceImpl) Release(ctx context.Context, actor domain.Actor, holdID uuid.UUID, clientIP string) (*domain.Transaction, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden()
	}
	hold, err := s.hold(ctx, holdID)
	if err != nil {
		return nil, err
	}
	return s.release(ctx, actor, hold, clientIP)
}

// Cancel refunds a held transaction in full. No fees are taken on a
// cancelled hold. Admin only.
func (s *HoldServiceImpl) Cancel(ctx context.Context, actor domain.Actor, holdID uuid.UUID, clientIP string) (*domain.Transaction, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden()
	}
	hold, err := s.hold(ctx, holdID)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, actor, hold, clientIP)
}

// ApprovePurchase lets the counterparty merchant (or an admin) accept
// a pending service purchase, releasing its hold.
func (s *HoldServiceImpl) ApprovePurchase(ctx context.Context, actor domain.Actor, transactionID uuid.UUID) (*domain.Transaction, error) {
	hold, err := s.purchaseHold(ctx, actor, transactionID)
	if err != nil {
		return nil, err
	}
	return s.release(ctx, actor, hold, "")
}

// DeclinePurchase lets the counterparty merchant (or an admin) refuse
// a pending service purchase, refunding the buyer in full.
func (s *HoldServiceImpl) DeclinePurchase(ctx context.Context, actor domain.Actor, transactionID uuid.UUID) (*domain.Transaction, error) {
	hold, err := s.purchaseHold(ctx, actor, transactionID)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, actor, hold, "")
}

func (s *HoldServiceImpl) release(ctx context.Context, actor domain.Actor, hold *domain.HeldTransaction, clientIP string) (*domain.Transaction, error) {
	if !hold.Resolvable() {
		return nil, apperror.ErrInvalidStateTransition(string(hold.Status), string(domain.HoldStatusReleased))
	}
	txn, err := s.transaction(ctx, hold.TransactionID)
	if err != nil {
		return nil, err
	}
	if !txn.IsHeld() {
		return nil, apperror.ErrInvalidStateTransition(string(txn.Status), string(domain.TransactionStatusCompleted))
	}

	op, err := buildRelease(txn, hold)
	if err != nil {
		return nil, err
	}
	op.StatusChange = &domain.StatusChange{TransactionID: txn.ID, Status: domain.TransactionStatusCompleted}
	op.HoldChange = &domain.HoldChange{HoldID: hold.ID, Status: domain.HoldStatusReleased, ResolvedBy: actor.ID}

	if err := s.ledger.Post(ctx, op); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn.Status = domain.TransactionStatusCompleted
	txn.CompletedAt = &now

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:         uuid.New(),
		ActorID:    actor.ID,
		Action:     domain.AuditActionReleaseHold,
		EntityType: "hold",
		EntityID:   hold.ID.String(),
		Before:     string(domain.HoldStatusHeld),
		After:      string(domain.HoldStatusReleased),
		IPAddress:  clientIP,
		CreatedAt:  now,
	})
	if err := s.notifier.TransactionCompleted(ctx, txn); err != nil {
		s.log.Warn().Err(err).Str("tx_id", txn.ID.String()).Msg("release notification failed")
	}
	s.log.Info().
		Str("hold_id", hold.ID.String()).
		Str("tx_id", txn.ID.String()).
		Str("resolved_by", actor.ID.String()).
		Msg("hold released")

	return txn, nil
}

func (s *HoldServiceImpl) cancel(ctx context.Context, actor domain.Actor, hold *domain.HeldTransaction, clientIP string) (*domain.Transaction, error) {
	if !hold.Resolvable() {
		return nil, apperror.ErrInvalidStateTransition(string(hold.Status), string(domain.HoldStatusCancelled))
	}
	txn, err := s.transaction(ctx, hold.TransactionID)
	if err != nil {
		return nil, err
	}
	if !txn.IsHeld() {
		return nil, apperror.ErrInvalidStateTransition(string(txn.Status), string(domain.TransactionStatusCancelled))
	}

	op := &domain.FinancialOperation{
		Currency: hold.Currency,
		WalletDeltas: []domain.WalletMutation{
			{WalletID: hold.WalletID, Delta: hold.Amount, FrozenDelta: hold.Amount.Neg()},
		},
		Description: fmt.Sprintf("%s %s cancelled", strings.ToLower(string(txn.Type)), txn.ReferenceNumber),
		Lines: []domain.LedgerLine{
			domain.DebitLine(domain.LedgerSuspense, hold.Amount),
			domain.CreditLine(domain.LedgerUserWallets, hold.Amount),
		},
		StatusChange: &domain.StatusChange{TransactionID: txn.ID, Status: domain.TransactionStatusCancelled},
		HoldChange:   &domain.HoldChange{HoldID: hold.ID, Status: domain.HoldStatusCancelled, ResolvedBy: actor.ID},
	}
	if err := s.ledger.Post(ctx, op); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn.Status = domain.TransactionStatusCancelled
	txn.CompletedAt = &now

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:         uuid.New(),
		ActorID:    actor.ID,
		Action:     domain.AuditActionCancelHold,
		EntityType: "hold",
		EntityID:   hold.ID.String(),
		Before:     string(domain.HoldStatusHeld),
		After:      string(domain.HoldStatusCancelled),
		IPAddress:  clientIP,
		CreatedAt:  now,
	})
	if err := s.notifier.TransactionCancelled(ctx, txn); err != nil {
		s.log.Warn().Err(err).Str("tx_id", txn.ID.String()).Msg("cancel notification failed")
	}
	s.log.Info().
		Str("hold_id", hold.ID.String()).
		Str("tx_id", txn.ID.String()).
		Str("resolved_by", actor.ID.String()).
		Msg("hold cancelled")

	return txn, nil
}

// buildRelease routes the suspended amount to the destination the
// original operation was headed for. Fees recorded on the transaction
// at initiation are taken here, never on the held leg.
func buildRelease(txn *domain.Transaction, hold *domain.HeldTransaction) (*domain.FinancialOperation, error) {
	op := &domain.FinancialOperation{
		Currency:    hold.Currency,
		Description: fmt.Sprintf("%s %s released", strings.ToLower(string(txn.Type)), txn.ReferenceNumber),
		WalletDeltas: []domain.WalletMutation{
			{WalletID: hold.WalletID, FrozenDelta: hold.Amount.Neg()},
		},
		Lines: []domain.LedgerLine{
			domain.DebitLine(domain.LedgerSuspense, hold.Amount),
		},
	}

	switch txn.Type {
	case domain.TransactionTypeWithdraw:
		if txn.CounterpartyID == nil {
			return nil, apperror.InternalError(fmt.Errorf("held withdrawal %s has no agent", txn.ID))
		}
		agentShare := hold.Amount.Sub(txn.PlatformFee)
		op.CreditDeltas = []domain.CreditMutation{
			{AgentID: *txn.CounterpartyID, Currency: hold.Currency, Delta: agentShare},
		}
		op.Lines = append(op.Lines, domain.CreditLine(domain.LedgerAgentCredit, agentShare))

	case domain.TransactionTypeTransfer:
		if txn.RecipientWalletID == nil {
			return nil, apperror.InternalError(fmt.Errorf("held transfer %s has no recipient wallet", txn.ID))
		}
		op.WalletDeltas = append(op.WalletDeltas, domain.WalletMutation{WalletID: *txn.RecipientWalletID, Delta: txn.NetAmount})
		op.Lines = append(op.Lines, domain.CreditLine(domain.LedgerUserWallets, txn.NetAmount))

	case domain.TransactionTypeQRPayment, domain.TransactionTypeServicePurchase:
		if txn.RecipientWalletID == nil {
			return nil, apperror.InternalError(fmt.Errorf("held payment %s has no merchant wallet", txn.ID))
		}
		op.WalletDeltas = append(op.WalletDeltas, domain.WalletMutation{WalletID: *txn.RecipientWalletID, Delta: txn.NetAmount})
		op.Lines = append(op.Lines, domain.CreditLine(domain.LedgerMerchantBalance, txn.NetAmount))

	default:
		return nil, apperror.InternalError(fmt.Errorf("hold on unsupported transaction type %s", txn.Type))
	}

	if txn.PlatformFee.IsPositive() {
		op.Lines = append(op.Lines, domain.CreditLine(domain.LedgerRevenueFees, txn.PlatformFee))
	}
	return op, nil
}

// purchaseHold loads the hold behind a pending service purchase and
// authorizes the caller: the counterparty merchant or an admin.
func (s *HoldServiceImpl) purchaseHold(ctx context.Context, actor domain.Actor, transactionID uuid.UUID) (*domain.HeldTransaction, error) {
	txn, err := s.transaction(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.Type != domain.TransactionTypeServicePurchase {
		return nil, apperror.Validation("transaction is not a service purchase")
	}
	isMerchant := actor.Role == domain.RoleMerchant &&
		txn.CounterpartyID != nil && *txn.CounterpartyID == actor.ID
	if !actor.IsAdmin() && !isMerchant {
		return nil, apperror.ErrForbidden()
	}

	hold, err := s.holdRepo.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get hold: %w", err))
	}
	if hold == nil {
		return nil, apperror.ErrNotFound("hold")
	}
	return hold, nil
}

func (s *HoldServiceImpl) hold(ctx context.Context, id uuid.UUID) (*domain.HeldTransaction, error) {
	hold, err := s.holdRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get hold: %w", err))
	}
	if hold == nil {
		return nil, apperror.ErrNotFound("hold")
	}
	return hold, nil
}

func (s *HoldServiceImpl) transaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	return txn, nil
}

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

// SettlementServiceImpl implements ports.SettlementService: the agent
// credit lifecycle against the system reserve. Credit is granted out
// of the reserve, spent through deposits, and settled back when the
// agent returns cash. The reserve is the one account allowed to go
// negative; everything here keeps the per-currency books zero-sum.
type SettlementServiceImpl struct {
	txRepo      ports.TransactionRepository
	profileRepo ports.ProfileRepository
	creditRepo  ports.AgentCreditRepository
	walletRepo  ports.WalletRepository
	idempRepo   ports.IdempotencyRepository
	idempCache  ports.IdempotencyCache
	ledger      ports.LedgerPoster
	auditSvc    ports.AuditService
	notifier    ports.Notifier
	log         zerolog.Logger
}

// NewSettlementService creates a new SettlementServiceImpl.
func NewSettlementService(
	txRepo ports.TransactionRepository,
	profileRepo ports.ProfileRepository,
	creditRepo ports.AgentCreditRepository,
	walletRepo ports.WalletRepository,
	idempRepo ports.IdempotencyRepository,
	idempCache ports.IdempotencyCache,
	ledger ports.LedgerPoster,
	auditSvc ports.AuditService,
	notifier ports.Notifier,
	log zerolog.Logger,
) *SettlementServiceImpl {
	return &SettlementServiceImpl{
		txRepo:      txRepo,
		profileRepo: profileRepo,
		creditRepo:  creditRepo,
		walletRepo:  walletRepo,
		idempRepo:   idempRepo,
		idempCache:  idempCache,
		ledger:      ledger,
		auditSvc:    auditSvc,
		notifier:    notifier,
		log:         log,
	}
}

// GrantCredit loans e-float to an agent out of the system reserve.
// The reserve is debited and may go negative; the agent's credit line
// grows by the full amount. Admin only.
func (s *SettlementServiceImpl) GrantCredit(ctx context.Context, actor domain.Actor, req ports.CreditGrantRequest) (*domain.Transaction, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden()
	}
	if !domain.ValidAmount(req.Amount) {
		return nil, apperror.ErrInvalidAmount()
	}
	if !domain.ValidCurrency(req.Currency) {
		return nil, apperror.ErrInvalidCurrency(string(req.Currency))
	}
	if _, err := s.agentProfile(ctx, req.AgentID); err != nil {
		return nil, err
	}
	if _, err := s.ensureCredit(ctx, req.AgentID, req.Currency); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ref := domain.NewReferenceNumber(domain.TransactionTypeCreditGrant, now)
	txn := &domain.Transaction{
		ID:              uuid.New(),
		ReferenceNumber: ref,
		ClientReference: ref,
		Type:            domain.TransactionTypeCreditGrant,
		Amount:          req.Amount,
		PlatformFee:     decimal.Zero,
		AgentFee:        decimal.Zero,
		NetAmount:       req.Amount,
		Currency:        req.Currency,
		Status:          domain.TransactionStatusCompleted,
		InitiatorID:     actor.ID,
		CounterpartyID:  &req.AgentID,
		Note:            req.Note,
		CreatedAt:       now,
		CompletedAt:     &now,
	}

	op := &domain.FinancialOperation{
		Transaction: txn,
		Currency:    req.Currency,
		CreditDeltas: []domain.CreditMutation{
			{AgentID: req.AgentID, Currency: req.Currency, Delta: req.Amount},
		},
		Description: fmt.Sprintf("credit grant %s", txn.ReferenceNumber),
		Lines: []domain.LedgerLine{
			domain.DebitLine(domain.LedgerSystemReserve, req.Amount),
			domain.CreditLine(domain.LedgerAgentCredit, req.Amount),
		},
	}
	if err := s.ledger.Post(ctx, op); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:         uuid.New(),
		ActorID:    actor.ID,
		Action:     domain.AuditActionCreditGrant,
		EntityType: "agent_credit",
		EntityID:   req.AgentID.String(),
		After:      fmt.Sprintf(`{"amount":%q,"currency":%q}`, req.Amount.StringFixed(2), req.Currency),
		IPAddress:  req.ClientIP,
		CreatedAt:  now,
	})
	s.notifyCompleted(ctx, txn)
	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("agent_id", req.AgentID.String()).
		Str("amount", req.Amount.StringFixed(2)).
		Str("currency", string(req.Currency)).
		Msg("credit granted")

	return txn, nil
}

// RequestSettlement declares cash an agent is returning to the
// platform. The amount leaves the agent's credit line and parks as a
// pending obligation until an admin confirms receipt; the credit line
// may not go negative.
func (s *SettlementServiceImpl) RequestSettlement(ctx context.Context, actor domain.Actor, req ports.SettlementRequest) (*domain.Transaction, error) {
	if !actor.IsAdmin() && actor.ID != req.AgentID {
		return nil, apperror.ErrForbidden()
	}
	if !domain.ValidAmount(req.Amount) {
		return nil, apperror.ErrInvalidAmount()
	}
	if !domain.ValidCurrency(req.Currency) {
		return nil, apperror.ErrInvalidCurrency(string(req.Currency))
	}
	if req.ClientReference == "" {
		return nil, apperror.Validation("client_reference is required")
	}

	idempKey := domain.BuildIdempotencyKey(req.AgentID, req.ClientReference)
	if cached, err := s.checkIdempotency(ctx, idempKey); cached != nil || err != nil {
		return cached, err
	}

	if _, err := s.agentProfile(ctx, req.AgentID); err != nil {
		return nil, err
	}
	credit, err := s.creditRepo.Get(ctx, req.AgentID, req.Currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get agent credit: %w", err))
	}
	if credit == nil {
		return nil, apperror.ErrNotFound("agent credit line")
	}
	if !credit.CanSpend(req.Amount) {
		return nil, apperror.ErrInsufficientCredit()
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:              uuid.New(),
		ReferenceNumber: domain.NewReferenceNumber(domain.TransactionTypeSettlement, now),
		ClientReference: req.ClientReference,
		Type:            domain.TransactionTypeSettlement,
		Amount:          req.Amount,
		PlatformFee:     decimal.Zero,
		AgentFee:        decimal.Zero,
		NetAmount:       req.Amount,
		Currency:        req.Currency,
		Status:          domain.TransactionStatusPending,
		InitiatorID:     req.AgentID,
		CreatedAt:       now,
	}

	idempLog, respJSON, err := buildIdempotencyLog(idempKey, txn, now)
	if err != nil {
		return nil, err
	}
	op := &domain.FinancialOperation{
		Transaction: txn,
		Currency:    req.Currency,
		CreditDeltas: []domain.CreditMutation{
			{AgentID: req.AgentID, Currency: req.Currency, Delta: req.Amount.Neg()},
		},
		Description: fmt.Sprintf("settlement %s requested", txn.ReferenceNumber),
		Lines: []domain.LedgerLine{
			domain.DebitLine(domain.LedgerAgentCredit, req.Amount),
			domain.CreditLine(domain.LedgerSettlementsDue, req.Amount),
		},
		IdempotencyLog: idempLog,
	}
	if err := s.ledger.Post(ctx, op); err != nil {
		return nil, err
	}

	if err := s.idempCache.Set(ctx, idempKey, respJSON, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache idempotency in redis")
	}
	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("agent_id", req.AgentID.String()).
		Str("amount", req.Amount.StringFixed(2)).
		Str("currency", string(req.Currency)).
		Msg("settlement requested")

	return txn, nil
}

// ConfirmSettlement records receipt of the declared cash: the pending
// obligation clears into the reserve and the settlement completes.
// Admin only.
func (s *SettlementServiceImpl) ConfirmSettlement(ctx context.Context, actor domain.Actor, transactionID uuid.UUID, clientIP string) (*domain.Transaction, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden()
	}
	txn, err := s.txRepo.GetByID(ctx, transactionID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	if txn.Type != domain.TransactionTypeSettlement {
		return nil, apperror.Validation("transaction is not a settlement")
	}
	if txn.Status != domain.TransactionStatusPending {
		return nil, apperror.ErrInvalidStateTransition(string(txn.Status), string(domain.TransactionStatusCompleted))
	}

	op := &domain.FinancialOperation{
		Currency:    txn.Currency,
		Description: fmt.Sprintf("settlement %s confirmed", txn.ReferenceNumber),
		Lines: []domain.LedgerLine{
			domain.DebitLine(domain.LedgerSettlementsDue, txn.Amount),
			domain.CreditLine(domain.LedgerCash, txn.Amount),
		},
		StatusChange: &domain.StatusChange{TransactionID: txn.ID, Status: domain.TransactionStatusCompleted},
	}
	if err := s.ledger.Post(ctx, op); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn.Status = domain.TransactionStatusCompleted
	txn.CompletedAt = &now

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:         uuid.New(),
		ActorID:    actor.ID,
		Action:     domain.AuditActionSettlementConfirm,
		EntityType: "transaction",
		EntityID:   txn.ID.String(),
		Before:     string(domain.TransactionStatusPending),
		After:      string(domain.TransactionStatusCompleted),
		IPAddress:  clientIP,
		CreatedAt:  now,
	})
	s.notifyCompleted(ctx, txn)
	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("agent_id", txn.InitiatorID.String()).
		Str("amount", txn.Amount.StringFixed(2)).
		Msg("settlement confirmed")

	return txn, nil
}

// RecordSettlement is request immediately followed by confirm, for
// over-the-counter cash returns taken by the back office. Admin only.
func (s *SettlementServiceImpl) RecordSettlement(ctx context.Context, actor domain.Actor, req ports.SettlementRequest) (*domain.Transaction, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden()
	}
	txn, err := s.RequestSettlement(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.TransactionStatusPending {
		// Replayed reference: the earlier run already holds the answer.
		return txn, nil
	}
	return s.ConfirmSettlement(ctx, actor, txn.ID, req.ClientIP)
}

// DistributeProfit moves accumulated platform fees into a merchant's
// business wallet. Fails if more is distributed than was ever
// collected, because the fee bucket may not go negative. Admin only.
func (s *SettlementServiceImpl) DistributeProfit(ctx context.Context, actor domain.Actor, req ports.ProfitDistributionRequest) (*domain.Transaction, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden()
	}
	if !domain.ValidAmount(req.Amount) {
		return nil, apperror.ErrInvalidAmount()
	}
	if !domain.ValidCurrency(req.Currency) {
		return nil, apperror.ErrInvalidCurrency(string(req.Currency))
	}

	merchant, err := s.profileRepo.GetByID(ctx, req.MerchantID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get profile: %w", err))
	}
	if merchant == nil {
		return nil, apperror.ErrNotFound("profile")
	}
	if merchant.Kind != domain.ProfileKindMerchant {
		return nil, apperror.Validation("profile is not a merchant")
	}
	if !merchant.IsActive() {
		return nil, apperror.ErrProfileSuspended()
	}

	wallet, err := s.ensureBusinessWallet(ctx, merchant.ID, req.Currency)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	ref := domain.NewReferenceNumber(domain.TransactionTypeProfitDistribution, now)
	txn := &domain.Transaction{
		ID:                uuid.New(),
		ReferenceNumber:   ref,
		ClientReference:   ref,
		Type:              domain.TransactionTypeProfitDistribution,
		Amount:            req.Amount,
		PlatformFee:       decimal.Zero,
		AgentFee:          decimal.Zero,
		NetAmount:         req.Amount,
		Currency:          req.Currency,
		Status:            domain.TransactionStatusCompleted,
		RecipientWalletID: &wallet.ID,
		InitiatorID:       actor.ID,
		CounterpartyID:    &req.MerchantID,
		Note:              req.Note,
		CreatedAt:         now,
		CompletedAt:       &now,
	}

	op := &domain.FinancialOperation{
		Transaction: txn,
		Currency:    req.Currency,
		WalletDeltas: []domain.WalletMutation{
			{WalletID: wallet.ID, Delta: req.Amount},
		},
		Description: fmt.Sprintf("profit distribution %s", txn.ReferenceNumber),
		Lines: []domain.LedgerLine{
			domain.DebitLine(domain.LedgerRevenueFees, req.Amount),
			domain.CreditLine(domain.LedgerMerchantBalance, req.Amount),
		},
	}
	if err := s.ledger.Post(ctx, op); err != nil {
		return nil, err
	}

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:         uuid.New(),
		ActorID:    actor.ID,
		Action:     domain.AuditActionProfitDistribute,
		EntityType: "wallet",
		EntityID:   wallet.ID.String(),
		After:      fmt.Sprintf(`{"amount":%q,"currency":%q}`, req.Amount.StringFixed(2), req.Currency),
		IPAddress:  req.ClientIP,
		CreatedAt:  now,
	})
	s.notifyCompleted(ctx, txn)
	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("merchant_id", req.MerchantID.String()).
		Str("amount", req.Amount.StringFixed(2)).
		Msg("profit distributed")

	return txn, nil
}

// GetCredit returns an agent's credit line; visible to the agent and
// admins.
func (s *SettlementServiceImpl) GetCredit(ctx context.Context, actor domain.Actor, agentID uuid.UUID, currency domain.Currency) (*domain.AgentCredit, error) {
	if !actor.CanAccess(agentID) {
		return nil, apperror.ErrForbidden()
	}
	if !domain.ValidCurrency(currency) {
		return nil, apperror.ErrInvalidCurrency(string(currency))
	}
	credit, err := s.creditRepo.Get(ctx, agentID, currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get agent credit: %w", err))
	}
	if credit == nil {
		return nil, apperror.ErrNotFound("agent credit line")
	}
	return credit, nil
}

func (s *SettlementServiceImpl) agentProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get profile: %w", err))
	}
	if profile == nil {
		return nil, apperror.ErrNotFound("profile")
	}
	if profile.Kind != domain.ProfileKindAgent {
		return nil, apperror.Validation("profile is not an agent")
	}
	if !profile.IsActive() {
		return nil, apperror.ErrProfileSuspended()
	}
	return profile, nil
}

// ensureCredit fetches or opens the agent's credit line. A first grant
// is enough to bring the line into existence.
func (s *SettlementServiceImpl) ensureCredit(ctx context.Context, agentID uuid.UUID, currency domain.Currency) (*domain.AgentCredit, error) {
	credit, err := s.creditRepo.Get(ctx, agentID, currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get agent credit: %w", err))
	}
	if credit != nil {
		return credit, nil
	}

	now := time.Now().UTC()
	credit = &domain.AgentCredit{
		AgentID:   agentID,
		Currency:  currency,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.creditRepo.Create(ctx, credit); err != nil {
		if isUniqueViolation(err) {
			return s.creditRepo.Get(ctx, agentID, currency)
		}
		return nil, apperror.InternalError(fmt.Errorf("create agent credit: %w", err))
	}
	return credit, nil
}

func (s *SettlementServiceImpl) ensureBusinessWallet(ctx context.Context, ownerID uuid.UUID, currency domain.Currency) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByOwner(ctx, ownerID, currency, domain.PurposeBusiness)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet != nil {
		if !wallet.Active {
			return nil, apperror.ErrWalletInactive()
		}
		return wallet, nil
	}

	now := time.Now().UTC()
	wallet = &domain.Wallet{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Currency:      currency,
		Purpose:       domain.PurposeBusiness,
		Balance:       decimal.Zero,
		FrozenBalance: decimal.Zero,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		if isUniqueViolation(err) {
			return s.walletRepo.GetByOwner(ctx, ownerID, currency, domain.PurposeBusiness)
		}
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}
	return wallet, nil
}

// checkIdempotency runs the two-layer replay check shared with the
// transaction processor: Redis first, DB second.
func (s *SettlementServiceImpl) checkIdempotency(ctx context.Context, key string) (*domain.Transaction, error) {
	cached, err := s.idempCache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("redis idempotency check failed, falling through to DB")
	}
	if cached != nil {
		return unmarshalCachedTransaction(cached)
	}

	idempLog, err := s.idempRepo.Get(ctx, key)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("db idempotency check: %w", err))
	}
	if idempLog != nil {
		return unmarshalCachedTransaction(idempLog.ResponseJSON)
	}
	return nil, nil
}

func (s *SettlementServiceImpl) notifyCompleted(ctx context.Context, txn *domain.Transaction) {
	if err := s.notifier.TransactionCompleted(ctx, txn); err != nil {
		s.log.Warn().Err(err).Str("tx_id", txn.ID.String()).Msg("transaction notification failed")
	}
}

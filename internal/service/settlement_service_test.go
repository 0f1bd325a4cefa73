package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fincore/internal/core/domain"
	"fincore/internal/core/ports"
	"fincore/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type settlementTestDeps struct {
	svc         *SettlementServiceImpl
	txRepo      *mocks.MockTransactionRepository
	profileRepo *mocks.MockProfileRepository
	creditRepo  *mocks.MockAgentCreditRepository
	walletRepo  *mocks.MockWalletRepository
	idempRepo   *mocks.MockIdempotencyRepository
	idempCache  *mocks.MockIdempotencyCache
	ledger      *mocks.MockLedgerPoster
	auditSvc    *mocks.MockAuditService
	notifier    *mocks.MockNotifier
	ctrl        *gomock.Controller
}

func setupSettlementService(t *testing.T) *settlementTestDeps {
	ctrl := gomock.NewController(t)
	d := &settlementTestDeps{
		txRepo:      mocks.NewMockTransactionRepository(ctrl),
		profileRepo: mocks.NewMockProfileRepository(ctrl),
		creditRepo:  mocks.NewMockAgentCreditRepository(ctrl),
		walletRepo:  mocks.NewMockWalletRepository(ctrl),
		idempRepo:   mocks.NewMockIdempotencyRepository(ctrl),
		idempCache:  mocks.NewMockIdempotencyCache(ctrl),
		ledger:      mocks.NewMockLedgerPoster(ctrl),
		auditSvc:    mocks.NewMockAuditService(ctrl),
		notifier:    mocks.NewMockNotifier(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewSettlementService(
		d.txRepo, d.profileRepo, d.creditRepo, d.walletRepo,
		d.idempRepo, d.idempCache, d.ledger, d.auditSvc, d.notifier,
		zerolog.Nop(),
	)
	return d
}

func (d *settlementTestDeps) expectNoReplay(ctx context.Context, key string) {
	d.idempCache.EXPECT().Get(ctx, key).Return(nil, nil)
	d.idempRepo.EXPECT().Get(ctx, key).Return(nil, nil)
}

func creditLine(agentID uuid.UUID, balance string) *domain.AgentCredit {
	return &domain.AgentCredit{
		AgentID:  agentID,
		Currency: domain.CurrencyUSD,
		Balance:  decimal.RequireFromString(balance),
	}
}

// ==================== GrantCredit Tests ====================

func TestSettlementService_GrantCredit_Success(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	agentID := uuid.New()

	d.profileRepo.EXPECT().GetByID(ctx, agentID).Return(activeProfile(agentID, domain.ProfileKindAgent), nil)
	d.creditRepo.EXPECT().Get(ctx, agentID, domain.CurrencyUSD).Return(creditLine(agentID, "1000"), nil)
	var posted *domain.FinancialOperation
	d.ledger.EXPECT().Post(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, op *domain.FinancialOperation) error {
			posted = op
			return nil
		},
	)
	d.auditSvc.EXPECT().Log(ctx, gomock.Any()).Do(
		func(_ context.Context, entry *domain.AuditLog) {
			assert.Equal(t, domain.AuditActionCreditGrant, entry.Action)
			assert.Equal(t, "agent_credit", entry.EntityType)
			assert.Equal(t, agentID.String(), entry.EntityID)
			assert.Equal(t, `{"amount":"5000.00","currency":"USD"}`, entry.After)
		},
	)
	d.notifier.EXPECT().TransactionCompleted(ctx, gomock.Any()).Return(nil)

	txn, err := d.svc.GrantCredit(ctx, adminActor, ports.CreditGrantRequest{
		AgentID:  agentID,
		Amount:   decimal.NewFromInt(5000),
		Currency: domain.CurrencyUSD,
		ClientIP: "198.51.100.20",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeCreditGrant, txn.Type)
	assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
	assert.NotNil(t, txn.CompletedAt)
	assert.Equal(t, txn.ReferenceNumber, txn.ClientReference)
	require.NotNil(t, txn.CounterpartyID)
	assert.Equal(t, agentID, *txn.CounterpartyID)

	// The reserve is the source and may go negative; the agent's line
	// grows by the full amount.
	require.NotNil(t, posted)
	require.Len(t, posted.CreditDeltas, 1)
	assert.Equal(t, agentID, posted.CreditDeltas[0].AgentID)
	assert.True(t, posted.CreditDeltas[0].Delta.Equal(decimal.NewFromInt(5000)))
	require.Len(t, posted.Lines, 2)
	assertLine(t, posted.Lines[0], domain.LedgerSystemReserve, "5000", "0")
	assertLine(t, posted.Lines[1], domain.LedgerAgentCredit, "0", "5000")
}

func TestSettlementService_GrantCredit_OpensMissingLine(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	agentID := uuid.New()

	d.profileRepo.EXPECT().GetByID(ctx, agentID).Return(activeProfile(agentID, domain.ProfileKindAgent), nil)
	d.creditRepo.EXPECT().Get(ctx, agentID, domain.CurrencyUSD).Return(nil, nil)
	d.creditRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, credit *domain.AgentCredit) error {
			assert.Equal(t, agentID, credit.AgentID)
			assert.True(t, credit.Balance.IsZero())
			return nil
		},
	)
	d.ledger.EXPECT().Post(ctx, gomock.Any()).Return(nil)
	d.auditSvc.EXPECT().Log(ctx, gomock.Any())
	d.notifier.EXPECT().TransactionCompleted(ctx, gomock.Any()).Return(nil)

	_, err := d.svc.GrantCredit(ctx, adminActor, ports.CreditGrantRequest{
		AgentID:  agentID,
		Amount:   decimal.NewFromInt(500),
		Currency: domain.CurrencyUSD,
	})
	require.NoError(t, err)
}

func TestSettlementService_GrantCredit_AdminOnly(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	agent := domain.Actor{ID: uuid.New(), Role: domain.RoleAgent}
	_, err := d.svc.GrantCredit(context.Background(), agent, ports.CreditGrantRequest{
		AgentID:  agent.ID,
		Amount:   decimal.NewFromInt(100),
		Currency: domain.CurrencyUSD,
	})
	assertAppError(t, err, "AUTH_002")
}

func TestSettlementService_GrantCredit_NotAnAgent(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	userID := uuid.New()
	d.profileRepo.EXPECT().GetByID(ctx, userID).Return(activeProfile(userID, domain.ProfileKindUser), nil)

	_, err := d.svc.GrantCredit(ctx, adminActor, ports.CreditGrantRequest{
		AgentID:  userID,
		Amount:   decimal.NewFromInt(100),
		Currency: domain.CurrencyUSD,
	})
	assertAppError(t, err, "PAY_002")
}

// ==================== RequestSettlement Tests ====================

func TestSettlementService_RequestSettlement_AgentSelf(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	agentID := uuid.New()
	agent := domain.Actor{ID: agentID, Role: domain.RoleAgent}
	key := domain.BuildIdempotencyKey(agentID, "settle-aug-25")

	d.expectNoReplay(ctx, key)
	d.profileRepo.EXPECT().GetByID(ctx, agentID).Return(activeProfile(agentID, domain.ProfileKindAgent), nil)
	d.creditRepo.EXPECT().Get(ctx, agentID, domain.CurrencyUSD).Return(creditLine(agentID, "5000"), nil)
	var posted *domain.FinancialOperation
	d.ledger.EXPECT().Post(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, op *domain.FinancialOperation) error {
			posted = op
			return nil
		},
	)
	d.idempCache.EXPECT().Set(ctx, key, gomock.Any(), idempotencyTTL).Return(nil)

	txn, err := d.svc.RequestSettlement(ctx, agent, ports.SettlementRequest{
		AgentID:         agentID,
		Amount:          decimal.NewFromInt(3000),
		Currency:        domain.CurrencyUSD,
		ClientReference: "settle-aug-25",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeSettlement, txn.Type)
	assert.Equal(t, domain.TransactionStatusPending, txn.Status)
	assert.Nil(t, txn.CompletedAt)
	assert.Equal(t, agentID, txn.InitiatorID)

	// The declared cash leaves the credit line immediately and parks
	// as a pending obligation until an admin confirms receipt.
	require.NotNil(t, posted)
	require.Len(t, posted.CreditDeltas, 1)
	assert.True(t, posted.CreditDeltas[0].Delta.Equal(decimal.NewFromInt(-3000)))
	require.Len(t, posted.Lines, 2)
	assertLine(t, posted.Lines[0], domain.LedgerAgentCredit, "3000", "0")
	assertLine(t, posted.Lines[1], domain.LedgerSettlementsDue, "0", "3000")
	require.NotNil(t, posted.IdempotencyLog)
	assert.Equal(t, key, posted.IdempotencyLog.Key)
}

func TestSettlementService_RequestSettlement_OtherAgentForbidden(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	agent := domain.Actor{ID: uuid.New(), Role: domain.RoleAgent}
	_, err := d.svc.RequestSettlement(context.Background(), agent, ports.SettlementRequest{
		AgentID:         uuid.New(),
		Amount:          decimal.NewFromInt(100),
		Currency:        domain.CurrencyUSD,
		ClientReference: "settle-other",
	})
	assertAppError(t, err, "AUTH_002")
}

func TestSettlementService_RequestSettlement_InsufficientCredit(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	agentID := uuid.New()
	agent := domain.Actor{ID: agentID, Role: domain.RoleAgent}
	key := domain.BuildIdempotencyKey(agentID, "settle-too-much")

	d.expectNoReplay(ctx, key)
	d.profileRepo.EXPECT().GetByID(ctx, agentID).Return(activeProfile(agentID, domain.ProfileKindAgent), nil)
	d.creditRepo.EXPECT().Get(ctx, agentID, domain.CurrencyUSD).Return(creditLine(agentID, "100"), nil)

	_, err := d.svc.RequestSettlement(ctx, agent, ports.SettlementRequest{
		AgentID:         agentID,
		Amount:          decimal.NewFromInt(500),
		Currency:        domain.CurrencyUSD,
		ClientReference: "settle-too-much",
	})
	assertAppError(t, err, "PAY_010")
}

func TestSettlementService_RequestSettlement_ReplayFromCache(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	agentID := uuid.New()
	agent := domain.Actor{ID: agentID, Role: domain.RoleAgent}
	key := domain.BuildIdempotencyKey(agentID, "settle-replay")

	original := &domain.Transaction{
		ID:              uuid.New(),
		Type:            domain.TransactionTypeSettlement,
		Status:          domain.TransactionStatusPending,
		Amount:          decimal.NewFromInt(3000),
		Currency:        domain.CurrencyUSD,
		InitiatorID:     agentID,
		ClientReference: "settle-replay",
	}
	cached, err := json.Marshal(original)
	require.NoError(t, err)
	d.idempCache.EXPECT().Get(ctx, key).Return(cached, nil)

	txn, err := d.svc.RequestSettlement(ctx, agent, ports.SettlementRequest{
		AgentID:         agentID,
		Amount:          decimal.NewFromInt(3000),
		Currency:        domain.CurrencyUSD,
		ClientReference: "settle-replay",
	})
	require.NoError(t, err)
	assert.Equal(t, original.ID, txn.ID)
}

// ==================== ConfirmSettlement Tests ====================

func TestSettlementService_ConfirmSettlement_Success(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	agentID := uuid.New()
	txn := &domain.Transaction{
		ID:              uuid.New(),
		ReferenceNumber: "STL-20250801-BEEF0006",
		Type:            domain.TransactionTypeSettlement,
		Amount:          decimal.NewFromInt(3000),
		Currency:        domain.CurrencyUSD,
		Status:          domain.TransactionStatusPending,
		InitiatorID:     agentID,
	}

	d.txRepo.EXPECT().GetByID(ctx, txn.ID).Return(txn, nil)
	var posted *domain.FinancialOperation
	d.ledger.EXPECT().Post(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, op *domain.FinancialOperation) error {
			posted = op
			return nil
		},
	)
	d.auditSvc.EXPECT().Log(ctx, gomock.Any()).Do(
		func(_ context.Context, entry *domain.AuditLog) {
			assert.Equal(t, domain.AuditActionSettlementConfirm, entry.Action)
			assert.Equal(t, string(domain.TransactionStatusPending), entry.Before)
			assert.Equal(t, string(domain.TransactionStatusCompleted), entry.After)
		},
	)
	d.notifier.EXPECT().TransactionCompleted(ctx, gomock.Any()).Return(nil)

	got, err := d.svc.ConfirmSettlement(ctx, adminActor, txn.ID, "198.51.100.20")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)

	// Receipt of cash clears the pending obligation into the reserve.
	require.NotNil(t, posted)
	require.Len(t, posted.Lines, 2)
	assertLine(t, posted.Lines[0], domain.LedgerSettlementsDue, "3000", "0")
	assertLine(t, posted.Lines[1], domain.LedgerCash, "0", "3000")
	require.NotNil(t, posted.StatusChange)
	assert.Equal(t, domain.TransactionStatusCompleted, posted.StatusChange.Status)
}

func TestSettlementService_ConfirmSettlement_NotPending(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	txnID := uuid.New()
	d.txRepo.EXPECT().GetByID(ctx, txnID).Return(&domain.Transaction{
		ID:     txnID,
		Type:   domain.TransactionTypeSettlement,
		Status: domain.TransactionStatusCompleted,
	}, nil)

	_, err := d.svc.ConfirmSettlement(ctx, adminActor, txnID, "")
	assertAppError(t, err, "PAY_008")
}

func TestSettlementService_ConfirmSettlement_NotASettlement(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	txnID := uuid.New()
	d.txRepo.EXPECT().GetByID(ctx, txnID).Return(&domain.Transaction{
		ID:     txnID,
		Type:   domain.TransactionTypeDeposit,
		Status: domain.TransactionStatusPending,
	}, nil)

	_, err := d.svc.ConfirmSettlement(ctx, adminActor, txnID, "")
	assertAppError(t, err, "PAY_002")
}

func TestSettlementService_ConfirmSettlement_AdminOnly(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	agent := domain.Actor{ID: uuid.New(), Role: domain.RoleAgent}
	_, err := d.svc.ConfirmSettlement(context.Background(), agent, uuid.New(), "")
	assertAppError(t, err, "AUTH_002")
}

// ==================== RecordSettlement Tests ====================

func TestSettlementService_RecordSettlement_RequestsAndConfirms(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	agentID := uuid.New()
	key := domain.BuildIdempotencyKey(agentID, "otc-return-01")

	d.expectNoReplay(ctx, key)
	d.profileRepo.EXPECT().GetByID(ctx, agentID).Return(activeProfile(agentID, domain.ProfileKindAgent), nil)
	d.creditRepo.EXPECT().Get(ctx, agentID, domain.CurrencyUSD).Return(creditLine(agentID, "5000"), nil)

	var pending *domain.Transaction
	gomock.InOrder(
		d.ledger.EXPECT().Post(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, op *domain.FinancialOperation) error {
				pending = op.Transaction
				assertLine(t, op.Lines[0], domain.LedgerAgentCredit, "2000", "0")
				assertLine(t, op.Lines[1], domain.LedgerSettlementsDue, "0", "2000")
				return nil
			},
		),
		d.ledger.EXPECT().Post(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, op *domain.FinancialOperation) error {
				assertLine(t, op.Lines[0], domain.LedgerSettlementsDue, "2000", "0")
				assertLine(t, op.Lines[1], domain.LedgerCash, "0", "2000")
				return nil
			},
		),
	)
	d.idempCache.EXPECT().Set(ctx, key, gomock.Any(), idempotencyTTL).Return(nil)
	d.txRepo.EXPECT().GetByID(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, id uuid.UUID) (*domain.Transaction, error) {
			require.NotNil(t, pending)
			assert.Equal(t, pending.ID, id)
			return pending, nil
		},
	)
	d.auditSvc.EXPECT().Log(ctx, gomock.Any())
	d.notifier.EXPECT().TransactionCompleted(ctx, gomock.Any()).Return(nil)

	txn, err := d.svc.RecordSettlement(ctx, adminActor, ports.SettlementRequest{
		AgentID:         agentID,
		Amount:          decimal.NewFromInt(2000),
		Currency:        domain.CurrencyUSD,
		ClientReference: "otc-return-01",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
}

func TestSettlementService_RecordSettlement_ReplayShortCircuits(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	agentID := uuid.New()
	key := domain.BuildIdempotencyKey(agentID, "otc-return-02")

	// The earlier run already confirmed; the replay must not post a
	// second confirmation.
	done := time.Now().UTC()
	original := &domain.Transaction{
		ID:          uuid.New(),
		Type:        domain.TransactionTypeSettlement,
		Status:      domain.TransactionStatusCompleted,
		Amount:      decimal.NewFromInt(2000),
		Currency:    domain.CurrencyUSD,
		InitiatorID: agentID,
		CompletedAt: &done,
	}
	cached, err := json.Marshal(original)
	require.NoError(t, err)
	d.idempCache.EXPECT().Get(ctx, key).Return(cached, nil)

	txn, err := d.svc.RecordSettlement(ctx, adminActor, ports.SettlementRequest{
		AgentID:         agentID,
		Amount:          decimal.NewFromInt(2000),
		Currency:        domain.CurrencyUSD,
		ClientReference: "otc-return-02",
	})
	require.NoError(t, err)
	assert.Equal(t, original.ID, txn.ID)
	assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
}

// ==================== DistributeProfit Tests ====================

func TestSettlementService_DistributeProfit_Success(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	wallet := businessWallet(merchantID, "500")

	d.profileRepo.EXPECT().GetByID(ctx, merchantID).Return(activeProfile(merchantID, domain.ProfileKindMerchant), nil)
	d.walletRepo.EXPECT().GetByOwner(ctx, merchantID, domain.CurrencyUSD, domain.PurposeBusiness).Return(wallet, nil)
	var posted *domain.FinancialOperation
	d.ledger.EXPECT().Post(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, op *domain.FinancialOperation) error {
			posted = op
			return nil
		},
	)
	d.auditSvc.EXPECT().Log(ctx, gomock.Any()).Do(
		func(_ context.Context, entry *domain.AuditLog) {
			assert.Equal(t, domain.AuditActionProfitDistribute, entry.Action)
			assert.Equal(t, "wallet", entry.EntityType)
			assert.Equal(t, wallet.ID.String(), entry.EntityID)
		},
	)
	d.notifier.EXPECT().TransactionCompleted(ctx, gomock.Any()).Return(nil)

	txn, err := d.svc.DistributeProfit(ctx, adminActor, ports.ProfitDistributionRequest{
		MerchantID: merchantID,
		Amount:     decimal.NewFromInt(250),
		Currency:   domain.CurrencyUSD,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionTypeProfitDistribution, txn.Type)
	assert.Equal(t, domain.TransactionStatusCompleted, txn.Status)
	require.NotNil(t, txn.RecipientWalletID)
	assert.Equal(t, wallet.ID, *txn.RecipientWalletID)

	// Collected fees move out of the revenue bucket; the bucket may
	// not go negative, so over-distribution fails at posting time.
	require.NotNil(t, posted)
	require.Len(t, posted.WalletDeltas, 1)
	assert.Equal(t, wallet.ID, posted.WalletDeltas[0].WalletID)
	assert.True(t, posted.WalletDeltas[0].Delta.Equal(decimal.NewFromInt(250)))
	require.Len(t, posted.Lines, 2)
	assertLine(t, posted.Lines[0], domain.LedgerRevenueFees, "250", "0")
	assertLine(t, posted.Lines[1], domain.LedgerMerchantBalance, "0", "250")
}

func TestSettlementService_DistributeProfit_CreatesMissingWallet(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()

	d.profileRepo.EXPECT().GetByID(ctx, merchantID).Return(activeProfile(merchantID, domain.ProfileKindMerchant), nil)
	d.walletRepo.EXPECT().GetByOwner(ctx, merchantID, domain.CurrencyUSD, domain.PurposeBusiness).Return(nil, nil)
	d.walletRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, w *domain.Wallet) error {
			assert.Equal(t, merchantID, w.OwnerID)
			assert.Equal(t, domain.PurposeBusiness, w.Purpose)
			assert.True(t, w.Balance.IsZero())
			assert.True(t, w.Active)
			return nil
		},
	)
	d.ledger.EXPECT().Post(ctx, gomock.Any()).Return(nil)
	d.auditSvc.EXPECT().Log(ctx, gomock.Any())
	d.notifier.EXPECT().TransactionCompleted(ctx, gomock.Any()).Return(nil)

	_, err := d.svc.DistributeProfit(ctx, adminActor, ports.ProfitDistributionRequest{
		MerchantID: merchantID,
		Amount:     decimal.NewFromInt(100),
		Currency:   domain.CurrencyUSD,
	})
	require.NoError(t, err)
}

func TestSettlementService_DistributeProfit_NotAMerchant(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	agentID := uuid.New()
	d.profileRepo.EXPECT().GetByID(ctx, agentID).Return(activeProfile(agentID, domain.ProfileKindAgent), nil)

	_, err := d.svc.DistributeProfit(ctx, adminActor, ports.ProfitDistributionRequest{
		MerchantID: agentID,
		Amount:     decimal.NewFromInt(100),
		Currency:   domain.CurrencyUSD,
	})
	assertAppError(t, err, "PAY_002")
}

func TestSettlementService_DistributeProfit_AdminOnly(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	merchant := domain.Actor{ID: uuid.New(), Role: domain.RoleMerchant}
	_, err := d.svc.DistributeProfit(context.Background(), merchant, ports.ProfitDistributionRequest{
		MerchantID: merchant.ID,
		Amount:     decimal.NewFromInt(100),
		Currency:   domain.CurrencyUSD,
	})
	assertAppError(t, err, "AUTH_002")
}

// ==================== GetCredit Tests ====================

func TestSettlementService_GetCredit_AgentSelf(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	agentID := uuid.New()
	agent := domain.Actor{ID: agentID, Role: domain.RoleAgent}
	d.creditRepo.EXPECT().Get(ctx, agentID, domain.CurrencyUSD).Return(creditLine(agentID, "1200"), nil)

	credit, err := d.svc.GetCredit(ctx, agent, agentID, domain.CurrencyUSD)
	require.NoError(t, err)
	assert.True(t, credit.Balance.Equal(decimal.NewFromInt(1200)))
}

func TestSettlementService_GetCredit_StrangerForbidden(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	stranger := domain.Actor{ID: uuid.New(), Role: domain.RoleAgent}
	_, err := d.svc.GetCredit(context.Background(), stranger, uuid.New(), domain.CurrencyUSD)
	assertAppError(t, err, "AUTH_002")
}

func TestSettlementService_GetCredit_NotFound(t *testing.T) {
	d := setupSettlementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	agentID := uuid.New()
	d.creditRepo.EXPECT().Get(ctx, agentID, domain.CurrencyUSD).Return(nil, nil)

	_, err := d.svc.GetCredit(ctx, adminActor, agentID, domain.CurrencyUSD)
	assertAppError(t, err, "PAY_004")
}

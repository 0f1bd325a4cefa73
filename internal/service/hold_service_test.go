package service

import (
	"context"
	"testing"

	"fincore/internal/core/domain"
	"fincore/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type holdTestDeps struct {
	svc      *HoldServiceImpl
	holdRepo *mocks.MockHoldRepository
	txRepo   *mocks.MockTransactionRepository
	ledger   *mocks.MockLedgerPoster
	auditSvc *mocks.MockAuditService
	notifier *mocks.MockNotifier
	ctrl     *gomock.Controller
}

func setupHoldService(t *testing.T) *holdTestDeps {
	ctrl := gomock.NewController(t)
	d := &holdTestDeps{
		holdRepo: mocks.NewMockHoldRepository(ctrl),
		txRepo:   mocks.NewMockTransactionRepository(ctrl),
		ledger:   mocks.NewMockLedgerPoster(ctrl),
		auditSvc: mocks.NewMockAuditService(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
		ctrl:     ctrl,
	}
	d.svc = NewHoldService(d.holdRepo, d.txRepo, d.ledger, d.auditSvc, d.notifier, zerolog.Nop())
	return d
}

// ==================== List Tests ====================

func TestHoldService_List_Success(t *testing.T) {
	d := setupHoldService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	held := domain.HoldStatusHeld

	// Out-of-range paging falls back to the defaults.
	d.holdRepo.EXPECT().List(ctx, &held, 1, 20).Return([]domain.HeldTransaction{
		{ID: uuid.New(), Status: domain.HoldStatusHeld},
	}, int64(1), nil)

	holds, total, err := d.svc.List(ctx, adminActor, &held, 0, 500)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, holds, 1)
}

func TestHoldService_List_AdminOnly(t *testing.T) {
	d := setupHoldService(t)
	defer d.ctrl.Finish()

	_, _, err := d.svc.List(context.Background(), domain.Actor{ID: uuid.New(), Role: domain.RoleUser}, nil, 1, 20)
	assertAppError(t, err, "AUTH_002")
}

// ==================== Release Tests ====================

func TestHoldService_Release_WithdrawCreditsAgent(t *testing.T) {
	d := setupHoldService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	agentID := uuid.New()
	walletID := uuid.New()
	txnID := uuid.New()
	hold := &domain.HeldTransaction{
		ID:            uuid.New(),
		TransactionID: txnID,
		WalletID:      walletID,
		Amount:        decimal.NewFromInt(2000),
		Currency:      domain.CurrencyUSD,
		Status:        domain.HoldStatusHeld,
	}
	txn := &domain.Transaction{
		ID:              txnID,
		ReferenceNumber: "WDR-20250801-BEEF0001",
		Type:            domain.TransactionTypeWithdraw,
		Amount:          decimal.NewFromInt(2000),
		PlatformFee:     decimal.NewFromInt(20),
		NetAmount:       decimal.NewFromInt(1980),
		Currency:        domain.CurrencyUSD,
		Status:          domain.TransactionStatusProcessing,
		InitiatorID:     uuid.New(),
		CounterpartyID:  &agentID,
	}

	d.holdRepo.EXPECT().GetByID(ctx, hold.ID).Return(hold, nil)
	d.txRepo.EXPECT().GetByID(ctx, txnID).Return(txn, nil)
	var posted *domain.FinancialOperation
	d.ledger.EXPECT().Post(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, op *domain.FinancialOperation) error {
			posted = op
			return nil
		},
	)
	d.auditSvc.EXPECT().Log(ctx, gomock.Any()).Do(
		func(_ context.Context, entry *domain.AuditLog) {
			assert.Equal(t, domain.AuditActionReleaseHold, entry.Action)
			assert.Equal(t, string(domain.HoldStatusHeld), entry.Before)
			assert.Equal(t, string(domain.HoldStatusReleased), entry.After)
		},
	)
	d.notifier.EXPECT().TransactionCompleted(ctx, gomock.Any()).Return(nil)

	got, err := d.svc.Release(ctx, adminActor, hold.ID, "198.51.100.20")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)

	// The suspended 2000 pays the agent net of the 20 platform fee
	// recorded at initiation; the source wallet only unfreezes.
	require.NotNil(t, posted)
	require.Len(t, posted.WalletDeltas, 1)
	assert.Equal(t, walletID, posted.WalletDeltas[0].WalletID)
	assert.True(t, posted.WalletDeltas[0].Delta.IsZero())
	assert.True(t, posted.WalletDeltas[0].FrozenDelta.Equal(decimal.NewFromInt(-2000)))
	require.Len(t, posted.CreditDeltas, 1)
	assert.Equal(t, agentID, posted.CreditDeltas[0].AgentID)
	assert.True(t, posted.CreditDeltas[0].Delta.Equal(decimal.NewFromInt(1980)))
	require.Len(t, posted.Lines, 3)
	assertLine(t, posted.Lines[0], domain.LedgerSuspense, "2000", "0")
	assertLine(t, posted.Lines[1], domain.LedgerAgentCredit, "0", "1980")
	assertLine(t, posted.Lines[2], domain.LedgerRevenueFees, "0", "20")
	require.NotNil(t, posted.StatusChange)
	assert.Equal(t, domain.TransactionStatusCompleted, posted.StatusChange.Status)
	require.NotNil(t, posted.HoldChange)
	assert.Equal(t, domain.HoldStatusReleased, posted.HoldChange.Status)
	assert.Equal(t, adminActor.ID, posted.HoldChange.ResolvedBy)
}

func TestHoldService_Release_TransferPaysRecipient(t *testing.T) {
	d := setupHoldService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	senderWalletID := uuid.New()
	recipientWalletID := uuid.New()
	txnID := uuid.New()
	counterpartyID := uuid.New()
	hold := &domain.HeldTransaction{
		ID:            uuid.New(),
		TransactionID: txnID,
		WalletID:      senderWalletID,
		Amount:        decimal.NewFromInt(150),
		Currency:      domain.CurrencyUSD,
		Status:        domain.HoldStatusHeld,
	}
	txn := &domain.Transaction{
		ID:                txnID,
		ReferenceNumber:   "TRF-20250801-BEEF0002",
		Type:              domain.TransactionTypeTransfer,
		Amount:            decimal.NewFromInt(150),
		PlatformFee:       decimal.RequireFromString("0.75"),
		NetAmount:         decimal.RequireFromString("149.25"),
		Currency:          domain.CurrencyUSD,
		Status:            domain.TransactionStatusProcessing,
		InitiatorID:       uuid.New(),
		CounterpartyID:    &counterpartyID,
		RecipientWalletID: &recipientWalletID,
	}

	d.holdRepo.EXPECT().GetByID(ctx, hold.ID).Return(hold, nil)
	d.txRepo.EXPECT().GetByID(ctx, txnID).Return(txn, nil)
	var posted *domain.FinancialOperation
	d.ledger.EXPECT().Post(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, op *domain.FinancialOperation) error {
			posted = op
			return nil
		},
	)
	d.auditSvc.EXPECT().Log(ctx, gomock.Any())
	d.notifier.EXPECT().TransactionCompleted(ctx, gomock.Any()).Return(nil)

	_, err := d.svc.Release(ctx, adminActor, hold.ID, "")
	require.NoError(t, err)

	require.NotNil(t, posted)
	require.Len(t, posted.WalletDeltas, 2)
	assert.True(t, posted.WalletDeltas[0].FrozenDelta.Equal(decimal.NewFromInt(-150)))
	assert.Equal(t, recipientWalletID, posted.WalletDeltas[1].WalletID)
	assert.True(t, posted.WalletDeltas[1].Delta.Equal(decimal.RequireFromString("149.25")))
	require.Len(t, posted.Lines, 3)
	assertLine(t, posted.Lines[0], domain.LedgerSuspense, "150", "0")
	assertLine(t, posted.Lines[1], domain.LedgerUserWallets, "0", "149.25")
	assertLine(t, posted.Lines[2], domain.LedgerRevenueFees, "0", "0.75")
}

func TestHoldService_Release_AlreadyResolved(t *testing.T) {
	d := setupHoldService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	hold := &domain.HeldTransaction{
		ID:            uuid.New(),
		TransactionID: uuid.New(),
		Status:        domain.HoldStatusReleased,
	}
	d.holdRepo.EXPECT().GetByID(ctx, hold.ID).Return(hold, nil)

	_, err := d.svc.Release(ctx, adminActor, hold.ID, "")
	assertAppError(t, err, "PAY_008")
}

func TestHoldService_Release_TransactionNotHeld(t *testing.T) {
	d := setupHoldService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	txnID := uuid.New()
	hold := &domain.HeldTransaction{
		ID:            uuid.New(),
		TransactionID: txnID,
		Status:        domain.HoldStatusHeld,
	}
	d.holdRepo.EXPECT().GetByID(ctx, hold.ID).Return(hold, nil)
	// Hold row says HELD but the transaction already completed.
	d.txRepo.EXPECT().GetByID(ctx, txnID).Return(&domain.Transaction{
		ID:     txnID,
		Status: domain.TransactionStatusCompleted,
	}, nil)

	_, err := d.svc.Release(ctx, adminActor, hold.ID, "")
	assertAppError(t, err, "PAY_008")
}

func TestHoldService_Release_AdminOnly(t *testing.T) {
	d := setupHoldService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Release(context.Background(), domain.Actor{ID: uuid.New(), Role: domain.RoleAgent}, uuid.New(), "")
	assertAppError(t, err, "AUTH_002")
}

func TestHoldService_Release_HoldNotFound(t *testing.T) {
	d := setupHoldService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	holdID := uuid.New()
	d.holdRepo.EXPECT().GetByID(ctx, holdID).Return(nil, nil)

	_, err := d.svc.Release(ctx, adminActor, holdID, "")
	assertAppError(t, err, "PAY_004")
}

// ==================== Cancel Tests ====================

func TestHoldService_Cancel_RefundsInFull(t *testing.T) {
	d := setupHoldService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	walletID := uuid.New()
	txnID := uuid.New()
	agentID := uuid.New()
	hold := &domain.HeldTransaction{
		ID:            uuid.New(),
		TransactionID: txnID,
		WalletID:      walletID,
		Amount:        decimal.NewFromInt(2000),
		Currency:      domain.CurrencyUSD,
		Status:        domain.HoldStatusHeld,
	}
	txn := &domain.Transaction{
		ID:              txnID,
		ReferenceNumber: "WDR-20250801-BEEF0003",
		Type:            domain.TransactionTypeWithdraw,
		Amount:          decimal.NewFromInt(2000),
		PlatformFee:     decimal.NewFromInt(20),
		Currency:        domain.CurrencyUSD,
		Status:          domain.TransactionStatusProcessing,
		InitiatorID:     uuid.New(),
		CounterpartyID:  &agentID,
	}

	d.holdRepo.EXPECT().GetByID(ctx, hold.ID).Return(hold, nil)
	d.txRepo.EXPECT().GetByID(ctx, txnID).Return(txn, nil)
	var posted *domain.FinancialOperation
	d.ledger.EXPECT().Post(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, op *domain.FinancialOperation) error {
			posted = op
			return nil
		},
	)
	d.auditSvc.EXPECT().Log(ctx, gomock.Any()).Do(
		func(_ context.Context, entry *domain.AuditLog) {
			assert.Equal(t, domain.AuditActionCancelHold, entry.Action)
		},
	)
	d.notifier.EXPECT().TransactionCancelled(ctx, gomock.Any()).Return(nil)

	got, err := d.svc.Cancel(ctx, adminActor, hold.ID, "198.51.100.20")
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCancelled, got.Status)

	// Full refund: balance restored, frozen cleared, no fee lines.
	require.NotNil(t, posted)
	require.Len(t, posted.WalletDeltas, 1)
	assert.True(t, posted.WalletDeltas[0].Delta.Equal(decimal.NewFromInt(2000)))
	assert.True(t, posted.WalletDeltas[0].FrozenDelta.Equal(decimal.NewFromInt(-2000)))
	assert.Empty(t, posted.CreditDeltas)
	require.Len(t, posted.Lines, 2)
	assertLine(t, posted.Lines[0], domain.LedgerSuspense, "2000", "0")
	assertLine(t, posted.Lines[1], domain.LedgerUserWallets, "0", "2000")
	require.NotNil(t, posted.StatusChange)
	assert.Equal(t, domain.TransactionStatusCancelled, posted.StatusChange.Status)
	require.NotNil(t, posted.HoldChange)
	assert.Equal(t, domain.HoldStatusCancelled, posted.HoldChange.Status)
}

// ==================== Purchase Review Tests ====================

func TestHoldService_ApprovePurchase_MerchantCounterparty(t *testing.T) {
	d := setupHoldService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	merchantWalletID := uuid.New()
	buyerWalletID := uuid.New()
	txnID := uuid.New()
	txn := &domain.Transaction{
		ID:                txnID,
		ReferenceNumber:   "SRV-20250801-BEEF0004",
		Type:              domain.TransactionTypeServicePurchase,
		Amount:            decimal.NewFromInt(80),
		PlatformFee:       decimal.RequireFromString("1.60"),
		NetAmount:         decimal.RequireFromString("78.40"),
		Currency:          domain.CurrencyUSD,
		Status:            domain.TransactionStatusProcessing,
		InitiatorID:       uuid.New(),
		CounterpartyID:    &merchantID,
		RecipientWalletID: &merchantWalletID,
	}
	hold := &domain.HeldTransaction{
		ID:            uuid.New(),
		TransactionID: txnID,
		WalletID:      buyerWalletID,
		Amount:        decimal.NewFromInt(80),
		Currency:      domain.CurrencyUSD,
		Status:        domain.HoldStatusHeld,
	}

	// purchaseHold loads the transaction first, then the hold; the
	// release path re-reads the transaction.
	d.txRepo.EXPECT().GetByID(ctx, txnID).Return(txn, nil).Times(2)
	d.holdRepo.EXPECT().GetByTransactionID(ctx, txnID).Return(hold, nil)
	var posted *domain.FinancialOperation
	d.ledger.EXPECT().Post(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, op *domain.FinancialOperation) error {
			posted = op
			return nil
		},
	)
	d.auditSvc.EXPECT().Log(ctx, gomock.Any())
	d.notifier.EXPECT().TransactionCompleted(ctx, gomock.Any()).Return(nil)

	merchant := domain.Actor{ID: merchantID, Role: domain.RoleMerchant}
	got, err := d.svc.ApprovePurchase(ctx, merchant, txnID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCompleted, got.Status)

	require.NotNil(t, posted)
	require.Len(t, posted.Lines, 3)
	assertLine(t, posted.Lines[0], domain.LedgerSuspense, "80", "0")
	assertLine(t, posted.Lines[1], domain.LedgerMerchantBalance, "0", "78.40")
	assertLine(t, posted.Lines[2], domain.LedgerRevenueFees, "0", "1.60")
	require.NotNil(t, posted.HoldChange)
	assert.Equal(t, merchantID, posted.HoldChange.ResolvedBy)
}

func TestHoldService_ApprovePurchase_WrongMerchantForbidden(t *testing.T) {
	d := setupHoldService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	counterpartyID := uuid.New()
	txnID := uuid.New()
	d.txRepo.EXPECT().GetByID(ctx, txnID).Return(&domain.Transaction{
		ID:             txnID,
		Type:           domain.TransactionTypeServicePurchase,
		Status:         domain.TransactionStatusProcessing,
		CounterpartyID: &counterpartyID,
	}, nil)

	outsider := domain.Actor{ID: uuid.New(), Role: domain.RoleMerchant}
	_, err := d.svc.ApprovePurchase(ctx, outsider, txnID)
	assertAppError(t, err, "AUTH_002")
}

func TestHoldService_ApprovePurchase_NotAPurchase(t *testing.T) {
	d := setupHoldService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	txnID := uuid.New()
	d.txRepo.EXPECT().GetByID(ctx, txnID).Return(&domain.Transaction{
		ID:     txnID,
		Type:   domain.TransactionTypeTransfer,
		Status: domain.TransactionStatusProcessing,
	}, nil)

	_, err := d.svc.ApprovePurchase(ctx, adminActor, txnID)
	assertAppError(t, err, "PAY_002")
}

func TestHoldService_DeclinePurchase_AdminRefundsBuyer(t *testing.T) {
	d := setupHoldService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	merchantID := uuid.New()
	buyerWalletID := uuid.New()
	txnID := uuid.New()
	txn := &domain.Transaction{
		ID:              txnID,
		ReferenceNumber: "SRV-20250801-BEEF0005",
		Type:            domain.TransactionTypeServicePurchase,
		Amount:          decimal.NewFromInt(80),
		Currency:        domain.CurrencyUSD,
		Status:          domain.TransactionStatusProcessing,
		InitiatorID:     uuid.New(),
		CounterpartyID:  &merchantID,
	}
	hold := &domain.HeldTransaction{
		ID:            uuid.New(),
		TransactionID: txnID,
		WalletID:      buyerWalletID,
		Amount:        decimal.NewFromInt(80),
		Currency:      domain.CurrencyUSD,
		Status:        domain.HoldStatusHeld,
	}

	d.txRepo.EXPECT().GetByID(ctx, txnID).Return(txn, nil).Times(2)
	d.holdRepo.EXPECT().GetByTransactionID(ctx, txnID).Return(hold, nil)
	var posted *domain.FinancialOperation
	d.ledger.EXPECT().Post(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, op *domain.FinancialOperation) error {
			posted = op
			return nil
		},
	)
	d.auditSvc.EXPECT().Log(ctx, gomock.Any())
	d.notifier.EXPECT().TransactionCancelled(ctx, gomock.Any()).Return(nil)

	got, err := d.svc.DeclinePurchase(ctx, adminActor, txnID)
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusCancelled, got.Status)

	require.NotNil(t, posted)
	require.Len(t, posted.WalletDeltas, 1)
	assert.Equal(t, buyerWalletID, posted.WalletDeltas[0].WalletID)
	assert.True(t, posted.WalletDeltas[0].Delta.Equal(decimal.NewFromInt(80)))
	assert.True(t, posted.WalletDeltas[0].FrozenDelta.Equal(decimal.NewFromInt(-80)))
}

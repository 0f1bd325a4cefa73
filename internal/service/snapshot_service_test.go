package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"fincore/internal/core/domain"
	"fincore/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type snapshotTestDeps struct {
	svc         *SnapshotServiceImpl
	snapRepo    *mocks.MockSnapshotRepository
	reconRepo   *mocks.MockReconciliationRepository
	walletRepo  *mocks.MockWalletRepository
	creditRepo  *mocks.MockAgentCreditRepository
	accountRepo *mocks.MockAccountRepository
	ledgerRepo  *mocks.MockLedgerRepository
	holdRepo    *mocks.MockHoldRepository
	transactor  *mocks.MockDBTransactor
	auditSvc    *mocks.MockAuditService
	archiver    *mocks.MockArchiver
	ctrl        *gomock.Controller
}

func setupSnapshotService(t *testing.T) *snapshotTestDeps {
	ctrl := gomock.NewController(t)
	d := &snapshotTestDeps{
		snapRepo:    mocks.NewMockSnapshotRepository(ctrl),
		reconRepo:   mocks.NewMockReconciliationRepository(ctrl),
		walletRepo:  mocks.NewMockWalletRepository(ctrl),
		creditRepo:  mocks.NewMockAgentCreditRepository(ctrl),
		accountRepo: mocks.NewMockAccountRepository(ctrl),
		ledgerRepo:  mocks.NewMockLedgerRepository(ctrl),
		holdRepo:    mocks.NewMockHoldRepository(ctrl),
		transactor:  mocks.NewMockDBTransactor(ctrl),
		auditSvc:    mocks.NewMockAuditService(ctrl),
		archiver:    mocks.NewMockArchiver(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewSnapshotService(
		d.snapRepo, d.reconRepo, d.walletRepo, d.creditRepo,
		d.accountRepo, d.ledgerRepo, d.holdRepo, d.transactor,
		d.auditSvc, d.archiver, zerolog.Nop(),
	)
	return d
}

// expectEmptyCapture stubs the balance read pass with empty charts and
// zero aggregates for one currency.
func (d *snapshotTestDeps) expectEmptyCapture(ctx context.Context, cur domain.Currency) {
	d.accountRepo.EXPECT().ListInternal(ctx, cur).Return(nil, nil)
	d.accountRepo.EXPECT().ListLedger(ctx, cur).Return(nil, nil)
	d.walletRepo.EXPECT().SumBalances(ctx, cur, domain.PurposePersonal).Return(decimal.Zero, nil)
	d.walletRepo.EXPECT().SumBalances(ctx, cur, domain.PurposeBusiness).Return(decimal.Zero, nil)
	d.creditRepo.EXPECT().SumCredits(ctx, cur).Return(decimal.Zero, nil)
}

// ==================== Create Tests ====================

func TestSnapshotService_Create_CapturesAllBalances(t *testing.T) {
	d := setupSnapshotService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.snapRepo.EXPECT().GetByBucket(ctx, domain.PeriodHourly, gomock.Any()).Return(nil, nil)

	// USD books: 1000 in user wallets, 150 of agent credit, 50 of
	// collected fees, all owed by the reserve.
	d.accountRepo.EXPECT().ListInternal(ctx, domain.CurrencyUSD).Return([]domain.InternalAccount{
		*internalAccount(domain.AccountSystemReserve, "-1200"),
		*internalAccount(domain.AccountUserLedger, "1000"),
		*internalAccount(domain.AccountAgentLedger, "150"),
		*internalAccount(domain.AccountFeesCollected, "50"),
	}, nil)
	d.accountRepo.EXPECT().ListLedger(ctx, domain.CurrencyUSD).Return([]domain.LedgerAccount{
		*ledgerAccount(domain.LedgerUserWallets, "1000"),
		*ledgerAccount(domain.LedgerAgentCredit, "150"),
		*ledgerAccount(domain.LedgerRevenueFees, "50"),
		*ledgerAccount(domain.LedgerSystemReserve, "-1200"),
	}, nil)
	d.walletRepo.EXPECT().SumBalances(ctx, domain.CurrencyUSD, domain.PurposePersonal).Return(decimal.NewFromInt(1000), nil)
	d.walletRepo.EXPECT().SumBalances(ctx, domain.CurrencyUSD, domain.PurposeBusiness).Return(decimal.Zero, nil)
	d.creditRepo.EXPECT().SumCredits(ctx, domain.CurrencyUSD).Return(decimal.NewFromInt(150), nil)
	d.expectEmptyCapture(ctx, domain.CurrencySYP)

	var created *domain.Snapshot
	d.snapRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, snap *domain.Snapshot) error {
			created = snap
			return nil
		},
	)
	d.archiver.EXPECT().SnapshotExported(ctx, gomock.Any()).Return(nil)

	snap, err := d.svc.Create(ctx, domain.PeriodHourly)
	require.NoError(t, err)
	assert.Same(t, created, snap)
	assert.Equal(t, domain.PeriodHourly, snap.Period)
	assert.True(t, snap.PeriodStart.Equal(snap.PeriodStart.Truncate(time.Hour)))
	assert.True(t, snap.Verify(), "checksum must cover the captured balances")

	// 4 internal + 4 prefixed ledger + 3 aggregates for USD, plus the
	// 3 zero aggregates for SYP.
	assert.Len(t, snap.Balances, 14)
	assert.Contains(t, snap.Balances, domain.AccountBalance{
		Code:     "LEDGER:USER-WALLETS",
		Currency: domain.CurrencyUSD,
		Balance:  decimal.RequireFromString("1000"),
	})
	require.Len(t, snap.Totals, 2)
	assert.True(t, snap.Totals[0].WalletTotal.Equal(decimal.NewFromInt(1000)))
	assert.True(t, snap.Totals[0].CreditTotal.Equal(decimal.NewFromInt(150)))
	assert.True(t, snap.Totals[0].InternalNet.IsZero(), "internal chart must stay zero-sum")
}

func TestSnapshotService_Create_ExistingBucketReturned(t *testing.T) {
	d := setupSnapshotService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	existing := &domain.Snapshot{ID: uuid.New(), Period: domain.PeriodDaily}
	d.snapRepo.EXPECT().GetByBucket(ctx, domain.PeriodDaily, gomock.Any()).Return(existing, nil)

	snap, err := d.svc.Create(ctx, domain.PeriodDaily)
	require.NoError(t, err)
	assert.Same(t, existing, snap)
}

func TestSnapshotService_Create_InvalidPeriod(t *testing.T) {
	d := setupSnapshotService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.Create(context.Background(), domain.PeriodType("WEEKLY"))
	assertAppError(t, err, "PAY_002")
}

func TestSnapshotService_Create_LostRaceReturnsWinner(t *testing.T) {
	d := setupSnapshotService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	winner := &domain.Snapshot{ID: uuid.New(), Period: domain.PeriodHourly}

	d.snapRepo.EXPECT().GetByBucket(ctx, domain.PeriodHourly, gomock.Any()).Return(nil, nil)
	d.expectEmptyCapture(ctx, domain.CurrencyUSD)
	d.expectEmptyCapture(ctx, domain.CurrencySYP)
	d.snapRepo.EXPECT().Create(ctx, gomock.Any()).Return(&pgconn.PgError{Code: "23505"})
	d.snapRepo.EXPECT().GetByBucket(ctx, domain.PeriodHourly, gomock.Any()).Return(winner, nil)

	snap, err := d.svc.Create(ctx, domain.PeriodHourly)
	require.NoError(t, err)
	assert.Same(t, winner, snap)
}

// ==================== Latest Tests ====================

func TestSnapshotService_Latest_Success(t *testing.T) {
	d := setupSnapshotService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	latest := &domain.Snapshot{ID: uuid.New(), Period: domain.PeriodDaily}
	d.snapRepo.EXPECT().GetLatest(ctx, domain.PeriodDaily).Return(latest, nil)

	snap, err := d.svc.Latest(ctx, domain.PeriodDaily)
	require.NoError(t, err)
	assert.Same(t, latest, snap)
}

func TestSnapshotService_Latest_NotFound(t *testing.T) {
	d := setupSnapshotService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.snapRepo.EXPECT().GetLatest(ctx, domain.PeriodHourly).Return(nil, nil)

	_, err := d.svc.Latest(ctx, domain.PeriodHourly)
	assertAppError(t, err, "PAY_004")
}

func TestSnapshotService_List_ClampsPaging(t *testing.T) {
	d := setupSnapshotService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.snapRepo.EXPECT().List(ctx, domain.PeriodHourly, 1, 20).Return(nil, int64(0), nil)

	_, _, err := d.svc.List(ctx, domain.PeriodHourly, 0, 1000)
	require.NoError(t, err)
}

// ==================== Reconcile Tests ====================

// expectReconcileReads stubs one currency's aggregates and charts for
// a reconciliation pass.
func (d *snapshotTestDeps) expectReconcileReads(
	ctx context.Context, cur domain.Currency,
	personal, business, credits, held string,
	internal []domain.InternalAccount, ledger []domain.LedgerAccount,
) {
	d.walletRepo.EXPECT().SumBalances(ctx, cur, domain.PurposePersonal).Return(decimal.RequireFromString(personal), nil)
	d.walletRepo.EXPECT().SumBalances(ctx, cur, domain.PurposeBusiness).Return(decimal.RequireFromString(business), nil)
	d.creditRepo.EXPECT().SumCredits(ctx, cur).Return(decimal.RequireFromString(credits), nil)
	d.holdRepo.EXPECT().SumHeld(ctx, cur).Return(decimal.RequireFromString(held), nil)
	d.accountRepo.EXPECT().ListInternal(ctx, cur).Return(internal, nil)
	d.accountRepo.EXPECT().ListLedger(ctx, cur).Return(ledger, nil)
}

func TestSnapshotService_Reconcile_Clean(t *testing.T) {
	d := setupSnapshotService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.expectReconcileReads(ctx, domain.CurrencyUSD,
		"1000", "200", "150", "60",
		[]domain.InternalAccount{
			*internalAccount(domain.AccountUserLedger, "1000"),
			*internalAccount(domain.AccountMerchantLedger, "200"),
			*internalAccount(domain.AccountAgentLedger, "150"),
			*internalAccount(domain.AccountSuspense, "60"),
			*internalAccount(domain.AccountSystemReserve, "-1410"),
		},
		[]domain.LedgerAccount{
			*ledgerAccount(domain.LedgerUserWallets, "1000"),
			*ledgerAccount(domain.LedgerSuspense, "60"),
		},
	)
	d.ledgerRepo.EXPECT().SumLineDeltas(ctx, domain.LedgerUserWallets, domain.CurrencyUSD).Return(decimal.NewFromInt(1000), nil)
	d.ledgerRepo.EXPECT().SumLineDeltas(ctx, domain.LedgerSuspense, domain.CurrencyUSD).Return(decimal.NewFromInt(60), nil)
	d.expectReconcileReads(ctx, domain.CurrencySYP, "0", "0", "0", "0", nil, nil)

	var saved *domain.ReconciliationReport
	d.reconRepo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, report *domain.ReconciliationReport) error {
			saved = report
			return nil
		},
	)

	report, err := d.svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Same(t, saved, report)
	assert.Equal(t, domain.ReconciliationClean, report.Status)
	// 5 aggregate checks per currency plus one per USD ledger account.
	assert.Len(t, report.Checks, 12)
	assert.Empty(t, report.Faults())
}

func TestSnapshotService_Reconcile_ReportsDrift(t *testing.T) {
	d := setupSnapshotService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	// USR-LEDGER trails the wallet sum by 5.00; MRC-LEDGER is off by
	// exactly the epsilon and must still match.
	d.expectReconcileReads(ctx, domain.CurrencyUSD,
		"1000", "200", "0", "0",
		[]domain.InternalAccount{
			*internalAccount(domain.AccountUserLedger, "995"),
			*internalAccount(domain.AccountMerchantLedger, "200.01"),
			*internalAccount(domain.AccountSystemReserve, "-1195.01"),
		},
		nil,
	)
	d.expectReconcileReads(ctx, domain.CurrencySYP, "0", "0", "0", "0", nil, nil)

	d.reconRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	report, err := d.svc.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ReconciliationDrift, report.Status)
	faults := report.Faults()
	require.Len(t, faults, 1)
	assert.Equal(t, "user wallets vs USR-LEDGER", faults[0].Name)
	assert.True(t, faults[0].Delta.Equal(decimal.NewFromInt(-5)))
}

// ==================== SyncLedgerBalances Tests ====================

func TestSnapshotService_SyncLedgerBalances_CorrectsDrift(t *testing.T) {
	d := setupSnapshotService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	tx := &mockTx{}
	d.transactor.EXPECT().Begin(ctx).Return(tx, nil)

	// Entry lines say USER-WALLETS holds 1000; the running balances
	// drifted to 990. Every other account agrees at zero.
	d.ledgerRepo.EXPECT().SumLineDeltas(ctx, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, code domain.LedgerAccountCode, cur domain.Currency) (decimal.Decimal, error) {
			if cur == domain.CurrencyUSD && code == domain.LedgerUserWallets {
				return decimal.NewFromInt(1000), nil
			}
			return decimal.Zero, nil
		},
	).AnyTimes()
	d.accountRepo.EXPECT().GetLedgerForUpdate(ctx, tx, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, code domain.LedgerAccountCode, cur domain.Currency) (*domain.LedgerAccount, error) {
			balance := decimal.Zero
			if cur == domain.CurrencyUSD && code == domain.LedgerUserWallets {
				balance = decimal.NewFromInt(990)
			}
			return &domain.LedgerAccount{Code: code, Currency: cur, Balance: balance}, nil
		},
	).AnyTimes()
	d.accountRepo.EXPECT().GetInternalForUpdate(ctx, tx, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ pgx.Tx, code domain.InternalAccountCode, cur domain.Currency) (*domain.InternalAccount, error) {
			balance := decimal.Zero
			if cur == domain.CurrencyUSD && code == domain.AccountUserLedger {
				balance = decimal.NewFromInt(990)
			}
			return &domain.InternalAccount{Code: code, Currency: cur, Balance: balance}, nil
		},
	).AnyTimes()

	// Only the drifted pair gets overwritten.
	d.accountRepo.EXPECT().UpdateLedgerBalance(ctx, tx, domain.LedgerUserWallets, domain.CurrencyUSD, decimalEq("1000")).Return(nil)
	d.accountRepo.EXPECT().UpdateInternalBalance(ctx, tx, domain.AccountUserLedger, domain.CurrencyUSD, decimalEq("1000")).Return(nil)

	d.auditSvc.EXPECT().Log(ctx, gomock.Any()).Do(
		func(_ context.Context, entry *domain.AuditLog) {
			assert.Equal(t, domain.AuditActionLedgerSync, entry.Action)
			assert.Equal(t, "ledger", entry.EntityType)
			assert.True(t, strings.Contains(entry.After, "USER-WALLETS"))
		},
	)

	result, err := d.svc.SyncLedgerBalances(ctx, adminActor, "198.51.100.20")
	require.NoError(t, err)
	require.Len(t, result.Corrections, 2)
	assert.Equal(t, string(domain.LedgerUserWallets), result.Corrections[0].Code)
	assert.True(t, result.Corrections[0].Before.Equal(decimal.NewFromInt(990)))
	assert.True(t, result.Corrections[0].After.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, string(domain.AccountUserLedger), result.Corrections[1].Code)
	assert.False(t, result.RanAt.IsZero())
}

func TestSnapshotService_SyncLedgerBalances_AdminOnly(t *testing.T) {
	d := setupSnapshotService(t)
	defer d.ctrl.Finish()

	agent := domain.Actor{ID: uuid.New(), Role: domain.RoleAgent}
	_, err := d.svc.SyncLedgerBalances(context.Background(), agent, "")
	assertAppError(t, err, "AUTH_002")
}

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fincore/internal/core/domain"
	"fincore/internal/core/ports"
	"fincore/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Snapshot balance codes for aggregates that sit outside the fixed
// account charts. Internal accounts are captured under their own
// codes; ledger accounts under a LEDGER: prefix.
const (
	snapshotLedgerPrefix    = "LEDGER:"
	snapshotPersonalWallets = "WALLETS:PERSONAL"
	snapshotBusinessWallets = "WALLETS:BUSINESS"
	snapshotAgentCredits    = "AGENT-CREDITS"
)

// SnapshotServiceImpl implements ports.SnapshotService: periodic
// balance captures, reconciliation of running balances against
// independently aggregated truth, and the explicit admin correction
// that overwrites running balances from the entry lines.
type SnapshotServiceImpl struct {
	snapRepo    ports.SnapshotRepository
	reconRepo   ports.ReconciliationRepository
	walletRepo  ports.WalletRepository
	creditRepo  ports.AgentCreditRepository
	accountRepo ports.AccountRepository
	ledgerRepo  ports.LedgerRepository
	holdRepo    ports.HoldRepository
	transactor  ports.DBTransactor
	auditSvc    ports.AuditService
	archiver    ports.Archiver
	log         zerolog.Logger
}

// NewSnapshotService creates a new SnapshotServiceImpl.
func NewSnapshotService(
	snapRepo ports.SnapshotRepository,
	reconRepo ports.ReconciliationRepository,
	walletRepo ports.WalletRepository,
	creditRepo ports.AgentCreditRepository,
	accountRepo ports.AccountRepository,
	ledgerRepo ports.LedgerRepository,
	holdRepo ports.HoldRepository,
	transactor ports.DBTransactor,
	auditSvc ports.AuditService,
	archiver ports.Archiver,
	log zerolog.Logger,
) *SnapshotServiceImpl {
	return &SnapshotServiceImpl{
		snapRepo:    snapRepo,
		reconRepo:   reconRepo,
		walletRepo:  walletRepo,
		creditRepo:  creditRepo,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		holdRepo:    holdRepo,
		transactor:  transactor,
		auditSvc:    auditSvc,
		archiver:    archiver,
		log:         log,
	}
}

// Create captures every account balance into the current period
// bucket. At most one snapshot exists per bucket: recapturing the same
// bucket returns the existing snapshot unchanged.
func (s *SnapshotServiceImpl) Create(ctx context.Context, period domain.PeriodType) (*domain.Snapshot, error) {
	switch period {
	case domain.PeriodHourly, domain.PeriodDaily:
	default:
		return nil, apperror.Validation("period must be HOURLY or DAILY")
	}

	now := time.Now().UTC()
	periodStart := period.PeriodStart(now)

	existing, err := s.snapRepo.GetByBucket(ctx, period, periodStart)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get snapshot bucket: %w", err))
	}
	if existing != nil {
		return existing, nil
	}

	balances, totals, err := s.captureBalances(ctx)
	if err != nil {
		return nil, err
	}

	snap := &domain.Snapshot{
		ID:          uuid.New(),
		Period:      period,
		PeriodStart: periodStart,
		Balances:    balances,
		Totals:      totals,
		Checksum:    domain.ComputeChecksum(balances),
		CreatedAt:   now,
	}
	if err := s.snapRepo.Create(ctx, snap); err != nil {
		if isUniqueViolation(err) {
			// Lost the race for this bucket; the winner is the answer.
			return s.snapRepo.GetByBucket(ctx, period, periodStart)
		}
		return nil, apperror.InternalError(fmt.Errorf("create snapshot: %w", err))
	}

	if err := s.archiver.SnapshotExported(ctx, snap); err != nil {
		s.log.Warn().Err(err).Str("snapshot_id", snap.ID.String()).Msg("snapshot export failed")
	}
	s.log.Info().
		Str("snapshot_id", snap.ID.String()).
		Str("period", string(period)).
		Time("period_start", periodStart).
		Str("checksum", snap.Checksum).
		Msg("snapshot captured")

	return snap, nil
}

// Latest returns the most recent snapshot of the given period.
func (s *SnapshotServiceImpl) Latest(ctx context.Context, period domain.PeriodType) (*domain.Snapshot, error) {
	snap, err := s.snapRepo.GetLatest(ctx, period)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get latest snapshot: %w", err))
	}
	if snap == nil {
		return nil, apperror.ErrNotFound("snapshot")
	}
	return snap, nil
}

// List returns a page of snapshots, newest first.
func (s *SnapshotServiceImpl) List(ctx context.Context, period domain.PeriodType, page, pageSize int) ([]domain.Snapshot, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	snaps, total, err := s.snapRepo.List(ctx, period, page, pageSize)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list snapshots: %w", err))
	}
	return snaps, total, nil
}

// Reconcile compares every running balance against truth recomputed
// from the underlying rows: wallet sums, credit sums, held sums, and
// the entry lines themselves. Drift is reported, logged, and never
// auto-corrected.
func (s *SnapshotServiceImpl) Reconcile(ctx context.Context) (*domain.ReconciliationReport, error) {
	now := time.Now().UTC()
	var checks []domain.ReconciliationCheck

	for _, currency := range domain.Currencies() {
		personal, err := s.walletRepo.SumBalances(ctx, currency, domain.PurposePersonal)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("sum personal wallets: %w", err))
		}
		business, err := s.walletRepo.SumBalances(ctx, currency, domain.PurposeBusiness)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("sum business wallets: %w", err))
		}
		credits, err := s.creditRepo.SumCredits(ctx, currency)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("sum agent credits: %w", err))
		}
		held, err := s.holdRepo.SumHeld(ctx, currency)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("sum held amounts: %w", err))
		}

		internal, err := s.accountRepo.ListInternal(ctx, currency)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("list internal accounts: %w", err))
		}
		recorded := make(map[domain.InternalAccountCode]decimal.Decimal, len(internal))
		zeroSum := decimal.Zero
		for _, a := range internal {
			recorded[a.Code] = a.Balance
			zeroSum = zeroSum.Add(a.Balance)
		}

		checks = append(checks,
			domain.NewCheck("user wallets vs USR-LEDGER", currency, recorded[domain.AccountUserLedger], personal),
			domain.NewCheck("merchant wallets vs MRC-LEDGER", currency, recorded[domain.AccountMerchantLedger], business),
			domain.NewCheck("agent credits vs AGT-LEDGER", currency, recorded[domain.AccountAgentLedger], credits),
			domain.NewCheck("held amounts vs SUSPENSE", currency, recorded[domain.AccountSuspense], held),
			domain.NewCheck("internal accounts zero-sum", currency, zeroSum, decimal.Zero),
		)

		ledger, err := s.accountRepo.ListLedger(ctx, currency)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("list ledger accounts: %w", err))
		}
		for _, a := range ledger {
			computed, err := s.ledgerRepo.SumLineDeltas(ctx, a.Code, currency)
			if err != nil {
				return nil, apperror.InternalError(fmt.Errorf("sum lines for %s: %w", a.Code, err))
			}
			checks = append(checks, domain.NewCheck(
				fmt.Sprintf("ledger %s vs entry lines", a.Code), currency, a.Balance, computed))
		}
	}

	status := domain.ReconciliationClean
	faults := 0
	for _, c := range checks {
		if !c.Matched {
			status = domain.ReconciliationDrift
			faults++
		}
	}

	report := &domain.ReconciliationReport{
		ID:        uuid.New(),
		RanAt:     now,
		Status:    status,
		Checks:    checks,
		CreatedAt: now,
	}
	if err := s.reconRepo.Create(ctx, report); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save reconciliation report: %w", err))
	}

	if status == domain.ReconciliationDrift {
		s.log.Error().
			Str("report_id", report.ID.String()).
			Int("faults", faults).
			Msg("reconciliation found drift")
	} else {
		s.log.Info().
			Str("report_id", report.ID.String()).
			Int("checks", len(checks)).
			Msg("reconciliation clean")
	}

	return report, nil
}

// ListReports returns a page of reconciliation reports, newest first.
func (s *SnapshotServiceImpl) ListReports(ctx context.Context, page, pageSize int) ([]domain.ReconciliationReport, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	reports, total, err := s.reconRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list reconciliation reports: %w", err))
	}
	return reports, total, nil
}

// SyncLedgerBalances overwrites every running account balance with the
// value recomputed from the entry lines, in one transaction. This is
// the explicit, audited correction path for drift a reconciliation
// run surfaced; it is never triggered automatically. Admin only.
func (s *SnapshotServiceImpl) SyncLedgerBalances(ctx context.Context, actor domain.Actor, clientIP string) (*ports.SyncResult, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden()
	}

	now := time.Now().UTC()
	var corrections []ports.BalanceCorrection

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer func() { _ = dbTx.Rollback(ctx) }()

	for _, currency := range domain.Currencies() {
		// Locks follow posting order: ledger chart first, then the
		// internal accounts.
		internalComputed := make(map[domain.InternalAccountCode]decimal.Decimal)
		for _, code := range domain.LedgerAccountCodes() {
			computed, err := s.ledgerRepo.SumLineDeltas(ctx, code, currency)
			if err != nil {
				return nil, apperror.InternalError(fmt.Errorf("sum lines for %s: %w", code, err))
			}
			mapped := domain.InternalAccountFor(code)
			internalComputed[mapped] = internalComputed[mapped].Add(computed)

			acct, err := s.accountRepo.GetLedgerForUpdate(ctx, dbTx, code, currency)
			if err != nil {
				return nil, apperror.InternalError(fmt.Errorf("lock ledger account: %w", err))
			}
			if acct == nil {
				return nil, apperror.ErrIntegrityFault(fmt.Sprintf("ledger account %s %s missing", code, currency))
			}
			if acct.Balance.Equal(computed) {
				continue
			}
			if err := s.accountRepo.UpdateLedgerBalance(ctx, dbTx, code, currency, computed); err != nil {
				return nil, apperror.InternalError(fmt.Errorf("update ledger account: %w", err))
			}
			corrections = append(corrections, ports.BalanceCorrection{
				Code:     string(code),
				Currency: currency,
				Before:   acct.Balance,
				After:    computed,
			})
		}

		for _, code := range domain.InternalAccountCodes() {
			acct, err := s.accountRepo.GetInternalForUpdate(ctx, dbTx, code, currency)
			if err != nil {
				return nil, apperror.InternalError(fmt.Errorf("lock internal account: %w", err))
			}
			if acct == nil {
				return nil, apperror.ErrIntegrityFault(fmt.Sprintf("internal account %s %s missing", code, currency))
			}
			computed := internalComputed[code]
			if acct.Balance.Equal(computed) {
				continue
			}
			if err := s.accountRepo.UpdateInternalBalance(ctx, dbTx, code, currency, computed); err != nil {
				return nil, apperror.InternalError(fmt.Errorf("update internal account: %w", err))
			}
			corrections = append(corrections, ports.BalanceCorrection{
				Code:     string(code),
				Currency: currency,
				Before:   acct.Balance,
				After:    computed,
			})
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	correctionsJSON, err := json.Marshal(corrections)
	if err != nil {
		correctionsJSON = []byte("[]")
	}
	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:         uuid.New(),
		ActorID:    actor.ID,
		Action:     domain.AuditActionLedgerSync,
		EntityType: "ledger",
		After:      string(correctionsJSON),
		IPAddress:  clientIP,
		CreatedAt:  now,
	})
	s.log.Info().
		Str("actor_id", actor.ID.String()).
		Int("corrections", len(corrections)).
		Msg("ledger balances synced")

	return &ports.SyncResult{Corrections: corrections, RanAt: now}, nil
}

// captureBalances is the snapshot read pass: both account charts plus
// the wallet and credit aggregates, per currency.
func (s *SnapshotServiceImpl) captureBalances(ctx context.Context) ([]domain.AccountBalance, []domain.CurrencyTotals, error) {
	var balances []domain.AccountBalance
	var totals []domain.CurrencyTotals

	for _, currency := range domain.Currencies() {
		internal, err := s.accountRepo.ListInternal(ctx, currency)
		if err != nil {
			return nil, nil, apperror.InternalError(fmt.Errorf("list internal accounts: %w", err))
		}
		internalNet := decimal.Zero
		for _, a := range internal {
			balances = append(balances, domain.AccountBalance{
				Code:     string(a.Code),
				Currency: currency,
				Balance:  a.Balance,
			})
			internalNet = internalNet.Add(a.Balance)
		}

		ledger, err := s.accountRepo.ListLedger(ctx, currency)
		if err != nil {
			return nil, nil, apperror.InternalError(fmt.Errorf("list ledger accounts: %w", err))
		}
		for _, a := range ledger {
			balances = append(balances, domain.AccountBalance{
				Code:     snapshotLedgerPrefix + string(a.Code),
				Currency: currency,
				Balance:  a.Balance,
			})
		}

		personal, err := s.walletRepo.SumBalances(ctx, currency, domain.PurposePersonal)
		if err != nil {
			return nil, nil, apperror.InternalError(fmt.Errorf("sum personal wallets: %w", err))
		}
		business, err := s.walletRepo.SumBalances(ctx, currency, domain.PurposeBusiness)
		if err != nil {
			return nil, nil, apperror.InternalError(fmt.Errorf("sum business wallets: %w", err))
		}
		credits, err := s.creditRepo.SumCredits(ctx, currency)
		if err != nil {
			return nil, nil, apperror.InternalError(fmt.Errorf("sum agent credits: %w", err))
		}
		balances = append(balances,
			domain.AccountBalance{Code: snapshotPersonalWallets, Currency: currency, Balance: personal},
			domain.AccountBalance{Code: snapshotBusinessWallets, Currency: currency, Balance: business},
			domain.AccountBalance{Code: snapshotAgentCredits, Currency: currency, Balance: credits},
		)

		totals = append(totals, domain.CurrencyTotals{
			Currency:    currency,
			WalletTotal: personal.Add(business),
			CreditTotal: credits,
			InternalNet: internalNet,
		})
	}
	return balances, totals, nil
}

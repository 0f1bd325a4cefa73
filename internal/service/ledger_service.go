package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"fincore/internal/core/domain"
	"fincore/internal/core/ports"
	"fincore/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerService implements ports.LedgerPoster. It is the only code path
// that mutates wallet balances, agent credit lines, and account running
// balances; every mutation travels inside one database transaction with
// the affected rows locked.
type LedgerService struct {
	walletRepo  ports.WalletRepository
	creditRepo  ports.AgentCreditRepository
	accountRepo ports.AccountRepository
	ledgerRepo  ports.LedgerRepository
	txRepo      ports.TransactionRepository
	holdRepo    ports.HoldRepository
	alertRepo   ports.RiskAlertRepository
	idempRepo   ports.IdempotencyRepository
	transactor  ports.DBTransactor
	log         zerolog.Logger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	walletRepo ports.WalletRepository,
	creditRepo ports.AgentCreditRepository,
	accountRepo ports.AccountRepository,
	ledgerRepo ports.LedgerRepository,
	txRepo ports.TransactionRepository,
	holdRepo ports.HoldRepository,
	alertRepo ports.RiskAlertRepository,
	idempRepo ports.IdempotencyRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *LedgerService {
	return &LedgerService{
		walletRepo:  walletRepo,
		creditRepo:  creditRepo,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		txRepo:      txRepo,
		holdRepo:    holdRepo,
		alertRepo:   alertRepo,
		idempRepo:   idempRepo,
		transactor:  transactor,
		log:         log,
	}
}

// Post commits a FinancialOperation atomically with pessimistic locking.
// The entry must balance before anything is written; wallets are locked
// in ascending ID order and accounts in chart order so concurrent
// postings always acquire locks in the same sequence.
func (s *LedgerService) Post(ctx context.Context, op *domain.FinancialOperation) error {
	now := time.Now().UTC()
	entry := op.Entry(uuid.New(), now)
	if !entry.Balanced() {
		return apperror.ErrUnbalancedEntry()
	}

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock & mutate wallets
	walletMuts := make([]domain.WalletMutation, len(op.WalletDeltas))
	copy(walletMuts, op.WalletDeltas)
	sort.Slice(walletMuts, func(i, j int) bool {
		return walletMuts[i].WalletID.String() < walletMuts[j].WalletID.String()
	})
	for _, m := range walletMuts {
		wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, m.WalletID)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
		}
		if wallet == nil {
			return apperror.ErrNotFound("wallet")
		}
		newBalance := wallet.Balance.Add(m.Delta)
		if newBalance.IsNegative() {
			return apperror.ErrInsufficientFunds()
		}
		newFrozen := wallet.FrozenBalance.Add(m.FrozenDelta)
		if newFrozen.IsNegative() {
			return apperror.ErrIntegrityFault(fmt.Sprintf("frozen balance below zero on wallet %s", wallet.ID))
		}
		if err := s.walletRepo.UpdateBalances(ctx, dbTx, wallet.ID, newBalance, newFrozen); err != nil {
			return apperror.InternalError(fmt.Errorf("update wallet balances: %w", err))
		}
	}

	// Lock & mutate agent credit lines
	creditMuts := make([]domain.CreditMutation, len(op.CreditDeltas))
	copy(creditMuts, op.CreditDeltas)
	sort.Slice(creditMuts, func(i, j int) bool {
		if creditMuts[i].AgentID != creditMuts[j].AgentID {
			return creditMuts[i].AgentID.String() < creditMuts[j].AgentID.String()
		}
		return creditMuts[i].Currency < creditMuts[j].Currency
	})
	for _, m := range creditMuts {
		credit, err := s.creditRepo.GetForUpdate(ctx, dbTx, m.AgentID, m.Currency)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock agent credit: %w", err))
		}
		if credit == nil {
			return apperror.ErrNotFound("agent credit line")
		}
		newBalance := credit.Balance.Add(m.Delta)
		if newBalance.IsNegative() {
			return apperror.ErrInsufficientCredit()
		}
		if err := s.creditRepo.UpdateBalance(ctx, dbTx, m.AgentID, m.Currency, newBalance); err != nil {
			return apperror.InternalError(fmt.Errorf("update agent credit: %w", err))
		}
	}

	// Persist the transaction record or transition an existing one
	if op.Transaction != nil {
		if err := s.txRepo.Create(ctx, dbTx, op.Transaction); err != nil {
			if isUniqueViolation(err) {
				return apperror.ErrDuplicateReference(op.Transaction.ClientReference)
			}
			return apperror.InternalError(fmt.Errorf("create transaction: %w", err))
		}
	}
	if op.StatusChange != nil {
		var completedAt *time.Time
		if op.StatusChange.Status == domain.TransactionStatusCompleted ||
			op.StatusChange.Status == domain.TransactionStatusCancelled {
			completedAt = &now
		}
		if err := s.txRepo.UpdateStatus(ctx, dbTx, op.StatusChange.TransactionID, op.StatusChange.Status, completedAt); err != nil {
			return apperror.InternalError(fmt.Errorf("update transaction status: %w", err))
		}
	}

	// Persist the immutable entry
	if err := s.ledgerRepo.CreateEntry(ctx, dbTx, entry); err != nil {
		return apperror.InternalError(fmt.Errorf("create ledger entry: %w", err))
	}

	// Apply net line deltas to running balances, chart order
	ledgerDeltas := make(map[domain.LedgerAccountCode]decimal.Decimal)
	internalDeltas := make(map[domain.InternalAccountCode]decimal.Decimal)
	for _, line := range entry.Lines {
		delta := line.Delta()
		ledgerDeltas[line.Account] = ledgerDeltas[line.Account].Add(delta)
		internal := domain.InternalAccountFor(line.Account)
		internalDeltas[internal] = internalDeltas[internal].Add(delta)
	}

	for _, code := range domain.LedgerAccountCodes() {
		delta, ok := ledgerDeltas[code]
		if !ok || delta.IsZero() {
			continue
		}
		acct, err := s.accountRepo.GetLedgerForUpdate(ctx, dbTx, code, op.Currency)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock ledger account: %w", err))
		}
		if acct == nil {
			return apperror.ErrIntegrityFault(fmt.Sprintf("ledger account %s %s missing", code, op.Currency))
		}
		newBalance := acct.Balance.Add(delta)
		if newBalance.IsNegative() && domain.InternalAccountFor(code) != domain.AccountSystemReserve {
			return apperror.ErrNegativeBalance(string(code))
		}
		if err := s.accountRepo.UpdateLedgerBalance(ctx, dbTx, code, op.Currency, newBalance); err != nil {
			return apperror.InternalError(fmt.Errorf("update ledger account: %w", err))
		}
	}

	for _, code := range domain.InternalAccountCodes() {
		delta, ok := internalDeltas[code]
		if !ok || delta.IsZero() {
			continue
		}
		acct, err := s.accountRepo.GetInternalForUpdate(ctx, dbTx, code, op.Currency)
		if err != nil {
			return apperror.InternalError(fmt.Errorf("lock internal account: %w", err))
		}
		if acct == nil {
			return apperror.ErrIntegrityFault(fmt.Sprintf("internal account %s %s missing", code, op.Currency))
		}
		newBalance := acct.Balance.Add(delta)
		if newBalance.IsNegative() && !acct.AllowsNegative() {
			return apperror.ErrNegativeBalance(string(code))
		}
		if err := s.accountRepo.UpdateInternalBalance(ctx, dbTx, code, op.Currency, newBalance); err != nil {
			return apperror.InternalError(fmt.Errorf("update internal account: %w", err))
		}
	}

	// Side records committed with the money movement
	if op.Hold != nil {
		if err := s.holdRepo.Create(ctx, dbTx, op.Hold); err != nil {
			return apperror.InternalError(fmt.Errorf("create hold: %w", err))
		}
	}
	if op.HoldChange != nil {
		if err := s.holdRepo.UpdateStatus(ctx, dbTx, op.HoldChange.HoldID, op.HoldChange.Status, op.HoldChange.ResolvedBy, now); err != nil {
			return apperror.InternalError(fmt.Errorf("resolve hold: %w", err))
		}
	}
	for i := range op.Alerts {
		if err := s.alertRepo.CreateInTx(ctx, dbTx, &op.Alerts[i]); err != nil {
			return apperror.InternalError(fmt.Errorf("create risk alert: %w", err))
		}
	}
	if op.IdempotencyLog != nil {
		if err := s.idempRepo.Create(ctx, dbTx, op.IdempotencyLog); err != nil {
			if isUniqueViolation(err) {
				return apperror.ErrDuplicateReference(op.IdempotencyLog.Key)
			}
			return apperror.InternalError(fmt.Errorf("save idempotency log: %w", err))
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return apperror.InternalError(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("entry_id", entry.ID.String()).
		Str("currency", string(op.Currency)).
		Int("lines", len(entry.Lines)).
		Str("description", op.Description).
		Msg("ledger entry posted")

	return nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation, the backstop for idempotency races that slip past both
// cache layers.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

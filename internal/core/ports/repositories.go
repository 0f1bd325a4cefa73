package ports

import (
	"context"
	"time"

	"fincore/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ProfileRepository defines persistence for participant profiles
// (users, agents, merchants).
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProfileStatus) error
}

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx are used inside transaction blocks for pessimistic locking.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByOwner(ctx context.Context, ownerID uuid.UUID, currency domain.Currency, purpose domain.WalletPurpose) (*domain.Wallet, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	UpdateBalances(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, balance, frozen decimal.Decimal) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	// SumBalances aggregates wallet balances for reconciliation,
	// bypassing running account balances.
	SumBalances(ctx context.Context, currency domain.Currency, purpose domain.WalletPurpose) (decimal.Decimal, error)
}

// AgentCreditRepository defines persistence for agent credit lines.
type AgentCreditRepository interface {
	Create(ctx context.Context, credit *domain.AgentCredit) error
	Get(ctx context.Context, agentID uuid.UUID, currency domain.Currency) (*domain.AgentCredit, error)
	GetForUpdate(ctx context.Context, tx pgx.Tx, agentID uuid.UUID, currency domain.Currency) (*domain.AgentCredit, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, agentID uuid.UUID, currency domain.Currency, current decimal.Decimal) error
	SumCredits(ctx context.Context, currency domain.Currency) (decimal.Decimal, error)
}

// AccountRepository defines persistence for the internal accounts and
// the bookkeeping chart. Balance updates only ever happen inside a
// posting transaction with the row locked.
type AccountRepository interface {
	GetInternalForUpdate(ctx context.Context, tx pgx.Tx, code domain.InternalAccountCode, currency domain.Currency) (*domain.InternalAccount, error)
	UpdateInternalBalance(ctx context.Context, tx pgx.Tx, code domain.InternalAccountCode, currency domain.Currency, balance decimal.Decimal) error
	ListInternal(ctx context.Context, currency domain.Currency) ([]domain.InternalAccount, error)
	GetLedgerForUpdate(ctx context.Context, tx pgx.Tx, code domain.LedgerAccountCode, currency domain.Currency) (*domain.LedgerAccount, error)
	UpdateLedgerBalance(ctx context.Context, tx pgx.Tx, code domain.LedgerAccountCode, currency domain.Currency, balance decimal.Decimal) error
	ListLedger(ctx context.Context, currency domain.Currency) ([]domain.LedgerAccount, error)
}

// LedgerRepository defines persistence for immutable ledger entries.
type LedgerRepository interface {
	CreateEntry(ctx context.Context, tx pgx.Tx, entry *domain.LedgerEntry) error
	GetEntry(ctx context.Context, id uuid.UUID) (*domain.LedgerEntry, error)
	ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.LedgerEntry, error)
	// SumLineDeltas recomputes an account's balance as
	// SUM(credit - debit) over all its lines, for reconciliation.
	SumLineDeltas(ctx context.Context, account domain.LedgerAccountCode, currency domain.Currency) (decimal.Decimal, error)
}

// TransactionRepository defines persistence operations for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	GetByReference(ctx context.Context, referenceNumber string) (*domain.Transaction, error)
	GetByClientReference(ctx context.Context, initiatorID uuid.UUID, clientReference string) (*domain.Transaction, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.TransactionStatus, completedAt *time.Time) error
	// CountSince counts an initiator's transactions in the trailing
	// window, feeding the rapid-transaction check.
	CountSince(ctx context.Context, initiatorID uuid.UUID, since time.Time) (int, error)
	List(ctx context.Context, params TransactionListParams) ([]domain.Transaction, int64, error)
	GetStats(ctx context.Context, initiatorID uuid.UUID, currency domain.Currency, from *time.Time) (*TransactionStats, error)
}

// TransactionListParams holds filter + pagination for listing transactions.
type TransactionListParams struct {
	InitiatorID *uuid.UUID
	WalletID    *uuid.UUID
	Status      *domain.TransactionStatus
	Type        *domain.TransactionType
	Currency    *domain.Currency
	From        *time.Time
	To          *time.Time
	Page        int
	PageSize    int
}

// TransactionStats holds aggregated statistics for reporting.
type TransactionStats struct {
	TotalCount     int64
	CompletedCount int64
	CancelledCount int64
	HeldCount      int64
	TotalVolume    decimal.Decimal // Sum of completed amounts
	TotalFees      decimal.Decimal // Sum of completed platform fees
}

// HoldRepository defines persistence for held transactions.
type HoldRepository interface {
	Create(ctx context.Context, tx pgx.Tx, hold *domain.HeldTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.HeldTransaction, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.HeldTransaction, error)
	GetByTransactionID(ctx context.Context, transactionID uuid.UUID) (*domain.HeldTransaction, error)
	List(ctx context.Context, status *domain.HoldStatus, page, pageSize int) ([]domain.HeldTransaction, int64, error)
	UpdateStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.HoldStatus, resolvedBy uuid.UUID, resolvedAt time.Time) error
	// SumHeld aggregates HELD amounts for reconciliation against the
	// suspense account.
	SumHeld(ctx context.Context, currency domain.Currency) (decimal.Decimal, error)
}

// RiskAlertRepository defines persistence for risk alerts.
type RiskAlertRepository interface {
	// Create inserts an alert outside any posting transaction, used on
	// the hard-rejection path where nothing else is written.
	Create(ctx context.Context, alert *domain.RiskAlert) error
	CreateInTx(ctx context.Context, tx pgx.Tx, alert *domain.RiskAlert) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.RiskAlert, error)
	List(ctx context.Context, status *domain.AlertStatus, page, pageSize int) ([]domain.RiskAlert, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.AlertStatus, reviewedBy uuid.UUID, reviewedAt time.Time) error
}

// DeviceRepository defines persistence for per-user device history.
type DeviceRepository interface {
	Get(ctx context.Context, userID uuid.UUID, deviceID string) (*domain.TrustedDevice, error)
	Upsert(ctx context.Context, device *domain.TrustedDevice) error
}

// LimitsRepository defines persistence for rolling spend counters.
type LimitsRepository interface {
	GetForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID, currency domain.Currency) (*domain.UserTransactionLimits, error)
	Upsert(ctx context.Context, tx pgx.Tx, limits *domain.UserTransactionLimits) error
}

// OTPRepository defines persistence for pending OTP-gated transfers.
// A user has at most one pending transfer; Replace swaps it atomically.
type OTPRepository interface {
	Replace(ctx context.Context, otp *domain.TransferOTP) error
	GetActive(ctx context.Context, userID uuid.UUID) (*domain.TransferOTP, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// PurgeExpired removes this user's expired rows; called lazily on
	// the next OTP operation, never by a background sweep.
	PurgeExpired(ctx context.Context, userID uuid.UUID, now time.Time) error
}

// SnapshotRepository defines persistence for balance snapshots.
type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *domain.Snapshot) error
	GetByBucket(ctx context.Context, period domain.PeriodType, periodStart time.Time) (*domain.Snapshot, error)
	GetLatest(ctx context.Context, period domain.PeriodType) (*domain.Snapshot, error)
	List(ctx context.Context, period domain.PeriodType, page, pageSize int) ([]domain.Snapshot, int64, error)
}

// ReconciliationRepository persists reconciliation reports.
type ReconciliationRepository interface {
	Create(ctx context.Context, report *domain.ReconciliationReport) error
	GetLatest(ctx context.Context) (*domain.ReconciliationReport, error)
	List(ctx context.Context, page, pageSize int) ([]domain.ReconciliationReport, int64, error)
}

// AuditRepository persists the admin action trail.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, actorID *uuid.UUID, page, pageSize int) ([]domain.AuditLog, int64, error)
}

// IdempotencyRepository defines persistence for idempotency logs (DB backup).
type IdempotencyRepository interface {
	Create(ctx context.Context, tx pgx.Tx, log *domain.IdempotencyLog) error
	Get(ctx context.Context, key string) (*domain.IdempotencyLog, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

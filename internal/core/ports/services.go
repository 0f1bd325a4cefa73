package ports

import (
	"context"
	"time"

	"fincore/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TokenService handles JWT token operations. Tokens are issued by the
// external identity provider; the core validates them and, for tests
// and tooling, can mint its own.
type TokenService interface {
	Generate(profileID uuid.UUID, role domain.Role) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	ProfileID uuid.UUID
	Role      domain.Role
}

// IdempotencyCache is the Redis-layer idempotency check (fast path).
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached response JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// SessionIPStore keeps the ring of IPs a user's recent sessions came
// from, consumed by the suspicious-IP risk check.
type SessionIPStore interface {
	Record(ctx context.Context, userID uuid.UUID, ip string) error
	Recent(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// Notifier publishes user-facing events after commit. Delivery is
// best-effort: failures are logged and never affect the operation
// result.
type Notifier interface {
	TransactionCompleted(ctx context.Context, txn *domain.Transaction) error
	TransactionHeld(ctx context.Context, txn *domain.Transaction, hold *domain.HeldTransaction) error
	TransactionCancelled(ctx context.Context, txn *domain.Transaction) error
	OTPIssued(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) error
}

// Archiver exports committed snapshots for downstream storage,
// best-effort.
type Archiver interface {
	SnapshotExported(ctx context.Context, snapshot *domain.Snapshot) error
}

// LedgerPoster commits a FinancialOperation atomically: wallet and
// credit mutations, transaction record, balanced ledger entry, account
// balance updates, hold and alert rows, all in one database
// transaction. It is the only path that touches balances.
type LedgerPoster interface {
	Post(ctx context.Context, op *domain.FinancialOperation) error
}

// AuditService records privileged admin actions, fire-and-forget.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}

// --- Service Ports (Business Logic) ---

// WalletService manages wallet lifecycle and reads. Balance mutations
// are not part of this surface; they exist only inside posted
// FinancialOperations.
type WalletService interface {
	GetOrCreate(ctx context.Context, actor domain.Actor, ownerID uuid.UUID, currency domain.Currency, purpose domain.WalletPurpose) (*domain.Wallet, error)
	Get(ctx context.Context, actor domain.Actor, walletID uuid.UUID) (*domain.Wallet, error)
	ListByOwner(ctx context.Context, actor domain.Actor, ownerID uuid.UUID) ([]domain.Wallet, error)
	SetActive(ctx context.Context, actor domain.Actor, walletID uuid.UUID, active bool) (*domain.Wallet, error)
}

// RiskService screens prospective transactions and manages alerts.
type RiskService interface {
	// Check runs the five checks concurrently and merges their
	// verdicts. A LIMIT_EXCEEDED alert in the result is absolute and
	// callers must hard-reject.
	Check(ctx context.Context, input domain.RiskInput) (domain.RiskResult, error)
	ListAlerts(ctx context.Context, actor domain.Actor, status *domain.AlertStatus, page, pageSize int) ([]domain.RiskAlert, int64, error)
	ReviewAlert(ctx context.Context, actor domain.Actor, alertID uuid.UUID, verdict domain.AlertStatus, clientIP string) (*domain.RiskAlert, error)
}

// TransactionProcessor implements every money-moving operation with
// the shared shape: validate, risk gate, build FinancialOperation,
// post, notify.
type TransactionProcessor interface {
	Deposit(ctx context.Context, req DepositRequest) (*domain.Transaction, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*domain.Transaction, error)
	InitiateTransfer(ctx context.Context, req TransferRequest) (*TransferChallenge, error)
	ConfirmTransfer(ctx context.Context, req ConfirmTransferRequest) (*domain.Transaction, error)
	QRPayment(ctx context.Context, req QRPaymentRequest) (*domain.Transaction, error)
	ServicePurchase(ctx context.Context, req ServicePurchaseRequest) (*domain.Transaction, error)
	GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Transaction, error)
	GetByReference(ctx context.Context, actor domain.Actor, referenceNumber string) (*domain.Transaction, error)
	List(ctx context.Context, actor domain.Actor, params TransactionListParams) ([]domain.Transaction, int64, error)
}

// DepositRequest is a cash-in at an agent: the agent is the
// authenticated initiator handing value to the user's wallet.
type DepositRequest struct {
	AgentID         uuid.UUID
	UserID          uuid.UUID
	Amount          decimal.Decimal
	Currency        domain.Currency
	ClientReference string
	ClientIP        string
	DeviceID        string
	Note            *string
}

// WithdrawRequest is a cash-out: the user is the authenticated
// initiator taking cash from an agent.
type WithdrawRequest struct {
	UserID          uuid.UUID
	AgentID         uuid.UUID
	Amount          decimal.Decimal
	Currency        domain.Currency
	ClientReference string
	ClientIP        string
	DeviceID        string
	Note            *string
}

// TransferRequest initiates an OTP-gated wallet-to-wallet transfer.
type TransferRequest struct {
	SenderID        uuid.UUID
	RecipientID     uuid.UUID
	Amount          decimal.Decimal
	Currency        domain.Currency
	ClientReference string
	ClientIP        string
	DeviceID        string
	Note            *string
}

// TransferChallenge is returned from InitiateTransfer; the code itself
// travels out-of-band.
type TransferChallenge struct {
	OTPID     uuid.UUID `json:"otp_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ConfirmTransferRequest executes the sender's pending transfer.
type ConfirmTransferRequest struct {
	SenderID uuid.UUID
	Code     string
	ClientIP string
	DeviceID string
}

// QRPaymentRequest pays a merchant immediately.
type QRPaymentRequest struct {
	UserID          uuid.UUID
	MerchantID      uuid.UUID
	Amount          decimal.Decimal
	Currency        domain.Currency
	ClientReference string
	ClientIP        string
	DeviceID        string
	Note            *string
}

// ServicePurchaseRequest buys a merchant service; funds park in
// suspense until the merchant approves or declines.
type ServicePurchaseRequest struct {
	UserID          uuid.UUID
	MerchantID      uuid.UUID
	Amount          decimal.Decimal
	Currency        domain.Currency
	ClientReference string
	ClientIP        string
	DeviceID        string
	Note            *string
}

// HoldService resolves held transactions: admin release/cancel for
// risk holds, merchant approve/decline for pending service purchases.
type HoldService interface {
	List(ctx context.Context, actor domain.Actor, status *domain.HoldStatus, page, pageSize int) ([]domain.HeldTransaction, int64, error)
	Release(ctx context.Context, actor domain.Actor, holdID uuid.UUID, clientIP string) (*domain.Transaction, error)
	Cancel(ctx context.Context, actor domain.Actor, holdID uuid.UUID, clientIP string) (*domain.Transaction, error)
	ApprovePurchase(ctx context.Context, actor domain.Actor, transactionID uuid.UUID) (*domain.Transaction, error)
	DeclinePurchase(ctx context.Context, actor domain.Actor, transactionID uuid.UUID) (*domain.Transaction, error)
}

// SettlementService manages the agent credit lifecycle against the
// system reserve.
type SettlementService interface {
	GrantCredit(ctx context.Context, actor domain.Actor, req CreditGrantRequest) (*domain.Transaction, error)
	RequestSettlement(ctx context.Context, actor domain.Actor, req SettlementRequest) (*domain.Transaction, error)
	ConfirmSettlement(ctx context.Context, actor domain.Actor, transactionID uuid.UUID, clientIP string) (*domain.Transaction, error)
	// RecordSettlement is request immediately followed by confirm, for
	// over-the-counter cash returns.
	RecordSettlement(ctx context.Context, actor domain.Actor, req SettlementRequest) (*domain.Transaction, error)
	DistributeProfit(ctx context.Context, actor domain.Actor, req ProfitDistributionRequest) (*domain.Transaction, error)
	GetCredit(ctx context.Context, actor domain.Actor, agentID uuid.UUID, currency domain.Currency) (*domain.AgentCredit, error)
}

// CreditGrantRequest loans e-float to an agent from the system reserve.
type CreditGrantRequest struct {
	AgentID  uuid.UUID
	Amount   decimal.Decimal
	Currency domain.Currency
	Note     *string
	ClientIP string
}

// SettlementRequest declares agent cash to be returned to the reserve.
type SettlementRequest struct {
	AgentID         uuid.UUID
	Amount          decimal.Decimal
	Currency        domain.Currency
	ClientReference string
	ClientIP        string
}

// ProfitDistributionRequest moves accumulated fees into a business
// wallet.
type ProfitDistributionRequest struct {
	MerchantID uuid.UUID
	Amount     decimal.Decimal
	Currency   domain.Currency
	Note       *string
	ClientIP   string
}

// SnapshotService captures balance snapshots and reconciles running
// balances against recomputed truth.
type SnapshotService interface {
	Create(ctx context.Context, period domain.PeriodType) (*domain.Snapshot, error)
	Latest(ctx context.Context, period domain.PeriodType) (*domain.Snapshot, error)
	List(ctx context.Context, period domain.PeriodType, page, pageSize int) ([]domain.Snapshot, int64, error)
	Reconcile(ctx context.Context) (*domain.ReconciliationReport, error)
	ListReports(ctx context.Context, page, pageSize int) ([]domain.ReconciliationReport, int64, error)
	SyncLedgerBalances(ctx context.Context, actor domain.Actor, clientIP string) (*SyncResult, error)
}

// BalanceCorrection is one account overwritten by a ledger sync.
type BalanceCorrection struct {
	Code     string          `json:"code"`
	Currency domain.Currency `json:"currency"`
	Before   decimal.Decimal `json:"before"`
	After    decimal.Decimal `json:"after"`
}

// SyncResult reports what a ledger sync corrected.
type SyncResult struct {
	Corrections []BalanceCorrection `json:"corrections"`
	RanAt       time.Time           `json:"ran_at"`
}

// ProfileService manages the participant registry.
type ProfileService interface {
	Create(ctx context.Context, actor domain.Actor, req CreateProfileRequest) (*domain.Profile, error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Profile, error)
	SetStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, status domain.ProfileStatus, clientIP string) (*domain.Profile, error)
}

// CreateProfileRequest registers a participant. Agents get zero-value
// credit lines in every currency.
type CreateProfileRequest struct {
	Kind        domain.ProfileKind
	DisplayName string
}

// ReportingService serves reads for dashboards and operators.
type ReportingService interface {
	Stats(ctx context.Context, actor domain.Actor, initiatorID uuid.UUID, currency domain.Currency, from *time.Time) (*TransactionStats, error)
	LedgerOverview(ctx context.Context, actor domain.Actor, currency domain.Currency) (*LedgerOverview, error)
	EntriesByTransaction(ctx context.Context, actor domain.Actor, transactionID uuid.UUID) ([]domain.LedgerEntry, error)
	AuditTrail(ctx context.Context, actor domain.Actor, actorFilter *uuid.UUID, page, pageSize int) ([]domain.AuditLog, int64, error)
}

// LedgerOverview is the operator's view of one currency's books.
type LedgerOverview struct {
	Currency domain.Currency          `json:"currency"`
	Internal []domain.InternalAccount `json:"internal"`
	Ledger   []domain.LedgerAccount   `json:"ledger"`
	ZeroSum  decimal.Decimal          `json:"zero_sum"`
}

package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the kind of money movement.
type TransactionType string

const (
	TransactionTypeDeposit            TransactionType = "DEPOSIT"
	TransactionTypeWithdraw           TransactionType = "WITHDRAW"
	TransactionTypeTransfer           TransactionType = "TRANSFER"
	TransactionTypeQRPayment          TransactionType = "QR_PAYMENT"
	TransactionTypeServicePurchase    TransactionType = "SERVICE_PURCHASE"
	TransactionTypeCreditGrant        TransactionType = "CREDIT_GRANT"
	TransactionTypeSettlement         TransactionType = "SETTLEMENT"
	TransactionTypeProfitDistribution TransactionType = "PROFIT_DISTRIBUTION"
)

// TransactionStatus represents the lifecycle state of a transaction.
// PENDING transitions exactly once to COMPLETED or CANCELLED, or to
// PROCESSING while held; PROCESSING resolves only through an explicit
// release or cancel.
type TransactionStatus string

const (
	TransactionStatusPending    TransactionStatus = "PENDING"
	TransactionStatusProcessing TransactionStatus = "PROCESSING"
	TransactionStatusCompleted  TransactionStatus = "COMPLETED"
	TransactionStatusCancelled  TransactionStatus = "CANCELLED"
)

// Transaction is the user-facing record of one money movement.
// ReferenceNumber is the unique, human-presentable identifier generated
// at commit; ClientReference is the caller-supplied idempotency key.
type Transaction struct {
	ID                uuid.UUID         `json:"id"`
	ReferenceNumber   string            `json:"reference_number"`
	ClientReference   string            `json:"client_reference"`
	Type              TransactionType   `json:"type"`
	Amount            decimal.Decimal   `json:"amount"`
	PlatformFee       decimal.Decimal   `json:"platform_fee"`
	AgentFee          decimal.Decimal   `json:"agent_fee"`
	NetAmount         decimal.Decimal   `json:"net_amount"`
	Currency          Currency          `json:"currency"`
	Status            TransactionStatus `json:"status"`
	SenderWalletID    *uuid.UUID        `json:"sender_wallet_id,omitempty"`
	RecipientWalletID *uuid.UUID        `json:"recipient_wallet_id,omitempty"`
	InitiatorID       uuid.UUID         `json:"initiator_id"`
	CounterpartyID    *uuid.UUID        `json:"counterparty_id,omitempty"`
	Note              *string           `json:"note,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	CompletedAt       *time.Time        `json:"completed_at,omitempty"`
}

// IsTerminal returns true if the transaction is in a final state.
func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusCompleted ||
		t.Status == TransactionStatusCancelled
}

// IsHeld returns true if the transaction sits in the held state
// awaiting release or cancellation.
func (t *Transaction) IsHeld() bool {
	return t.Status == TransactionStatusProcessing
}

// referencePrefixes maps each transaction type to its reference number
// prefix. The prefixes are part of the presented reference format and
// stable.
var referencePrefixes = map[TransactionType]string{
	TransactionTypeDeposit:            "DEP",
	TransactionTypeWithdraw:           "WDR",
	TransactionTypeTransfer:           "TRF",
	TransactionTypeQRPayment:          "QRP",
	TransactionTypeServicePurchase:    "SRV",
	TransactionTypeCreditGrant:        "CRG",
	TransactionTypeSettlement:         "SET",
	TransactionTypeProfitDistribution: "PRF",
}

// NewReferenceNumber builds a unique, human-presentable reference like
// "TRF-20250812-7C9E6679". Uniqueness comes from the embedded UUID
// fragment and is enforced by the storage layer's unique constraint.
func NewReferenceNumber(t TransactionType, at time.Time) string {
	prefix, ok := referencePrefixes[t]
	if !ok {
		prefix = "TXN"
	}
	frag := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", prefix, at.UTC().Format("20060102"), frag)
}


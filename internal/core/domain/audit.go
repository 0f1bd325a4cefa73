package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited privileged action.
type AuditAction string

const (
	AuditActionReleaseHold       AuditAction = "RELEASE_HOLD"
	AuditActionCancelHold        AuditAction = "CANCEL_HOLD"
	AuditActionReviewAlert       AuditAction = "REVIEW_ALERT"
	AuditActionLedgerSync        AuditAction = "LEDGER_SYNC"
	AuditActionCreditGrant       AuditAction = "CREDIT_GRANT"
	AuditActionSettlementConfirm AuditAction = "SETTLEMENT_CONFIRM"
	AuditActionProfitDistribute  AuditAction = "PROFIT_DISTRIBUTE"
	AuditActionProfileStatus     AuditAction = "PROFILE_STATUS"
)

// AuditLog records a single privileged action: who did what to which
// entity, with the before and after states as JSON.
type AuditLog struct {
	ID         uuid.UUID   `json:"id"`
	ActorID    uuid.UUID   `json:"actor_id"`
	Action     AuditAction `json:"action"`
	EntityType string      `json:"entity_type"`
	EntityID   string      `json:"entity_id,omitempty"`
	Before     string      `json:"before,omitempty"` // JSON string
	After      string      `json:"after,omitempty"`  // JSON string
	IPAddress  string      `json:"ip_address"`
	CreatedAt  time.Time   `json:"created_at"`
}

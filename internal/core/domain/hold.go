package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HoldStatus tracks a held transaction through admin review.
type HoldStatus string

const (
	HoldStatusHeld      HoldStatus = "HELD"
	HoldStatusReleased  HoldStatus = "RELEASED"
	HoldStatusCancelled HoldStatus = "CANCELLED"
)

// HeldTransaction parks a transaction's funds pending review. While
// held, the amount sits in the suspense account and is mirrored in the
// source wallet's frozen balance.
type HeldTransaction struct {
	ID            uuid.UUID       `json:"id"`
	TransactionID uuid.UUID       `json:"transaction_id"`
	WalletID      uuid.UUID       `json:"wallet_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      Currency        `json:"currency"`
	Reason        string          `json:"reason"`
	Status        HoldStatus      `json:"status"`
	ResolvedBy    *uuid.UUID      `json:"resolved_by,omitempty"`
	ResolvedAt    *time.Time      `json:"resolved_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Resolvable reports whether the hold can still be released or
// cancelled.
func (h *HeldTransaction) Resolvable() bool {
	return h.Status == HoldStatusHeld
}

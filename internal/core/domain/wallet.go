package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency is the closed set of currencies the platform moves.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencySYP Currency = "SYP"
)

// Currencies lists every supported currency in stable order.
func Currencies() []Currency {
	return []Currency{CurrencyUSD, CurrencySYP}
}

// ValidCurrency reports whether c is a supported currency code.
func ValidCurrency(c Currency) bool {
	return c == CurrencyUSD || c == CurrencySYP
}

// WalletPurpose separates personal spending wallets from business wallets.
type WalletPurpose string

const (
	PurposePersonal WalletPurpose = "PERSONAL"
	PurposeBusiness WalletPurpose = "BUSINESS"
)

// ValidPurpose reports whether p is a supported wallet purpose.
func ValidPurpose(p WalletPurpose) bool {
	return p == PurposePersonal || p == PurposeBusiness
}

// MinUnit is the smallest representable amount (one cent / one piastre).
// All monetary values are fixed-point decimals rounded to this unit.
var MinUnit = decimal.New(1, -2) // 0.01

// Wallet is a per-owner, per-currency, per-purpose balance record.
// Balance is always >= 0; only the system reserve internal account may
// go negative. FrozenBalance mirrors funds the owner has debited into
// suspense pending hold resolution; it is informational and not part of
// the zero-sum accounting identity.
type Wallet struct {
	ID            uuid.UUID       `json:"id"`
	OwnerID       uuid.UUID       `json:"owner_id"`
	Currency      Currency        `json:"currency"`
	Purpose       WalletPurpose   `json:"purpose"`
	Balance       decimal.Decimal `json:"balance"`
	FrozenBalance decimal.Decimal `json:"frozen_balance"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CanDebit reports whether the wallet holds at least amount.
func (w *Wallet) CanDebit(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}

// ValidAmount reports whether amount is a positive multiple of MinUnit.
func ValidAmount(amount decimal.Decimal) bool {
	if !amount.IsPositive() {
		return false
	}
	// Reject sub-unit precision (e.g. 0.001).
	return amount.Equal(amount.Round(2))
}

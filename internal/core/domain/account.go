package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InternalAccountCode identifies one of the fixed system-level
// accounting buckets. The sum of all internal account balances per
// currency is zero at all times; SYSTEM_RESERVE is the only account
// permitted a negative balance. These codes are persisted identifiers
// that external reconciliation tooling keys off of; never rename
// them without a migration.
type InternalAccountCode string

const (
	AccountSystemReserve  InternalAccountCode = "SYSTEM_RESERVE"
	AccountUserLedger     InternalAccountCode = "USR-LEDGER"
	AccountMerchantLedger InternalAccountCode = "MRC-LEDGER"
	AccountAgentLedger    InternalAccountCode = "AGT-LEDGER"
	AccountSettlements    InternalAccountCode = "SETTLEMENTS"
	AccountFeesCollected  InternalAccountCode = "FEES-COLLECTED"
	AccountSuspense       InternalAccountCode = "SUSPENSE"
)

// InternalAccountCodes lists every internal account in stable order.
func InternalAccountCodes() []InternalAccountCode {
	return []InternalAccountCode{
		AccountSystemReserve,
		AccountUserLedger,
		AccountMerchantLedger,
		AccountAgentLedger,
		AccountSettlements,
		AccountFeesCollected,
		AccountSuspense,
	}
}

// InternalAccount is a money-of-record bucket with a running balance
// per currency.
type InternalAccount struct {
	Code      InternalAccountCode `json:"code"`
	Currency  Currency            `json:"currency"`
	Balance   decimal.Decimal     `json:"balance"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// AllowsNegative reports whether the account may carry a negative
// balance. Only the system reserve represents value owed to circulating
// wallets and may go below zero.
func (a *InternalAccount) AllowsNegative() bool {
	return a.Code == AccountSystemReserve
}

// LedgerAccountCode identifies an account in the double-entry chart.
// Every ledger line is posted against one of these. Like the internal
// account codes, they are stable persisted identifiers.
type LedgerAccountCode string

const (
	LedgerCash            LedgerAccountCode = "CASH"
	LedgerUserWallets     LedgerAccountCode = "USER-WALLETS"
	LedgerAgentCredit     LedgerAccountCode = "AGENT-CREDIT"
	LedgerMerchantBalance LedgerAccountCode = "MERCHANT-BALANCE"
	LedgerRevenueFees     LedgerAccountCode = "REVENUE-FEES"
	LedgerSystemReserve   LedgerAccountCode = "SYSTEM-RESERVE"
	LedgerSettlementsDue  LedgerAccountCode = "SETTLEMENTS-DUE"
	LedgerSuspense        LedgerAccountCode = "SUSPENSE"
)

// LedgerAccountCodes lists every ledger account in stable order.
func LedgerAccountCodes() []LedgerAccountCode {
	return []LedgerAccountCode{
		LedgerCash,
		LedgerUserWallets,
		LedgerAgentCredit,
		LedgerMerchantBalance,
		LedgerRevenueFees,
		LedgerSystemReserve,
		LedgerSettlementsDue,
		LedgerSuspense,
	}
}

// ValidLedgerAccount reports whether code is part of the fixed chart.
func ValidLedgerAccount(code LedgerAccountCode) bool {
	switch code {
	case LedgerCash, LedgerUserWallets, LedgerAgentCredit, LedgerMerchantBalance,
		LedgerRevenueFees, LedgerSystemReserve, LedgerSettlementsDue, LedgerSuspense:
		return true
	}
	return false
}

// InternalAccountFor maps a ledger account to the internal account
// whose running balance it feeds. CASH and SYSTEM-RESERVE both feed
// the system reserve: cash entering or leaving the platform changes
// how much the reserve owes the circulating wallets.
func InternalAccountFor(code LedgerAccountCode) InternalAccountCode {
	switch code {
	case LedgerCash, LedgerSystemReserve:
		return AccountSystemReserve
	case LedgerUserWallets:
		return AccountUserLedger
	case LedgerMerchantBalance:
		return AccountMerchantLedger
	case LedgerAgentCredit:
		return AccountAgentLedger
	case LedgerRevenueFees:
		return AccountFeesCollected
	case LedgerSettlementsDue:
		return AccountSettlements
	case LedgerSuspense:
		return AccountSuspense
	}
	return AccountSuspense
}

// LedgerAccount is one account of the bookkeeping chart with its
// running balance per currency, maintained as sum(credit - debit)
// over all posted lines.
type LedgerAccount struct {
	Code      LedgerAccountCode `json:"code"`
	Currency  Currency          `json:"currency"`
	Balance   decimal.Decimal   `json:"balance"`
	UpdatedAt time.Time         `json:"updated_at"`
}

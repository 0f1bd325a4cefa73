package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerLine is one debit or credit of a ledger entry. Exactly one of
// Debit/Credit is positive; the other is zero.
type LedgerLine struct {
	Account LedgerAccountCode `json:"account"`
	Debit   decimal.Decimal   `json:"debit"`
	Credit  decimal.Decimal   `json:"credit"`
}

// DebitLine builds a debit line against account.
func DebitLine(account LedgerAccountCode, amount decimal.Decimal) LedgerLine {
	return LedgerLine{Account: account, Debit: amount, Credit: decimal.Zero}
}

// CreditLine builds a credit line against account.
func CreditLine(account LedgerAccountCode, amount decimal.Decimal) LedgerLine {
	return LedgerLine{Account: account, Credit: amount, Debit: decimal.Zero}
}

// Delta is the line's effect on its account's running balance
// (credit - debit).
func (l LedgerLine) Delta() decimal.Decimal {
	return l.Credit.Sub(l.Debit)
}

// LedgerEntry is the immutable double-entry record of one business
// event. Lines are ordered and must balance: sum(debit) == sum(credit).
// Entries are never mutated after creation; corrections are posted as
// fresh mirror-image entries.
type LedgerEntry struct {
	ID            uuid.UUID    `json:"id"`
	Description   string       `json:"description"`
	Currency      Currency     `json:"currency"`
	TransactionID *uuid.UUID   `json:"transaction_id,omitempty"`
	Lines         []LedgerLine `json:"lines"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Balanced reports whether the entry's debits equal its credits and
// every line is well formed (valid account, one positive side, no
// negative amounts).
func (e *LedgerEntry) Balanced() bool {
	if len(e.Lines) < 2 {
		return false
	}
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, l := range e.Lines {
		if !ValidLedgerAccount(l.Account) {
			return false
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return false
		}
		if l.Debit.IsPositive() == l.Credit.IsPositive() {
			return false
		}
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}
	return totalDebit.Equal(totalCredit)
}

// WalletMutation is a single wallet balance change inside a financial
// operation. Delta is applied to Balance, FrozenDelta to FrozenBalance.
type WalletMutation struct {
	WalletID    uuid.UUID
	Delta       decimal.Decimal
	FrozenDelta decimal.Decimal
}

// CreditMutation is a single agent credit-line change inside a
// financial operation.
type CreditMutation struct {
	AgentID  uuid.UUID
	Currency Currency
	Delta    decimal.Decimal
}

// FinancialOperation bundles everything one money-moving business event
// mutates: the transaction record, the wallet and agent-credit deltas,
// the balanced ledger lines documenting them, and optionally the hold
// record parking the funds in suspense. It is committed by a single
// atomic post; callers never mutate balances or accounts any other way.
type FinancialOperation struct {
	Transaction    *Transaction
	Currency       Currency
	WalletDeltas   []WalletMutation
	CreditDeltas   []CreditMutation
	Description    string
	Lines          []LedgerLine
	Hold           *HeldTransaction
	HoldChange     *HoldChange
	Alerts         []RiskAlert
	StatusChange   *StatusChange
	IdempotencyLog *IdempotencyLog
}

// StatusChange transitions an existing transaction within the same
// atomic unit (hold release/cancel, settlement confirmation).
type StatusChange struct {
	TransactionID uuid.UUID
	Status        TransactionStatus
}

// HoldChange resolves an existing hold within the same atomic unit as
// the entry that reverses its suspense parking.
type HoldChange struct {
	HoldID     uuid.UUID
	Status     HoldStatus
	ResolvedBy uuid.UUID
}

// Entry materializes the operation's ledger entry for posting.
func (op *FinancialOperation) Entry(entryID uuid.UUID, now time.Time) *LedgerEntry {
	var txID *uuid.UUID
	if op.Transaction != nil {
		id := op.Transaction.ID
		txID = &id
	} else if op.StatusChange != nil {
		id := op.StatusChange.TransactionID
		txID = &id
	}
	return &LedgerEntry{
		ID:            entryID,
		Description:   op.Description,
		Currency:      op.Currency,
		TransactionID: txID,
		Lines:         op.Lines,
		CreatedAt:     now,
	}
}

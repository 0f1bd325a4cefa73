package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PeriodType is the granularity of a balance snapshot.
type PeriodType string

const (
	PeriodHourly PeriodType = "HOURLY"
	PeriodDaily  PeriodType = "DAILY"
)

// PeriodStart truncates t to the start of the snapshot bucket.
func (p PeriodType) PeriodStart(t time.Time) time.Time {
	switch p {
	case PeriodDaily:
		return t.UTC().Truncate(24 * time.Hour)
	default:
		return t.UTC().Truncate(time.Hour)
	}
}

// AccountBalance is one account's balance captured in a snapshot.
type AccountBalance struct {
	Code     string          `json:"code"`
	Currency Currency        `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

// CurrencyTotals are the per-currency aggregates captured alongside a
// snapshot's account balances. InternalNet is the zero-sum check value
// and should always be zero.
type CurrencyTotals struct {
	Currency    Currency        `json:"currency"`
	WalletTotal decimal.Decimal `json:"wallet_total"`
	CreditTotal decimal.Decimal `json:"credit_total"`
	InternalNet decimal.Decimal `json:"internal_net"`
}

// Snapshot is a point-in-time capture of all internal and ledger
// account balances, checksummed for later tamper detection. At most
// one snapshot exists per (period, periodStart) bucket.
type Snapshot struct {
	ID          uuid.UUID        `json:"id"`
	Period      PeriodType       `json:"period"`
	PeriodStart time.Time        `json:"period_start"`
	Balances    []AccountBalance `json:"balances"`
	Totals      []CurrencyTotals `json:"totals"`
	Checksum    string           `json:"checksum"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ComputeChecksum hashes the balance set in a canonical order so the
// same balances always produce the same digest.
func ComputeChecksum(balances []AccountBalance) string {
	sorted := make([]AccountBalance, len(balances))
	copy(sorted, balances)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Code != sorted[j].Code {
			return sorted[i].Code < sorted[j].Code
		}
		return sorted[i].Currency < sorted[j].Currency
	})

	h := sha256.New()
	for _, b := range sorted {
		fmt.Fprintf(h, "%s|%s|%s\n", b.Code, b.Currency, b.Balance.StringFixed(2))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Verify recomputes the checksum over the stored balances.
func (s *Snapshot) Verify() bool {
	return ComputeChecksum(s.Balances) == s.Checksum
}

// ReconciliationEpsilon is the largest absolute difference treated as
// a match when comparing running balances against aggregates.
var ReconciliationEpsilon = decimal.New(1, -2)

// ReconciliationStatus is the overall verdict of a reconciliation run.
type ReconciliationStatus string

const (
	ReconciliationClean ReconciliationStatus = "CLEAN"
	ReconciliationDrift ReconciliationStatus = "DRIFT"
)

// ReconciliationCheck is one comparison between a running balance and
// the independently aggregated truth.
type ReconciliationCheck struct {
	Name     string          `json:"name"`
	Currency Currency        `json:"currency"`
	Recorded decimal.Decimal `json:"recorded"`
	Computed decimal.Decimal `json:"computed"`
	Delta    decimal.Decimal `json:"delta"`
	Matched  bool            `json:"matched"`
}

// ReconciliationReport is the outcome of one reconciliation run. Every
// check is kept, matched or not; drift is reported here and never
// auto-corrected.
type ReconciliationReport struct {
	ID        uuid.UUID             `json:"id"`
	RanAt     time.Time             `json:"ran_at"`
	Status    ReconciliationStatus  `json:"status"`
	Checks    []ReconciliationCheck `json:"checks"`
	CreatedAt time.Time             `json:"created_at"`
}

// Faults returns the checks that did not match.
func (r *ReconciliationReport) Faults() []ReconciliationCheck {
	var out []ReconciliationCheck
	for _, c := range r.Checks {
		if !c.Matched {
			out = append(out, c)
		}
	}
	return out
}

// NewCheck builds a check, deciding the match within the epsilon.
func NewCheck(name string, currency Currency, recorded, computed decimal.Decimal) ReconciliationCheck {
	delta := recorded.Sub(computed)
	return ReconciliationCheck{
		Name:     name,
		Currency: currency,
		Recorded: recorded,
		Computed: computed,
		Delta:    delta,
		Matched:  delta.Abs().LessThanOrEqual(ReconciliationEpsilon),
	}
}

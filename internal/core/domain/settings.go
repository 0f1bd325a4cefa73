package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RiskSettings is an immutable snapshot of the risk engine's tuning,
// parsed from configuration at startup.
type RiskSettings struct {
	HighAmountThresholds map[Currency]decimal.Decimal
	RapidWindow          time.Duration
	RapidCountThreshold  int
	DeviceTrustWindow    time.Duration
	SessionIPDepth       int
	AutoHold             map[AlertType]bool
}

// HighAmountThreshold returns the per-currency threshold, zero when
// the check is disabled for that currency.
func (s RiskSettings) HighAmountThreshold(c Currency) decimal.Decimal {
	return s.HighAmountThresholds[c]
}

// HoldsOn reports whether a fired alert of this type routes the
// transaction into review instead of completing it.
func (s RiskSettings) HoldsOn(t AlertType) bool {
	return s.AutoHold[t]
}

// FeeRule describes how fees are taken from one transaction type.
// Percentages are fractions, 0.01 for one percent.
type FeeRule struct {
	PlatformPct decimal.Decimal
	AgentPct    decimal.Decimal
	MinFee      decimal.Decimal
	MaxFee      decimal.Decimal
}

// Apply computes the platform and agent fee for an amount, rounded to
// the minor unit. A zero MaxFee means the platform fee is uncapped.
func (r FeeRule) Apply(amount decimal.Decimal) (platform, agent decimal.Decimal) {
	platform = amount.Mul(r.PlatformPct).Round(2)
	if r.MinFee.IsPositive() && platform.LessThan(r.MinFee) {
		platform = r.MinFee
	}
	if r.MaxFee.IsPositive() && platform.GreaterThan(r.MaxFee) {
		platform = r.MaxFee
	}
	agent = amount.Mul(r.AgentPct).Round(2)
	return platform, agent
}

// FeeSettings maps transaction types to their fee rules. Types with
// no rule carry no fees.
type FeeSettings struct {
	Rules map[TransactionType]FeeRule
}

// Fees computes the platform fee, agent fee, and net amount for a
// transaction.
func (s FeeSettings) Fees(t TransactionType, amount decimal.Decimal) (platform, agent, net decimal.Decimal) {
	rule, ok := s.Rules[t]
	if !ok {
		return decimal.Zero, decimal.Zero, amount
	}
	platform, agent = rule.Apply(amount)
	net = amount.Sub(platform).Sub(agent)
	return platform, agent, net
}

// LimitCaps are the rolling spend ceilings for one currency. A zero
// cap disables that window.
type LimitCaps struct {
	Daily   decimal.Decimal
	Weekly  decimal.Decimal
	Monthly decimal.Decimal
}

// Exceeded returns the first window a prospective spend would blow
// through, checking daily then weekly then monthly.
func (c LimitCaps) Exceeded(l *UserTransactionLimits, amount decimal.Decimal) (string, bool) {
	if c.Daily.IsPositive() && l.DailySpent.Add(amount).GreaterThan(c.Daily) {
		return "daily", true
	}
	if c.Weekly.IsPositive() && l.WeeklySpent.Add(amount).GreaterThan(c.Weekly) {
		return "weekly", true
	}
	if c.Monthly.IsPositive() && l.MonthlySpent.Add(amount).GreaterThan(c.Monthly) {
		return "monthly", true
	}
	return "", false
}

// LimitSettings holds per-currency rolling limit caps.
type LimitSettings struct {
	Caps map[Currency]LimitCaps
}

// For returns the caps for a currency, the zero value when none are
// configured.
func (s LimitSettings) For(c Currency) LimitCaps {
	return s.Caps[c]
}

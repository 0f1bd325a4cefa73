package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertType classifies what a risk check fired on.
type AlertType string

const (
	AlertHighAmount        AlertType = "HIGH_AMOUNT"
	AlertRapidTransactions AlertType = "RAPID_TRANSACTIONS"
	AlertNewDevice         AlertType = "NEW_DEVICE"
	AlertSuspiciousIP      AlertType = "SUSPICIOUS_IP"
	AlertLimitExceeded     AlertType = "LIMIT_EXCEEDED"
)

// AlertStatus is the review state of a risk alert, set only by an
// authorized reviewer.
type AlertStatus string

const (
	AlertStatusPending   AlertStatus = "PENDING"
	AlertStatusApproved  AlertStatus = "APPROVED"
	AlertStatusBlocked   AlertStatus = "BLOCKED"
	AlertStatusDismissed AlertStatus = "DISMISSED"
)

// RiskAlert records one fired risk check for review.
type RiskAlert struct {
	ID            uuid.UUID   `json:"id"`
	UserID        uuid.UUID   `json:"user_id"`
	TransactionID *uuid.UUID  `json:"transaction_id,omitempty"`
	Type          AlertType   `json:"type"`
	Score         int         `json:"score"`
	Reason        string      `json:"reason"`
	Status        AlertStatus `json:"status"`
	ReviewedBy    *uuid.UUID  `json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time  `json:"reviewed_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// RiskInput is everything the risk engine evaluates a prospective
// transaction against.
type RiskInput struct {
	UserID   uuid.UUID
	Amount   decimal.Decimal
	Currency Currency
	Type     TransactionType
	IP       string
	DeviceID string
}

// RiskResult is the merged outcome of all risk checks. Passed is false
// only on a limit violation, which callers must treat as a hard
// rejection. ShouldHold routes the debited transaction into the held
// state instead of completing it.
type RiskResult struct {
	Passed     bool
	Score      int
	Alerts     []RiskAlert
	ShouldHold bool
}

// MergeAlerts produces the deterministic merged result: alerts sorted
// by type, score summed and clamped to 100, limit violations forcing a
// hard rejection.
func MergeAlerts(alerts []RiskAlert, holdTypes map[AlertType]bool) RiskResult {
	sort.Slice(alerts, func(i, j int) bool { return alerts[i].Type < alerts[j].Type })

	result := RiskResult{Passed: true, Alerts: alerts}
	for _, a := range alerts {
		result.Score += a.Score
		if a.Type == AlertLimitExceeded {
			result.Passed = false
			result.ShouldHold = true
			continue
		}
		if holdTypes[a.Type] {
			result.ShouldHold = true
		}
	}
	if result.Score > 100 {
		result.Score = 100
	}
	return result
}

// TrustedDevice tracks a device seen for a user. A device unseen
// before is registered untrusted and auto-promoted to trusted on first
// use after the configured hold window.
type TrustedDevice struct {
	UserID    uuid.UUID `json:"user_id"`
	DeviceID  string    `json:"device_id"`
	Trusted   bool      `json:"trusted"`
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`
}

// EligibleForTrust reports whether the untrusted device has aged past
// the hold window and should be promoted on this use.
func (d *TrustedDevice) EligibleForTrust(window time.Duration, now time.Time) bool {
	return !d.Trusted && now.Sub(d.FirstSeen) >= window
}

// UserTransactionLimits holds a user's rolling spend counters per
// currency. Counters reset lazily when their window has elapsed and
// are mutated only by the risk engine's limit check.
type UserTransactionLimits struct {
	UserID         uuid.UUID       `json:"user_id"`
	Currency       Currency        `json:"currency"`
	DailySpent     decimal.Decimal `json:"daily_spent"`
	WeeklySpent    decimal.Decimal `json:"weekly_spent"`
	MonthlySpent   decimal.Decimal `json:"monthly_spent"`
	DailyResetAt   time.Time       `json:"daily_reset_at"`
	WeeklyResetAt  time.Time       `json:"weekly_reset_at"`
	MonthlyResetAt time.Time       `json:"monthly_reset_at"`
}

// RollWindows zeroes any counter whose window has elapsed since its
// last reset, stamping the new window start.
func (l *UserTransactionLimits) RollWindows(now time.Time) {
	if now.Sub(l.DailyResetAt) >= 24*time.Hour {
		l.DailySpent = decimal.Zero
		l.DailyResetAt = now
	}
	if now.Sub(l.WeeklyResetAt) >= 7*24*time.Hour {
		l.WeeklySpent = decimal.Zero
		l.WeeklyResetAt = now
	}
	if now.Sub(l.MonthlyResetAt) >= 30*24*time.Hour {
		l.MonthlySpent = decimal.Zero
		l.MonthlyResetAt = now
	}
}

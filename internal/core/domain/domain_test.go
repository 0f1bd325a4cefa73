package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestProfile_IsActive(t *testing.T) {
	tests := []struct {
		name   string
		status ProfileStatus
		want   bool
	}{
		{"active", ProfileStatusActive, true},
		{"suspended", ProfileStatusSuspended, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Profile{Status: tt.status}
			assert.Equal(t, tt.want, p.IsActive())
		})
	}
}

func TestTransaction_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status TransactionStatus
		want   bool
	}{
		{"pending", TransactionStatusPending, false},
		{"processing", TransactionStatusProcessing, false},
		{"completed", TransactionStatusCompleted, true},
		{"cancelled", TransactionStatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := &Transaction{Status: tt.status}
			assert.Equal(t, tt.want, tx.IsTerminal())
		})
	}
}

func TestNewReferenceNumber(t *testing.T) {
	at := time.Date(2025, 8, 12, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		txType TransactionType
		prefix string
	}{
		{"deposit", TransactionTypeDeposit, "DEP"},
		{"withdraw", TransactionTypeWithdraw, "WDR"},
		{"transfer", TransactionTypeTransfer, "TRF"},
		{"qr payment", TransactionTypeQRPayment, "QRP"},
		{"service purchase", TransactionTypeServicePurchase, "SRV"},
		{"credit grant", TransactionTypeCreditGrant, "CRG"},
		{"settlement", TransactionTypeSettlement, "SET"},
		{"profit distribution", TransactionTypeProfitDistribution, "PRF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := NewReferenceNumber(tt.txType, at)
			parts := strings.Split(ref, "-")
			assert.Len(t, parts, 3)
			assert.Equal(t, tt.prefix, parts[0])
			assert.Equal(t, "20250812", parts[1])
			assert.Len(t, parts[2], 8)
		})
	}
}

func TestNewReferenceNumber_Unique(t *testing.T) {
	at := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := NewReferenceNumber(TransactionTypeTransfer, at)
		assert.False(t, seen[ref], "duplicate reference %s", ref)
		seen[ref] = true
	}
}

func TestBuildIdempotencyKey(t *testing.T) {
	id := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	key := BuildIdempotencyKey(id, "ORD-001")
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000:ORD-001", key)
}

func TestWallet_CanDebit(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		amount  string
		want    bool
	}{
		{"sufficient", "100.00", "50.00", true},
		{"exact balance", "100.00", "100.00", true},
		{"insufficient", "100.00", "100.01", false},
		{"zero balance", "0.00", "0.01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &Wallet{Balance: decimal.RequireFromString(tt.balance)}
			assert.Equal(t, tt.want, w.CanDebit(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestValidAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		want   bool
	}{
		{"positive two decimals", "10.50", true},
		{"whole number", "100", true},
		{"minimum unit", "0.01", true},
		{"zero", "0", false},
		{"negative", "-5.00", false},
		{"three decimals", "10.505", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidAmount(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestInternalAccountFor(t *testing.T) {
	tests := []struct {
		ledger   LedgerAccountCode
		internal InternalAccountCode
	}{
		{LedgerCash, AccountSystemReserve},
		{LedgerSystemReserve, AccountSystemReserve},
		{LedgerUserWallets, AccountUserLedger},
		{LedgerAgentCredit, AccountAgentLedger},
		{LedgerMerchantBalance, AccountMerchantLedger},
		{LedgerRevenueFees, AccountFeesCollected},
		{LedgerSettlementsDue, AccountSettlements},
		{LedgerSuspense, AccountSuspense},
	}

	for _, tt := range tests {
		t.Run(string(tt.ledger), func(t *testing.T) {
			assert.Equal(t, tt.internal, InternalAccountFor(tt.ledger))
		})
	}
}

func TestInternalAccount_AllowsNegative(t *testing.T) {
	for _, code := range InternalAccountCodes() {
		acct := &InternalAccount{Code: code}
		if code == AccountSystemReserve {
			assert.True(t, acct.AllowsNegative())
		} else {
			assert.False(t, acct.AllowsNegative(), "account %s", code)
		}
	}
}

func TestLedgerEntry_Balanced(t *testing.T) {
	amount := decimal.RequireFromString("100.00")
	fee := decimal.RequireFromString("1.00")

	tests := []struct {
		name  string
		lines []LedgerLine
		want  bool
	}{
		{
			name: "balanced two lines",
			lines: []LedgerLine{
				DebitLine(LedgerUserWallets, amount),
				CreditLine(LedgerCash, amount),
			},
			want: true,
		},
		{
			name: "balanced with fee split",
			lines: []LedgerLine{
				DebitLine(LedgerUserWallets, amount),
				CreditLine(LedgerUserWallets, amount.Sub(fee)),
				CreditLine(LedgerRevenueFees, fee),
			},
			want: true,
		},
		{
			name: "unbalanced totals",
			lines: []LedgerLine{
				DebitLine(LedgerUserWallets, amount),
				CreditLine(LedgerCash, fee),
			},
			want: false,
		},
		{
			name:  "single line",
			lines: []LedgerLine{DebitLine(LedgerUserWallets, amount)},
			want:  false,
		},
		{
			name: "line with both sides set",
			lines: []LedgerLine{
				{Account: LedgerUserWallets, Debit: amount, Credit: amount},
				{Account: LedgerCash, Debit: decimal.Zero, Credit: decimal.Zero},
			},
			want: false,
		},
		{
			name: "negative amount",
			lines: []LedgerLine{
				DebitLine(LedgerUserWallets, amount.Neg()),
				CreditLine(LedgerCash, amount.Neg()),
			},
			want: false,
		},
		{
			name: "unknown account",
			lines: []LedgerLine{
				DebitLine(LedgerAccountCode("NOPE"), amount),
				CreditLine(LedgerCash, amount),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &LedgerEntry{Currency: CurrencyUSD, Lines: tt.lines}
			assert.Equal(t, tt.want, e.Balanced())
		})
	}
}

func TestComputeChecksum_OrderIndependent(t *testing.T) {
	a := []AccountBalance{
		{Code: "USR-LEDGER", Currency: CurrencyUSD, Balance: decimal.RequireFromString("150.00")},
		{Code: "SYSTEM_RESERVE", Currency: CurrencyUSD, Balance: decimal.RequireFromString("-150.00")},
	}
	b := []AccountBalance{a[1], a[0]}

	assert.Equal(t, ComputeChecksum(a), ComputeChecksum(b))
	assert.Len(t, ComputeChecksum(a), 64)
}

func TestComputeChecksum_DetectsChange(t *testing.T) {
	a := []AccountBalance{
		{Code: "USR-LEDGER", Currency: CurrencyUSD, Balance: decimal.RequireFromString("150.00")},
	}
	b := []AccountBalance{
		{Code: "USR-LEDGER", Currency: CurrencyUSD, Balance: decimal.RequireFromString("150.01")},
	}
	assert.NotEqual(t, ComputeChecksum(a), ComputeChecksum(b))
}

func TestPeriodType_PeriodStart(t *testing.T) {
	at := time.Date(2025, 8, 12, 14, 42, 17, 0, time.UTC)

	assert.Equal(t, time.Date(2025, 8, 12, 14, 0, 0, 0, time.UTC), PeriodHourly.PeriodStart(at))
	assert.Equal(t, time.Date(2025, 8, 12, 0, 0, 0, 0, time.UTC), PeriodDaily.PeriodStart(at))
}

func TestFeeSettings_Fees(t *testing.T) {
	settings := FeeSettings{Rules: map[TransactionType]FeeRule{
		TransactionTypeDeposit: {
			PlatformPct: decimal.RequireFromString("0.01"),
			AgentPct:    decimal.RequireFromString("0.005"),
		},
		TransactionTypeTransfer: {
			PlatformPct: decimal.RequireFromString("0.01"),
			MinFee:      decimal.RequireFromString("0.50"),
			MaxFee:      decimal.RequireFromString("10.00"),
		},
	}}

	tests := []struct {
		name         string
		txType       TransactionType
		amount       string
		wantPlatform string
		wantAgent    string
		wantNet      string
	}{
		{"deposit with agent cut", TransactionTypeDeposit, "200.00", "2.00", "1.00", "197.00"},
		{"transfer below min fee", TransactionTypeTransfer, "10.00", "0.50", "0.00", "9.50"},
		{"transfer above max fee", TransactionTypeTransfer, "5000.00", "10.00", "0.00", "4990.00"},
		{"no rule means no fees", TransactionTypeCreditGrant, "300.00", "0.00", "0.00", "300.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform, agent, net := settings.Fees(tt.txType, decimal.RequireFromString(tt.amount))
			assert.True(t, platform.Equal(decimal.RequireFromString(tt.wantPlatform)), "platform=%s", platform)
			assert.True(t, agent.Equal(decimal.RequireFromString(tt.wantAgent)), "agent=%s", agent)
			assert.True(t, net.Equal(decimal.RequireFromString(tt.wantNet)), "net=%s", net)
		})
	}
}

func TestLimitCaps_Exceeded(t *testing.T) {
	caps := LimitCaps{
		Daily:   decimal.RequireFromString("1000.00"),
		Weekly:  decimal.RequireFromString("5000.00"),
		Monthly: decimal.RequireFromString("20000.00"),
	}

	tests := []struct {
		name       string
		daily      string
		weekly     string
		monthly    string
		amount     string
		wantWindow string
		wantHit    bool
	}{
		{"within all windows", "100.00", "100.00", "100.00", "500.00", "", false},
		{"daily blown", "900.00", "900.00", "900.00", "200.00", "daily", true},
		{"exactly at cap passes", "400.00", "400.00", "400.00", "600.00", "", false},
		{"weekly blown", "0.00", "4900.00", "4900.00", "200.00", "weekly", true},
		{"monthly blown", "0.00", "0.00", "19950.00", "100.00", "monthly", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limits := &UserTransactionLimits{
				DailySpent:   decimal.RequireFromString(tt.daily),
				WeeklySpent:  decimal.RequireFromString(tt.weekly),
				MonthlySpent: decimal.RequireFromString(tt.monthly),
			}
			window, hit := caps.Exceeded(limits, decimal.RequireFromString(tt.amount))
			assert.Equal(t, tt.wantHit, hit)
			assert.Equal(t, tt.wantWindow, window)
		})
	}
}

func TestUserTransactionLimits_RollWindows(t *testing.T) {
	now := time.Date(2025, 8, 12, 12, 0, 0, 0, time.UTC)
	limits := &UserTransactionLimits{
		DailySpent:     decimal.RequireFromString("500.00"),
		WeeklySpent:    decimal.RequireFromString("2000.00"),
		MonthlySpent:   decimal.RequireFromString("8000.00"),
		DailyResetAt:   now.Add(-25 * time.Hour),
		WeeklyResetAt:  now.Add(-3 * 24 * time.Hour),
		MonthlyResetAt: now.Add(-10 * 24 * time.Hour),
	}

	limits.RollWindows(now)

	assert.True(t, limits.DailySpent.IsZero())
	assert.Equal(t, now, limits.DailyResetAt)
	assert.False(t, limits.WeeklySpent.IsZero())
	assert.False(t, limits.MonthlySpent.IsZero())
}

func TestMergeAlerts(t *testing.T) {
	holdTypes := map[AlertType]bool{
		AlertHighAmount: true,
		AlertNewDevice:  true,
	}

	t.Run("no alerts passes clean", func(t *testing.T) {
		r := MergeAlerts(nil, holdTypes)
		assert.True(t, r.Passed)
		assert.False(t, r.ShouldHold)
		assert.Zero(t, r.Score)
	})

	t.Run("hold type triggers hold", func(t *testing.T) {
		r := MergeAlerts([]RiskAlert{{Type: AlertHighAmount, Score: 30}}, holdTypes)
		assert.True(t, r.Passed)
		assert.True(t, r.ShouldHold)
		assert.Equal(t, 30, r.Score)
	})

	t.Run("non-hold type passes through", func(t *testing.T) {
		r := MergeAlerts([]RiskAlert{{Type: AlertSuspiciousIP, Score: 25}}, holdTypes)
		assert.True(t, r.Passed)
		assert.False(t, r.ShouldHold)
	})

	t.Run("limit violation rejects hard", func(t *testing.T) {
		r := MergeAlerts([]RiskAlert{{Type: AlertLimitExceeded, Score: 100}}, holdTypes)
		assert.False(t, r.Passed)
	})

	t.Run("score clamped to 100", func(t *testing.T) {
		r := MergeAlerts([]RiskAlert{
			{Type: AlertHighAmount, Score: 30},
			{Type: AlertRapidTransactions, Score: 40},
			{Type: AlertNewDevice, Score: 50},
		}, holdTypes)
		assert.Equal(t, 100, r.Score)
	})
}

func TestTrustedDevice_EligibleForTrust(t *testing.T) {
	now := time.Now()
	window := 72 * time.Hour

	tests := []struct {
		name      string
		trusted   bool
		firstSeen time.Time
		want      bool
	}{
		{"new untrusted device", false, now.Add(-time.Hour), false},
		{"aged past window", false, now.Add(-80 * time.Hour), true},
		{"already trusted", true, now.Add(-80 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &TrustedDevice{Trusted: tt.trusted, FirstSeen: tt.firstSeen}
			assert.Equal(t, tt.want, d.EligibleForTrust(window, now))
		})
	}
}

func TestTransferOTP_Expired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		expiresAt time.Time
		want      bool
	}{
		{"fresh", now.Add(5 * time.Minute), false},
		{"expired", now.Add(-time.Minute), true},
		{"exactly at expiry", now, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			otp := &TransferOTP{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.want, otp.Expired(now))
		})
	}
}

func TestHeldTransaction_Resolvable(t *testing.T) {
	tests := []struct {
		name   string
		status HoldStatus
		want   bool
	}{
		{"held", HoldStatusHeld, true},
		{"released", HoldStatusReleased, false},
		{"cancelled", HoldStatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &HeldTransaction{Status: tt.status}
			assert.Equal(t, tt.want, h.Resolvable())
		})
	}
}

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fincore/internal/core/domain"
	"fincore/internal/core/ports"
	"fincore/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Per-check score weights. Individual scores sum and clamp to 100 in
// the merged result.
const (
	highAmountScaleScore = 15
	highAmountMaxScore   = 30
	rapidPerTxScore      = 8
	rapidMaxScore        = 40
	newDeviceScore       = 50
	suspiciousIPScore    = 25
	limitExceededScore   = 100
)

// RiskServiceImpl implements ports.RiskService. The five checks are
// independent: none short-circuits another, and the merged verdict is
// deterministic regardless of completion order.
type RiskServiceImpl struct {
	txRepo     ports.TransactionRepository
	deviceRepo ports.DeviceRepository
	limitsRepo ports.LimitsRepository
	alertRepo  ports.RiskAlertRepository
	auditSvc   ports.AuditService
	sessionIPs ports.SessionIPStore
	transactor ports.DBTransactor
	settings   domain.RiskSettings
	limits     domain.LimitSettings
	log        zerolog.Logger
}

// NewRiskService creates a new RiskServiceImpl.
func NewRiskService(
	txRepo ports.TransactionRepository,
	deviceRepo ports.DeviceRepository,
	limitsRepo ports.LimitsRepository,
	alertRepo ports.RiskAlertRepository,
	auditSvc ports.AuditService,
	sessionIPs ports.SessionIPStore,
	transactor ports.DBTransactor,
	settings domain.RiskSettings,
	limits domain.LimitSettings,
	log zerolog.Logger,
) *RiskServiceImpl {
	return &RiskServiceImpl{
		txRepo:     txRepo,
		deviceRepo: deviceRepo,
		limitsRepo: limitsRepo,
		alertRepo:  alertRepo,
		auditSvc:   auditSvc,
		sessionIPs: sessionIPs,
		transactor: transactor,
		settings:   settings,
		limits:     limits,
		log:        log,
	}
}

type riskCheck func(ctx context.Context, input domain.RiskInput, now time.Time) (*domain.RiskAlert, error)

// Check runs the five checks concurrently and merges their verdicts.
// A LIMIT_EXCEEDED alert in the result is absolute: callers must
// hard-reject the transaction. The rolling limit counters are the only
// state this method mutates.
func (s *RiskServiceImpl) Check(ctx context.Context, input domain.RiskInput) (domain.RiskResult, error) {
	now := time.Now().UTC()

	checks := []riskCheck{
		s.checkHighAmount,
		s.checkRapidTransactions,
		s.checkDevice,
		s.checkSessionIP,
		s.checkRollingLimits,
	}
	alerts := make([]*domain.RiskAlert, len(checks))
	errs := make([]error, len(checks))

	var wg sync.WaitGroup
	for i, check := range checks {
		wg.Add(1)
		go func(i int, check riskCheck) {
			defer wg.Done()
			alerts[i], errs[i] = check(ctx, input, now)
		}(i, check)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return domain.RiskResult{}, err
		}
	}

	var fired []domain.RiskAlert
	for _, a := range alerts {
		if a == nil {
			continue
		}
		a.ID = uuid.New()
		a.UserID = input.UserID
		a.Status = domain.AlertStatusPending
		a.CreatedAt = now
		fired = append(fired, *a)
	}

	result := domain.MergeAlerts(fired, s.settings.AutoHold)

	if !result.Passed {
		s.log.Warn().
			Str("user_id", input.UserID.String()).
			Str("amount", input.Amount.StringFixed(2)).
			Str("currency", string(input.Currency)).
			Msg("transaction rejected by rolling limits")
	} else if len(result.Alerts) > 0 {
		s.log.Info().
			Str("user_id", input.UserID.String()).
			Int("score", result.Score).
			Int("alerts", len(result.Alerts)).
			Bool("should_hold", result.ShouldHold).
			Msg("risk checks fired")
	}

	return result, nil
}

// checkHighAmount scores amounts at or above the per-currency
// threshold, scaling with the ratio.
func (s *RiskServiceImpl) checkHighAmount(_ context.Context, input domain.RiskInput, _ time.Time) (*domain.RiskAlert, error) {
	threshold := s.settings.HighAmountThreshold(input.Currency)
	if !threshold.IsPositive() || input.Amount.LessThan(threshold) {
		return nil, nil
	}

	score := int(input.Amount.Div(threshold).Mul(decimal.NewFromInt(highAmountScaleScore)).IntPart())
	if score > highAmountMaxScore {
		score = highAmountMaxScore
	}
	return &domain.RiskAlert{
		Type:   domain.AlertHighAmount,
		Score:  score,
		Reason: fmt.Sprintf("amount %s %s at or above threshold %s", input.Amount.StringFixed(2), input.Currency, threshold.StringFixed(2)),
	}, nil
}

// checkRapidTransactions fires when the user's transaction count in the
// trailing window reaches the configured threshold.
func (s *RiskServiceImpl) checkRapidTransactions(ctx context.Context, input domain.RiskInput, now time.Time) (*domain.RiskAlert, error) {
	count, err := s.txRepo.CountSince(ctx, input.UserID, now.Add(-s.settings.RapidWindow))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("count recent transactions: %w", err))
	}
	if count < s.settings.RapidCountThreshold {
		return nil, nil
	}

	score := count * rapidPerTxScore
	if score > rapidMaxScore {
		score = rapidMaxScore
	}
	return &domain.RiskAlert{
		Type:   domain.AlertRapidTransactions,
		Score:  score,
		Reason: fmt.Sprintf("%d transactions in the last %s", count, s.settings.RapidWindow),
	}, nil
}

// checkDevice registers unseen devices untrusted and fires until the
// device ages past the trust hold window, at which point its next use
// promotes it.
func (s *RiskServiceImpl) checkDevice(ctx context.Context, input domain.RiskInput, now time.Time) (*domain.RiskAlert, error) {
	if input.DeviceID == "" {
		return nil, nil
	}

	device, err := s.deviceRepo.Get(ctx, input.UserID, input.DeviceID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get device: %w", err))
	}
	if device == nil {
		device = &domain.TrustedDevice{
			UserID:    input.UserID,
			DeviceID:  input.DeviceID,
			Trusted:   false,
			FirstSeen: now,
			LastSeen:  now,
		}
		if err := s.deviceRepo.Upsert(ctx, device); err != nil {
			return nil, apperror.InternalError(fmt.Errorf("register device: %w", err))
		}
		return &domain.RiskAlert{
			Type:   domain.AlertNewDevice,
			Score:  newDeviceScore,
			Reason: fmt.Sprintf("first use of device %s", input.DeviceID),
		}, nil
	}

	if device.EligibleForTrust(s.settings.DeviceTrustWindow, now) {
		device.Trusted = true
	}
	device.LastSeen = now
	if err := s.deviceRepo.Upsert(ctx, device); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update device: %w", err))
	}
	if device.Trusted {
		return nil, nil
	}
	return &domain.RiskAlert{
		Type:   domain.AlertNewDevice,
		Score:  newDeviceScore,
		Reason: fmt.Sprintf("device %s inside trust hold window", input.DeviceID),
	}, nil
}

// checkSessionIP fires when the IP is absent from the user's recent
// session ring. Users with no session history are never flagged.
func (s *RiskServiceImpl) checkSessionIP(ctx context.Context, input domain.RiskInput, _ time.Time) (*domain.RiskAlert, error) {
	if input.IP == "" {
		return nil, nil
	}

	recent, err := s.sessionIPs.Recent(ctx, input.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("recent session ips: %w", err))
	}
	if len(recent) == 0 {
		return nil, nil
	}
	for _, ip := range recent {
		if ip == input.IP {
			return nil, nil
		}
	}
	return &domain.RiskAlert{
		Type:   domain.AlertSuspiciousIP,
		Score:  suspiciousIPScore,
		Reason: fmt.Sprintf("ip %s not seen in recent sessions", input.IP),
	}, nil
}

// checkRollingLimits rolls the spend windows and counts the attempted
// outflow under a row lock, in its own short transaction. Counters
// advance only when the spend fits; an exceeded window leaves them
// untouched and the transaction is rejected outright.
func (s *RiskServiceImpl) checkRollingLimits(ctx context.Context, input domain.RiskInput, now time.Time) (*domain.RiskAlert, error) {
	caps := s.limits.For(input.Currency)

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("begin limits tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	limits, err := s.limitsRepo.GetForUpdate(ctx, dbTx, input.UserID, input.Currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("lock limits: %w", err))
	}
	if limits == nil {
		limits = &domain.UserTransactionLimits{
			UserID:         input.UserID,
			Currency:       input.Currency,
			DailySpent:     decimal.Zero,
			WeeklySpent:    decimal.Zero,
			MonthlySpent:   decimal.Zero,
			DailyResetAt:   now,
			WeeklyResetAt:  now,
			MonthlyResetAt: now,
		}
	}
	limits.RollWindows(now)

	window, exceeded := caps.Exceeded(limits, input.Amount)
	if !exceeded {
		limits.DailySpent = limits.DailySpent.Add(input.Amount)
		limits.WeeklySpent = limits.WeeklySpent.Add(input.Amount)
		limits.MonthlySpent = limits.MonthlySpent.Add(input.Amount)
	}
	if err := s.limitsRepo.Upsert(ctx, dbTx, limits); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save limits: %w", err))
	}
	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("commit limits tx: %w", err))
	}

	if !exceeded {
		return nil, nil
	}
	return &domain.RiskAlert{
		Type:   domain.AlertLimitExceeded,
		Score:  limitExceededScore,
		Reason: fmt.Sprintf("%s spend limit exceeded", window),
	}, nil
}

// ListAlerts returns alerts for review, admin only.
func (s *RiskServiceImpl) ListAlerts(ctx context.Context, actor domain.Actor, status *domain.AlertStatus, page, pageSize int) ([]domain.RiskAlert, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, apperror.ErrForbidden()
	}
	alerts, total, err := s.alertRepo.List(ctx, status, page, pageSize)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list alerts: %w", err))
	}
	return alerts, total, nil
}

// ReviewAlert sets a pending alert's review verdict. Admin only; a
// reviewed alert cannot be re-reviewed.
func (s *RiskServiceImpl) ReviewAlert(ctx context.Context, actor domain.Actor, alertID uuid.UUID, verdict domain.AlertStatus, clientIP string) (*domain.RiskAlert, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden()
	}
	switch verdict {
	case domain.AlertStatusApproved, domain.AlertStatusBlocked, domain.AlertStatusDismissed:
	default:
		return nil, apperror.Validation("verdict must be APPROVED, BLOCKED, or DISMISSED")
	}

	alert, err := s.alertRepo.GetByID(ctx, alertID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get alert: %w", err))
	}
	if alert == nil {
		return nil, apperror.ErrNotFound("risk alert")
	}
	if alert.Status != domain.AlertStatusPending {
		return nil, apperror.ErrInvalidStateTransition(string(alert.Status), string(verdict))
	}

	now := time.Now().UTC()
	if err := s.alertRepo.UpdateStatus(ctx, alertID, verdict, actor.ID, now); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update alert status: %w", err))
	}
	alert.Status = verdict
	alert.ReviewedBy = &actor.ID
	alert.ReviewedAt = &now

	s.auditSvc.Log(ctx, &domain.AuditLog{
		ID:         uuid.New(),
		ActorID:    actor.ID,
		Action:     domain.AuditActionReviewAlert,
		EntityType: "risk_alert",
		EntityID:   alertID.String(),
		Before:     string(domain.AlertStatusPending),
		After:      string(verdict),
		IPAddress:  clientIP,
		CreatedAt:  now,
	})

	return alert, nil
}

package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
	"time"

	"fincore/internal/core/domain"
	"fincore/internal/core/ports"
	"fincore/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const idempotencyTTL = 24 * time.Hour

// pendingTransfer is the serialized form of an initiated transfer
// awaiting OTP confirmation.
type pendingTransfer struct {
	RecipientID     uuid.UUID       `json:"recipient_id"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        domain.Currency `json:"currency"`
	ClientReference string          `json:"client_reference"`
	Note            *string         `json:"note,omitempty"`
}

// ProcessorServiceImpl implements ports.TransactionProcessor. Every
// money-moving operation follows the same shape: validate, idempotency
// check, risk gate, build the FinancialOperation, post, then notify
// best-effort after commit.
type ProcessorServiceImpl struct {
	txRepo      ports.TransactionRepository
	walletRepo  ports.WalletRepository
	creditRepo  ports.AgentCreditRepository
	profileRepo ports.ProfileRepository
	alertRepo   ports.RiskAlertRepository
	otpRepo     ports.OTPRepository
	idempRepo   ports.IdempotencyRepository
	idempCache  ports.IdempotencyCache
	riskSvc     ports.RiskService
	ledger      ports.LedgerPoster
	notifier    ports.Notifier
	fees        domain.FeeSettings
	otpTTL      time.Duration
	otpLength   int
	log         zerolog.Logger
}

// NewProcessorService creates a new ProcessorServiceImpl.
func NewProcessorService(
	txRepo ports.TransactionRepository,
	walletRepo ports.WalletRepository,
	creditRepo ports.AgentCreditRepository,
	profileRepo ports.ProfileRepository,
	alertRepo ports.RiskAlertRepository,
	otpRepo ports.OTPRepository,
	idempRepo ports.IdempotencyRepository,
	idempCache ports.IdempotencyCache,
	riskSvc ports.RiskService,
	ledger ports.LedgerPoster,
	notifier ports.Notifier,
	fees domain.FeeSettings,
	otpTTL time.Duration,
	otpLength int,
	log zerolog.Logger,
) *ProcessorServiceImpl {
	return &ProcessorServiceImpl{
		txRepo:      txRepo,
		walletRepo:  walletRepo,
		creditRepo:  creditRepo,
		profileRepo: profileRepo,
		alertRepo:   alertRepo,
		otpRepo:     otpRepo,
		idempRepo:   idempRepo,
		idempCache:  idempCache,
		riskSvc:     riskSvc,
		ledger:      ledger,
		notifier:    notifier,
		fees:        fees,
		otpTTL:      otpTTL,
		otpLength:   otpLength,
		log:         log,
	}
}

// Deposit is a cash-in at an agent: the agent's credit line funds the
// user's wallet, fees split between platform and agent. Deposits
// complete or hard-reject; the held path applies only to operations
// that debit a wallet.
func (s *ProcessorServiceImpl) Deposit(ctx context.Context, req ports.DepositRequest) (*domain.Transaction, error) {
	if !domain.ValidAmount(req.Amount) {
		return nil, apperror.ErrInvalidAmount()
	}
	if !domain.ValidCurrency(req.Currency) {
		return nil, apperror.ErrInvalidCurrency(string(req.Currency))
	}
	if req.ClientReference == "" {
		return nil, apperror.Validation("client_reference is required")
	}

	idempKey := domain.BuildIdempotencyKey(req.AgentID, req.ClientReference)
	if cached, err := s.checkIdempotency(ctx, idempKey); cached != nil || err != nil {
		return cached, err
	}

	if _, err := s.activeProfile(ctx, req.AgentID, domain.ProfileKindAgent); err != nil {
		return nil, err
	}
	user, err := s.activeProfile(ctx, req.UserID, domain.ProfileKindUser)
	if err != nil {
		return nil, err
	}

	credit, err := s.creditRepo.Get(ctx, req.AgentID, req.Currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get agent credit: %w", err))
	}
	if credit == nil {
		return nil, apperror.ErrNotFound("agent credit line")
	}
	if !credit.CanSpend(req.Amount) {
		return nil, apperror.ErrInsufficientCredit()
	}

	wallet, err := s.ensureWallet(ctx, user.ID, req.Currency, domain.PurposePersonal)
	if err != nil {
		return nil, err
	}
	if !wallet.Active {
		return nil, apperror.ErrWalletInactive()
	}

	risk, err := s.riskSvc.Check(ctx, domain.RiskInput{
		UserID:   req.AgentID,
		Amount:   req.Amount,
		Currency: req.Currency,
		Type:     domain.TransactionTypeDeposit,
		IP:       req.ClientIP,
		DeviceID: req.DeviceID,
	})
	if err != nil {
		return nil, err
	}
	if !risk.Passed {
		return nil, s.rejectForLimits(ctx, risk)
	}

	platformFee, agentFee, net := s.fees.Fees(domain.TransactionTypeDeposit, req.Amount)
	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:                uuid.New(),
		ReferenceNumber:   domain.NewReferenceNumber(domain.TransactionTypeDeposit, now),
		ClientReference:   req.ClientReference,
		Type:              domain.TransactionTypeDeposit,
		Amount:            req.Amount,
		PlatformFee:       platformFee,
		AgentFee:          agentFee,
		NetAmount:         net,
		Currency:          req.Currency,
		Status:            domain.TransactionStatusCompleted,
		RecipientWalletID: &wallet.ID,
		InitiatorID:       req.AgentID,
		CounterpartyID:    &req.UserID,
		Note:              req.Note,
		CreatedAt:         now,
		CompletedAt:       &now,
	}

	lines := []domain.LedgerLine{
		domain.DebitLine(domain.LedgerAgentCredit, req.Amount),
		domain.CreditLine(domain.LedgerUserWallets, net),
	}
	if platformFee.IsPositive() {
		lines = append(lines, domain.CreditLine(domain.LedgerRevenueFees, platformFee))
	}
	if agentFee.IsPositive() {
		lines = append(lines, domain.CreditLine(domain.LedgerAgentCredit, agentFee))
	}

	idempLog, respJSON, err := buildIdempotencyLog(idempKey, txn, now)
	if err != nil {
		return nil, err
	}
	op := &domain.FinancialOperation{
		Transaction:    txn,
		Currency:       req.Currency,
		WalletDeltas:   []domain.WalletMutation{{WalletID: wallet.ID, Delta: net}},
		CreditDeltas:   []domain.CreditMutation{{AgentID: req.AgentID, Currency: req.Currency, Delta: agentFee.Sub(req.Amount)}},
		Description:    fmt.Sprintf("deposit %s", txn.ReferenceNumber),
		Lines:          lines,
		Alerts:         attachTransaction(risk.Alerts, txn.ID),
		IdempotencyLog: idempLog,
	}
	if err := s.ledger.Post(ctx, op); err != nil {
		return nil, err
	}

	s.finishCommitted(ctx, idempKey, respJSON, txn, nil)
	return txn, nil
}

// Withdraw is a cash-out: the user's wallet pays out through an agent.
// The agent is credited the amount net of the platform fee; the hold
// path applies when the risk gate says so.
func (s *ProcessorServiceImpl) Withdraw(ctx context.Context, req ports.WithdrawRequest) (*domain.Transaction, error) {
	if !domain.ValidAmount(req.Amount) {
		return nil, apperror.ErrInvalidAmount()
	}
	if !domain.ValidCurrency(req.Currency) {
		return nil, apperror.ErrInvalidCurrency(string(req.Currency))
	}
	if req.ClientReference == "" {
		return nil, apperror.Validation("client_reference is required")
	}

	idempKey := domain.BuildIdempotencyKey(req.UserID, req.ClientReference)
	if cached, err := s.checkIdempotency(ctx, idempKey); cached != nil || err != nil {
		return cached, err
	}

	user, err := s.activeProfile(ctx, req.UserID, domain.ProfileKindUser)
	if err != nil {
		return nil, err
	}
	if _, err := s.activeProfile(ctx, req.AgentID, domain.ProfileKindAgent); err != nil {
		return nil, err
	}

	wallet, err := s.activeWallet(ctx, user.ID, req.Currency, domain.PurposePersonal)
	if err != nil {
		return nil, err
	}
	if !wallet.CanDebit(req.Amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	credit, err := s.creditRepo.Get(ctx, req.AgentID, req.Currency)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get agent credit: %w", err))
	}
	if credit == nil {
		return nil, apperror.ErrNotFound("agent credit line")
	}

	risk, err := s.riskSvc.Check(ctx, domain.RiskInput{
		UserID:   req.UserID,
		Amount:   req.Amount,
		Currency: req.Currency,
		Type:     domain.TransactionTypeWithdraw,
		IP:       req.ClientIP,
		DeviceID: req.DeviceID,
	})
	if err != nil {
		return nil, err
	}
	if !risk.Passed {
		return nil, s.rejectForLimits(ctx, risk)
	}

	platformFee, agentFee, net := s.fees.Fees(domain.TransactionTypeWithdraw, req.Amount)
	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:              uuid.New(),
		ReferenceNumber: domain.NewReferenceNumber(domain.TransactionTypeWithdraw, now),
		ClientReference: req.ClientReference,
		Type:            domain.TransactionTypeWithdraw,
		Amount:          req.Amount,
		PlatformFee:     platformFee,
		AgentFee:        agentFee,
		NetAmount:       net,
		Currency:        req.Currency,
		Status:          domain.TransactionStatusCompleted,
		SenderWalletID:  &wallet.ID,
		InitiatorID:     req.UserID,
		CounterpartyID:  &req.AgentID,
		Note:            req.Note,
		CreatedAt:       now,
		CompletedAt:     &now,
	}

	var op *domain.FinancialOperation
	var hold *domain.HeldTransaction
	if risk.ShouldHold {
		txn.Status = domain.TransactionStatusProcessing
		txn.CompletedAt = nil
		op, hold = s.buildHeldOperation(txn, wallet.ID, holdReason(risk.Alerts), now)
	} else {
		lines := []domain.LedgerLine{
			domain.DebitLine(domain.LedgerUserWallets, req.Amount),
			domain.CreditLine(domain.LedgerAgentCredit, req.Amount.Sub(platformFee)),
		}
		if platformFee.IsPositive() {
			lines = append(lines, domain.CreditLine(domain.LedgerRevenueFees, platformFee))
		}
		op = &domain.FinancialOperation{
			Transaction:  txn,
			Currency:     req.Currency,
			WalletDeltas: []domain.WalletMutation{{WalletID: wallet.ID, Delta: req.Amount.Neg()}},
			CreditDeltas: []domain.CreditMutation{{AgentID: req.AgentID, Currency: req.Currency, Delta: req.Amount.Sub(platformFee)}},
			Description:  fmt.Sprintf("withdrawal %s", txn.ReferenceNumber),
			Lines:        lines,
		}
	}
	op.Alerts = attachTransaction(risk.Alerts, txn.ID)

	idempLog, respJSON, err := buildIdempotencyLog(idempKey, txn, now)
	if err != nil {
		return nil, err
	}
	op.IdempotencyLog = idempLog

	if err := s.ledger.Post(ctx, op); err != nil {
		return nil, err
	}

	s.finishCommitted(ctx, idempKey, respJSON, txn, hold)
	return txn, nil
}

// InitiateTransfer validates a wallet-to-wallet transfer and parks it
// behind a one-time code. The code travels out-of-band; a user has at
// most one pending transfer, and initiating again replaces it.
func (s *ProcessorServiceImpl) InitiateTransfer(ctx context.Context, req ports.TransferRequest) (*ports.TransferChallenge, error) {
	if !domain.ValidAmount(req.Amount) {
		return nil, apperror.ErrInvalidAmount()
	}
	if !domain.ValidCurrency(req.Currency) {
		return nil, apperror.ErrInvalidCurrency(string(req.Currency))
	}
	if req.ClientReference == "" {
		return nil, apperror.Validation("client_reference is required")
	}
	if req.SenderID == req.RecipientID {
		return nil, apperror.Validation("cannot transfer to yourself")
	}

	idempKey := domain.BuildIdempotencyKey(req.SenderID, req.ClientReference)
	if cached, err := s.checkIdempotency(ctx, idempKey); err != nil {
		return nil, err
	} else if cached != nil {
		return nil, apperror.ErrDuplicateReference(req.ClientReference)
	}

	sender, err := s.activeProfile(ctx, req.SenderID, domain.ProfileKindUser)
	if err != nil {
		return nil, err
	}
	if _, err := s.activeProfile(ctx, req.RecipientID, domain.ProfileKindUser); err != nil {
		return nil, err
	}

	wallet, err := s.activeWallet(ctx, sender.ID, req.Currency, domain.PurposePersonal)
	if err != nil {
		return nil, err
	}
	if !wallet.CanDebit(req.Amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	now := time.Now().UTC()
	if err := s.otpRepo.PurgeExpired(ctx, req.SenderID, now); err != nil {
		s.log.Warn().Err(err).Str("user_id", req.SenderID.String()).Msg("failed to purge expired otps")
	}

	code, err := generateOTPCode(s.otpLength)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate otp code: %w", err))
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash otp code: %w", err))
	}
	payload, err := json.Marshal(pendingTransfer{
		RecipientID:     req.RecipientID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		ClientReference: req.ClientReference,
		Note:            req.Note,
	})
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("marshal pending transfer: %w", err))
	}

	otp := &domain.TransferOTP{
		ID:        uuid.New(),
		UserID:    req.SenderID,
		CodeHash:  string(codeHash),
		Payload:   payload,
		ExpiresAt: now.Add(s.otpTTL),
		CreatedAt: now,
	}
	if err := s.otpRepo.Replace(ctx, otp); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("save transfer otp: %w", err))
	}

	if err := s.notifier.OTPIssued(ctx, req.SenderID, code, otp.ExpiresAt); err != nil {
		s.log.Warn().Err(err).Str("user_id", req.SenderID.String()).Msg("failed to publish otp")
	}

	s.log.Info().
		Str("otp_id", otp.ID.String()).
		Str("sender_id", req.SenderID.String()).
		Time("expires_at", otp.ExpiresAt).
		Msg("transfer initiated")

	return &ports.TransferChallenge{OTPID: otp.ID, ExpiresAt: otp.ExpiresAt}, nil
}

// ConfirmTransfer executes the sender's pending transfer after
// verifying the one-time code. The risk gate runs here, against the
// device and IP that confirmed.
func (s *ProcessorServiceImpl) ConfirmTransfer(ctx context.Context, req ports.ConfirmTransferRequest) (*domain.Transaction, error) {
	now := time.Now().UTC()
	if err := s.otpRepo.PurgeExpired(ctx, req.SenderID, now); err != nil {
		s.log.Warn().Err(err).Str("user_id", req.SenderID.String()).Msg("failed to purge expired otps")
	}

	otp, err := s.otpRepo.GetActive(ctx, req.SenderID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transfer otp: %w", err))
	}
	if otp == nil || otp.Expired(now) {
		return nil, apperror.ErrInvalidOTP()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(req.Code)); err != nil {
		return nil, apperror.ErrInvalidOTP()
	}

	var pending pendingTransfer
	if err := json.Unmarshal(otp.Payload, &pending); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal pending transfer: %w", err))
	}

	idempKey := domain.BuildIdempotencyKey(req.SenderID, pending.ClientReference)
	if cached, err := s.checkIdempotency(ctx, idempKey); cached != nil || err != nil {
		if cached != nil {
			s.deleteOTP(ctx, otp.ID)
		}
		return cached, err
	}

	sender, err := s.activeProfile(ctx, req.SenderID, domain.ProfileKindUser)
	if err != nil {
		return nil, err
	}
	recipient, err := s.activeProfile(ctx, pending.RecipientID, domain.ProfileKindUser)
	if err != nil {
		return nil, err
	}

	senderWallet, err := s.activeWallet(ctx, sender.ID, pending.Currency, domain.PurposePersonal)
	if err != nil {
		return nil, err
	}
	if !senderWallet.CanDebit(pending.Amount) {
		return nil, apperror.ErrInsufficientFunds()
	}
	recipientWallet, err := s.ensureWallet(ctx, recipient.ID, pending.Currency, domain.PurposePersonal)
	if err != nil {
		return nil, err
	}
	if !recipientWallet.Active {
		return nil, apperror.ErrWalletInactive()
	}

	risk, err := s.riskSvc.Check(ctx, domain.RiskInput{
		UserID:   req.SenderID,
		Amount:   pending.Amount,
		Currency: pending.Currency,
		Type:     domain.TransactionTypeTransfer,
		IP:       req.ClientIP,
		DeviceID: req.DeviceID,
	})
	if err != nil {
		return nil, err
	}
	if !risk.Passed {
		return nil, s.rejectForLimits(ctx, risk)
	}

	platformFee, _, net := s.fees.Fees(domain.TransactionTypeTransfer, pending.Amount)
	txn := &domain.Transaction{
		ID:                uuid.New(),
		ReferenceNumber:   domain.NewReferenceNumber(domain.TransactionTypeTransfer, now),
		ClientReference:   pending.ClientReference,
		Type:              domain.TransactionTypeTransfer,
		Amount:            pending.Amount,
		PlatformFee:       platformFee,
		AgentFee:          decimal.Zero,
		NetAmount:         net,
		Currency:          pending.Currency,
		Status:            domain.TransactionStatusCompleted,
		SenderWalletID:    &senderWallet.ID,
		RecipientWalletID: &recipientWallet.ID,
		InitiatorID:       req.SenderID,
		CounterpartyID:    &pending.RecipientID,
		Note:              pending.Note,
		CreatedAt:         now,
		CompletedAt:       &now,
	}

	var op *domain.FinancialOperation
	var hold *domain.HeldTransaction
	if risk.ShouldHold {
		txn.Status = domain.TransactionStatusProcessing
		txn.CompletedAt = nil
		op, hold = s.buildHeldOperation(txn, senderWallet.ID, holdReason(risk.Alerts), now)
	} else {
		lines := []domain.LedgerLine{
			domain.DebitLine(domain.LedgerUserWallets, pending.Amount),
			domain.CreditLine(domain.LedgerUserWallets, net),
		}
		if platformFee.IsPositive() {
			lines = append(lines, domain.CreditLine(domain.LedgerRevenueFees, platformFee))
		}
		op = &domain.FinancialOperation{
			Transaction: txn,
			Currency:    pending.Currency,
			WalletDeltas: []domain.WalletMutation{
				{WalletID: senderWallet.ID, Delta: pending.Amount.Neg()},
				{WalletID: recipientWallet.ID, Delta: net},
			},
			Description: fmt.Sprintf("transfer %s", txn.ReferenceNumber),
			Lines:       lines,
		}
	}
	op.Alerts = attachTransaction(risk.Alerts, txn.ID)

	idempLog, respJSON, err := buildIdempotencyLog(idempKey, txn, now)
	if err != nil {
		return nil, err
	}
	op.IdempotencyLog = idempLog

	if err := s.ledger.Post(ctx, op); err != nil {
		return nil, err
	}

	s.deleteOTP(ctx, otp.ID)
	s.finishCommitted(ctx, idempKey, respJSON, txn, hold)
	return txn, nil
}

// QRPayment pays a merchant immediately, fee to the platform.
func (s *ProcessorServiceImpl) QRPayment(ctx context.Context, req ports.QRPaymentRequest) (*domain.Transaction, error) {
	return s.payMerchant(ctx, merchantPayment{
		UserID:          req.UserID,
		MerchantID:      req.MerchantID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		ClientReference: req.ClientReference,
		ClientIP:        req.ClientIP,
		DeviceID:        req.DeviceID,
		Note:            req.Note,
		Type:            domain.TransactionTypeQRPayment,
	})
}

// ServicePurchase buys a merchant service. The user's funds always
// park in suspense until the merchant approves or declines.
func (s *ProcessorServiceImpl) ServicePurchase(ctx context.Context, req ports.ServicePurchaseRequest) (*domain.Transaction, error) {
	return s.payMerchant(ctx, merchantPayment{
		UserID:          req.UserID,
		MerchantID:      req.MerchantID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		ClientReference: req.ClientReference,
		ClientIP:        req.ClientIP,
		DeviceID:        req.DeviceID,
		Note:            req.Note,
		Type:            domain.TransactionTypeServicePurchase,
	})
}

// merchantPayment is the shared shape of QR payments and service
// purchases.
type merchantPayment struct {
	UserID          uuid.UUID
	MerchantID      uuid.UUID
	Amount          decimal.Decimal
	Currency        domain.Currency
	ClientReference string
	ClientIP        string
	DeviceID        string
	Note            *string
	Type            domain.TransactionType
}

func (s *ProcessorServiceImpl) payMerchant(ctx context.Context, req merchantPayment) (*domain.Transaction, error) {
	if !domain.ValidAmount(req.Amount) {
		return nil, apperror.ErrInvalidAmount()
	}
	if !domain.ValidCurrency(req.Currency) {
		return nil, apperror.ErrInvalidCurrency(string(req.Currency))
	}
	if req.ClientReference == "" {
		return nil, apperror.Validation("client_reference is required")
	}

	idempKey := domain.BuildIdempotencyKey(req.UserID, req.ClientReference)
	if cached, err := s.checkIdempotency(ctx, idempKey); cached != nil || err != nil {
		return cached, err
	}

	user, err := s.activeProfile(ctx, req.UserID, domain.ProfileKindUser)
	if err != nil {
		return nil, err
	}
	merchant, err := s.activeProfile(ctx, req.MerchantID, domain.ProfileKindMerchant)
	if err != nil {
		return nil, err
	}

	wallet, err := s.activeWallet(ctx, user.ID, req.Currency, domain.PurposePersonal)
	if err != nil {
		return nil, err
	}
	if !wallet.CanDebit(req.Amount) {
		return nil, apperror.ErrInsufficientFunds()
	}
	merchantWallet, err := s.ensureWallet(ctx, merchant.ID, req.Currency, domain.PurposeBusiness)
	if err != nil {
		return nil, err
	}
	if !merchantWallet.Active {
		return nil, apperror.ErrWalletInactive()
	}

	risk, err := s.riskSvc.Check(ctx, domain.RiskInput{
		UserID:   req.UserID,
		Amount:   req.Amount,
		Currency: req.Currency,
		Type:     req.Type,
		IP:       req.ClientIP,
		DeviceID: req.DeviceID,
	})
	if err != nil {
		return nil, err
	}
	if !risk.Passed {
		return nil, s.rejectForLimits(ctx, risk)
	}

	platformFee, _, net := s.fees.Fees(req.Type, req.Amount)
	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:                uuid.New(),
		ReferenceNumber:   domain.NewReferenceNumber(req.Type, now),
		ClientReference:   req.ClientReference,
		Type:              req.Type,
		Amount:            req.Amount,
		PlatformFee:       platformFee,
		AgentFee:          decimal.Zero,
		NetAmount:         net,
		Currency:          req.Currency,
		Status:            domain.TransactionStatusCompleted,
		SenderWalletID:    &wallet.ID,
		RecipientWalletID: &merchantWallet.ID,
		InitiatorID:       req.UserID,
		CounterpartyID:    &req.MerchantID,
		Note:              req.Note,
		CreatedAt:         now,
		CompletedAt:       &now,
	}

	var op *domain.FinancialOperation
	var hold *domain.HeldTransaction
	switch {
	case req.Type == domain.TransactionTypeServicePurchase:
		// Purchases always await the merchant's verdict.
		txn.Status = domain.TransactionStatusProcessing
		txn.CompletedAt = nil
		op, hold = s.buildHeldOperation(txn, wallet.ID, "pending merchant approval", now)
	case risk.ShouldHold:
		txn.Status = domain.TransactionStatusProcessing
		txn.CompletedAt = nil
		op, hold = s.buildHeldOperation(txn, wallet.ID, holdReason(risk.Alerts), now)
	default:
		lines := []domain.LedgerLine{
			domain.DebitLine(domain.LedgerUserWallets, req.Amount),
			domain.CreditLine(domain.LedgerMerchantBalance, net),
		}
		if platformFee.IsPositive() {
			lines = append(lines, domain.CreditLine(domain.LedgerRevenueFees, platformFee))
		}
		op = &domain.FinancialOperation{
			Transaction: txn,
			Currency:    req.Currency,
			WalletDeltas: []domain.WalletMutation{
				{WalletID: wallet.ID, Delta: req.Amount.Neg()},
				{WalletID: merchantWallet.ID, Delta: net},
			},
			Description: fmt.Sprintf("%s %s", strings.ToLower(string(req.Type)), txn.ReferenceNumber),
			Lines:       lines,
		}
	}
	op.Alerts = attachTransaction(risk.Alerts, txn.ID)

	idempLog, respJSON, err := buildIdempotencyLog(idempKey, txn, now)
	if err != nil {
		return nil, err
	}
	op.IdempotencyLog = idempLog

	if err := s.ledger.Post(ctx, op); err != nil {
		return nil, err
	}

	s.finishCommitted(ctx, idempKey, respJSON, txn, hold)
	return txn, nil
}

// GetByID fetches one transaction; visible to its participants and
// admins.
func (s *ProcessorServiceImpl) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	if !canSeeTransaction(actor, txn) {
		return nil, apperror.ErrForbidden()
	}
	return txn, nil
}

// GetByReference fetches one transaction by its presented reference
// number, the handle clients poll while a transaction is held.
func (s *ProcessorServiceImpl) GetByReference(ctx context.Context, actor domain.Actor, referenceNumber string) (*domain.Transaction, error) {
	txn, err := s.txRepo.GetByReference(ctx, referenceNumber)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get transaction: %w", err))
	}
	if txn == nil {
		return nil, apperror.ErrNotFound("transaction")
	}
	if !canSeeTransaction(actor, txn) {
		return nil, apperror.ErrForbidden()
	}
	return txn, nil
}

// List returns a page of transactions. Non-admin callers only ever see
// transactions they participate in.
func (s *ProcessorServiceImpl) List(ctx context.Context, actor domain.Actor, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	if !actor.IsAdmin() {
		id := actor.ID
		params.InitiatorID = &id
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PageSize < 1 || params.PageSize > 100 {
		params.PageSize = 20
	}

	txns, total, err := s.txRepo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.InternalError(fmt.Errorf("list transactions: %w", err))
	}
	return txns, total, nil
}

// buildHeldOperation parks the debited amount in suspense: the source
// wallet loses the funds and mirrors them as frozen, and the hold row
// tracks the review. Fees are charged at release, never on the held
// leg.
func (s *ProcessorServiceImpl) buildHeldOperation(txn *domain.Transaction, walletID uuid.UUID, reason string, now time.Time) (*domain.FinancialOperation, *domain.HeldTransaction) {
	hold := &domain.HeldTransaction{
		ID:            uuid.New(),
		TransactionID: txn.ID,
		WalletID:      walletID,
		Amount:        txn.Amount,
		Currency:      txn.Currency,
		Reason:        reason,
		Status:        domain.HoldStatusHeld,
		CreatedAt:     now,
	}
	op := &domain.FinancialOperation{
		Transaction: txn,
		Currency:    txn.Currency,
		WalletDeltas: []domain.WalletMutation{
			{WalletID: walletID, Delta: txn.Amount.Neg(), FrozenDelta: txn.Amount},
		},
		Description: fmt.Sprintf("%s %s held", strings.ToLower(string(txn.Type)), txn.ReferenceNumber),
		Lines: []domain.LedgerLine{
			domain.DebitLine(domain.LedgerUserWallets, txn.Amount),
			domain.CreditLine(domain.LedgerSuspense, txn.Amount),
		},
		Hold: hold,
	}
	return op, hold
}

// finishCommitted runs the post-commit tail shared by every operation:
// best-effort idempotency caching, best-effort notification, success
// log.
func (s *ProcessorServiceImpl) finishCommitted(ctx context.Context, idempKey string, respJSON []byte, txn *domain.Transaction, hold *domain.HeldTransaction) {
	if err := s.idempCache.Set(ctx, idempKey, respJSON, idempotencyTTL); err != nil {
		s.log.Warn().Err(err).Str("key", idempKey).Msg("failed to cache idempotency in redis")
	}

	var err error
	if hold != nil {
		err = s.notifier.TransactionHeld(ctx, txn, hold)
	} else {
		err = s.notifier.TransactionCompleted(ctx, txn)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("tx_id", txn.ID.String()).Msg("transaction notification failed")
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("reference", txn.ReferenceNumber).
		Str("type", string(txn.Type)).
		Str("status", string(txn.Status)).
		Str("amount", txn.Amount.StringFixed(2)).
		Str("currency", string(txn.Currency)).
		Msg("transaction processed")
}

// checkIdempotency runs the two-layer replay check: Redis first, DB
// second. A Redis failure falls through to the DB rather than failing
// the request.
func (s *ProcessorServiceImpl) checkIdempotency(ctx context.Context, key string) (*domain.Transaction, error) {
	cached, err := s.idempCache.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("redis idempotency check failed, falling through to DB")
	}
	if cached != nil {
		return unmarshalCachedTransaction(cached)
	}

	idempLog, err := s.idempRepo.Get(ctx, key)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("db idempotency check: %w", err))
	}
	if idempLog != nil {
		return unmarshalCachedTransaction(idempLog.ResponseJSON)
	}
	return nil, nil
}

// rejectForLimits persists the fired alerts on the hard-rejection path,
// where no posting transaction exists to carry them.
func (s *ProcessorServiceImpl) rejectForLimits(ctx context.Context, risk domain.RiskResult) error {
	window := "spend"
	for i := range risk.Alerts {
		if err := s.alertRepo.Create(ctx, &risk.Alerts[i]); err != nil {
			s.log.Warn().Err(err).Str("user_id", risk.Alerts[i].UserID.String()).Msg("failed to persist risk alert on rejection")
		}
		if risk.Alerts[i].Type == domain.AlertLimitExceeded {
			if fields := strings.Fields(risk.Alerts[i].Reason); len(fields) > 0 {
				window = fields[0]
			}
		}
	}
	return apperror.ErrLimitExceeded(window)
}

// activeProfile fetches a profile and checks kind and status.
func (s *ProcessorServiceImpl) activeProfile(ctx context.Context, id uuid.UUID, kind domain.ProfileKind) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get profile: %w", err))
	}
	if profile == nil {
		return nil, apperror.ErrNotFound("profile")
	}
	if profile.Kind != kind {
		return nil, apperror.Validation(fmt.Sprintf("profile is not a %s", strings.ToLower(string(kind))))
	}
	if !profile.IsActive() {
		return nil, apperror.ErrProfileSuspended()
	}
	return profile, nil
}

// activeWallet fetches an existing wallet that must be able to send.
func (s *ProcessorServiceImpl) activeWallet(ctx context.Context, ownerID uuid.UUID, currency domain.Currency, purpose domain.WalletPurpose) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByOwner(ctx, ownerID, currency, purpose)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet == nil {
		return nil, apperror.ErrNotFound("wallet")
	}
	if !wallet.Active {
		return nil, apperror.ErrWalletInactive()
	}
	return wallet, nil
}

// ensureWallet fetches or creates the receiving wallet. Receiving a
// payment is enough to bring a wallet into existence.
func (s *ProcessorServiceImpl) ensureWallet(ctx context.Context, ownerID uuid.UUID, currency domain.Currency, purpose domain.WalletPurpose) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.GetByOwner(ctx, ownerID, currency, purpose)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if wallet != nil {
		return wallet, nil
	}

	now := time.Now().UTC()
	wallet = &domain.Wallet{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Currency:      currency,
		Purpose:       purpose,
		Balance:       decimal.Zero,
		FrozenBalance: decimal.Zero,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.walletRepo.Create(ctx, wallet); err != nil {
		if isUniqueViolation(err) {
			return s.walletRepo.GetByOwner(ctx, ownerID, currency, purpose)
		}
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}
	return wallet, nil
}

// deleteOTP removes a redeemed code, best-effort: a leftover row can
// no longer be redeemed once the transfer exists and is purged on the
// next OTP operation.
func (s *ProcessorServiceImpl) deleteOTP(ctx context.Context, id uuid.UUID) {
	if err := s.otpRepo.Delete(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("otp_id", id.String()).Msg("failed to delete redeemed otp")
	}
}

// unmarshalCachedTransaction decodes a cached idempotency response.
func unmarshalCachedTransaction(data []byte) (*domain.Transaction, error) {
	var txn domain.Transaction
	if err := json.Unmarshal(data, &txn); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("unmarshal cached transaction: %w", err))
	}
	return &txn, nil
}

// buildIdempotencyLog marshals the response once; the same bytes are
// committed with the posting and cached in Redis after it.
func buildIdempotencyLog(key string, txn *domain.Transaction, now time.Time) (*domain.IdempotencyLog, []byte, error) {
	respJSON, err := json.Marshal(txn)
	if err != nil {
		return nil, nil, apperror.InternalError(fmt.Errorf("marshal response: %w", err))
	}
	return &domain.IdempotencyLog{
		Key:           key,
		TransactionID: txn.ID,
		ResponseJSON:  respJSON,
		CreatedAt:     now,
	}, respJSON, nil
}

// canSeeTransaction reports whether the actor participates in the
// transaction or is an admin.
func canSeeTransaction(actor domain.Actor, txn *domain.Transaction) bool {
	if actor.IsAdmin() {
		return true
	}
	if txn.InitiatorID == actor.ID {
		return true
	}
	return txn.CounterpartyID != nil && *txn.CounterpartyID == actor.ID
}

// attachTransaction pins fired alerts to the transaction they screened.
func attachTransaction(alerts []domain.RiskAlert, txID uuid.UUID) []domain.RiskAlert {
	for i := range alerts {
		id := txID
		alerts[i].TransactionID = &id
	}
	return alerts
}

// holdReason folds the fired alert reasons into the hold's review note.
func holdReason(alerts []domain.RiskAlert) string {
	reasons := make([]string, 0, len(alerts))
	for _, a := range alerts {
		reasons = append(reasons, a.Reason)
	}
	if len(reasons) == 0 {
		return "risk review"
	}
	return strings.Join(reasons, "; ")
}

// generateOTPCode draws a numeric one-time code from crypto/rand.
func generateOTPCode(length int) (string, error) {
	if length <= 0 {
		length = 6
	}
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

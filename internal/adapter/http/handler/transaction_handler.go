package handler

import (
	"strconv"
	"time"

	"fincore/internal/adapter/http/dto"
	"fincore/internal/adapter/http/middleware"
	"fincore/internal/core/domain"
	"fincore/internal/core/ports"
	"fincore/pkg/apperror"
	"fincore/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles the money-moving endpoints.
type TransactionHandler struct {
	processorSvc ports.TransactionProcessor
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(processorSvc ports.TransactionProcessor) *TransactionHandler {
	return &TransactionHandler{processorSvc: processorSvc}
}

// Deposit handles POST /api/v1/transactions/deposit. The caller is the
// agent handing value to the user's wallet.
func (h *TransactionHandler) Deposit(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		response.Error(c, apperror.Validation("user_id must be a UUID"))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	txn, err := h.processorSvc.Deposit(c.Request.Context(), ports.DepositRequest{
		AgentID:         actor.ID,
		UserID:          userID,
		Amount:          amount,
		Currency:        domain.Currency(req.Currency),
		ClientReference: req.ClientReference,
		ClientIP:        c.ClientIP(),
		DeviceID:        c.GetHeader(middleware.HeaderDeviceID),
		Note:            req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	respondTransaction(c, txn)
}

// Withdraw handles POST /api/v1/transactions/withdraw. The caller is
// the user taking cash from an agent.
func (h *TransactionHandler) Withdraw(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	agentID, err := uuid.Parse(req.AgentID)
	if err != nil {
		response.Error(c, apperror.Validation("agent_id must be a UUID"))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	txn, err := h.processorSvc.Withdraw(c.Request.Context(), ports.WithdrawRequest{
		UserID:          actor.ID,
		AgentID:         agentID,
		Amount:          amount,
		Currency:        domain.Currency(req.Currency),
		ClientReference: req.ClientReference,
		ClientIP:        c.ClientIP(),
		DeviceID:        c.GetHeader(middleware.HeaderDeviceID),
		Note:            req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	respondTransaction(c, txn)
}

// InitiateTransfer handles POST /api/v1/transactions/transfer. It
// parks the transfer behind a one-time code; nothing moves yet.
func (h *TransactionHandler) InitiateTransfer(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TransferInitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	recipientID, err := uuid.Parse(req.RecipientID)
	if err != nil {
		response.Error(c, apperror.Validation("recipient_id must be a UUID"))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	challenge, err := h.processorSvc.InitiateTransfer(c.Request.Context(), ports.TransferRequest{
		SenderID:        actor.ID,
		RecipientID:     recipientID,
		Amount:          amount,
		Currency:        domain.Currency(req.Currency),
		ClientReference: req.ClientReference,
		ClientIP:        c.ClientIP(),
		DeviceID:        c.GetHeader(middleware.HeaderDeviceID),
		Note:            req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, challenge)
}

// ConfirmTransfer handles POST /api/v1/transactions/transfer/confirm.
func (h *TransactionHandler) ConfirmTransfer(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TransferConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	txn, err := h.processorSvc.ConfirmTransfer(c.Request.Context(), ports.ConfirmTransferRequest{
		SenderID: actor.ID,
		Code:     req.Code,
		ClientIP: c.ClientIP(),
		DeviceID: c.GetHeader(middleware.HeaderDeviceID),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	respondTransaction(c, txn)
}

// QRPayment handles POST /api/v1/transactions/qr-payment.
func (h *TransactionHandler) QRPayment(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.QRPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	merchantID, err := uuid.Parse(req.MerchantID)
	if err != nil {
		response.Error(c, apperror.Validation("merchant_id must be a UUID"))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	txn, err := h.processorSvc.QRPayment(c.Request.Context(), ports.QRPaymentRequest{
		UserID:          actor.ID,
		MerchantID:      merchantID,
		Amount:          amount,
		Currency:        domain.Currency(req.Currency),
		ClientReference: req.ClientReference,
		ClientIP:        c.ClientIP(),
		DeviceID:        c.GetHeader(middleware.HeaderDeviceID),
		Note:            req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	respondTransaction(c, txn)
}

// ServicePurchase handles POST /api/v1/transactions/purchase. Funds
// park in suspense until the merchant approves or declines.
func (h *TransactionHandler) ServicePurchase(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.ServicePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	merchantID, err := uuid.Parse(req.MerchantID)
	if err != nil {
		response.Error(c, apperror.Validation("merchant_id must be a UUID"))
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return
	}

	txn, err := h.processorSvc.ServicePurchase(c.Request.Context(), ports.ServicePurchaseRequest{
		UserID:          actor.ID,
		MerchantID:      merchantID,
		Amount:          amount,
		Currency:        domain.Currency(req.Currency),
		ClientReference: req.ClientReference,
		ClientIP:        c.ClientIP(),
		DeviceID:        c.GetHeader(middleware.HeaderDeviceID),
		Note:            req.Note,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	respondTransaction(c, txn)
}

// GetByID handles GET /api/v1/transactions/:id.
func (h *TransactionHandler) GetByID(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("id must be a UUID"))
		return
	}

	txn, err := h.processorSvc.GetByID(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FromTransaction(txn))
}

// GetByReference handles GET /api/v1/references/:reference, the
// polling endpoint for clients that only hold the reference number.
func (h *TransactionHandler) GetByReference(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	txn, err := h.processorSvc.GetByReference(c.Request.Context(), actor, c.Param("reference"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FromTransaction(txn))
}

// List handles GET /api/v1/transactions.
func (h *TransactionHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, pageSize := pagination(c)
	params := ports.TransactionListParams{
		Page:     page,
		PageSize: pageSize,
	}

	if s := c.Query("status"); s != "" {
		status := domain.TransactionStatus(s)
		params.Status = &status
	}
	if t := c.Query("type"); t != "" {
		txType := domain.TransactionType(t)
		params.Type = &txType
	}
	if cur := c.Query("currency"); cur != "" {
		currency := domain.Currency(cur)
		params.Currency = &currency
	}
	if f := c.Query("from"); f != "" {
		if ts, err := time.Parse(time.RFC3339, f); err == nil {
			params.From = &ts
		}
	}
	if t := c.Query("to"); t != "" {
		if ts, err := time.Parse(time.RFC3339, t); err == nil {
			params.To = &ts
		}
	}
	if w := c.Query("wallet_id"); w != "" {
		if id, err := uuid.Parse(w); err == nil {
			params.WalletID = &id
		}
	}
	if i := c.Query("initiator_id"); i != "" {
		id, err := uuid.Parse(i)
		if err != nil {
			response.Error(c, apperror.Validation("initiator_id must be a UUID"))
			return
		}
		params.InitiatorID = &id
	}

	txns, total, err := h.processorSvc.List(c.Request.Context(), actor, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(txns))
	for i := range txns {
		items = append(items, dto.FromTransaction(&txns[i]))
	}

	response.OK(c, dto.NewPaged(items, total, page, pageSize))
}

// respondTransaction picks the status code for a processed
// transaction: 202 while it sits in review, 201 otherwise.
func respondTransaction(c *gin.Context, txn *domain.Transaction) {
	if txn.IsHeld() {
		response.Accepted(c, dto.FromTransaction(txn))
		return
	}
	response.Created(c, dto.FromTransaction(txn))
}

// currentActor returns the authenticated actor placed by the JWT
// middleware.
func currentActor(c *gin.Context) (domain.Actor, bool) {
	return middleware.Actor(c)
}

// pagination reads the page/page_size query params with the usual
// bounds.
func pagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

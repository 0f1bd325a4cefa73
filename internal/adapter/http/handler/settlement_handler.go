package handler

import (
	"fincore/internal/adapter/http/dto"
	"fincore/internal/core/domain"
	"fincore/internal/core/ports"
	"fincore/pkg/apperror"
	"fincore/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementHandler handles the agent credit lifecycle: grants,
// settlements and profit distribution.
type SettlementHandler struct {
	settlementSvc ports.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementSvc ports.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementSvc: settlementSvc}
}

// GrantCredit handles POST /api/v1/admin/credits.
func (h *SettlementHandler) GrantCredit(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreditGrantRequest
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

	txn, err := h.settlementSvc.GrantCredit(c.Request.Context(), actor, ports.CreditGrantRequest{
		AgentID:  agentID,
		Amount:   amount,
		Currency: domain.Currency(req.Currency),
		Note:     req.Note,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.FromTransaction(txn))
}

// RequestSettlement handles POST /api/v1/settlements. Agents declare
// cash they are returning; admins may do it on an agent's behalf.
func (h *SettlementHandler) RequestSettlement(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	portsReq, ok := h.bindSettlement(c)
	if !ok {
		return
	}

	txn, err := h.settlementSvc.RequestSettlement(c.Request.Context(), actor, portsReq)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Accepted(c, dto.FromTransaction(txn))
}

// ConfirmSettlement handles POST /api/v1/admin/settlements/:id/confirm.
// The admin acknowledges the cash arrived and the pending settlement
// completes.
func (h *SettlementHandler) ConfirmSettlement(c *gin.Context) {
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

	txn, err := h.settlementSvc.ConfirmSettlement(c.Request.Context(), actor, id, c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FromTransaction(txn))
}

// RecordSettlement handles POST /api/v1/admin/settlements: an
// over-the-counter cash return, requested and confirmed in one step.
func (h *SettlementHandler) RecordSettlement(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	portsReq, ok := h.bindSettlement(c)
	if !ok {
		return
	}

	txn, err := h.settlementSvc.RecordSettlement(c.Request.Context(), actor, portsReq)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.FromTransaction(txn))
}

// DistributeProfit handles POST /api/v1/admin/profit-distributions.
func (h *SettlementHandler) DistributeProfit(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.ProfitDistributionRequest
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

	txn, err := h.settlementSvc.DistributeProfit(c.Request.Context(), actor, ports.ProfitDistributionRequest{
		MerchantID: merchantID,
		Amount:     amount,
		Currency:   domain.Currency(req.Currency),
		Note:       req.Note,
		ClientIP:   c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.FromTransaction(txn))
}

// GetCredit handles GET /api/v1/credits/:agent_id.
func (h *SettlementHandler) GetCredit(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	agentID, err := uuid.Parse(c.Param("agent_id"))
	if err != nil {
		response.Error(c, apperror.Validation("agent_id must be a UUID"))
		return
	}
	currency := domain.Currency(c.DefaultQuery("currency", string(domain.CurrencyUSD)))

	credit, err := h.settlementSvc.GetCredit(c.Request.Context(), actor, agentID, currency)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, credit)
}

// bindSettlement parses and validates a settlement request body.
func (h *SettlementHandler) bindSettlement(c *gin.Context) (ports.SettlementRequest, bool) {
	var req dto.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return ports.SettlementRequest{}, false
	}
	dto.SanitizeStruct(&req)

	agentID, err := uuid.Parse(req.AgentID)
	if err != nil {
		response.Error(c, apperror.Validation("agent_id must be a UUID"))
		return ports.SettlementRequest{}, false
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.Error(c, apperror.ErrInvalidAmount())
		return ports.SettlementRequest{}, false
	}

	return ports.SettlementRequest{
		AgentID:         agentID,
		Amount:          amount,
		Currency:        domain.Currency(req.Currency),
		ClientReference: req.ClientReference,
		ClientIP:        c.ClientIP(),
	}, true
}

package handler

import (
	"fincore/internal/adapter/http/dto"
	"fincore/internal/core/domain"
	"fincore/internal/core/ports"
	"fincore/pkg/apperror"
	"fincore/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HoldHandler handles held-transaction resolution: admin release and
// cancel for risk holds, merchant approve and decline for pending
// service purchases.
type HoldHandler struct {
	holdSvc ports.HoldService
}

// NewHoldHandler creates a new HoldHandler.
func NewHoldHandler(holdSvc ports.HoldService) *HoldHandler {
	return &HoldHandler{holdSvc: holdSvc}
}

// List handles GET /api/v1/admin/holds.
func (h *HoldHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, pageSize := pagination(c)
	var status *domain.HoldStatus
	if s := c.Query("status"); s != "" {
		hs := domain.HoldStatus(s)
		status = &hs
	}

	holds, total, err := h.holdSvc.List(c.Request.Context(), actor, status, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewPaged(holds, total, page, pageSize))
}

// Release handles POST /api/v1/admin/holds/:id/release. Suspended
// funds continue to their destination, fees charged at this point.
func (h *HoldHandler) Release(c *gin.Context) {
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

	txn, err := h.holdSvc.Release(c.Request.Context(), actor, id, c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FromTransaction(txn))
}

// Cancel handles POST /api/v1/admin/holds/:id/cancel. Suspended funds
// return to the sender in full.
func (h *HoldHandler) Cancel(c *gin.Context) {
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

	txn, err := h.holdSvc.Cancel(c.Request.Context(), actor, id, c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FromTransaction(txn))
}

// ApprovePurchase handles POST /api/v1/purchases/:id/approve. The
// merchant (or an admin) confirms the service was delivered and the
// parked funds pay out.
func (h *HoldHandler) ApprovePurchase(c *gin.Context) {
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

	txn, err := h.holdSvc.ApprovePurchase(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FromTransaction(txn))
}

// DeclinePurchase handles POST /api/v1/purchases/:id/decline. Parked
// funds refund to the buyer in full.
func (h *HoldHandler) DeclinePurchase(c *gin.Context) {
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

	txn, err := h.holdSvc.DeclinePurchase(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.FromTransaction(txn))
}

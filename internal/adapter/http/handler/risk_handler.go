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

// RiskHandler handles risk alert review endpoints.
type RiskHandler struct {
	riskSvc ports.RiskService
}

// NewRiskHandler creates a new RiskHandler.
func NewRiskHandler(riskSvc ports.RiskService) *RiskHandler {
	return &RiskHandler{riskSvc: riskSvc}
}

// ListAlerts handles GET /api/v1/admin/alerts.
func (h *RiskHandler) ListAlerts(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, pageSize := pagination(c)
	var status *domain.AlertStatus
	if s := c.Query("status"); s != "" {
		as := domain.AlertStatus(s)
		status = &as
	}

	alerts, total, err := h.riskSvc.ListAlerts(c.Request.Context(), actor, status, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewPaged(alerts, total, page, pageSize))
}

// ReviewAlert handles POST /api/v1/admin/alerts/:id/review.
func (h *RiskHandler) ReviewAlert(c *gin.Context) {
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

	var req dto.ReviewAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	alert, err := h.riskSvc.ReviewAlert(c.Request.Context(), actor, id, domain.AlertStatus(req.Verdict), c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, alert)
}

package handler

import (
	"time"

	"fincore/internal/adapter/http/dto"
	"fincore/internal/core/domain"
	"fincore/internal/core/ports"
	"fincore/pkg/apperror"
	"fincore/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportingHandler handles dashboard statistics and the operator's
// views of the books.
type ReportingHandler struct {
	reportingSvc ports.ReportingService
}

// NewReportingHandler creates a new ReportingHandler.
func NewReportingHandler(reportingSvc ports.ReportingService) *ReportingHandler {
	return &ReportingHandler{reportingSvc: reportingSvc}
}

// Stats handles GET /api/v1/reports/stats: the caller's transaction
// aggregates, or any initiator's for admins via initiator_id.
func (h *ReportingHandler) Stats(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	initiatorID := actor.ID
	if i := c.Query("initiator_id"); i != "" {
		id, err := uuid.Parse(i)
		if err != nil {
			response.Error(c, apperror.Validation("initiator_id must be a UUID"))
			return
		}
		initiatorID = id
	}

	currency := domain.Currency(c.DefaultQuery("currency", string(domain.CurrencyUSD)))

	var from *time.Time
	if f := c.Query("from"); f != "" {
		ts, err := time.Parse(time.RFC3339, f)
		if err != nil {
			response.Error(c, apperror.Validation("from must be RFC3339"))
			return
		}
		from = &ts
	}

	stats, err := h.reportingSvc.Stats(c.Request.Context(), actor, initiatorID, currency, from)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{
		"total_count":     stats.TotalCount,
		"completed_count": stats.CompletedCount,
		"cancelled_count": stats.CancelledCount,
		"held_count":      stats.HeldCount,
		"total_volume":    stats.TotalVolume,
		"total_fees":      stats.TotalFees,
		"currency":        currency,
	})
}

// LedgerOverview handles GET /api/v1/admin/ledger: both account charts
// for one currency plus the zero-sum check value.
func (h *ReportingHandler) LedgerOverview(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	currency := domain.Currency(c.DefaultQuery("currency", string(domain.CurrencyUSD)))

	overview, err := h.reportingSvc.LedgerOverview(c.Request.Context(), actor, currency)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, overview)
}

// EntriesByTransaction handles GET /api/v1/transactions/:id/entries:
// the ledger entries documenting one transaction, including the
// resolution entries of a held one.
func (h *ReportingHandler) EntriesByTransaction(c *gin.Context) {
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

	entries, err := h.reportingSvc.EntriesByTransaction(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"items": entries})
}

// AuditTrail handles GET /api/v1/admin/audit-logs.
func (h *ReportingHandler) AuditTrail(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	page, pageSize := pagination(c)

	var actorFilter *uuid.UUID
	if a := c.Query("actor_id"); a != "" {
		id, err := uuid.Parse(a)
		if err != nil {
			response.Error(c, apperror.Validation("actor_id must be a UUID"))
			return
		}
		actorFilter = &id
	}

	logs, total, err := h.reportingSvc.AuditTrail(c.Request.Context(), actor, actorFilter, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewPaged(logs, total, page, pageSize))
}

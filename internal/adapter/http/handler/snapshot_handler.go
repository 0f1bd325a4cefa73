package handler

import (
	"fincore/internal/adapter/http/dto"
	"fincore/internal/core/domain"
	"fincore/internal/core/ports"
	"fincore/pkg/apperror"
	"fincore/pkg/response"

	"github.com/gin-gonic/gin"
)

// SnapshotHandler handles balance snapshots, reconciliation runs and
// the explicit ledger sync.
type SnapshotHandler struct {
	snapshotSvc ports.SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(snapshotSvc ports.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{snapshotSvc: snapshotSvc}
}

// Create handles POST /api/v1/admin/snapshots. Re-running inside the
// same period bucket returns the existing snapshot.
func (h *SnapshotHandler) Create(c *gin.Context) {
	var req dto.CreateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	snapshot, err := h.snapshotSvc.Create(c.Request.Context(), domain.PeriodType(req.Period))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, snapshot)
}

// Latest handles GET /api/v1/admin/snapshots/latest.
func (h *SnapshotHandler) Latest(c *gin.Context) {
	period := domain.PeriodType(c.DefaultQuery("period", string(domain.PeriodDaily)))

	snapshot, err := h.snapshotSvc.Latest(c.Request.Context(), period)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, snapshot)
}

// List handles GET /api/v1/admin/snapshots.
func (h *SnapshotHandler) List(c *gin.Context) {
	period := domain.PeriodType(c.DefaultQuery("period", string(domain.PeriodDaily)))
	page, pageSize := pagination(c)

	snapshots, total, err := h.snapshotSvc.List(c.Request.Context(), period, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewPaged(snapshots, total, page, pageSize))
}

// Reconcile handles POST /api/v1/admin/reconciliations: recompute
// every balance from the ledger and report drift. Read-only; it never
// corrects anything.
func (h *SnapshotHandler) Reconcile(c *gin.Context) {
	report, err := h.snapshotSvc.Reconcile(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, report)
}

// ListReports handles GET /api/v1/admin/reconciliations.
func (h *SnapshotHandler) ListReports(c *gin.Context) {
	page, pageSize := pagination(c)

	reports, total, err := h.snapshotSvc.ListReports(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewPaged(reports, total, page, pageSize))
}

// SyncLedger handles POST /api/v1/admin/ledger/sync: overwrite running
// account balances with the recomputed ledger truth.
func (h *SnapshotHandler) SyncLedger(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	result, err := h.snapshotSvc.SyncLedgerBalances(c.Request.Context(), actor, c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

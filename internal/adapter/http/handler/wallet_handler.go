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

// WalletHandler handles wallet lifecycle and read endpoints.
type WalletHandler struct {
	walletSvc ports.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletSvc ports.WalletService) *WalletHandler {
	return &WalletHandler{walletSvc: walletSvc}
}

// Create handles POST /api/v1/wallets. Callers open their own wallet;
// admins may open one for any participant via owner_id.
func (h *WalletHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	ownerID := actor.ID
	if req.OwnerID != nil {
		id, err := uuid.Parse(*req.OwnerID)
		if err != nil {
			response.Error(c, apperror.Validation("owner_id must be a UUID"))
			return
		}
		ownerID = id
	}

	purpose := domain.WalletPurpose(req.Purpose)
	if req.Purpose == "" {
		purpose = domain.PurposePersonal
		if actor.Role == domain.RoleMerchant {
			purpose = domain.PurposeBusiness
		}
	}

	wallet, err := h.walletSvc.GetOrCreate(c.Request.Context(), actor, ownerID, domain.Currency(req.Currency), purpose)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, wallet)
}

// Get handles GET /api/v1/wallets/:id.
func (h *WalletHandler) Get(c *gin.Context) {
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

	wallet, err := h.walletSvc.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, wallet)
}

// List handles GET /api/v1/wallets: the caller's wallets, or any
// owner's for admins via owner_id.
func (h *WalletHandler) List(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	ownerID := actor.ID
	if o := c.Query("owner_id"); o != "" {
		id, err := uuid.Parse(o)
		if err != nil {
			response.Error(c, apperror.Validation("owner_id must be a UUID"))
			return
		}
		ownerID = id
	}

	wallets, err := h.walletSvc.ListByOwner(c.Request.Context(), actor, ownerID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"items": wallets})
}

// SetActive handles PUT /api/v1/admin/wallets/:id/active.
func (h *WalletHandler) SetActive(c *gin.Context) {
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

	var req dto.SetWalletActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wallet, err := h.walletSvc.SetActive(c.Request.Context(), actor, id, *req.Active)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, wallet)
}

package handler

import (
	"net/http"

	"fincore/internal/adapter/http/dto"
	"fincore/internal/core/domain"
	"fincore/internal/core/ports"
	"fincore/pkg/apperror"
	"fincore/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProfileHandler handles the participant registry endpoints.
type ProfileHandler struct {
	profileSvc ports.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileSvc ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// Create handles POST /api/v1/admin/profiles. Agents get zero-value
// credit lines in every currency on registration.
func (h *ProfileHandler) Create(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	profile, err := h.profileSvc.Create(c.Request.Context(), actor, ports.CreateProfileRequest{
		Kind:        domain.ProfileKind(req.Kind),
		DisplayName: req.DisplayName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, profile)
}

// Get handles GET /api/v1/profiles/:id.
func (h *ProfileHandler) Get(c *gin.Context) {
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

	profile, err := h.profileSvc.Get(c.Request.Context(), actor, id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, profile)
}

// SetStatus handles PUT /api/v1/admin/profiles/:id/status.
func (h *ProfileHandler) SetStatus(c *gin.Context) {
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

	var req dto.SetProfileStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	profile, err := h.profileSvc.SetStatus(c.Request.Context(), actor, id, domain.ProfileStatus(req.Status), c.ClientIP())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, profile)
}

// HealthCheck handles GET /health, verifying every dependency.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/services"
)

// PipelineHandler serves ops endpoints guarded by the pipeline API key.
type PipelineHandler struct {
	bondService  services.BondServicer
	auditService services.AuditServicer
}

// NewPipelineHandler creates a new PipelineHandler.
func NewPipelineHandler(bondService services.BondServicer, auditService services.AuditServicer) *PipelineHandler {
	return &PipelineHandler{bondService: bondService, auditService: auditService}
}

// RefreshBond re-syncs a stored bond's name and remaining term from the lookup.
// @Summary     Refresh bond fields
// @Description Copy name and remaining term from the reference lookup onto the stored bond (pipeline endpoint). Idempotent.
// @Tags        pipeline
// @Produce     json
// @Param       X-API-Key header   string true "Pipeline API key"
// @Param       code      path     string true "Bond code"
// @Success     200       {object} map[string]interface{} "Whether a write happened"
// @Failure     400       {object} ErrorResponse "Invalid bond code"
// @Failure     401       {object} ErrorResponse "Invalid API key"
// @Failure     404       {object} ErrorResponse "Bond not found"
// @Failure     503       {object} ErrorResponse "Lookup unavailable or pipeline not configured"
// @Router      /pipeline/bonds/{code}/refresh [post]
func (h *PipelineHandler) RefreshBond(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "bond code is required"))
		return
	}

	updated, err := h.bondService.RefreshByCode(c.Request.Context(), code)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if updated {
		h.auditService.Log("", services.AuditActionBondRefresh, "BOND", code, c.ClientIP(), nil)
	}
	c.JSON(http.StatusOK, gin.H{"bond_code": code, "updated": updated})
}

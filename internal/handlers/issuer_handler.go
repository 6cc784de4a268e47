package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/pagination"
	"bondmatch/internal/services"
)

// IssuerHandler serves the issuer catalogue.
type IssuerHandler struct {
	issuerService services.IssuerServicer
}

// NewIssuerHandler creates a new IssuerHandler.
func NewIssuerHandler(issuerService services.IssuerServicer) *IssuerHandler {
	return &IssuerHandler{issuerService: issuerService}
}

// ListIssuers returns a page of issuers.
// @Summary     List issuers
// @Description Get a paginated list of issuers ordered by name
// @Tags        issuers
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Issuer] "Paginated issuers"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /issuers [get]
func (h *IssuerHandler) ListIssuers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.issuerService.ListIssuers(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

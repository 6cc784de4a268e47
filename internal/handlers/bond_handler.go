package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/services"
)

// BondHandler serves the match operation and bond reference lookups.
type BondHandler struct {
	matchService services.MatchServicer
	bondService  services.BondServicer
}

// NewBondHandler creates a new BondHandler.
func NewBondHandler(matchService services.MatchServicer, bondService services.BondServicer) *BondHandler {
	return &BondHandler{matchService: matchService, bondService: bondService}
}

// MatchRequest represents the match request payload.
type MatchRequest struct {
	BondCode    string `json:"bond_code" binding:"required,bond_code"`
	CurrentOnly bool   `json:"current_only"`
}

// LookupQuery selects a bond either by code or by abbreviation.
type LookupQuery struct {
	BondCode string `form:"bond_code" binding:"omitempty,bond_code"`
	BondAbbr string `form:"bond_abbr" binding:"omitempty,max=100"`
}

// BondDetailResponse is the resolved reference plus display term.
type BondDetailResponse struct {
	Bond services.BondInfo `json:"bond"`
}

// Match finds potential buyers for a bond.
// @Summary     Match potential buyers
// @Description Resolve the bond's issuer and list every fund or company that has held the issuer's bonds, with contacts. An empty list comes with a message.
// @Tags        bonds
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body MatchRequest true "Bond code and scope"
// @Success     200 {object} services.MatchResult "Match result"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Bond not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /bonds/match [post]
func (h *BondHandler) Match(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.matchService.Match(c.Request.Context(), req.BondCode, userID, services.MatchOptions{
		CurrentOnly: req.CurrentOnly,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetBond resolves a single bond.
// @Summary     Get bond
// @Description Resolve a bond code through the reference lookup, falling back to locally stored bonds
// @Tags        bonds
// @Produce     json
// @Security    BearerAuth
// @Param       code path string true "Bond code, e.g. 220501.IB"
// @Success     200 {object} BondDetailResponse "Resolved bond"
// @Failure     400 {object} ErrorResponse "Invalid bond code"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Bond not found"
// @Router      /bonds/{code} [get]
func (h *BondHandler) GetBond(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "bond code is required"))
		return
	}

	resolved, err := h.bondService.ResolveIssuer(c.Request.Context(), code)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, BondDetailResponse{Bond: services.BondInfo{
		BondReference:        resolved.Reference,
		RemainingTermDisplay: resolved.Term.Display,
		Source:               resolved.Source,
	}})
}

// Lookup queries the bond reference provider directly.
// @Summary     Look up bond reference
// @Description Look up canonical reference data by bond_code or by bond_abbr (name or issuer substring). Exactly one must be given.
// @Tags        bonds
// @Produce     json
// @Security    BearerAuth
// @Param       bond_code query string false "Bond code"
// @Param       bond_abbr query string false "Bond abbreviation"
// @Success     200 {object} bondref.BondReference "Bond reference"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Bond not found"
// @Failure     503 {object} ErrorResponse "Lookup unavailable"
// @Router      /bonds/lookup [get]
func (h *BondHandler) Lookup(c *gin.Context) {
	var q LookupQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	if (q.BondCode == "") == (q.BondAbbr == "") {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "exactly one of bond_code or bond_abbr is required"))
		return
	}

	ctx := c.Request.Context()
	if q.BondCode != "" {
		ref, err := h.bondService.LookupByCode(ctx, q.BondCode)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, ref)
		return
	}

	ref, err := h.bondService.LookupByAbbreviation(ctx, q.BondAbbr)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ref)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/services"
)

// SearchHistoryHandler reads and appends the caller's search history.
type SearchHistoryHandler struct {
	historyService services.SearchHistoryServicer
}

// NewSearchHistoryHandler creates a new SearchHistoryHandler.
func NewSearchHistoryHandler(historyService services.SearchHistoryServicer) *SearchHistoryHandler {
	return &SearchHistoryHandler{historyService: historyService}
}

// HistoryQuery holds the optional limit.
type HistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// RecordSearchRequest represents a client-side search to record.
type RecordSearchRequest struct {
	Query       string `json:"query" binding:"required,max=255"`
	ResultCount int    `json:"result_count" binding:"min=0"`
}

// GetHistory returns the caller's recent searches.
// @Summary     Get search history
// @Description Get the authenticated user's most recent searches, newest first
// @Tags        search-history
// @Produce     json
// @Security    BearerAuth
// @Param       limit query int false "Maximum entries (default 20, max 100)"
// @Success     200 {object} map[string][]models.SearchHistory "Search history"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /search-history [get]
func (h *SearchHistoryHandler) GetHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	history, err := h.historyService.History(c.Request.Context(), userID, q.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// RecordSearch appends a free-text search.
// @Summary     Record a search
// @Description Append a client-side search (query and result count) to the caller's history
// @Tags        search-history
// @Accept      json
// @Security    BearerAuth
// @Param       request body RecordSearchRequest true "Search to record"
// @Success     204 "Recorded"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /search-history [post]
func (h *SearchHistoryHandler) RecordSearch(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	h.historyService.Record(c.Request.Context(), services.SearchEntry{
		UserID:      userID,
		Query:       req.Query,
		ResultCount: req.ResultCount,
	})
	c.Status(http.StatusNoContent)
}

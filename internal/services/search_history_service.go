package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/logger"
	"bondmatch/internal/models"
)

const (
	// DefaultHistoryLimit is used when neither the caller nor config sets one.
	DefaultHistoryLimit = 20
	// MaxHistoryLimit caps any requested limit.
	MaxHistoryLimit = 100
)

// SearchEntry is one search to append to a user's history.
type SearchEntry struct {
	UserID      string
	Query       string
	BondCode    string
	BondName    string
	ResultCount int
}

// searchHistoryService records match queries.
type searchHistoryService struct {
	db           *gorm.DB
	defaultLimit int
}

// NewSearchHistoryService creates a new SearchHistoryServicer. A
// non-positive defaultLimit falls back to DefaultHistoryLimit.
func NewSearchHistoryService(db *gorm.DB, defaultLimit int) SearchHistoryServicer {
	if defaultLimit <= 0 {
		defaultLimit = DefaultHistoryLimit
	}
	if defaultLimit > MaxHistoryLimit {
		defaultLimit = MaxHistoryLimit
	}
	return &searchHistoryService{db: db, defaultLimit: defaultLimit}
}

// Record appends entry. Errors are logged but never propagate to avoid
// disrupting the search that produced it.
func (s *searchHistoryService) Record(ctx context.Context, entry SearchEntry) {
	row := &models.SearchHistory{
		UserID:      entry.UserID,
		Query:       strings.TrimSpace(entry.Query),
		BondCode:    entry.BondCode,
		BondName:    entry.BondName,
		ResultCount: entry.ResultCount,
	}

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		logger.Get().Errorw("failed to record search history",
			"error", apperrors.Wrap(apperrors.ErrAuditFailed, err),
			"user_id", entry.UserID,
			"bond_code", entry.BondCode,
			"result_count", entry.ResultCount,
		)
	}
}

// History returns the user's most recent searches, newest first. A
// non-positive limit uses the configured default; limits above
// MaxHistoryLimit are capped.
func (s *searchHistoryService) History(ctx context.Context, userID string, limit int) ([]models.SearchHistory, error) {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	history := []models.SearchHistory{}
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&history).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return history, nil
}

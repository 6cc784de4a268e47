package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/models"
	"bondmatch/internal/pagination"
)

// issuerService handles the issuer catalogue.
type issuerService struct {
	db *gorm.DB
}

// NewIssuerService creates a new IssuerServicer.
func NewIssuerService(db *gorm.DB) IssuerServicer {
	return &issuerService{db: db}
}

// ListIssuers returns a paginated list of issuers ordered by name.
func (s *issuerService) ListIssuers(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Issuer], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.WithContext(ctx).Model(&models.Issuer{})
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var issuers []models.Issuer
	if err := s.db.WithContext(ctx).
		Order("name ASC").
		Scopes(pagination.Paginate(page)).
		Find(&issuers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	resp := pagination.NewPageResponse(issuers, page.Page, page.PageSize, totalItems)
	return &resp, nil
}

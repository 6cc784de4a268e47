package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/models"
)

// holdingService aggregates holdings into distinct holders.
type holdingService struct {
	db          *gorm.DB
	issuerMatch IssuerMatch
}

// NewHoldingService creates a new HoldingServicer.
func NewHoldingService(db *gorm.DB, issuerMatch IssuerMatch) HoldingServicer {
	return &holdingService{db: db, issuerMatch: issuerMatch}
}

// FindHolders returns one HolderRef per fund or company that held any bond
// from the issuer. Funds come first, then companies, each ascending by id.
func (s *holdingService) FindHolders(ctx context.Context, issuerName string, scope HoldingScope) ([]models.HolderRef, error) {
	holders := []models.HolderRef{}

	issuerName = strings.TrimSpace(issuerName)
	if issuerName == "" {
		return holders, nil
	}

	bondIDs, err := s.issuerBondIDs(ctx, issuerName)
	if err != nil {
		return nil, err
	}
	if len(bondIDs) == 0 {
		return holders, nil
	}

	fundIDs, err := s.distinctHolderIDs(ctx, "fund_id", bondIDs, scope)
	if err != nil {
		return nil, err
	}
	companyIDs, err := s.distinctHolderIDs(ctx, "company_id", bondIDs, scope)
	if err != nil {
		return nil, err
	}

	for _, id := range fundIDs {
		holders = append(holders, models.FundHolder(id))
	}
	for _, id := range companyIDs {
		holders = append(holders, models.CompanyHolder(id))
	}
	return holders, nil
}

func (s *holdingService) issuerBondIDs(ctx context.Context, issuerName string) ([]string, error) {
	query := s.db.WithContext(ctx).
		Model(&models.Bond{}).
		Joins("JOIN issuers ON issuers.id = bonds.issuer_id AND issuers.deleted_at IS NULL")

	if s.issuerMatch == IssuerMatchFuzzy {
		query = query.Where(`LOWER(issuers.name) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(issuerName))+"%")
	} else {
		query = query.Where("issuers.name = ?", issuerName)
	}

	var ids []string
	if err := query.Pluck("bonds.id", &ids).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return ids, nil
}

// distinctHolderIDs plucks the distinct non-null values of column (fund_id
// or company_id) over holdings of the given bonds.
func (s *holdingService) distinctHolderIDs(ctx context.Context, column string, bondIDs []string, scope HoldingScope) ([]string, error) {
	query := s.db.WithContext(ctx).
		Model(&models.Holding{}).
		Where("bond_id IN ?", bondIDs).
		Where(column + " IS NOT NULL")

	if scope == HoldingScopeCurrent {
		query = query.Where("is_current = ?", true)
	}

	var ids []string
	if err := query.Distinct().Order(column+" ASC").Pluck(column, &ids).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return ids, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern using '\' as the
// escape character.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

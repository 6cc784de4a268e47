package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bondmatch/internal/bondref"
	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/logger"
	"bondmatch/internal/models"
	"bondmatch/internal/term"
)

// BondSource records where a resolved bond reference came from.
type BondSource string

const (
	BondSourceLookup BondSource = "lookup"
	BondSourceLocal  BondSource = "local"
)

// ResolvedBond is the outcome of issuer resolution.
type ResolvedBond struct {
	Reference bondref.BondReference
	Source    BondSource
	Term      term.Term
}

// bondService resolves bond codes through the reference lookup with a
// fallback to locally stored bonds.
type bondService struct {
	db     *gorm.DB
	lookup bondref.Lookup
}

// NewBondService creates a new BondServicer.
func NewBondService(db *gorm.DB, lookup bondref.Lookup) BondServicer {
	return &bondService{db: db, lookup: lookup}
}

// ResolveIssuer returns the reference data for bondCode. Lookup data wins;
// when the lookup has nothing or is unavailable the local bond is used.
// Refreshing the local row is best effort and never fails resolution.
func (s *bondService) ResolveIssuer(ctx context.Context, bondCode string) (*ResolvedBond, error) {
	code := strings.TrimSpace(bondCode)
	if code == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "bond_code is required")
	}

	ref, err := s.lookup.LookupByCode(ctx, code)
	switch {
	case err == nil:
		if _, err := s.RefreshBond(ctx, ref); err != nil {
			logger.Get().Warnw("bond refresh failed",
				"bond_code", ref.BondCode,
				"error", err,
			)
		}
		return &ResolvedBond{
			Reference: *ref,
			Source:    BondSourceLookup,
			Term:      ref.RemainingTermDisplay(),
		}, nil
	case errors.Is(err, bondref.ErrNotFound):
	default:
		logger.Get().Warnw("bond reference lookup unavailable, falling back to local store",
			"bond_code", code,
			"provider", s.lookup.Name(),
			"error", err,
		)
	}

	bond, err := s.findLocal(ctx, code)
	if err != nil {
		return nil, err
	}
	local := referenceFromBond(bond)
	return &ResolvedBond{
		Reference: local,
		Source:    BondSourceLocal,
		Term:      local.RemainingTermDisplay(),
	}, nil
}

// LookupByCode queries the reference lookup directly.
func (s *bondService) LookupByCode(ctx context.Context, code string) (*bondref.BondReference, error) {
	ref, err := s.lookup.LookupByCode(ctx, strings.TrimSpace(code))
	return ref, lookupError(err)
}

// LookupByAbbreviation returns the first bond whose name or issuer contains text.
func (s *bondService) LookupByAbbreviation(ctx context.Context, text string) (*bondref.BondReference, error) {
	ref, err := s.lookup.LookupByAbbreviation(ctx, strings.TrimSpace(text))
	return ref, lookupError(err)
}

// RefreshBond copies the bond name and remaining term from ref onto the local
// bond with the same code, writing only the columns that differ. It reports
// whether a write happened. Bonds that are not stored locally are left alone.
func (s *bondService) RefreshBond(ctx context.Context, ref *bondref.BondReference) (bool, error) {
	changed, _, err := s.refresh(ctx, ref)
	return changed, err
}

// RefreshByCode looks code up and refreshes the matching local bond.
func (s *bondService) RefreshByCode(ctx context.Context, code string) (bool, error) {
	ref, err := s.LookupByCode(ctx, code)
	if err != nil {
		return false, err
	}
	changed, found, err := s.refresh(ctx, ref)
	if err != nil {
		return false, err
	}
	if !found {
		return false, apperrors.ErrBondNotFound
	}
	return changed, nil
}

func (s *bondService) refresh(ctx context.Context, ref *bondref.BondReference) (changed, found bool, err error) {
	var bond models.Bond
	if err := s.db.WithContext(ctx).Where("code = ?", ref.BondCode).First(&bond).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, false, nil
		}
		return false, false, apperrors.Wrap(apperrors.ErrRefreshFailed, err)
	}

	updates := map[string]any{}
	if ref.BondName != "" && ref.BondName != bond.Name {
		updates["name"] = ref.BondName
	}
	if ref.RemainingTerm.Valid {
		remaining := ref.RemainingTerm.Decimal.Round(bondref.RemainingTermScale)
		if !bond.RemainingTerm.Valid || !bond.RemainingTerm.Decimal.Equal(remaining) {
			updates["remaining_term"] = decimal.NewNullDecimal(remaining)
		}
	}
	if len(updates) == 0 {
		return false, true, nil
	}

	if err := s.db.WithContext(ctx).Model(&bond).Updates(updates).Error; err != nil {
		return false, true, apperrors.Wrap(apperrors.ErrRefreshFailed, err)
	}

	logger.Get().Infow("bond refreshed from reference lookup",
		"bond_code", ref.BondCode,
		"fields", len(updates),
	)
	return true, true, nil
}

func (s *bondService) findLocal(ctx context.Context, code string) (*models.Bond, error) {
	var bond models.Bond
	err := s.db.WithContext(ctx).
		Preload("Issuer").
		Where("code = ?", code).
		First(&bond).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBondNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &bond, nil
}

// referenceFromBond builds a BondReference from a stored bond. Local rows
// carry no upstream day count.
func referenceFromBond(b *models.Bond) bondref.BondReference {
	ref := bondref.BondReference{
		BondCode:      b.Code,
		BondName:      b.Name,
		Issuer:        b.Issuer.Name,
		IssueDate:     bondref.Date{Time: b.IssueDate},
		RemainingTerm: b.RemainingTerm,
		CouponRate:    b.CouponRate,
		CanBeRedeemed: b.CanBeRedeemed,
	}
	if b.MaturityDate != nil {
		ref.MaturityDate = &bondref.Date{Time: *b.MaturityDate}
	}
	if b.TermYears.GreaterThan(decimal.Zero) {
		ref.TermYears = decimal.NewNullDecimal(b.TermYears)
		ref.Term = b.TermYears.String() + "Y"
	}
	return ref
}

// lookupError maps lookup failures onto the application error taxonomy.
func lookupError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bondref.ErrNotFound):
		return apperrors.ErrBondNotFound
	default:
		return apperrors.Wrap(apperrors.ErrLookupUnavailable, err)
	}
}

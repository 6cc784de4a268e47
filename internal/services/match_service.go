package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"bondmatch/internal/bondref"
	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/logger"
	"bondmatch/internal/models"
)

// NoHoldersMessage accompanies a match with no potential buyers.
const NoHoldersMessage = "没有找到该发行人债券的历史持有人"

// MatchOptions adjusts a single match request.
type MatchOptions struct {
	// CurrentOnly restricts evidence to positions still held, overriding
	// the configured scope.
	CurrentOnly bool
}

// BondInfo is the resolved bond with its display-ready remaining term.
type BondInfo struct {
	bondref.BondReference
	RemainingTermDisplay string     `json:"remaining_term_display"`
	Source               BondSource `json:"source"`
}

// PotentialBuyer is one holder in a match result. FundName and FundManager
// are nil for companies that held directly.
type PotentialBuyer struct {
	HolderKind     models.HolderKind  `json:"holder_kind"`
	HolderID       string             `json:"holder_id"`
	CompanyName    string             `json:"company_name"`
	CompanyType    models.CompanyType `json:"company_type"`
	FundName       *string            `json:"fund_name"`
	FundManager    *string            `json:"fund_manager"`
	PrimaryContact *models.Person     `json:"primary_contact"`
	AllContacts    []models.Person    `json:"all_contacts"`
}

// MatchResult is the answer to a match request. An empty PotentialBuyers
// list comes with a Message and is not an error.
type MatchResult struct {
	BondInfo        BondInfo         `json:"bond_info"`
	PotentialBuyers []PotentialBuyer `json:"potential_buyers"`
	Message         string           `json:"message,omitempty"`
}

// matchService assembles match results from the resolver, aggregator and
// contact services.
type matchService struct {
	db           *gorm.DB
	bonds        BondServicer
	holdings     HoldingServicer
	contacts     ContactServicer
	history      SearchHistoryServicer
	defaultScope HoldingScope
}

// NewMatchService creates a new MatchServicer.
func NewMatchService(
	db *gorm.DB,
	bonds BondServicer,
	holdings HoldingServicer,
	contacts ContactServicer,
	history SearchHistoryServicer,
	defaultScope HoldingScope,
) MatchServicer {
	return &matchService{
		db:           db,
		bonds:        bonds,
		holdings:     holdings,
		contacts:     contacts,
		history:      history,
		defaultScope: defaultScope,
	}
}

// Match resolves bondCode to its issuer and returns every fund or company
// that has held the issuer's bonds, with contacts. Each completed match,
// empty or not, is recorded once in the user's search history. A bond that
// cannot be resolved fails with ErrBondNotFound and is not recorded.
func (s *matchService) Match(ctx context.Context, bondCode, userID string, opts MatchOptions) (*MatchResult, error) {
	resolved, err := s.bonds.ResolveIssuer(ctx, bondCode)
	if err != nil {
		return nil, err
	}

	scope := s.defaultScope
	if opts.CurrentOnly {
		scope = HoldingScopeCurrent
	}

	holders, err := s.holdings.FindHolders(ctx, resolved.Reference.Issuer, scope)
	if err != nil {
		return nil, err
	}

	buyers, err := s.assemble(ctx, holders)
	if err != nil {
		return nil, err
	}

	result := &MatchResult{
		BondInfo: BondInfo{
			BondReference:        resolved.Reference,
			RemainingTermDisplay: resolved.Term.Display,
			Source:               resolved.Source,
		},
		PotentialBuyers: buyers,
	}
	if len(buyers) == 0 {
		result.Message = NoHoldersMessage
	}

	s.history.Record(ctx, SearchEntry{
		UserID:      userID,
		Query:       strings.TrimSpace(bondCode),
		BondCode:    resolved.Reference.BondCode,
		BondName:    resolved.Reference.BondName,
		ResultCount: len(buyers),
	})

	return result, nil
}

// assemble builds one PotentialBuyer per holder, in holder order. Funds and
// companies are loaded in two batched queries.
func (s *matchService) assemble(ctx context.Context, holders []models.HolderRef) ([]PotentialBuyer, error) {
	buyers := make([]PotentialBuyer, 0, len(holders))
	if len(holders) == 0 {
		return buyers, nil
	}

	funds, companies, err := s.loadHolders(ctx, holders)
	if err != nil {
		return nil, err
	}

	for _, holder := range holders {
		buyer := PotentialBuyer{
			HolderKind: holder.Kind(),
			HolderID:   holder.ID(),
		}

		switch holder.Kind() {
		case models.HolderKindFund:
			fund, ok := funds[holder.ID()]
			if !ok {
				logger.Get().Warnw("holding references missing fund", "fund_id", holder.ID())
				continue
			}
			name, manager := fund.Name, fund.Manager
			buyer.CompanyName = fund.FundCompany.Name
			buyer.CompanyType = fund.FundCompany.Type
			buyer.FundName = &name
			buyer.FundManager = &manager
		case models.HolderKindCompany:
			company, ok := companies[holder.ID()]
			if !ok {
				logger.Get().Warnw("holding references missing company", "company_id", holder.ID())
				continue
			}
			buyer.CompanyName = company.Name
			buyer.CompanyType = company.Type
		}

		roster, err := s.contacts.ResolveContacts(ctx, holder)
		if err != nil {
			return nil, err
		}
		buyer.PrimaryContact = roster.Primary
		buyer.AllContacts = roster.All
		if buyer.AllContacts == nil {
			buyer.AllContacts = []models.Person{}
		}

		buyers = append(buyers, buyer)
	}
	return buyers, nil
}

func (s *matchService) loadHolders(ctx context.Context, holders []models.HolderRef) (map[string]models.Fund, map[string]models.FundCompany, error) {
	var fundIDs, companyIDs []string
	for _, h := range holders {
		switch h.Kind() {
		case models.HolderKindFund:
			fundIDs = append(fundIDs, h.ID())
		case models.HolderKindCompany:
			companyIDs = append(companyIDs, h.ID())
		}
	}

	funds := make(map[string]models.Fund, len(fundIDs))
	if len(fundIDs) > 0 {
		var rows []models.Fund
		if err := s.db.WithContext(ctx).Preload("FundCompany").Where("id IN ?", fundIDs).Find(&rows).Error; err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, f := range rows {
			funds[f.ID] = f
		}
	}

	companies := make(map[string]models.FundCompany, len(companyIDs))
	if len(companyIDs) > 0 {
		var rows []models.FundCompany
		if err := s.db.WithContext(ctx).Where("id IN ?", companyIDs).Find(&rows).Error; err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, c := range rows {
			companies[c.ID] = c
		}
	}

	return funds, companies, nil
}

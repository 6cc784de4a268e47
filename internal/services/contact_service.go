package services

import (
	"context"

	"gorm.io/gorm"

	apperrors "bondmatch/internal/errors"
	"bondmatch/internal/models"
)

// ContactRoster is a holder's contacts and the one chosen as primary.
type ContactRoster struct {
	Primary *models.Person  `json:"primary_contact"`
	All     []models.Person `json:"all_contacts"`
}

// contactService resolves holder contacts.
type contactService struct {
	db *gorm.DB
}

// NewContactService creates a new ContactServicer.
func NewContactService(db *gorm.DB) ContactServicer {
	return &contactService{db: db}
}

// ResolveContacts loads every person attached to holder, ordered by id, and
// selects a primary contact. A roster without a primary is not an error.
func (s *contactService) ResolveContacts(ctx context.Context, holder models.HolderRef) (*ContactRoster, error) {
	if holder.IsZero() {
		return nil, apperrors.ErrInvalidHolder
	}

	query := s.db.WithContext(ctx)
	switch holder.Kind() {
	case models.HolderKindFund:
		query = query.Where("fund_id = ?", holder.ID())
	case models.HolderKindCompany:
		query = query.Where("company_id = ?", holder.ID())
	default:
		return nil, apperrors.ErrInvalidHolder
	}

	people := []models.Person{}
	if err := query.Order("id ASC").Find(&people).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &ContactRoster{
		Primary: selectPrimary(holder.Kind(), people),
		All:     people,
	}, nil
}

// selectPrimary applies the precedence: an is_primary contact, then for
// company holders an is_leader contact, then none.
func selectPrimary(kind models.HolderKind, people []models.Person) *models.Person {
	for i := range people {
		if people[i].IsPrimary {
			p := people[i]
			return &p
		}
	}
	if kind == models.HolderKindCompany {
		for i := range people {
			if people[i].IsLeader {
				p := people[i]
				return &p
			}
		}
	}
	return nil
}

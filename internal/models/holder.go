package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrHolderExclusive is returned when a holding or contact row references
// both a fund and a company, or neither.
var ErrHolderExclusive = errors.New("exactly one of fund_id or company_id must be set")

// HolderKind tags which entity a HolderRef points at.
type HolderKind string

const (
	HolderKindFund    HolderKind = "fund"
	HolderKindCompany HolderKind = "company"
)

// HolderRef identifies a holder entity: either a Fund or a FundCompany that
// held bonds directly. The fields are unexported so a value can only be built
// through FundHolder or CompanyHolder, which rules out the both-set and
// neither-set states.
type HolderRef struct {
	kind HolderKind
	id   string
}

// ContactOwner identifies the entity a Person is attached to. It is the same
// fund-or-company variant as HolderRef.
type ContactOwner = HolderRef

// FundHolder returns a reference to a fund.
func FundHolder(fundID string) HolderRef {
	return HolderRef{kind: HolderKindFund, id: fundID}
}

// CompanyHolder returns a reference to a fund company holding directly.
func CompanyHolder(companyID string) HolderRef {
	return HolderRef{kind: HolderKindCompany, id: companyID}
}

// Kind returns the holder kind.
func (h HolderRef) Kind() HolderKind { return h.kind }

// ID returns the fund or company id.
func (h HolderRef) ID() string { return h.id }

// IsZero reports whether the reference was never set.
func (h HolderRef) IsZero() bool { return h.kind == "" || h.id == "" }

// String renders the reference as "kind:id".
func (h HolderRef) String() string {
	return fmt.Sprintf("%s:%s", h.kind, h.id)
}

// MarshalJSON renders the reference as {"kind": ..., "id": ...}.
func (h HolderRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind HolderKind `json:"kind"`
		ID   string     `json:"id"`
	}{h.kind, h.id})
}

// columns maps the reference onto the nullable fund_id/company_id pair used
// by the relational schema.
func (h HolderRef) columns() (fundID, companyID *string) {
	id := h.id
	switch h.kind {
	case HolderKindFund:
		return &id, nil
	case HolderKindCompany:
		return nil, &id
	}
	return nil, nil
}

// holderFromColumns is the inverse of columns. It fails unless exactly one
// column is set.
func holderFromColumns(fundID, companyID *string) (HolderRef, error) {
	hasFund := fundID != nil && *fundID != ""
	hasCompany := companyID != nil && *companyID != ""
	switch {
	case hasFund && !hasCompany:
		return FundHolder(*fundID), nil
	case hasCompany && !hasFund:
		return CompanyHolder(*companyID), nil
	}
	return HolderRef{}, ErrHolderExclusive
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bond is a single issue from an Issuer, keyed globally by its code
// (e.g. "220501.IB").
type Bond struct {
	Base
	Code            string              `gorm:"uniqueIndex;not null" json:"bond_code"`
	Name            string              `json:"bond_name"`
	IssuerID        string              `gorm:"type:uuid;not null;index" json:"issuer_id"`
	IssueDate       time.Time           `gorm:"type:date;not null" json:"issue_date"`
	MaturityDate    *time.Time          `gorm:"type:date" json:"maturity_date,omitempty"`
	CouponRate      decimal.NullDecimal `gorm:"type:decimal(8,4)" json:"coupon_rate"`
	TermYears       decimal.Decimal     `gorm:"type:decimal(6,2);not null" json:"term_years"`
	RemainingTerm   decimal.NullDecimal `gorm:"type:decimal(8,4)" json:"remaining_term"`
	CanBeRedeemed   bool                `gorm:"not null;default:false" json:"can_be_redeemed"`
	OtherAttributes string              `json:"other_attributes,omitempty"`

	Issuer Issuer `gorm:"foreignKey:IssuerID" json:"issuer"`
}

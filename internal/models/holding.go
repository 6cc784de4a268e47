package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Holding records that a fund or a company held a bond over a date range.
// (holder, bond, purchase_date) is unique; the two composite indexes below
// cover the fund and the company side since only one of them is ever set.
type Holding struct {
	Base
	FundID                  *string             `gorm:"type:uuid;index;uniqueIndex:uq_holdings_fund_bond_date" json:"fund_id,omitempty"`
	CompanyID               *string             `gorm:"type:uuid;index;uniqueIndex:uq_holdings_company_bond_date" json:"company_id,omitempty"`
	BondID                  string              `gorm:"type:uuid;not null;index;uniqueIndex:uq_holdings_fund_bond_date;uniqueIndex:uq_holdings_company_bond_date" json:"bond_id"`
	PurchaseDate            time.Time           `gorm:"type:date;not null;uniqueIndex:uq_holdings_fund_bond_date;uniqueIndex:uq_holdings_company_bond_date" json:"purchase_date"`
	SellDate                *time.Time          `gorm:"type:date" json:"sell_date,omitempty"`
	RemainingTermAtPurchase decimal.NullDecimal `gorm:"type:decimal(8,4)" json:"remaining_term_at_purchase"`
	HoldingAmount           decimal.Decimal     `gorm:"type:decimal(18,2);not null" json:"holding_amount"`
	HoldingPercentage       decimal.NullDecimal `gorm:"type:decimal(8,4)" json:"holding_percentage"`
	IsCurrent               bool                `gorm:"not null" json:"is_current_holding"`

	Bond Bond `gorm:"foreignKey:BondID" json:"-"`
}

// SetHolder points the holding at a fund or a company.
func (h *Holding) SetHolder(holder HolderRef) {
	h.FundID, h.CompanyID = holder.columns()
}

// Holder returns the fund or company that held the bond.
func (h *Holding) Holder() (HolderRef, error) {
	return holderFromColumns(h.FundID, h.CompanyID)
}

// BeforeSave rejects rows that break the fund-xor-company rule.
func (h *Holding) BeforeSave(tx *gorm.DB) error {
	_, err := h.Holder()
	return err
}

package models

import "github.com/shopspring/decimal"

// CompanyType classifies a FundCompany.
type CompanyType string

const (
	CompanyTypeFund      CompanyType = "FUND"
	CompanyTypeWealth    CompanyType = "WEALTH"
	CompanyTypeBroker    CompanyType = "BROKER"
	CompanyTypeInsurance CompanyType = "INSURANCE"
	CompanyTypeBank      CompanyType = "BANK"
	CompanyTypeOther     CompanyType = "OTHER"
)

// FundCompany is an institution that manages funds and may also hold bonds
// directly.
type FundCompany struct {
	Base
	Name        string              `gorm:"uniqueIndex;not null" json:"company_name"`
	Type        CompanyType         `gorm:"not null;default:'FUND'" json:"company_type"`
	ContactInfo string              `json:"contact_info,omitempty"`
	AUM         decimal.NullDecimal `gorm:"type:decimal(18,2)" json:"aum"`
	OtherInfo   string              `json:"other_info,omitempty"`
	Funds       []Fund              `gorm:"foreignKey:FundCompanyID" json:"funds,omitempty"`
}

// Fund is a product managed by exactly one FundCompany.
type Fund struct {
	Base
	FundCompanyID   string `gorm:"type:uuid;not null;index" json:"fund_company_id"`
	Name            string `gorm:"not null" json:"fund_name"`
	Manager         string `json:"fund_manager,omitempty"`
	ContactEmail    string `json:"contact_email,omitempty"`
	ContactPhone    string `json:"contact_phone,omitempty"`
	OtherAttributes string `json:"other_attributes,omitempty"`

	FundCompany FundCompany `gorm:"foreignKey:FundCompanyID" json:"fund_company"`
}

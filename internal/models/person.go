package models

import "gorm.io/gorm"

// Person is a contact at a fund or at a fund company. Exactly one of FundID
// and CompanyID is set; use SetOwner/Owner instead of writing them directly.
type Person struct {
	Base
	FundID    *string `gorm:"type:uuid;index" json:"fund_id,omitempty"`
	CompanyID *string `gorm:"type:uuid;index" json:"company_id,omitempty"`
	Name      string  `gorm:"not null" json:"name"`
	Role      string  `json:"role"`
	Phone     string  `json:"phone,omitempty"`
	Mobile    string  `json:"mobile,omitempty"`
	Email     string  `json:"email,omitempty"`
	WeChat    string  `gorm:"column:wechat" json:"wechat,omitempty"`
	QQ        string  `gorm:"column:qq" json:"qq,omitempty"`
	QT        string  `gorm:"column:qt" json:"qt,omitempty"`
	IsPrimary bool    `gorm:"not null;default:false" json:"is_primary"`
	IsLeader  bool    `gorm:"not null;default:false" json:"is_leader"`
}

// SetOwner attaches the person to a fund or a company.
func (p *Person) SetOwner(owner ContactOwner) {
	p.FundID, p.CompanyID = owner.columns()
}

// Owner returns the fund or company the person belongs to.
func (p *Person) Owner() (ContactOwner, error) {
	return holderFromColumns(p.FundID, p.CompanyID)
}

// BeforeSave rejects rows that break the fund-xor-company rule.
func (p *Person) BeforeSave(tx *gorm.DB) error {
	_, err := p.Owner()
	return err
}

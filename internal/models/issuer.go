package models

// Issuer is the legal entity that issued a bond. Its name is its identity.
type Issuer struct {
	Base
	Name      string `gorm:"uniqueIndex;not null" json:"issuer_name"`
	OtherInfo string `json:"other_info,omitempty"`
	Bonds     []Bond `gorm:"foreignKey:IssuerID" json:"bonds,omitempty"`
}

package models

// AuditLog records account and operations events (logins, password resets,
// pipeline refreshes). Match queries go to SearchHistory instead.
type AuditLog struct {
	Base
	UserID       string `gorm:"size:36;index" json:"user_id,omitempty"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `json:"resource_id,omitempty"`
	IPAddress    string `json:"ip_address"`
	Changes      string `json:"changes,omitempty"`
}

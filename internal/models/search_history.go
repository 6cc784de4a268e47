package models

import (
	"time"

	"bondmatch/internal/uuid"

	"gorm.io/gorm"
)

// SearchHistory is an append-only record of one match query. Rows are never
// updated or deleted, so there are no UpdatedAt/DeletedAt columns.
type SearchHistory struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;index:idx_search_histories_user_created" json:"user_id"`
	Query       string    `gorm:"not null" json:"query"`
	BondCode    string    `json:"bond_code,omitempty"`
	BondName    string    `json:"bond_name,omitempty"`
	ResultCount int       `gorm:"not null;default:0" json:"result_count"`
	CreatedAt   time.Time `gorm:"index:idx_search_histories_user_created" json:"timestamp"`
}

// BeforeCreate assigns a UUIDv7 id.
func (s *SearchHistory) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Site is the tenant root. Every other entity carries a site id, either
// directly or through its board, and every query filters by it.
type Site struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Subdomain      string    `gorm:"not null;uniqueIndex"`
	CustomDomain   *string   `gorm:"uniqueIndex"`
	OrganizationID string    `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (s *Site) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

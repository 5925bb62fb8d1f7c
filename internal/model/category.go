package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups boards for filtering and routes production tasks.
// Deleting a category detaches referencing boards instead of cascading,
// so a nil CategoryID on a board always means "no category".
type Category struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	SiteID       uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_categories_site_identifier"`
	Name         string    `gorm:"not null"`
	Identifier   string    `gorm:"not null;uniqueIndex:idx_categories_site_identifier"`
	DisplayOrder int       `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Site Site `gorm:"foreignKey:SiteID"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

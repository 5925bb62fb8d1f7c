package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Board is a named kanban workflow scoped to a site. Identifier is unique
// within the site. Offer boards may point at a target work/invoice board
// that converted tasks are routed to.
type Board struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SiteID               uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_boards_site_identifier"`
	Title                string     `gorm:"not null"`
	Identifier           string     `gorm:"not null;uniqueIndex:idx_boards_site_identifier"`
	CategoryID           *uuid.UUID `gorm:"type:uuid;index"`
	IsProductionBoard    bool       `gorm:"not null;default:false"`
	IsOfferBoard         bool       `gorm:"not null;default:false"`
	TargetWorkBoardID    *uuid.UUID `gorm:"type:uuid"`
	TargetInvoiceBoardID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt            time.Time
	UpdatedAt            time.Time

	Site Site `gorm:"foreignKey:SiteID"`
}

func (b *Board) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Column types used by the dashboard views. Columns are dynamic states,
// not a fixed enum; the type only drives presentation and routing hints.
const (
	ColumnTypeStandard = "standard"
	ColumnTypeDone     = "done"
)

type Column struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	BoardID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Title            string    `gorm:"not null"`
	Identifier       string    `gorm:"not null"`
	Position         int       `gorm:"not null"`
	ColumnType       string    `gorm:"not null;default:standard"`
	IsCreationColumn bool      `gorm:"not null;default:false"`

	Board Board `gorm:"foreignKey:BoardID"`
}

func (c *Column) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

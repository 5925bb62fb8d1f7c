package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a unit of work moving across columns of a board. Archived is a
// soft-delete flag orthogonal to the column; archived tasks stay around
// for audit and history. ParentTaskID links a work order back to the
// offer it was generated from.
type Task struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	SiteID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	BoardID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	ColumnID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title         string     `gorm:"not null"`
	UniqueCode    string     `gorm:"not null;index"`
	Position      int        `gorm:"not null;default:0"`
	Archived      bool       `gorm:"not null;default:false;index"`
	AutoArchiveAt *time.Time `gorm:"index"`
	ClientID      *uuid.UUID `gorm:"type:uuid"`
	ParentTaskID  *uuid.UUID `gorm:"type:uuid;index"`
	DeliveryDate  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Site   Site   `gorm:"foreignKey:SiteID"`
	Board  Board  `gorm:"foreignKey:BoardID"`
	Column Column `gorm:"foreignKey:ColumnID"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Action types recorded by the audit trail.
const (
	ActionTaskUpdate        = "task_update"
	ActionTaskArchive       = "task_archive"
	ActionTaskUnarchive     = "task_unarchive"
	ActionOfferConvert      = "offer_convert"
	ActionBoardDelete       = "board_delete"
	ActionBoardDuplicate    = "board_duplicate"
	ActionCategorySave      = "category_save"
	ActionCategoryDelete    = "category_delete"
	ActionCategoryDuplicate = "category_duplicate"
)

// Action is an append-only audit record of a state-mutating operation.
// Never updated or deleted.
type Action struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Type           string         `gorm:"not null;index"`
	Data           datatypes.JSON `gorm:"type:jsonb"`
	UserID         string         `gorm:"not null"`
	SiteID         *uuid.UUID     `gorm:"type:uuid;index"`
	OrganizationID *string
	CreatedAt      time.Time `gorm:"not null;index"`
}

func (a *Action) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

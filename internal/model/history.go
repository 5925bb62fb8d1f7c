package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskSnapshotSchemaVersion tags the snapshot payload shape so later
// readers can interpret older rows.
const TaskSnapshotSchemaVersion = 1

// TaskHistory is an append-only, denormalized point-in-time record of a
// task's state. The snapshot carries board/column identifiers and titles
// as of capture time so it stays meaningful after renames or deletes.
type TaskHistory struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TaskID    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Snapshot  datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null;index"`
}

func (h *TaskHistory) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// SnapshotCursor is the single shared row claimed atomically before a
// history capture. The cooldown is global across sites.
type SnapshotCursor struct {
	ID             int       `gorm:"primaryKey"`
	LastCapturedAt time.Time `gorm:"not null"`
}

func (SnapshotCursor) TableName() string { return "snapshot_cursors" }

package repository

import (
	"context"
	"time"

	"officina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const snapshotCursorID = 1

type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Insert(ctx context.Context, history *model.TaskHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *HistoryRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.TaskHistory, error) {
	var rows []model.TaskHistory
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at").
		Find(&rows).Error
	return rows, err
}

func (r *HistoryRepository) CountByTask(ctx context.Context, taskID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.TaskHistory{}).
		Where("task_id = ?", taskID).
		Count(&count).Error
	return count, err
}

// ClaimWindow atomically claims the global snapshot window. It succeeds
// when no capture has ever run, or when the last one is older than the
// cooldown; two concurrent callers cannot both win the same window.
func (r *HistoryRepository) ClaimWindow(ctx context.Context, now time.Time, cooldown time.Duration) (bool, error) {
	cursor := model.SnapshotCursor{ID: snapshotCursorID, LastCapturedAt: now}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&cursor)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		// First capture ever; the insert itself claimed the window.
		return true, nil
	}

	result = r.db.WithContext(ctx).Model(&model.SnapshotCursor{}).
		Where("id = ? AND last_captured_at < ?", snapshotCursorID, now.Add(-cooldown)).
		Update("last_captured_at", now)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

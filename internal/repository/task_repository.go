package repository

import (
	"context"
	"errors"
	"time"

	"officina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) GetByID(ctx context.Context, siteID, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Where("id = ? AND site_id = ?", id, siteID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) GetByColumn(ctx context.Context, siteID, columnID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("site_id = ? AND column_id = ? AND archived = ?", siteID, columnID, false).
		Order("position").
		Find(&tasks).Error
	return tasks, err
}

// ListActive returns the non-archived tasks of a site, the set snapshotted
// by the history engine.
func (r *TaskRepository) ListActive(ctx context.Context, siteID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("site_id = ? AND archived = ?", siteID, false).
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) CountByBoard(ctx context.Context, siteID, boardID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("site_id = ? AND board_id = ?", siteID, boardID).
		Count(&count).Error
	return count, err
}

func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// SetArchived toggles the archived flag. The update is scoped by site when
// one is given; a nil siteID proceeds unscoped (system operations).
func (r *TaskRepository) SetArchived(ctx context.Context, siteID *uuid.UUID, taskID uuid.UUID, archived bool) (int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", taskID)
	if siteID != nil {
		query = query.Where("site_id = ?", *siteID)
	}
	result := query.Updates(map[string]interface{}{
		"archived":   archived,
		"updated_at": time.Now(),
	})
	return result.RowsAffected, result.Error
}

// CodesMatching fetches, in one query, every code of the site equal to base
// or carrying a numeric suffix of it ("base.N"), ignoring case. The
// disambiguator probes against this set in memory instead of
// round-tripping per candidate.
func (r *TaskRepository) CodesMatching(ctx context.Context, siteID uuid.UUID, base string) ([]string, error) {
	var codes []string
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("site_id = ?", siteID).
		Where("LOWER(unique_code) = LOWER(?) OR LOWER(unique_code) LIKE LOWER(?)", base, base+".%").
		Pluck("unique_code", &codes).Error
	return codes, err
}

// CountActiveChildren counts non-archived tasks generated from the parent.
func (r *TaskRepository) CountActiveChildren(ctx context.Context, siteID, parentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("site_id = ? AND parent_task_id = ? AND archived = ?", siteID, parentID, false).
		Count(&count).Error
	return count, err
}

// FindExpired returns non-archived tasks whose auto-archive timestamp has
// passed. Unscoped by design: the sweep covers all sites.
func (r *TaskRepository) FindExpired(ctx context.Context, now time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Where("archived = ? AND auto_archive_at IS NOT NULL AND auto_archive_at <= ?", false, now).
		Find(&tasks).Error
	return tasks, err
}

// BulkArchive archives exactly the given ids in a single statement.
func (r *TaskRepository) BulkArchive(ctx context.Context, ids []uuid.UUID, now time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"archived":   true,
			"updated_at": now,
		})
	return result.RowsAffected, result.Error
}

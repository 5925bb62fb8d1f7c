package repository

import (
	"context"
	"errors"

	"officina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) ListBySite(ctx context.Context, siteID uuid.UUID) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Order("display_order, name").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) GetByID(ctx context.Context, siteID, id uuid.UUID) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where("id = ? AND site_id = ?", id, siteID).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// IdentifierExists reports whether another category of the site already
// uses the identifier. excludeID skips the record being updated.
func (r *CategoryRepository) IdentifierExists(ctx context.Context, siteID uuid.UUID, identifier string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("site_id = ? AND identifier = ?", siteID, identifier)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *CategoryRepository) Save(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *CategoryRepository) Delete(ctx context.Context, siteID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND site_id = ?", id, siteID).
		Delete(&model.Category{}).Error
}

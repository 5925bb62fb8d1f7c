package repository

import (
	"context"

	"officina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActionRepository appends audit records. Actions are never updated or
// deleted.
type ActionRepository struct {
	db *gorm.DB
}

type ActionRepositoryInterface interface {
	Create(ctx context.Context, action *model.Action) error
	ListBySite(ctx context.Context, siteID uuid.UUID, limit int) ([]model.Action, error)
}

var _ ActionRepositoryInterface = (*ActionRepository)(nil)

func NewActionRepository(db *gorm.DB) *ActionRepository {
	return &ActionRepository{db: db}
}

func (r *ActionRepository) Create(ctx context.Context, action *model.Action) error {
	return r.db.WithContext(ctx).Create(action).Error
}

func (r *ActionRepository) ListBySite(ctx context.Context, siteID uuid.UUID, limit int) ([]model.Action, error) {
	var actions []model.Action
	err := r.db.WithContext(ctx).
		Where("site_id = ?", siteID).
		Order("created_at DESC").
		Limit(limit).
		Find(&actions).Error
	return actions, err
}

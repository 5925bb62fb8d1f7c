package repository

import (
	"context"
	"errors"

	"officina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

func (r *ColumnRepository) Create(ctx context.Context, column *model.Column) error {
	return r.db.WithContext(ctx).Create(column).Error
}

func (r *ColumnRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Column, error) {
	var column model.Column
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&column).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &column, nil
}

func (r *ColumnRepository) GetByBoardID(ctx context.Context, boardID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Order("position").Find(&columns).Error
	return columns, err
}

// GetCreationColumn returns the column new tasks default into. Exactly one
// column per board should carry the flag; if none does, the lowest
// positioned column stands in.
func (r *ColumnRepository) GetCreationColumn(ctx context.Context, boardID uuid.UUID) (*model.Column, error) {
	var column model.Column
	err := r.db.WithContext(ctx).
		Where("board_id = ? AND is_creation_column = ?", boardID, true).
		Order("position").
		First(&column).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = r.db.WithContext(ctx).
			Where("board_id = ?", boardID).
			Order("position").
			First(&column).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
	}
	if err != nil {
		return nil, err
	}
	return &column, nil
}

// GetBySiteID returns every column of a site's boards, used by the history
// engine to denormalize snapshots without one query per task.
func (r *ColumnRepository) GetBySiteID(ctx context.Context, siteID uuid.UUID) ([]model.Column, error) {
	var columns []model.Column
	err := r.db.WithContext(ctx).
		Joins("JOIN boards ON boards.id = columns.board_id").
		Where("boards.site_id = ?", siteID).
		Find(&columns).Error
	return columns, err
}

// Reorder rewrites the position of every listed column in one transaction.
// Reordering is a full rewrite for the board, not an in-place insert.
func (r *ColumnRepository) Reorder(ctx context.Context, columns []model.Column) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, column := range columns {
			if err := tx.Model(&model.Column{}).Where("id = ?", column.ID).
				Update("position", column.Position).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

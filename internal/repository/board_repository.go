package repository

import (
	"context"
	"errors"

	"officina/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BoardRepository accesses boards. Every lookup takes the site id so an
// unscoped query against a tenant-owned table cannot be built by accident.
type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

func (r *BoardRepository) Create(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

func (r *BoardRepository) GetByID(ctx context.Context, siteID, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	err := r.db.WithContext(ctx).Where("id = ? AND site_id = ?", id, siteID).First(&board).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *BoardRepository) ListBySite(ctx context.Context, siteID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).Where("site_id = ?", siteID).Order("title").Find(&boards).Error
	return boards, err
}

// ProductionBoards returns the production boards of a site ordered by title,
// used by category routing.
func (r *BoardRepository) ProductionBoards(ctx context.Context, siteID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).
		Where("site_id = ? AND is_production_board = ?", siteID, true).
		Order("title").
		Find(&boards).Error
	return boards, err
}

func (r *BoardRepository) IdentifierExists(ctx context.Context, siteID uuid.UUID, identifier string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Board{}).
		Where("site_id = ? AND identifier = ?", siteID, identifier).
		Count(&count).Error
	return count > 0, err
}

// DeleteWithColumns removes a board and its columns in one transaction,
// columns first. The caller is responsible for the has-tasks precondition.
func (r *BoardRepository) DeleteWithColumns(ctx context.Context, siteID, boardID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("board_id = ?", boardID).Delete(&model.Column{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND site_id = ?", boardID, siteID).Delete(&model.Board{}).Error
	})
}

// DetachCategory clears category references on boards of a site. Used when
// a category is deleted so boards are orphaned, not removed.
func (r *BoardRepository) DetachCategory(ctx context.Context, siteID, categoryID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Board{}).
		Where("site_id = ? AND category_id = ?", siteID, categoryID).
		Update("category_id", nil).Error
}

package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"officina/internal/model"
	"officina/internal/repository"

	"github.com/google/uuid"
)

// Identifier probing for board duplication is bounded; exhausting it is a
// conflict, not an infinite loop.
const maxDuplicateProbes = 20

var copiaSuffixPattern = regexp.MustCompile(`-copia(-\d+)?$`)

type BoardService struct {
	boards     *repository.BoardRepository
	columns    *repository.ColumnRepository
	categories *repository.CategoryRepository
	tasks      *repository.TaskRepository
	recorder   ActionRecorder
}

func NewBoardService(
	boards *repository.BoardRepository,
	columns *repository.ColumnRepository,
	categories *repository.CategoryRepository,
	tasks *repository.TaskRepository,
	recorder ActionRecorder,
) *BoardService {
	return &BoardService{
		boards:     boards,
		columns:    columns,
		categories: categories,
		tasks:      tasks,
		recorder:   recorder,
	}
}

type ColumnInput struct {
	Title            string
	Identifier       string
	ColumnType       string
	IsCreationColumn bool
}

type BoardInput struct {
	Title                string
	Identifier           string
	CategoryID           *uuid.UUID
	IsProductionBoard    bool
	IsOfferBoard         bool
	TargetWorkBoardID    *uuid.UUID
	TargetInvoiceBoardID *uuid.UUID
	Columns              []ColumnInput
}

// CreateBoard creates a board and its columns. The identifier must be
// unused within the site.
func (s *BoardService) CreateBoard(ctx context.Context, siteID uuid.UUID, input BoardInput) (*model.Board, error) {
	exists, err := s.boards.IdentifierExists(ctx, siteID, input.Identifier)
	if err != nil {
		return nil, storeErr("check board identifier", err)
	}
	if exists {
		return nil, conflict("board identifier %q already in use", input.Identifier)
	}

	board := &model.Board{
		SiteID:               siteID,
		Title:                input.Title,
		Identifier:           input.Identifier,
		CategoryID:           input.CategoryID,
		IsProductionBoard:    input.IsProductionBoard,
		IsOfferBoard:         input.IsOfferBoard,
		TargetWorkBoardID:    input.TargetWorkBoardID,
		TargetInvoiceBoardID: input.TargetInvoiceBoardID,
	}
	if err := s.boards.Create(ctx, board); err != nil {
		return nil, storeErr("create board", err)
	}

	for i, col := range input.Columns {
		columnType := col.ColumnType
		if columnType == "" {
			columnType = model.ColumnTypeStandard
		}
		column := &model.Column{
			BoardID:          board.ID,
			Title:            col.Title,
			Identifier:       col.Identifier,
			Position:         i + 1,
			ColumnType:       columnType,
			IsCreationColumn: col.IsCreationColumn,
		}
		if err := s.columns.Create(ctx, column); err != nil {
			return nil, storeErr("create column", err)
		}
	}
	return board, nil
}

func (s *BoardService) ListBoards(ctx context.Context, siteID uuid.UUID) ([]model.Board, error) {
	boards, err := s.boards.ListBySite(ctx, siteID)
	if err != nil {
		return nil, storeErr("list boards", err)
	}
	return boards, nil
}

func (s *BoardService) GetBoardColumns(ctx context.Context, siteID, boardID uuid.UUID) ([]model.Column, error) {
	board, err := s.boards.GetByID(ctx, siteID, boardID)
	if err != nil {
		return nil, storeErr("get board", err)
	}
	if board == nil {
		return nil, notFound("board")
	}
	columns, err := s.columns.GetByBoardID(ctx, boardID)
	if err != nil {
		return nil, storeErr("list columns", err)
	}
	return columns, nil
}

// DuplicateBoard deep-copies a board and its ordered columns. The copy's
// identifier is probed from the source's base: base-copia, base-copia-1,
// base-copia-2, up to 20 attempts. Column identifiers are rewritten to
// <column>_<newBoardIdentifier> and positions renumbered from 1 so they
// cannot collide with the original board's.
func (s *BoardService) DuplicateBoard(ctx context.Context, siteID, boardID uuid.UUID, userID string) (*model.Board, error) {
	source, err := s.boards.GetByID(ctx, siteID, boardID)
	if err != nil {
		return nil, storeErr("get board", err)
	}
	if source == nil {
		return nil, notFound("board")
	}

	base := copiaSuffixPattern.ReplaceAllString(source.Identifier, "")
	identifier := ""
	for i := 0; i < maxDuplicateProbes; i++ {
		candidate := base + "-copia"
		if i > 0 {
			candidate = fmt.Sprintf("%s-copia-%d", base, i)
		}
		exists, err := s.boards.IdentifierExists(ctx, siteID, candidate)
		if err != nil {
			return nil, storeErr("check board identifier", err)
		}
		if !exists {
			identifier = candidate
			break
		}
	}
	if identifier == "" {
		return nil, conflict("no free identifier for a copy of %q", source.Identifier)
	}

	copy := &model.Board{
		SiteID:               siteID,
		Title:                source.Title + " (copia)",
		Identifier:           identifier,
		CategoryID:           source.CategoryID,
		IsProductionBoard:    source.IsProductionBoard,
		IsOfferBoard:         source.IsOfferBoard,
		TargetWorkBoardID:    source.TargetWorkBoardID,
		TargetInvoiceBoardID: source.TargetInvoiceBoardID,
	}
	if err := s.boards.Create(ctx, copy); err != nil {
		return nil, storeErr("create board copy", err)
	}

	columns, err := s.columns.GetByBoardID(ctx, source.ID)
	if err != nil {
		return nil, storeErr("list columns", err)
	}
	for i, col := range columns {
		stripped := strings.TrimSuffix(col.Identifier, "_"+source.Identifier)
		column := &model.Column{
			BoardID:          copy.ID,
			Title:            col.Title,
			Identifier:       stripped + "_" + identifier,
			Position:         i + 1,
			ColumnType:       col.ColumnType,
			IsCreationColumn: col.IsCreationColumn,
		}
		if err := s.columns.Create(ctx, column); err != nil {
			return nil, storeErr("create column copy", err)
		}
	}

	s.recorder.Record(newAction(model.ActionBoardDuplicate, userID, siteID, map[string]interface{}{
		"source_board_id": source.ID.String(),
		"new_board_id":    copy.ID.String(),
		"new_identifier":  identifier,
	}))
	return copy, nil
}

// DeleteBoard removes a board and its columns. A board with referencing
// tasks cannot be deleted; the check runs before any destructive write and
// the two deletes share one transaction.
func (s *BoardService) DeleteBoard(ctx context.Context, siteID, boardID uuid.UUID, userID string) error {
	board, err := s.boards.GetByID(ctx, siteID, boardID)
	if err != nil {
		return storeErr("get board", err)
	}
	if board == nil {
		return notFound("board")
	}

	count, err := s.tasks.CountByBoard(ctx, siteID, boardID)
	if err != nil {
		return storeErr("count board tasks", err)
	}
	if count > 0 {
		return conflict("board contains associated tasks")
	}

	if err := s.boards.DeleteWithColumns(ctx, siteID, boardID); err != nil {
		return storeErr("delete board", err)
	}

	s.recorder.Record(newAction(model.ActionBoardDelete, userID, siteID, map[string]interface{}{
		"board_id":   boardID.String(),
		"identifier": board.Identifier,
	}))
	return nil
}

// ReorderColumns rewrites the position of every column of the board to the
// given order.
func (s *BoardService) ReorderColumns(ctx context.Context, siteID, boardID uuid.UUID, orderedIDs []uuid.UUID) error {
	board, err := s.boards.GetByID(ctx, siteID, boardID)
	if err != nil {
		return storeErr("get board", err)
	}
	if board == nil {
		return notFound("board")
	}

	existing, err := s.columns.GetByBoardID(ctx, boardID)
	if err != nil {
		return storeErr("list columns", err)
	}
	byID := make(map[uuid.UUID]model.Column, len(existing))
	for _, col := range existing {
		byID[col.ID] = col
	}

	reordered := make([]model.Column, 0, len(orderedIDs))
	for i, id := range orderedIDs {
		col, ok := byID[id]
		if !ok {
			return notFound("column")
		}
		col.Position = i + 1
		reordered = append(reordered, col)
	}

	if err := s.columns.Reorder(ctx, reordered); err != nil {
		return storeErr("reorder columns", err)
	}
	return nil
}

func (s *BoardService) ListCategories(ctx context.Context, siteID uuid.UUID) ([]model.Category, error) {
	categories, err := s.categories.ListBySite(ctx, siteID)
	if err != nil {
		return nil, storeErr("list categories", err)
	}
	return categories, nil
}

type CategoryInput struct {
	ID           *uuid.UUID
	Name         string
	Identifier   string
	DisplayOrder int
}

// SaveCategory creates or updates a category. The identifier must be
// unique within the site, excluding the record being updated.
func (s *BoardService) SaveCategory(ctx context.Context, siteID uuid.UUID, input CategoryInput, userID string) (*model.Category, error) {
	exists, err := s.categories.IdentifierExists(ctx, siteID, input.Identifier, input.ID)
	if err != nil {
		return nil, storeErr("check category identifier", err)
	}
	if exists {
		return nil, conflict("category identifier %q already in use", input.Identifier)
	}

	var category *model.Category
	if input.ID != nil {
		category, err = s.categories.GetByID(ctx, siteID, *input.ID)
		if err != nil {
			return nil, storeErr("get category", err)
		}
		if category == nil {
			return nil, notFound("category")
		}
		category.Name = input.Name
		category.Identifier = input.Identifier
		category.DisplayOrder = input.DisplayOrder
	} else {
		category = &model.Category{
			SiteID:       siteID,
			Name:         input.Name,
			Identifier:   input.Identifier,
			DisplayOrder: input.DisplayOrder,
		}
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, storeErr("save category", err)
	}

	s.recorder.Record(newAction(model.ActionCategorySave, userID, siteID, map[string]interface{}{
		"category_id": category.ID.String(),
		"identifier":  category.Identifier,
	}))
	return category, nil
}

// DuplicateCategory copies a category under a probed identifier, using the
// same copia suffix scheme as board duplication.
func (s *BoardService) DuplicateCategory(ctx context.Context, siteID, categoryID uuid.UUID, userID string) (*model.Category, error) {
	source, err := s.categories.GetByID(ctx, siteID, categoryID)
	if err != nil {
		return nil, storeErr("get category", err)
	}
	if source == nil {
		return nil, notFound("category")
	}

	base := copiaSuffixPattern.ReplaceAllString(source.Identifier, "")
	identifier := ""
	for i := 0; i < maxDuplicateProbes; i++ {
		candidate := base + "-copia"
		if i > 0 {
			candidate = fmt.Sprintf("%s-copia-%d", base, i)
		}
		exists, err := s.categories.IdentifierExists(ctx, siteID, candidate, nil)
		if err != nil {
			return nil, storeErr("check category identifier", err)
		}
		if !exists {
			identifier = candidate
			break
		}
	}
	if identifier == "" {
		return nil, conflict("no free identifier for a copy of %q", source.Identifier)
	}

	copy := &model.Category{
		SiteID:       siteID,
		Name:         source.Name + " (copia)",
		Identifier:   identifier,
		DisplayOrder: source.DisplayOrder,
	}
	if err := s.categories.Save(ctx, copy); err != nil {
		return nil, storeErr("save category copy", err)
	}

	s.recorder.Record(newAction(model.ActionCategoryDuplicate, userID, siteID, map[string]interface{}{
		"source_category_id": source.ID.String(),
		"new_category_id":    copy.ID.String(),
		"new_identifier":     identifier,
	}))
	return copy, nil
}

// DeleteCategory detaches referencing boards, then removes the category.
// Boards are never cascade-deleted; they simply lose the grouping.
func (s *BoardService) DeleteCategory(ctx context.Context, siteID, categoryID uuid.UUID, userID string) error {
	category, err := s.categories.GetByID(ctx, siteID, categoryID)
	if err != nil {
		return storeErr("get category", err)
	}
	if category == nil {
		return notFound("category")
	}

	if err := s.boards.DetachCategory(ctx, siteID, categoryID); err != nil {
		return storeErr("detach category from boards", err)
	}
	if err := s.categories.Delete(ctx, siteID, categoryID); err != nil {
		return storeErr("delete category", err)
	}

	s.recorder.Record(newAction(model.ActionCategoryDelete, userID, siteID, map[string]interface{}{
		"category_id": categoryID.String(),
		"identifier":  category.Identifier,
	}))
	return nil
}

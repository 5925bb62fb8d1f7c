package service

import (
	"context"
	"time"

	"officina/internal/model"
	"officina/internal/repository"

	"github.com/google/uuid"
)

type TaskService struct {
	tasks    *repository.TaskRepository
	boards   *repository.BoardRepository
	columns  *repository.ColumnRepository
	codes    *CodeGenerator
	router   *Router
	recorder ActionRecorder
}

func NewTaskService(
	tasks *repository.TaskRepository,
	boards *repository.BoardRepository,
	columns *repository.ColumnRepository,
	codes *CodeGenerator,
	router *Router,
	recorder ActionRecorder,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		boards:   boards,
		columns:  columns,
		codes:    codes,
		router:   router,
		recorder: recorder,
	}
}

type TaskInput struct {
	BoardID       *uuid.UUID
	CategoryID    *uuid.UUID
	Title         string
	UniqueCode    string
	ClientID      *uuid.UUID
	DeliveryDate  *time.Time
	AutoArchiveAt *time.Time
}

// CreateTask places a new task into the creation column of its board. The
// board is either given explicitly or resolved from the product category
// via the production routing. The task code is disambiguated within the
// site.
func (s *TaskService) CreateTask(ctx context.Context, siteID uuid.UUID, input TaskInput, userID string) (*model.Task, error) {
	var board *model.Board
	var err error

	switch {
	case input.BoardID != nil:
		board, err = s.boards.GetByID(ctx, siteID, *input.BoardID)
		if err != nil {
			return nil, storeErr("get board", err)
		}
	case input.CategoryID != nil:
		board, err = s.router.ProductionBoardFor(ctx, siteID, input.CategoryID)
		if err != nil {
			return nil, err
		}
	}
	if board == nil {
		return nil, notFound("board")
	}

	column, err := s.columns.GetCreationColumn(ctx, board.ID)
	if err != nil {
		return nil, storeErr("get creation column", err)
	}
	if column == nil {
		return nil, conflict("board %q has no columns", board.Identifier)
	}

	task := &model.Task{
		SiteID:        siteID,
		BoardID:       board.ID,
		ColumnID:      column.ID,
		Title:         input.Title,
		UniqueCode:    s.codes.Generate(ctx, siteID, input.UniqueCode),
		ClientID:      input.ClientID,
		DeliveryDate:  input.DeliveryDate,
		AutoArchiveAt: input.AutoArchiveAt,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, storeErr("create task", err)
	}

	s.recorder.Record(newAction(model.ActionTaskUpdate, userID, siteID, map[string]interface{}{
		"task_id":     task.ID.String(),
		"unique_code": task.UniqueCode,
		"operation":   "create",
	}))
	return task, nil
}

// MoveTask moves a task to a column of any board within the same site.
// The transition commits before the audit record is queued; a lost audit
// write never rolls it back.
func (s *TaskService) MoveTask(ctx context.Context, siteID, taskID, targetColumnID uuid.UUID, userID string) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, siteID, taskID)
	if err != nil {
		return nil, storeErr("get task", err)
	}
	if task == nil {
		return nil, notFound("task")
	}

	column, err := s.columns.GetByID(ctx, targetColumnID)
	if err != nil {
		return nil, storeErr("get column", err)
	}
	if column == nil {
		return nil, notFound("column")
	}
	// The target column must belong to a board of the caller's site.
	board, err := s.boards.GetByID(ctx, siteID, column.BoardID)
	if err != nil {
		return nil, storeErr("get column board", err)
	}
	if board == nil {
		return nil, notFound("column")
	}

	task.ColumnID = column.ID
	task.BoardID = column.BoardID
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, storeErr("move task", err)
	}

	s.recorder.Record(newAction(model.ActionTaskUpdate, userID, siteID, map[string]interface{}{
		"task_id":   task.ID.String(),
		"column_id": column.ID.String(),
		"board_id":  board.ID.String(),
		"operation": "move",
	}))
	return task, nil
}

// ArchiveTask toggles the archived flag in either direction. The update is
// site-scoped when a site id is given; system callers without one proceed
// unscoped.
func (s *TaskService) ArchiveTask(ctx context.Context, siteID *uuid.UUID, taskID uuid.UUID, archived bool, userID string) error {
	rows, err := s.tasks.SetArchived(ctx, siteID, taskID, archived)
	if err != nil {
		return storeErr("archive task", err)
	}
	if rows == 0 {
		return notFound("task")
	}

	actionType := model.ActionTaskArchive
	if !archived {
		actionType = model.ActionTaskUnarchive
	}
	scope := uuid.Nil
	if siteID != nil {
		scope = *siteID
	}
	s.recorder.Record(newAction(actionType, userID, scope, map[string]interface{}{
		"task_id":  taskID.String(),
		"archived": archived,
	}))
	return nil
}

func (s *TaskService) GetTasksByColumn(ctx context.Context, siteID, columnID uuid.UUID) ([]model.Task, error) {
	tasks, err := s.tasks.GetByColumn(ctx, siteID, columnID)
	if err != nil {
		return nil, storeErr("list column tasks", err)
	}
	return tasks, nil
}

// ConvertOffer generates a work order from an offer task on the board's
// target work board. At most one non-archived work order may exist per
// offer.
func (s *TaskService) ConvertOffer(ctx context.Context, siteID, taskID uuid.UUID, userID string) (*model.Task, error) {
	offer, err := s.tasks.GetByID(ctx, siteID, taskID)
	if err != nil {
		return nil, storeErr("get task", err)
	}
	if offer == nil {
		return nil, notFound("task")
	}

	board, err := s.boards.GetByID(ctx, siteID, offer.BoardID)
	if err != nil {
		return nil, storeErr("get board", err)
	}
	if board == nil {
		return nil, notFound("board")
	}
	if !board.IsOfferBoard {
		return nil, conflict("task %q is not on an offer board", offer.UniqueCode)
	}
	if board.TargetWorkBoardID == nil {
		return nil, conflict("board %q has no target work board", board.Identifier)
	}

	children, err := s.tasks.CountActiveChildren(ctx, siteID, offer.ID)
	if err != nil {
		return nil, storeErr("count work orders", err)
	}
	if children > 0 {
		return nil, conflict("offer %q already has an active work order", offer.UniqueCode)
	}

	target, err := s.boards.GetByID(ctx, siteID, *board.TargetWorkBoardID)
	if err != nil {
		return nil, storeErr("get target board", err)
	}
	if target == nil {
		return nil, notFound("target board")
	}
	column, err := s.columns.GetCreationColumn(ctx, target.ID)
	if err != nil {
		return nil, storeErr("get creation column", err)
	}
	if column == nil {
		return nil, conflict("board %q has no columns", target.Identifier)
	}

	work := &model.Task{
		SiteID:       siteID,
		BoardID:      target.ID,
		ColumnID:     column.ID,
		Title:        offer.Title,
		UniqueCode:   s.codes.Generate(ctx, siteID, BaseCode(offer.UniqueCode)),
		ClientID:     offer.ClientID,
		ParentTaskID: &offer.ID,
		DeliveryDate: offer.DeliveryDate,
	}
	if err := s.tasks.Create(ctx, work); err != nil {
		return nil, storeErr("create work order", err)
	}

	s.recorder.Record(newAction(model.ActionOfferConvert, userID, siteID, map[string]interface{}{
		"offer_task_id": offer.ID.String(),
		"work_task_id":  work.ID.String(),
		"board_id":      target.ID.String(),
	}))
	return work, nil
}

package service

import (
	"context"
	"testing"

	"officina/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTask_PlacedInCreationColumn(t *testing.T) {
	f := newFixture(t)
	site := f.createSite(t, "acme")
	board := f.createBoard(t, site.ID, "vendita", "nuovi", "in-corso", "chiusi")

	task, err := f.taskSvc.CreateTask(context.Background(), site.ID, TaskInput{
		BoardID:    &board.ID,
		Title:      "Serramenti Rossi",
		UniqueCode: "25-001",
	}, "user-1")
	require.NoError(t, err)

	column, err := f.columns.GetByID(context.Background(), task.ColumnID)
	require.NoError(t, err)
	assert.True(t, column.IsCreationColumn)
	assert.Equal(t, "nuovi", column.Identifier)
	assert.Equal(t, "25-001", task.UniqueCode)
}

func TestCreateTask_CodeDisambiguated(t *testing.T) {
	f := newFixture(t)
	site := f.createSite(t, "acme")
	board := f.createBoard(t, site.ID, "vendita")
	f.createTask(t, site.ID, board, "25-001")

	task, err := f.taskSvc.CreateTask(context.Background(), site.ID, TaskInput{
		BoardID:    &board.ID,
		Title:      "Doppione",
		UniqueCode: "25-001",
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "25-001.1", task.UniqueCode)
}

func TestCreateTask_RoutedThroughCategory(t *testing.T) {
	f := newFixture(t)
	site := f.createSite(t, "acme")

	category, err := f.boardSvc.SaveCategory(context.Background(), site.ID, CategoryInput{
		Name:       "Infissi",
		Identifier: "infissi",
	}, "user-1")
	require.NoError(t, err)

	production := f.createBoard(t, site.ID, "produzione-infissi")
	require.NoError(t, f.db.Model(&model.Board{}).Where("id = ?", production.ID).
		Updates(map[string]interface{}{"is_production_board": true, "category_id": category.ID}).Error)
	f.createBoard(t, site.ID, "vendita")

	task, err := f.taskSvc.CreateTask(context.Background(), site.ID, TaskInput{
		CategoryID: &category.ID,
		Title:      "Portone sezionale",
		UniqueCode: "25-010",
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, production.ID, task.BoardID)
}

func TestMoveTask_UpdatesColumnAndBoard(t *testing.T) {
	f := newFixture(t)
	site := f.createSite(t, "acme")
	board := f.createBoard(t, site.ID, "vendita", "nuovi", "in-corso")
	task := f.createTask(t, site.ID, board, "25-001")

	columns, err := f.columns.GetByBoardID(context.Background(), board.ID)
	require.NoError(t, err)
	target := columns[1]

	moved, err := f.taskSvc.MoveTask(context.Background(), site.ID, task.ID, target.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, target.ID, moved.ColumnID)
	assert.Equal(t, board.ID, moved.BoardID)

	actions := f.recorder.recorded()
	require.Len(t, actions, 1)
	assert.Equal(t, model.ActionTaskUpdate, actions[0].Type)
}

func TestMoveTask_TenantIsolation(t *testing.T) {
	f := newFixture(t)
	siteA := f.createSite(t, "acme")
	siteB := f.createSite(t, "globex")
	boardA := f.createBoard(t, siteA.ID, "vendita")
	boardB := f.createBoard(t, siteB.ID, "vendita")
	task := f.createTask(t, siteA.ID, boardA, "25-001")

	// Site B cannot see site A's task at all.
	_, err := f.taskSvc.MoveTask(context.Background(), siteB.ID, task.ID, boardB.ID, "user-1")
	var notFoundErr *NotFoundError
	assert.ErrorAs(t, err, &notFoundErr)

	// Site A cannot move its task onto site B's board either.
	columnsB, err2 := f.columns.GetByBoardID(context.Background(), boardB.ID)
	require.NoError(t, err2)
	_, err = f.taskSvc.MoveTask(context.Background(), siteA.ID, task.ID, columnsB[0].ID, "user-1")
	assert.ErrorAs(t, err, &notFoundErr)

	// The task is exactly where it was.
	var reloaded model.Task
	require.NoError(t, f.db.First(&reloaded, "id = ?", task.ID).Error)
	assert.Equal(t, task.ColumnID, reloaded.ColumnID)
	assert.Empty(t, f.recorder.recorded())
}

func TestArchiveTask_ScopedUpdate(t *testing.T) {
	f := newFixture(t)
	siteA := f.createSite(t, "acme")
	siteB := f.createSite(t, "globex")
	board := f.createBoard(t, siteA.ID, "vendita")
	task := f.createTask(t, siteA.ID, board, "25-001")

	// Wrong site scope: not found, no write.
	err := f.taskSvc.ArchiveTask(context.Background(), &siteB.ID, task.ID, true, "user-1")
	var notFoundErr *NotFoundError
	require.ErrorAs(t, err, &notFoundErr)

	var reloaded model.Task
	require.NoError(t, f.db.First(&reloaded, "id = ?", task.ID).Error)
	assert.False(t, reloaded.Archived)

	// Right scope archives and records the action.
	require.NoError(t, f.taskSvc.ArchiveTask(context.Background(), &siteA.ID, task.ID, true, "user-1"))
	require.NoError(t, f.db.First(&reloaded, "id = ?", task.ID).Error)
	assert.True(t, reloaded.Archived)

	// Un-archive works the same way and is audited too.
	require.NoError(t, f.taskSvc.ArchiveTask(context.Background(), &siteA.ID, task.ID, false, "user-1"))
	actions := f.recorder.recorded()
	require.Len(t, actions, 2)
	assert.Equal(t, model.ActionTaskArchive, actions[0].Type)
	assert.Equal(t, model.ActionTaskUnarchive, actions[1].Type)
}

func TestArchiveTask_UnscopedFallback(t *testing.T) {
	f := newFixture(t)
	site := f.createSite(t, "acme")
	board := f.createBoard(t, site.ID, "vendita")
	task := f.createTask(t, site.ID, board, "25-001")

	// System callers without a site proceed unscoped.
	require.NoError(t, f.taskSvc.ArchiveTask(context.Background(), nil, task.ID, true, "system"))

	var reloaded model.Task
	require.NoError(t, f.db.First(&reloaded, "id = ?", task.ID).Error)
	assert.True(t, reloaded.Archived)
}

func TestConvertOffer_CreatesSingleWorkOrder(t *testing.T) {
	f := newFixture(t)
	site := f.createSite(t, "acme")
	work := f.createBoard(t, site.ID, "produzione", "coda", "lavorazione")
	offerBoard := f.createBoard(t, site.ID, "offerte")
	require.NoError(t, f.db.Model(&model.Board{}).Where("id = ?", offerBoard.ID).
		Updates(map[string]interface{}{"is_offer_board": true, "target_work_board_id": work.ID}).Error)
	offer := f.createTask(t, site.ID, offerBoard, "25-001")

	workOrder, err := f.taskSvc.ConvertOffer(context.Background(), site.ID, offer.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, work.ID, workOrder.BoardID)
	require.NotNil(t, workOrder.ParentTaskID)
	assert.Equal(t, offer.ID, *workOrder.ParentTaskID)
	assert.Equal(t, "25-001.1", workOrder.UniqueCode)

	column, err := f.columns.GetByID(context.Background(), workOrder.ColumnID)
	require.NoError(t, err)
	assert.True(t, column.IsCreationColumn)

	// At most one non-archived work order per offer.
	_, err = f.taskSvc.ConvertOffer(context.Background(), site.ID, offer.ID, "user-1")
	var conflictErr *ConflictError
	assert.ErrorAs(t, err, &conflictErr)

	// Archiving the work order frees the slot.
	require.NoError(t, f.taskSvc.ArchiveTask(context.Background(), &site.ID, workOrder.ID, true, "user-1"))
	_, err = f.taskSvc.ConvertOffer(context.Background(), site.ID, offer.ID, "user-1")
	assert.NoError(t, err)
}

func TestConvertOffer_RequiresOfferBoard(t *testing.T) {
	f := newFixture(t)
	site := f.createSite(t, "acme")
	board := f.createBoard(t, site.ID, "vendita")
	task := f.createTask(t, site.ID, board, "25-001")

	_, err := f.taskSvc.ConvertOffer(context.Background(), site.ID, task.ID, "user-1")
	var conflictErr *ConflictError
	assert.ErrorAs(t, err, &conflictErr)
}

package service

import (
	"sync"
	"testing"

	"officina/internal/model"
	"officina/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.Site{},
		&model.Category{},
		&model.Board{},
		&model.Column{},
		&model.Task{},
		&model.Action{},
		&model.TaskHistory{},
		&model.SnapshotCursor{},
	)
	require.NoError(t, err)

	return db
}

// memRecorder captures actions synchronously for assertions.
type memRecorder struct {
	mu      sync.Mutex
	actions []model.Action
}

func (r *memRecorder) Record(action model.Action) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
}

func (r *memRecorder) recorded() []model.Action {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Action(nil), r.actions...)
}

type fixture struct {
	db       *gorm.DB
	sites    *repository.SiteRepository
	boards   *repository.BoardRepository
	columns  *repository.ColumnRepository
	catRepo  *repository.CategoryRepository
	tasks    *repository.TaskRepository
	history  *repository.HistoryRepository
	recorder *memRecorder

	boardSvc *BoardService
	taskSvc  *TaskService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	f := &fixture{
		db:       db,
		sites:    repository.NewSiteRepository(db),
		boards:   repository.NewBoardRepository(db),
		columns:  repository.NewColumnRepository(db),
		catRepo:  repository.NewCategoryRepository(db),
		tasks:    repository.NewTaskRepository(db),
		history:  repository.NewHistoryRepository(db),
		recorder: &memRecorder{},
	}
	codes := NewCodeGenerator(f.tasks)
	router := NewRouter(f.boards)
	f.boardSvc = NewBoardService(f.boards, f.columns, f.catRepo, f.tasks, f.recorder)
	f.taskSvc = NewTaskService(f.tasks, f.boards, f.columns, codes, router, f.recorder)
	return f
}

func (f *fixture) createSite(t *testing.T, subdomain string) *model.Site {
	t.Helper()
	site := &model.Site{Subdomain: subdomain, OrganizationID: "org-" + subdomain}
	require.NoError(t, f.db.Create(site).Error)
	return site
}

// createBoard seeds a board with three columns; the first is the creation
// column.
func (f *fixture) createBoard(t *testing.T, siteID uuid.UUID, identifier string, columnIdentifiers ...string) *model.Board {
	t.Helper()
	if len(columnIdentifiers) == 0 {
		columnIdentifiers = []string{"a", "b", "c"}
	}
	board := &model.Board{SiteID: siteID, Title: identifier, Identifier: identifier}
	require.NoError(t, f.db.Create(board).Error)
	for i, ident := range columnIdentifiers {
		column := &model.Column{
			BoardID:          board.ID,
			Title:            ident,
			Identifier:       ident,
			Position:         i + 1,
			ColumnType:       model.ColumnTypeStandard,
			IsCreationColumn: i == 0,
		}
		require.NoError(t, f.db.Create(column).Error)
	}
	return board
}

func (f *fixture) createTask(t *testing.T, siteID uuid.UUID, board *model.Board, code string) *model.Task {
	t.Helper()
	var column model.Column
	require.NoError(t, f.db.Where("board_id = ? AND is_creation_column = ?", board.ID, true).First(&column).Error)
	task := &model.Task{
		SiteID:     siteID,
		BoardID:    board.ID,
		ColumnID:   column.ID,
		Title:      code,
		UniqueCode: code,
	}
	require.NoError(t, f.db.Create(task).Error)
	return task
}

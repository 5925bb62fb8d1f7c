package model_test

import (
	"testing"

	"officina/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// The models carry no database-side id defaults so the same schema
// migrates on postgres and on the sqlite test driver; the BeforeCreate
// hooks are what assign ids.
func TestAutoMigrate_SqliteDriver(t *testing.T) {
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
}

func TestBeforeCreate_AssignsIDs(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Site{}, &model.Board{}, &model.Column{}, &model.Task{}))

	site := &model.Site{Subdomain: "acme", OrganizationID: "org-1"}
	require.NoError(t, db.Create(site).Error)
	assert.NotEqual(t, uuid.Nil, site.ID)

	board := &model.Board{SiteID: site.ID, Title: "Vendita", Identifier: "vendita"}
	require.NoError(t, db.Create(board).Error)
	assert.NotEqual(t, uuid.Nil, board.ID)

	column := &model.Column{BoardID: board.ID, Title: "Nuovi", Identifier: "nuovi", Position: 1, ColumnType: model.ColumnTypeStandard, IsCreationColumn: true}
	require.NoError(t, db.Create(column).Error)
	assert.NotEqual(t, uuid.Nil, column.ID)

	task := &model.Task{SiteID: site.ID, BoardID: board.ID, ColumnID: column.ID, Title: "Serramenti", UniqueCode: "25-001"}
	require.NoError(t, db.Create(task).Error)
	assert.NotEqual(t, uuid.Nil, task.ID)

	// A caller-supplied id is kept, not overwritten.
	given := uuid.New()
	other := &model.Site{ID: given, Subdomain: "globex", OrganizationID: "org-2"}
	require.NoError(t, db.Create(other).Error)
	assert.Equal(t, given, other.ID)
}

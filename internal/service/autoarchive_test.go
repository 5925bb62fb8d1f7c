package service

import (
	"context"
	"testing"
	"time"

	"officina/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoArchive_SweepsOnlyExpiredTasks(t *testing.T) {
	f := newFixture(t)
	site := f.createSite(t, "acme")
	board := f.createBoard(t, site.ID, "vendita")

	expired := f.createTask(t, site.ID, board, "25-001")
	future := f.createTask(t, site.ID, board, "25-002")
	never := f.createTask(t, site.ID, board, "25-003")

	past := time.Now().Add(-time.Hour)
	ahead := time.Now().Add(24 * time.Hour)
	require.NoError(t, f.db.Model(&model.Task{}).Where("id = ?", expired.ID).Update("auto_archive_at", past).Error)
	require.NoError(t, f.db.Model(&model.Task{}).Where("id = ?", future.ID).Update("auto_archive_at", ahead).Error)

	svc := NewAutoArchiveService(f.tasks)
	result, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Archived)
	require.Len(t, result.TaskIDs, 1)
	assert.Equal(t, expired.ID, result.TaskIDs[0])

	var reloaded model.Task
	require.NoError(t, f.db.First(&reloaded, "id = ?", expired.ID).Error)
	assert.True(t, reloaded.Archived)

	reloaded = model.Task{}
	require.NoError(t, f.db.First(&reloaded, "id = ?", future.ID).Error)
	assert.False(t, reloaded.Archived)
	reloaded = model.Task{}
	require.NoError(t, f.db.First(&reloaded, "id = ?", never.ID).Error)
	assert.False(t, reloaded.Archived)
}

func TestAutoArchive_Idempotent(t *testing.T) {
	f := newFixture(t)
	site := f.createSite(t, "acme")
	board := f.createBoard(t, site.ID, "vendita")
	expired := f.createTask(t, site.ID, board, "25-001")
	require.NoError(t, f.db.Model(&model.Task{}).Where("id = ?", expired.ID).
		Update("auto_archive_at", time.Now().Add(-time.Minute)).Error)

	svc := NewAutoArchiveService(f.tasks)

	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Archived)

	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Archived)
	assert.Empty(t, second.TaskIDs)
}

func TestAutoArchive_NoExpiredTasksIsNoOp(t *testing.T) {
	f := newFixture(t)
	site := f.createSite(t, "acme")
	board := f.createBoard(t, site.ID, "vendita")
	f.createTask(t, site.ID, board, "25-001")

	svc := NewAutoArchiveService(f.tasks)
	result, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Archived)
}

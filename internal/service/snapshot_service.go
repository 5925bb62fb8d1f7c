package service

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"officina/internal/model"
	"officina/internal/repository"

	"github.com/google/uuid"
)

// DefaultSnapshotCooldown bounds write amplification from frequent manual
// capture triggers (every board view may attempt one).
const DefaultSnapshotCooldown = 5 * time.Minute

// SnapshotService periodically persists full task state into the
// append-only history log. The cooldown window is global, not per-site: a
// busy tenant can hold the window for everyone. Known scaling limitation,
// kept deliberately.
type SnapshotService struct {
	history  *repository.HistoryRepository
	tasks    *repository.TaskRepository
	boards   *repository.BoardRepository
	columns  *repository.ColumnRepository
	cooldown time.Duration
	now      func() time.Time
}

func NewSnapshotService(
	history *repository.HistoryRepository,
	tasks *repository.TaskRepository,
	boards *repository.BoardRepository,
	columns *repository.ColumnRepository,
	cooldown time.Duration,
) *SnapshotService {
	if cooldown <= 0 {
		cooldown = DefaultSnapshotCooldown
	}
	return &SnapshotService{
		history:  history,
		tasks:    tasks,
		boards:   boards,
		columns:  columns,
		cooldown: cooldown,
		now:      time.Now,
	}
}

type CaptureResult struct {
	Captured bool   `json:"captured"`
	Reason   string `json:"reason,omitempty"`
	Inserted int    `json:"inserted,omitempty"`
}

// taskSnapshot is the denormalized payload stored per task. It carries the
// board and column identifiers and titles at capture time so the row stays
// readable after renames or deletes.
type taskSnapshot struct {
	SchemaVersion    int        `json:"schema_version"`
	TaskID           uuid.UUID  `json:"task_id"`
	SiteID           uuid.UUID  `json:"site_id"`
	UniqueCode       string     `json:"unique_code"`
	Title            string     `json:"title"`
	Position         int        `json:"position"`
	Archived         bool       `json:"archived"`
	BoardID          uuid.UUID  `json:"board_id"`
	BoardIdentifier  string     `json:"board_identifier"`
	BoardTitle       string     `json:"board_title"`
	ColumnID         uuid.UUID  `json:"column_id"`
	ColumnIdentifier string     `json:"column_identifier"`
	ColumnTitle      string     `json:"column_title"`
	DeliveryDate     *time.Time `json:"delivery_date,omitempty"`
	CapturedAt       time.Time  `json:"captured_at"`
}

// Capture snapshots every active task of the site, provided the global
// cooldown window can be claimed. Inserts fan out concurrently and are
// awaited as a batch; individual failures are logged and swallowed —
// history is best-effort telemetry, not a durability-critical ledger.
func (s *SnapshotService) Capture(ctx context.Context, siteID uuid.UUID) (*CaptureResult, error) {
	now := s.now()

	claimed, err := s.history.ClaimWindow(ctx, now, s.cooldown)
	if err != nil {
		return nil, storeErr("claim snapshot window", err)
	}
	if !claimed {
		return &CaptureResult{Captured: false, Reason: "cooldown"}, nil
	}

	// Failures past this point leave the claimed window consumed with
	// nothing written; capture resumes when it expires instead of
	// retrying into the same failing store.
	tasks, err := s.tasks.ListActive(ctx, siteID)
	if err != nil {
		return nil, storeErr("list tasks", err)
	}
	if len(tasks) == 0 {
		return &CaptureResult{Captured: true}, nil
	}

	boards, err := s.boards.ListBySite(ctx, siteID)
	if err != nil {
		return nil, storeErr("list boards", err)
	}
	columns, err := s.columns.GetBySiteID(ctx, siteID)
	if err != nil {
		return nil, storeErr("list columns", err)
	}

	boardByID := make(map[uuid.UUID]model.Board, len(boards))
	for _, b := range boards {
		boardByID[b.ID] = b
	}
	columnByID := make(map[uuid.UUID]model.Column, len(columns))
	for _, c := range columns {
		columnByID[c.ID] = c
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	inserted := 0
	for _, task := range tasks {
		snapshot := taskSnapshot{
			SchemaVersion: model.TaskSnapshotSchemaVersion,
			TaskID:        task.ID,
			SiteID:        task.SiteID,
			UniqueCode:    task.UniqueCode,
			Title:         task.Title,
			Position:      task.Position,
			Archived:      task.Archived,
			BoardID:       task.BoardID,
			ColumnID:      task.ColumnID,
			DeliveryDate:  task.DeliveryDate,
			CapturedAt:    now,
		}
		if board, ok := boardByID[task.BoardID]; ok {
			snapshot.BoardIdentifier = board.Identifier
			snapshot.BoardTitle = board.Title
		}
		if column, ok := columnByID[task.ColumnID]; ok {
			snapshot.ColumnIdentifier = column.Identifier
			snapshot.ColumnTitle = column.Title
		}

		payload, err := json.Marshal(snapshot)
		if err != nil {
			log.Printf("⚠️  Snapshot encode failed for task %s: %v", task.ID, err)
			continue
		}

		wg.Add(1)
		go func(taskID uuid.UUID, payload []byte) {
			defer wg.Done()
			row := &model.TaskHistory{
				TaskID:    taskID,
				Snapshot:  payload,
				CreatedAt: now,
			}
			if err := s.history.Insert(ctx, row); err != nil {
				log.Printf("⚠️  Snapshot insert failed for task %s: %v", taskID, err)
				return
			}
			mu.Lock()
			inserted++
			mu.Unlock()
		}(task.ID, payload)
	}
	wg.Wait()

	return &CaptureResult{Captured: true, Inserted: inserted}, nil
}

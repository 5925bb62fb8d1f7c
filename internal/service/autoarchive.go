package service

import (
	"context"
	"time"

	"officina/internal/repository"

	"github.com/google/uuid"
)

// AutoArchiveService sweeps tasks whose auto-archive timestamp has passed.
// Invoked on an external schedule; re-running with nothing newly expired
// is a no-op.
type AutoArchiveService struct {
	tasks *repository.TaskRepository
	now   func() time.Time
}

func NewAutoArchiveService(tasks *repository.TaskRepository) *AutoArchiveService {
	return &AutoArchiveService{tasks: tasks, now: time.Now}
}

type SweepResult struct {
	Archived int         `json:"archived"`
	TaskIDs  []uuid.UUID `json:"task_ids,omitempty"`
}

// Run archives every expired task in a single bulk statement. The sweep
// skips per-task audit records: one low-frequency bulk update is not worth
// N Action rows.
func (s *AutoArchiveService) Run(ctx context.Context) (*SweepResult, error) {
	now := s.now()

	expired, err := s.tasks.FindExpired(ctx, now)
	if err != nil {
		return nil, storeErr("find expired tasks", err)
	}
	if len(expired) == 0 {
		return &SweepResult{Archived: 0}, nil
	}

	ids := make([]uuid.UUID, len(expired))
	for i, task := range expired {
		ids[i] = task.ID
	}

	archived, err := s.tasks.BulkArchive(ctx, ids, now)
	if err != nil {
		return nil, storeErr("bulk archive", err)
	}
	return &SweepResult{Archived: int(archived), TaskIDs: ids}, nil
}

package audit

import (
	"context"
	"log"
	"sync"
	"time"

	"officina/internal/model"
	"officina/internal/repository"
)

const writeTimeout = 5 * time.Second

// Recorder writes Action records through a buffered channel and a single
// worker goroutine, keeping audit inserts off the request path. A full
// queue drops the record with a warning; a failed insert is logged and
// forgotten. Audit is bookkeeping, never a reason to fail the operation
// it describes.
type Recorder struct {
	actions repository.ActionRepositoryInterface
	queue   chan model.Action
	done    chan struct{}
	once    sync.Once
}

func NewRecorder(actions repository.ActionRepositoryInterface, queueSize int) *Recorder {
	if queueSize <= 0 {
		queueSize = 256
	}
	r := &Recorder{
		actions: actions,
		queue:   make(chan model.Action, queueSize),
		done:    make(chan struct{}),
	}
	go r.worker()
	return r
}

// Record queues an action without blocking.
func (r *Recorder) Record(action model.Action) {
	select {
	case r.queue <- action:
	default:
		log.Printf("⚠️  Audit queue full, dropping %s action", action.Type)
	}
}

func (r *Recorder) worker() {
	defer close(r.done)
	for action := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := r.actions.Create(ctx, &action); err != nil {
			log.Printf("⚠️  Audit write failed for %s action: %v", action.Type, err)
		}
		cancel()
	}
}

// Close drains the queue and stops the worker.
func (r *Recorder) Close() {
	r.once.Do(func() {
		close(r.queue)
		<-r.done
	})
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/core/domain"
	"github.com/wadjakorntonsri/label-smartlinks/pkg/ports"
)

const (
	DefaultTrackerQueueSize = 256
	DefaultTrackerWorkers   = 2

	trackerWriteTimeout = 5 * time.Second
)

// ErrTrackerClosed is returned by Close when called twice
var ErrTrackerClosed = errors.New("tracker closed")

type trackRequest struct {
	EventType  string `json:"eventType" validate:"required,max=64"`
	EntityType string `json:"entityType" validate:"required,max=32"`
	EntityID   string `json:"entityId" validate:"required,max=128"`
}

// Tracker records view events in the background. Record never waits for
// the store; a full queue drops the event and a failed write is logged.
type Tracker struct {
	repo   ports.ViewRepository
	logger *log.Logger
	now    func() time.Time

	queue chan *domain.ViewEvent
	wg    sync.WaitGroup

	mu      sync.RWMutex
	stopped bool
}

var _ ports.ViewTracker = (*Tracker)(nil)

func NewTracker(repo ports.ViewRepository, logger *log.Logger, queueSize, workers int) *Tracker {
	if logger == nil {
		logger = log.Default()
	}
	if queueSize < 1 {
		queueSize = DefaultTrackerQueueSize
	}
	if workers < 1 {
		workers = DefaultTrackerWorkers
	}

	t := &Tracker{
		repo:   repo,
		logger: logger,
		now:    utcNow,
		queue:  make(chan *domain.ViewEvent, queueSize),
	}
	for i := 0; i < workers; i++ {
		t.wg.Add(1)
		go t.work()
	}
	return t
}

// Record validates and enqueues an event. Only a *domain.ValidationError
// is ever returned; ctx is not used for the write.
func (t *Tracker) Record(ctx context.Context, event domain.ViewEvent) error {
	if err := validateStruct(trackRequest{
		EventType:  event.EventType,
		EntityType: event.EntityType,
		EntityID:   event.EntityID,
	}); err != nil {
		return err
	}
	if event.Metadata != nil {
		if _, err := json.Marshal(event.Metadata); err != nil {
			return domain.NewValidationError("metadata", "must be JSON serializable")
		}
	}

	event.ID = uuid.NewString()
	event.CreatedAt = t.now()

	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.stopped {
		t.logger.Printf("tracker: closed, dropping %s %s/%s", event.EventType, event.EntityType, event.EntityID)
		return nil
	}

	select {
	case t.queue <- &event:
	default:
		t.logger.Printf("tracker: queue full, dropping %s %s/%s", event.EventType, event.EntityType, event.EntityID)
	}
	return nil
}

func (t *Tracker) work() {
	defer t.wg.Done()
	for event := range t.queue {
		t.write(event)
	}
}

func (t *Tracker) write(event *domain.ViewEvent) {
	// Detached from the request so a finished response does not cancel the write
	ctx, cancel := context.WithTimeout(context.Background(), trackerWriteTimeout)
	defer cancel()

	if err := t.repo.RecordView(ctx, event); err != nil {
		t.logger.Printf("tracker: failed to record %s %s/%s: %v", event.EventType, event.EntityType, event.EntityID, err)
	}
}

// Close stops accepting events and waits for queued ones to be written,
// or for ctx to end.
func (t *Tracker) Close(ctx context.Context) error {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return ErrTrackerClosed
	}
	t.stopped = true
	close(t.queue)
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package presence

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-presence/internal/domain"
	"github.com/spec-kit/staff-presence/internal/events"
	"github.com/spec-kit/staff-presence/internal/observability"
)

// StatusWriter persists only the current status of a staff member. Other
// fields may have been edited since the reconciliation snapshot was taken.
type StatusWriter interface {
	UpdateStatus(ctx context.Context, id string, status domain.Status) error
}

// WriteQueueOptions tunes a WriteQueue.
type WriteQueueOptions struct {
	Size       int
	Workers    int
	Timeout    time.Duration
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Dispatcher events.Dispatcher
}

type correction struct {
	member   domain.StaffMember
	previous domain.Status
}

// WriteQueue runs corrective status writes in the background. Enqueue never
// blocks: when the buffer is full the write is dropped, since the next
// reconciliation pass derives it again. Failed writes are logged and not
// retried.
type WriteQueue struct {
	writer     StatusWriter
	logger     *zap.Logger
	metrics    *observability.Metrics
	dispatcher events.Dispatcher
	timeout    time.Duration

	jobs   chan correction
	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewWriteQueue starts the queue workers.
func NewWriteQueue(writer StatusWriter, opts WriteQueueOptions) *WriteQueue {
	if opts.Size <= 0 {
		opts.Size = 256
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	q := &WriteQueue{
		writer:     writer,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		dispatcher: opts.Dispatcher,
		timeout:    opts.Timeout,
		jobs:       make(chan correction, opts.Size),
	}
	for i := 0; i < opts.Workers; i++ {
		q.wg.Add(1)
		go q.work()
	}
	return q
}

// Enqueue schedules member to be written with its corrected status. It
// reports whether the write was accepted.
func (q *WriteQueue) Enqueue(member domain.StaffMember, previous domain.Status) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		q.logger.Warn("status write after shutdown dropped", zap.String("staff_id", member.ID))
		q.metrics.RecordCorrectiveWrite(observability.WriteOutcomeDropped)
		return false
	}

	select {
	case q.jobs <- correction{member: member, previous: previous}:
		return true
	default:
		q.logger.Warn("status write queue full; write dropped",
			zap.String("staff_id", member.ID),
			zap.String("status", string(member.CurrentStatus)))
		q.metrics.RecordCorrectiveWrite(observability.WriteOutcomeDropped)
		return false
	}
}

// Shutdown stops accepting writes and waits for queued ones to finish or for
// ctx to end.
func (q *WriteQueue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *WriteQueue) work() {
	defer q.wg.Done()
	for job := range q.jobs {
		q.write(job)
	}
}

func (q *WriteQueue) write(job correction) {
	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	if err := q.writer.UpdateStatus(ctx, job.member.ID, job.member.CurrentStatus); err != nil {
		q.logger.Error("status sync write failed",
			zap.String("staff_id", job.member.ID),
			zap.String("status", string(job.member.CurrentStatus)),
			zap.Error(err))
		q.metrics.RecordCorrectiveWrite(observability.WriteOutcomeFailed)
		return
	}

	q.metrics.RecordCorrectiveWrite(observability.WriteOutcomeSucceeded)
	q.logger.Info("staff status corrected",
		zap.String("staff_id", job.member.ID),
		zap.String("from", string(job.previous)),
		zap.String("to", string(job.member.CurrentStatus)))

	if q.dispatcher != nil {
		_ = q.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventStaffStatusCorrected,
			StaffID:   job.member.ID,
			Actor:     events.SystemActor(),
			Timestamp: time.Now().UTC(),
			Payload: events.StaffStatusCorrectedPayload{
				OldStatus: job.previous,
				NewStatus: job.member.CurrentStatus,
			},
		})
	}
}

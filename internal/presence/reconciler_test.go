package presence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staff-presence/internal/domain"
	"github.com/spec-kit/staff-presence/internal/events"
	"github.com/spec-kit/staff-presence/internal/observability"
)

type recordingQueue struct {
	enqueued []domain.StaffMember
}

func (q *recordingQueue) Enqueue(member domain.StaffMember, _ domain.Status) bool {
	q.enqueued = append(q.enqueued, member)
	return true
}

type fakeWriter struct {
	mu      sync.Mutex
	written []domain.StaffMember
	fail    map[string]bool
	started chan struct{}
	release chan struct{}
}

func (w *fakeWriter) UpdateStatus(_ context.Context, id string, status domain.Status) error {
	if w.started != nil {
		w.started <- struct{}{}
	}
	if w.release != nil {
		<-w.release
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail[id] {
		return errors.New("store unavailable")
	}
	w.written = append(w.written, domain.StaffMember{ID: id, CurrentStatus: status})
	return nil
}

func (w *fakeWriter) snapshot() []domain.StaffMember {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]domain.StaffMember(nil), w.written...)
}

func roster() []domain.StaffMember {
	return []domain.StaffMember{
		{ID: "S1", Name: "One", CurrentStatus: domain.StatusInOffice},
		{ID: "S2", Name: "Two", CurrentStatus: domain.StatusInOffice},
		{ID: "S3", Name: "Three", CurrentStatus: domain.StatusInOffice},
	}
}

func TestReconcileCorrectsStaleMember(t *testing.T) {
	today := day("2024-01-12")
	staff := roster()
	movements := []domain.MovementRecord{
		movement("m1", "S2", "2024-01-10", "2024-01-15"),
		movement("m2", "S3", "2024-01-01", "2024-01-05"),
	}
	queue := &recordingQueue{}
	r := NewReconciler(queue, nil, observability.NewMetrics())

	result := r.Reconcile(staff, movements, today)

	require.Len(t, result, 3)
	assert.Equal(t, domain.StatusInOffice, result[0].CurrentStatus)
	assert.Equal(t, domain.StatusOutOfOffice, result[1].CurrentStatus)
	assert.Equal(t, domain.StatusInOffice, result[2].CurrentStatus)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, "S2", queue.enqueued[0].ID)
	assert.Equal(t, domain.StatusOutOfOffice, queue.enqueued[0].CurrentStatus)
	assert.Equal(t, "Two", queue.enqueued[0].Name)

	assert.Equal(t, domain.StatusInOffice, staff[1].CurrentStatus, "input snapshot is not mutated")
}

func TestReconcileIsIdempotent(t *testing.T) {
	today := day("2024-01-12")
	staff := []domain.StaffMember{
		{ID: "S1", CurrentStatus: domain.StatusOutOfOffice},
		{ID: "S2", CurrentStatus: domain.StatusInOffice},
	}
	movements := []domain.MovementRecord{movement("m1", "S2", "2024-01-12", "2024-01-12")}
	queue := &recordingQueue{}
	r := NewReconciler(queue, nil, nil)

	first := r.Reconcile(staff, movements, today)
	require.Len(t, queue.enqueued, 2)

	queue.enqueued = nil
	second := r.Reconcile(first, movements, today)
	assert.Empty(t, queue.enqueued)
	assert.Equal(t, first, second)
}

func TestReconcileEmptyMovementsMeansInOffice(t *testing.T) {
	queue := &recordingQueue{}
	r := NewReconciler(queue, nil, nil)

	result := r.Reconcile([]domain.StaffMember{{ID: "S1", CurrentStatus: domain.StatusOutOfOffice}}, nil, day("2024-01-12"))

	assert.Equal(t, domain.StatusInOffice, result[0].CurrentStatus)
	assert.Len(t, queue.enqueued, 1)
}

func TestReconcileWithWriteQueue(t *testing.T) {
	writer := &fakeWriter{fail: map[string]bool{"S3": true}}
	dispatcher := events.NewInMemoryDispatcher(nil)
	var mu sync.Mutex
	var corrected []events.Event
	dispatcher.Subscribe(events.EventStaffStatusCorrected, func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		corrected = append(corrected, e)
		return nil
	})

	queue := NewWriteQueue(writer, WriteQueueOptions{Size: 8, Workers: 2, Dispatcher: dispatcher})
	r := NewReconciler(queue, nil, nil)

	movements := []domain.MovementRecord{
		movement("m1", "S2", "2024-01-10", "2024-01-15"),
		movement("m2", "S3", "2024-01-11", "2024-01-13"),
	}
	result := r.Reconcile(roster(), movements, day("2024-01-12"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, queue.Shutdown(ctx))

	assert.Equal(t, domain.StatusOutOfOffice, result[2].CurrentStatus, "failed write does not change the result")
	written := writer.snapshot()
	require.Len(t, written, 1)
	assert.Equal(t, "S2", written[0].ID)
	assert.Equal(t, domain.StatusOutOfOffice, written[0].CurrentStatus)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, corrected, 1)
	assert.Equal(t, "S2", corrected[0].StaffID)
	payload, ok := corrected[0].Payload.(events.StaffStatusCorrectedPayload)
	require.True(t, ok)
	assert.Equal(t, domain.StatusInOffice, payload.OldStatus)
	assert.Equal(t, domain.StatusOutOfOffice, payload.NewStatus)
}

func TestWriteQueueDropsWhenFull(t *testing.T) {
	writer := &fakeWriter{started: make(chan struct{}, 4), release: make(chan struct{})}
	queue := NewWriteQueue(writer, WriteQueueOptions{Size: 1, Workers: 1})

	require.True(t, queue.Enqueue(domain.StaffMember{ID: "A"}, domain.StatusInOffice))
	<-writer.started
	require.True(t, queue.Enqueue(domain.StaffMember{ID: "B"}, domain.StatusInOffice))
	assert.False(t, queue.Enqueue(domain.StaffMember{ID: "C"}, domain.StatusInOffice))

	close(writer.release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, queue.Shutdown(ctx))

	assert.Len(t, writer.snapshot(), 2)
	assert.False(t, queue.Enqueue(domain.StaffMember{ID: "D"}, domain.StatusInOffice), "closed queue rejects writes")
}

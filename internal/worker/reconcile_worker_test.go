package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staff-presence/internal/config"
	"github.com/spec-kit/staff-presence/internal/service"
)

type countingRefresher struct {
	calls atomic.Int32
	err   error
}

func (r *countingRefresher) Refresh(context.Context) (service.Dashboard, error) {
	r.calls.Add(1)
	return service.Dashboard{Total: 2, Out: 1, In: 1}, r.err
}

func TestRunNowRefreshes(t *testing.T) {
	r := &countingRefresher{}
	w := NewReconcileWorker(r, config.SyncConfig{}, nil)

	w.RunNow()
	r.err = errors.New("boom")
	w.RunNow()

	assert.Equal(t, int32(2), r.calls.Load())
}

func TestStartRejectsBadSchedule(t *testing.T) {
	w := NewReconcileWorker(&countingRefresher{}, config.SyncConfig{Schedule: "not a schedule"}, nil)
	assert.Error(t, w.Start())
}

func TestStartRunsOnStartAndSchedules(t *testing.T) {
	r := &countingRefresher{}
	w := NewReconcileWorker(r, config.SyncConfig{Schedule: "@every 1h", RunOnStart: true}, nil)

	require.NoError(t, w.Start())
	defer w.Stop(context.Background())

	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return !w.NextRun().IsZero() }, time.Second, 10*time.Millisecond)
	assert.WithinDuration(t, time.Now().Add(time.Hour), w.NextRun(), 5*time.Second)
}

type heldRefresher struct {
	started  chan struct{}
	release  chan struct{}
	finished atomic.Bool
}

func (r *heldRefresher) Refresh(context.Context) (service.Dashboard, error) {
	close(r.started)
	<-r.release
	r.finished.Store(true)
	return service.Dashboard{}, nil
}

func TestStopWaitsForStartupPass(t *testing.T) {
	r := &heldRefresher{started: make(chan struct{}), release: make(chan struct{})}
	w := NewReconcileWorker(r, config.SyncConfig{Schedule: "@every 1h", RunOnStart: true}, nil)
	require.NoError(t, w.Start())
	<-r.started

	stopped := make(chan struct{})
	go func() {
		w.Stop(context.Background())
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while the startup pass was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(r.release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the startup pass finished")
	}
	assert.True(t, r.finished.Load())
}

func TestStopHonoursDeadline(t *testing.T) {
	r := &heldRefresher{started: make(chan struct{}), release: make(chan struct{})}
	w := NewReconcileWorker(r, config.SyncConfig{Schedule: "@every 1h", RunOnStart: true}, nil)
	require.NoError(t, w.Start())
	<-r.started
	defer close(r.release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	w.Stop(ctx)
	assert.False(t, r.finished.Load())
}

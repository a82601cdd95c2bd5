package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-presence/internal/config"
	"github.com/spec-kit/staff-presence/internal/service"
)

// Refresher runs one reconciliation pass.
type Refresher interface {
	Refresh(ctx context.Context) (service.Dashboard, error)
}

// ReconcileWorker periodically reconciles the stored roster status with the
// movements on record.
type ReconcileWorker struct {
	cron      *cron.Cron
	refresher Refresher
	logger    *zap.Logger
	cfg       config.SyncConfig
	entryID   cron.EntryID
	startup   sync.WaitGroup
}

// NewReconcileWorker creates the worker. Passes may overlap when one runs
// longer than the schedule interval.
func NewReconcileWorker(refresher Refresher, cfg config.SyncConfig, logger *zap.Logger) *ReconcileWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileWorker{
		cron:      cron.New(cron.WithLocation(time.UTC)),
		refresher: refresher,
		logger:    logger,
		cfg:       cfg,
	}
}

// Start schedules the job and starts the scheduler.
func (w *ReconcileWorker) Start() error {
	schedule := w.cfg.Schedule
	if schedule == "" {
		schedule = "@every 60s"
	}
	id, err := w.cron.AddFunc(schedule, w.RunNow)
	if err != nil {
		return fmt.Errorf("failed to schedule reconciliation job: %w", err)
	}
	w.entryID = id

	if w.cfg.RunOnStart {
		w.startup.Add(1)
		go func() {
			defer w.startup.Done()
			w.RunNow()
		}()
	}
	w.cron.Start()
	w.logger.Info("reconciliation worker started", zap.String("schedule", schedule))
	return nil
}

// Stop stops the scheduler and waits for running passes, including the one
// started by RunOnStart, or for ctx to end.
func (w *ReconcileWorker) Stop(ctx context.Context) {
	scheduled := w.cron.Stop()
	done := make(chan struct{})
	go func() {
		<-scheduled.Done()
		w.startup.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("reconciliation worker stop timed out")
	}
	w.logger.Info("reconciliation worker stopped")
}

// RunNow runs a single pass synchronously.
func (w *ReconcileWorker) RunNow() {
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), w.cfg.WriteTimeout())
	defer cancel()

	dash, err := w.refresher.Refresh(ctx)
	if err != nil {
		w.logger.Error("reconciliation pass failed", zap.Error(err))
		return
	}
	w.logger.Info("reconciliation pass finished",
		zap.Int("staff", dash.Total),
		zap.Int("out_of_office", dash.Out),
		zap.Duration("duration", time.Since(start)))
}

// NextRun reports when the scheduled job fires next.
func (w *ReconcileWorker) NextRun() time.Time {
	return w.cron.Entry(w.entryID).Next
}

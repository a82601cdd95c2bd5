package presence

import (
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-presence/internal/dateutil"
	"github.com/spec-kit/staff-presence/internal/domain"
	"github.com/spec-kit/staff-presence/internal/observability"
)

// Enqueuer accepts corrective writes without blocking.
type Enqueuer interface {
	Enqueue(member domain.StaffMember, previous domain.Status) bool
}

// Reconciler recomputes each member's status and pushes corrections back to
// storage through an Enqueuer.
type Reconciler struct {
	queue   Enqueuer
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewReconciler builds a reconciler.
func NewReconciler(queue Enqueuer, logger *zap.Logger, metrics *observability.Metrics) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{queue: queue, logger: logger, metrics: metrics}
}

// Reconcile returns a copy of staff whose CurrentStatus matches the status
// derived for today. Every mismatch is enqueued as a corrective write; the
// returned roster carries the corrected value whether or not that write
// succeeds. The inputs are treated as a read-only snapshot.
func (r *Reconciler) Reconcile(staff []domain.StaffMember, movements []domain.MovementRecord, today time.Time) []domain.StaffMember {
	start := time.Now()
	today = dateutil.NormalizeToMidnight(today)

	byStaff := make(map[string][]domain.MovementRecord, len(staff))
	for _, m := range movements {
		id := canonicalID(m.StaffID)
		byStaff[id] = append(byStaff[id], m)
	}

	updated := make([]domain.StaffMember, len(staff))
	mismatches, out := 0, 0
	for i, member := range staff {
		updated[i] = member

		own := SortByDateOutDesc(byStaff[canonicalID(member.ID)])
		computed := DeriveStatus(member.ID, own, today)
		if computed == domain.StatusOutOfOffice {
			out++
		}
		if computed == member.CurrentStatus {
			continue
		}

		mismatches++
		previous := member.CurrentStatus
		updated[i].CurrentStatus = computed
		if r.queue != nil {
			r.queue.Enqueue(updated[i], previous)
		}
	}

	r.metrics.RecordReconcile(time.Since(start), mismatches, out)
	r.logger.Debug("reconciliation pass complete",
		zap.Int("staff", len(staff)),
		zap.Int("movements", len(movements)),
		zap.Int("corrections", mismatches),
		zap.Int("out_of_office", out))
	return updated
}

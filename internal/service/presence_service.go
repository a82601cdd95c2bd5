package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/staff-presence/internal/dateutil"
	"github.com/spec-kit/staff-presence/internal/domain"
	"github.com/spec-kit/staff-presence/internal/events"
	"github.com/spec-kit/staff-presence/internal/presence"
	apperrors "github.com/spec-kit/staff-presence/pkg/util/errorutil"
)

// Dashboard is the reconciled roster for today. Rows of absent members carry
// the movement that covers today.
type Dashboard struct {
	Date  time.Time
	Rows  []presence.StaffOnDate
	Out   int
	In    int
	Total int
}

// PresenceService refreshes the roster and answers status queries.
type PresenceService struct {
	store      RecordStore
	reconciler *presence.Reconciler
	logger     *zap.Logger
	clock      Clock
}

// NewPresenceService constructs the service.
func NewPresenceService(store RecordStore, reconciler *presence.Reconciler, logger *zap.Logger, clock Clock) *PresenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PresenceService{store: store, reconciler: reconciler, logger: logger, clock: clock}
}

// Refresh loads a snapshot of the roster and movements and reconciles it
// against today. Corrective writes are queued in the background.
func (s *PresenceService) Refresh(ctx context.Context) (Dashboard, error) {
	staff, movements, err := s.snapshot(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	today := dateutil.NormalizeToMidnight(s.clock.now())
	reconciled := s.reconciler.Reconcile(staff, movements, today)

	recent := presence.SortByDateOutDesc(movements)
	dash := Dashboard{Date: today, Rows: make([]presence.StaffOnDate, 0, len(reconciled)), Total: len(reconciled)}
	for _, member := range reconciled {
		row := presence.StaffOnDate{Staff: member, Status: member.CurrentStatus}
		if member.CurrentStatus == domain.StatusOutOfOffice {
			if m, ok := presence.FindCovering(recent, member.ID, today); ok {
				row.Movement = &m
			}
			dash.Out++
		} else {
			dash.In++
		}
		dash.Rows = append(dash.Rows, row)
	}
	return dash, nil
}

// Search reports each member's status on date, filtered by term. An empty
// date means today.
func (s *PresenceService) Search(ctx context.Context, date, term string) (presence.StatusReport, error) {
	target := dateutil.NormalizeToMidnight(s.clock.now())
	if strings.TrimSpace(date) != "" {
		parsed, ok := dateutil.ParseDate(date)
		if !ok {
			return presence.StatusReport{}, apperrors.NewValidationError("invalid date", map[string]any{"date": date})
		}
		target = parsed
	}

	staff, movements, err := s.snapshot(ctx)
	if err != nil {
		return presence.StatusReport{}, err
	}
	return presence.StatusOn(staff, movements, target, term), nil
}

// RegisterHandlers refreshes the roster whenever a movement changes, so the
// stored status follows immediately instead of on the next scheduled pass.
func (s *PresenceService) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	handler := func(ctx context.Context, event events.Event) error {
		_, err := s.Refresh(ctx)
		return err
	}
	dispatcher.Subscribe(events.EventMovementCreated, handler)
	dispatcher.Subscribe(events.EventMovementDeleted, handler)
}

func (s *PresenceService) snapshot(ctx context.Context) ([]domain.StaffMember, []domain.MovementRecord, error) {
	var (
		staff     []domain.StaffMember
		movements []domain.MovementRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		staff = s.store.ListStaff(gctx)
		return nil
	})
	g.Go(func() error {
		movements = s.store.ListMovements(gctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return staff, movements, nil
}

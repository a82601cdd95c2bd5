package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-presence/internal/auth"
	"github.com/spec-kit/staff-presence/internal/dateutil"
	"github.com/spec-kit/staff-presence/internal/domain"
	"github.com/spec-kit/staff-presence/internal/events"
	"github.com/spec-kit/staff-presence/internal/presence"
	"github.com/spec-kit/staff-presence/internal/store"
	apperrors "github.com/spec-kit/staff-presence/pkg/util/errorutil"
)

// MovementInput carries the fields of a movement submitted by its owner.
type MovementInput struct {
	DateOut    string
	DateReturn string
	TimeOut    string
	TimeReturn string
	Location   string
	State      string
	Purpose    string
}

// MovementView is a movement annotated for display.
type MovementView struct {
	Movement          domain.MovementRecord
	TimeStatus        dateutil.TimeStatus
	DateOutDisplay    string
	DateReturnDisplay string
}

// MovementService records and lists staff movements.
type MovementService struct {
	store      RecordStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
	clock      Clock
}

// NewMovementService constructs the service.
func NewMovementService(store RecordStore, dispatcher events.Dispatcher, logger *zap.Logger, clock Clock) *MovementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MovementService{store: store, dispatcher: dispatcher, logger: logger, clock: clock}
}

// CreateMovement records a movement for the calling staff member.
func (s *MovementService) CreateMovement(ctx context.Context, actor *auth.Principal, in MovementInput) (domain.MovementRecord, error) {
	if actor == nil || actor.StaffID == "" {
		return domain.MovementRecord{}, apperrors.NewUnauthorized("authentication required")
	}

	name := actor.Name
	if member, ok := findStaff(s.store.ListStaff(ctx), actor.StaffID); ok {
		name = member.Name
	}

	now := s.clock.now()
	movement, err := s.store.CreateMovement(ctx, store.NewMovement{
		StaffID:    actor.StaffID,
		StaffName:  name,
		DateOut:    in.DateOut,
		DateReturn: in.DateReturn,
		TimeOut:    in.TimeOut,
		TimeReturn: in.TimeReturn,
		Location:   in.Location,
		State:      in.State,
		Purpose:    in.Purpose,
	}, now)
	if err != nil {
		return domain.MovementRecord{}, apperrors.MapError(err)
	}

	s.logger.Info("movement recorded",
		zap.String("movement_id", movement.ID),
		zap.String("staff_id", movement.StaffID),
		zap.String("date_out", movement.DateOut),
		zap.String("date_return", movement.DateReturn))
	s.publish(ctx, events.EventMovementCreated, movement, actor)
	return movement, nil
}

// MyMovements lists the caller's movements, most recent first.
func (s *MovementService) MyMovements(ctx context.Context, actor *auth.Principal) ([]MovementView, error) {
	if actor == nil || actor.StaffID == "" {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	own := presence.MovementsOf(s.store.ListMovements(ctx), actor.StaffID)
	return s.views(presence.SortByDateOutDesc(own)), nil
}

// AllMovements lists every movement, most recent first.
func (s *MovementService) AllMovements(ctx context.Context, actor *auth.Principal) ([]MovementView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	return s.views(presence.SortByDateOutDesc(s.store.ListMovements(ctx))), nil
}

// DeleteMovement removes a movement.
func (s *MovementService) DeleteMovement(ctx context.Context, actor *auth.Principal, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.NewValidationError("movement id required", nil)
	}
	if err := s.store.DeleteMovement(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventMovementDeleted, domain.MovementRecord{ID: id}, actor)
	return nil
}

func (s *MovementService) views(movements []domain.MovementRecord) []MovementView {
	today := s.clock.now()
	views := make([]MovementView, 0, len(movements))
	for _, m := range movements {
		views = append(views, MovementView{
			Movement:          m,
			TimeStatus:        dateutil.TimeStatusOf(m.DateOut, m.DateReturn, today),
			DateOutDisplay:    dateutil.FormatDisplay(m.DateOut),
			DateReturnDisplay: dateutil.FormatDisplay(m.DateReturn),
		})
	}
	return views
}

func (s *MovementService) publish(ctx context.Context, eventType events.EventType, m domain.MovementRecord, actor *auth.Principal) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      eventType,
		StaffID:   m.StaffID,
		Actor:     actorOf(actor),
		Timestamp: s.clock.now().UTC(),
		Payload: events.MovementPayload{
			MovementID: m.ID,
			DateOut:    m.DateOut,
			DateReturn: m.DateReturn,
			Location:   m.Location,
		},
	})
}

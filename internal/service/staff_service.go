package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/staff-presence/internal/auth"
	"github.com/spec-kit/staff-presence/internal/config"
	"github.com/spec-kit/staff-presence/internal/domain"
	"github.com/spec-kit/staff-presence/internal/events"
	"github.com/spec-kit/staff-presence/internal/store"
	apperrors "github.com/spec-kit/staff-presence/pkg/util/errorutil"
)

// StaffInput carries admin-supplied staff fields. Nil pointers leave the
// existing value untouched on update.
type StaffInput struct {
	Name     *string
	Position *string
	Username *string
	Password *string
	Role     *domain.StaffRole
}

// StaffService manages the staff roster.
type StaffService struct {
	store      RecordStore
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
	clock      Clock
}

// NewStaffService constructs the service.
func NewStaffService(cfg config.Config, store RecordStore, dispatcher events.Dispatcher, logger *zap.Logger, clock Clock) *StaffService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
		bcryptCost: cfg.Auth.BcryptCost,
		clock:      clock,
	}
}

func requireAdmin(actor *auth.Principal) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// ListStaff returns the roster ordered by name.
func (s *StaffService) ListStaff(ctx context.Context, actor *auth.Principal) ([]domain.StaffMember, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	staff := s.store.ListStaff(ctx)
	sort.SliceStable(staff, func(i, j int) bool {
		return strings.ToLower(staff[i].Name) < strings.ToLower(staff[j].Name)
	})
	return staff, nil
}

// CreateStaffMember adds a new staff account.
func (s *StaffService) CreateStaffMember(ctx context.Context, actor *auth.Principal, in StaffInput) (domain.StaffMember, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.StaffMember{}, err
	}
	return s.create(ctx, in, actorOf(actor))
}

// UpdateStaffMember merges in onto the stored member with the given id.
func (s *StaffService) UpdateStaffMember(ctx context.Context, actor *auth.Principal, id string, in StaffInput) (domain.StaffMember, error) {
	if err := requireAdmin(actor); err != nil {
		return domain.StaffMember{}, err
	}

	existing, ok := findStaff(s.store.ListStaff(ctx), id)
	if !ok {
		return domain.StaffMember{}, apperrors.NewNotFound("staff", map[string]any{"id": id})
	}

	updated := existing
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return domain.StaffMember{}, apperrors.NewValidationError("name must not be empty", nil)
		}
		updated.Name = strings.TrimSpace(*in.Name)
	}
	if in.Position != nil {
		updated.Position = strings.TrimSpace(*in.Position)
	}
	if in.Username != nil {
		username := strings.TrimSpace(*in.Username)
		if username == "" {
			return domain.StaffMember{}, apperrors.NewValidationError("username must not be empty", nil)
		}
		if err := s.ensureUsernameFree(ctx, username, existing.ID); err != nil {
			return domain.StaffMember{}, err
		}
		updated.Username = username
	}
	if in.Role != nil {
		if !in.Role.Valid() {
			return domain.StaffMember{}, apperrors.NewValidationError("invalid role", map[string]any{"role": *in.Role})
		}
		updated.Role = *in.Role
	}
	if in.Password != nil && strings.TrimSpace(*in.Password) != "" {
		hash, err := auth.HashPassword(*in.Password, s.bcryptCost)
		if err != nil {
			return domain.StaffMember{}, apperrors.NewInternalError(err)
		}
		updated.PasswordHash = hash
	}

	if err := s.store.UpdateStaff(ctx, updated); err != nil {
		return domain.StaffMember{}, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventStaffUpdated, updated, actorOf(actor))
	return updated, nil
}

// DeleteStaffMember removes a member. Their movements stay in the store.
func (s *StaffService) DeleteStaffMember(ctx context.Context, actor *auth.Principal, id string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if actor.StaffID == id {
		return apperrors.NewConflict("cannot delete own account", map[string]any{"id": id})
	}
	if err := s.store.DeleteStaff(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.EventStaffDeleted, domain.StaffMember{ID: id}, actorOf(actor))
	return nil
}

// EnsureAdmin creates an administrator account when the roster has none.
// It is a no-op when password is empty.
func (s *StaffService) EnsureAdmin(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil
	}
	for _, member := range s.store.ListStaff(ctx) {
		if member.IsAdmin() {
			return nil
		}
	}

	name := "Administrator"
	role := domain.StaffRoleAdmin
	created, err := s.create(ctx, StaffInput{Name: &name, Username: &username, Password: &password, Role: &role}, events.SystemActor())
	if err != nil {
		return err
	}
	s.logger.Info("bootstrap administrator created", zap.String("staff_id", created.ID), zap.String("username", created.Username))
	return nil
}

func (s *StaffService) create(ctx context.Context, in StaffInput, actor events.Actor) (domain.StaffMember, error) {
	name, username, password := deref(in.Name), deref(in.Username), deref(in.Password)
	if strings.TrimSpace(name) == "" || strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return domain.StaffMember{}, apperrors.NewValidationError("name, username and password are required", nil)
	}
	role := domain.StaffRoleStaff
	if in.Role != nil {
		if !in.Role.Valid() {
			return domain.StaffMember{}, apperrors.NewValidationError("invalid role", map[string]any{"role": *in.Role})
		}
		role = *in.Role
	}
	if err := s.ensureUsernameFree(ctx, username, ""); err != nil {
		return domain.StaffMember{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return domain.StaffMember{}, apperrors.NewInternalError(err)
	}

	created, err := s.store.CreateStaff(ctx, store.NewStaff{
		Name:         name,
		Position:     deref(in.Position),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		return domain.StaffMember{}, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventStaffCreated, created, actor)
	return created, nil
}

func (s *StaffService) ensureUsernameFree(ctx context.Context, username, exceptID string) error {
	want := strings.ToLower(strings.TrimSpace(username))
	for _, member := range s.store.ListStaff(ctx) {
		if member.ID != exceptID && strings.ToLower(member.Username) == want {
			return apperrors.NewConflict("username already exists", map[string]any{"username": username})
		}
	}
	return nil
}

func (s *StaffService) publish(ctx context.Context, eventType events.EventType, member domain.StaffMember, actor events.Actor) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		Type:      eventType,
		StaffID:   member.ID,
		Actor:     actor,
		Timestamp: s.clock.now().UTC(),
		Payload:   events.StaffChangedPayload{Name: member.Name, Role: member.Role},
	})
}

func findStaff(staff []domain.StaffMember, id string) (domain.StaffMember, bool) {
	id = strings.TrimSpace(id)
	for _, member := range staff {
		if member.ID == id {
			return member, true
		}
	}
	return domain.StaffMember{}, false
}

func actorOf(p *auth.Principal) events.Actor {
	if p == nil {
		return events.SystemActor()
	}
	return events.StaffActor(p.StaffID)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-presence/internal/dateutil"
	"github.com/spec-kit/staff-presence/internal/domain"
	"github.com/spec-kit/staff-presence/internal/repository"
	apperrors "github.com/spec-kit/staff-presence/pkg/util/errorutil"
)

const (
	staffCacheKey     = "staff"
	movementsCacheKey = "movements"
)

// NewStaff holds the fields of a staff member about to be created.
type NewStaff struct {
	Name         string
	Position     string
	Username     string
	PasswordHash string
	Role         domain.StaffRole
}

// NewMovement holds the fields of a movement about to be recorded.
type NewMovement struct {
	StaffID    string
	StaffName  string
	DateOut    string
	DateReturn string
	TimeOut    string
	TimeReturn string
	Location   string
	State      string
	Purpose    string
}

// Facade exposes the record store to the rest of the service. Lists fail
// soft: a transport error is logged and an empty roster is returned.
type Facade struct {
	staff     repository.StaffRepository
	movements repository.MovementRepository
	cache     SnapshotCache
	cacheTTL  time.Duration
	logger    *zap.Logger
	newID     func() string
}

// FacadeOptions configures optional collaborators of the Facade.
type FacadeOptions struct {
	Cache    SnapshotCache
	CacheTTL time.Duration
	Logger   *zap.Logger
	NewID    func() string
}

// NewFacade builds the facade over the two repositories.
func NewFacade(staff repository.StaffRepository, movements repository.MovementRepository, opts FacadeOptions) *Facade {
	if opts.Cache == nil || opts.CacheTTL <= 0 {
		opts.Cache = noopCache{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	return &Facade{
		staff:     staff,
		movements: movements,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		logger:    opts.Logger,
		newID:     opts.NewID,
	}
}

// ListStaff returns the roster, or an empty roster when the store fails.
// Password hashes are never part of the roster; see ListCredentials.
func (f *Facade) ListStaff(ctx context.Context) []domain.StaffMember {
	records, err := f.cachedList(ctx, staffCacheKey, f.listStaffWithoutCredentials)
	if err != nil {
		f.logger.Error("error fetching staff", zap.Error(err))
		return []domain.StaffMember{}
	}
	return staffFromRecords(records)
}

// ListCredentials returns the roster including password hashes. It always
// reads the repository and never touches the snapshot cache.
func (f *Facade) ListCredentials(ctx context.Context) []domain.StaffMember {
	records, err := f.staff.List(ctx)
	if err != nil {
		f.logger.Error("error fetching staff credentials", zap.Error(err))
		return []domain.StaffMember{}
	}
	return staffFromRecords(records)
}

func (f *Facade) listStaffWithoutCredentials(ctx context.Context) ([]domain.Record, error) {
	records, err := f.staff.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		delete(rec, "passwordHash")
	}
	return records, nil
}

func staffFromRecords(records []domain.Record) []domain.StaffMember {
	staff := make([]domain.StaffMember, 0, len(records))
	for _, rec := range records {
		staff = append(staff, StaffFromRecord(rec))
	}
	return staff
}

// ListMovements returns every movement, or none when the store fails.
func (f *Facade) ListMovements(ctx context.Context) []domain.MovementRecord {
	records, err := f.cachedList(ctx, movementsCacheKey, f.movements.List)
	if err != nil {
		f.logger.Error("error fetching movements", zap.Error(err))
		return []domain.MovementRecord{}
	}
	movements := make([]domain.MovementRecord, 0, len(records))
	for _, rec := range records {
		movements = append(movements, MovementFromRecord(rec))
	}
	return movements
}

// CreateStaff persists a new member with a fresh id and IN_OFFICE status.
func (f *Facade) CreateStaff(ctx context.Context, in NewStaff) (domain.StaffMember, error) {
	if err := ValidateNewStaff(in); err != nil {
		return domain.StaffMember{}, err
	}
	role := in.Role
	if !role.Valid() {
		role = domain.StaffRoleStaff
	}
	staff := domain.StaffMember{
		ID:            f.newID(),
		Name:          strings.TrimSpace(in.Name),
		Position:      strings.TrimSpace(in.Position),
		Username:      strings.TrimSpace(in.Username),
		PasswordHash:  in.PasswordHash,
		Role:          role,
		CurrentStatus: domain.StatusInOffice,
	}
	if err := f.staff.Create(ctx, StaffToRecord(staff)); err != nil {
		return domain.StaffMember{}, fmt.Errorf("create staff: %w", err)
	}
	f.invalidate(ctx, staffCacheKey)
	return staff, nil
}

// UpdateStaff writes the full record, keyed by ID. An empty PasswordHash
// keeps the stored one. Repeating the same update is harmless.
func (f *Facade) UpdateStaff(ctx context.Context, staff domain.StaffMember) error {
	if strings.TrimSpace(staff.ID) == "" {
		return apperrors.NewValidationError("staff id required", nil)
	}
	if err := f.staff.Upsert(ctx, StaffToRecord(staff)); err != nil {
		return fmt.Errorf("update staff %s: %w", staff.ID, err)
	}
	f.invalidate(ctx, staffCacheKey)
	return nil
}

// UpdateStatus writes only the current status of a member, leaving edits
// made to other fields since the caller's snapshot untouched.
func (f *Facade) UpdateStatus(ctx context.Context, id string, status domain.Status) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewValidationError("staff id required", nil)
	}
	if !status.Valid() {
		return apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}
	if err := f.staff.UpdateStatus(ctx, id, string(status)); err != nil {
		return fmt.Errorf("update staff %s status: %w", id, err)
	}
	f.invalidate(ctx, staffCacheKey)
	return nil
}

// DeleteStaff removes a member. Their movements are left in place.
func (f *Facade) DeleteStaff(ctx context.Context, id string) error {
	if err := f.staff.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete staff %s: %w", id, err)
	}
	f.invalidate(ctx, staffCacheKey)
	return nil
}

// CreateMovement validates and records a movement. StatusFrequency is
// OUT_OF_OFFICE when the movement returns today or later.
func (f *Facade) CreateMovement(ctx context.Context, in NewMovement, now time.Time) (domain.MovementRecord, error) {
	if err := ValidateNewMovement(in); err != nil {
		return domain.MovementRecord{}, err
	}

	today := dateutil.NormalizeToMidnight(now)
	ret, _ := dateutil.ParseDate(in.DateReturn)
	freq := domain.StatusInOffice
	if !ret.Before(today) {
		freq = domain.StatusOutOfOffice
	}

	movement := domain.MovementRecord{
		ID:              f.newID(),
		StaffID:         strings.TrimSpace(in.StaffID),
		StaffName:       strings.TrimSpace(in.StaffName),
		DateOut:         dateutil.Canonical(in.DateOut),
		DateReturn:      dateutil.Canonical(in.DateReturn),
		TimeOut:         strings.TrimSpace(in.TimeOut),
		TimeReturn:      strings.TrimSpace(in.TimeReturn),
		Location:        strings.TrimSpace(in.Location),
		State:           strings.TrimSpace(in.State),
		Purpose:         strings.TrimSpace(in.Purpose),
		StatusFrequency: freq,
		CreatedAt:       now.UTC(),
	}
	if err := f.movements.Insert(ctx, MovementToRecord(movement)); err != nil {
		return domain.MovementRecord{}, fmt.Errorf("create movement: %w", err)
	}
	f.invalidate(ctx, movementsCacheKey)
	return movement, nil
}

// DeleteMovement removes a movement.
func (f *Facade) DeleteMovement(ctx context.Context, id string) error {
	if err := f.movements.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete movement %s: %w", id, err)
	}
	f.invalidate(ctx, movementsCacheKey)
	return nil
}

// ValidateNewMovement rejects incomplete movements and inverted ranges.
func ValidateNewMovement(in NewMovement) error {
	missing := []string{}
	if strings.TrimSpace(in.StaffID) == "" {
		missing = append(missing, "staffId")
	}
	if strings.TrimSpace(in.DateOut) == "" {
		missing = append(missing, "dateOut")
	}
	if strings.TrimSpace(in.DateReturn) == "" {
		missing = append(missing, "dateReturn")
	}
	if strings.TrimSpace(in.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(in.Purpose) == "" {
		missing = append(missing, "purpose")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("required fields missing", map[string]any{"fields": missing})
	}

	out, ok := dateutil.ParseDate(in.DateOut)
	if !ok {
		return apperrors.NewValidationError("invalid dateOut", map[string]any{"dateOut": in.DateOut})
	}
	ret, ok := dateutil.ParseDate(in.DateReturn)
	if !ok {
		return apperrors.NewValidationError("invalid dateReturn", map[string]any{"dateReturn": in.DateReturn})
	}
	if out.After(ret) {
		return apperrors.NewValidationError("dateOut must not be after dateReturn", map[string]any{
			"dateOut":    in.DateOut,
			"dateReturn": in.DateReturn,
		})
	}
	return nil
}

// ValidateNewStaff rejects members without a name or credentials.
func ValidateNewStaff(in NewStaff) error {
	missing := []string{}
	if strings.TrimSpace(in.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(in.Username) == "" {
		missing = append(missing, "username")
	}
	if in.PasswordHash == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return apperrors.NewValidationError("required fields missing", map[string]any{"fields": missing})
	}
	return nil
}

func (f *Facade) cachedList(ctx context.Context, key string, fetch func(context.Context) ([]domain.Record, error)) ([]domain.Record, error) {
	if raw, ok, err := f.cache.Get(ctx, key); err != nil {
		f.logger.Warn("snapshot cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var records []domain.Record
		if err := json.Unmarshal(raw, &records); err == nil {
			return records, nil
		}
		f.logger.Warn("discarding undecodable snapshot", zap.String("key", key))
	}

	gen, genErr := f.cache.Generation(ctx, key)
	records, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if genErr != nil {
		f.logger.Warn("snapshot generation read failed", zap.String("key", key), zap.Error(genErr))
		return records, nil
	}
	f.cacheSnapshot(ctx, key, gen, records)
	return records, nil
}

// cacheSnapshot caches records fetched at generation gen. A write that lands while
// the fetch or the Set is in flight moves the generation, and the snapshot is
// then skipped or dropped again.
func (f *Facade) cacheSnapshot(ctx context.Context, key string, gen int64, records []domain.Record) {
	if current, err := f.cache.Generation(ctx, key); err != nil || current != gen {
		return
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return
	}
	if err := f.cache.Set(ctx, key, raw, f.cacheTTL); err != nil {
		f.logger.Warn("snapshot cache write failed", zap.String("key", key), zap.Error(err))
		return
	}
	if current, err := f.cache.Generation(ctx, key); err != nil || current != gen {
		if err := f.cache.Delete(ctx, key); err != nil {
			f.logger.Warn("snapshot cache invalidation failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// invalidate bumps the generation before deleting, so a reader that fetched
// before this write cannot put its snapshot back afterwards.
func (f *Facade) invalidate(ctx context.Context, key string) {
	if _, err := f.cache.Bump(ctx, key); err != nil {
		f.logger.Warn("snapshot generation bump failed", zap.String("key", key), zap.Error(err))
	}
	if err := f.cache.Delete(ctx, key); err != nil {
		f.logger.Warn("snapshot cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

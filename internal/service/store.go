package service

import (
	"context"
	"time"

	"github.com/spec-kit/staff-presence/internal/domain"
	"github.com/spec-kit/staff-presence/internal/store"
)

// RecordStore is the subset of the store facade the services depend on.
type RecordStore interface {
	ListStaff(ctx context.Context) []domain.StaffMember
	// ListCredentials is ListStaff with password hashes, read past any cache.
	ListCredentials(ctx context.Context) []domain.StaffMember
	ListMovements(ctx context.Context) []domain.MovementRecord
	CreateStaff(ctx context.Context, in store.NewStaff) (domain.StaffMember, error)
	UpdateStaff(ctx context.Context, staff domain.StaffMember) error
	DeleteStaff(ctx context.Context, id string) error
	CreateMovement(ctx context.Context, in store.NewMovement, now time.Time) (domain.MovementRecord, error)
	DeleteMovement(ctx context.Context, id string) error
}

// Clock returns the current instant. Services read time only through it.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

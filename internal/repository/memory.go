package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/spec-kit/staff-presence/internal/domain"
	apperrors "github.com/spec-kit/staff-presence/pkg/util/errorutil"
)

// MemoryStaffRepository keeps staff records in process memory, in insertion
// order. It backs the service when no database is configured.
type MemoryStaffRepository struct {
	mu      sync.RWMutex
	records []domain.Record
}

// NewMemoryStaffRepository seeds the repository with records.
func NewMemoryStaffRepository(seed ...domain.Record) *MemoryStaffRepository {
	r := &MemoryStaffRepository{}
	for _, rec := range seed {
		r.records = append(r.records, cloneRecord(rec))
	}
	return r
}

func (r *MemoryStaffRepository) List(_ context.Context) ([]domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneRecords(r.records), nil
}

func (r *MemoryStaffRepository) Create(_ context.Context, staff domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if indexOf(r.records, staff["id"]) >= 0 {
		return apperrors.NewConflict("staff id already exists", map[string]any{"id": staff["id"]})
	}
	r.records = append(r.records, cloneRecord(staff))
	return nil
}

func (r *MemoryStaffRepository) Upsert(_ context.Context, staff domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := indexOf(r.records, staff["id"]); i >= 0 {
		next := cloneRecord(staff)
		if hash, _ := next["passwordHash"].(string); hash == "" {
			next["passwordHash"] = r.records[i]["passwordHash"]
		}
		r.records[i] = next
		return nil
	}
	r.records = append(r.records, cloneRecord(staff))
	return nil
}

func (r *MemoryStaffRepository) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := indexOf(r.records, id)
	if i < 0 {
		return apperrors.ErrNotFound
	}
	next := cloneRecord(r.records[i])
	next["currentStatus"] = status
	r.records[i] = next
	return nil
}

func (r *MemoryStaffRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := indexOf(r.records, id)
	if i < 0 {
		return apperrors.ErrNotFound
	}
	r.records = append(r.records[:i], r.records[i+1:]...)
	return nil
}

// MemoryMovementRepository keeps movement records in process memory.
type MemoryMovementRepository struct {
	mu      sync.RWMutex
	records []domain.Record
}

// NewMemoryMovementRepository seeds the repository with records.
func NewMemoryMovementRepository(seed ...domain.Record) *MemoryMovementRepository {
	r := &MemoryMovementRepository{}
	for _, rec := range seed {
		r.records = append(r.records, cloneRecord(rec))
	}
	return r
}

func (r *MemoryMovementRepository) List(_ context.Context) ([]domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneRecords(r.records), nil
}

func (r *MemoryMovementRepository) Insert(_ context.Context, movement domain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if indexOf(r.records, movement["id"]) >= 0 {
		return apperrors.NewConflict("movement id already exists", map[string]any{"id": movement["id"]})
	}
	r.records = append(r.records, cloneRecord(movement))
	return nil
}

func (r *MemoryMovementRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := indexOf(r.records, id)
	if i < 0 {
		return apperrors.ErrNotFound
	}
	r.records = append(r.records[:i], r.records[i+1:]...)
	return nil
}

func indexOf(records []domain.Record, id any) int {
	want, ok := id.(string)
	if !ok {
		return -1
	}
	for i, rec := range records {
		if got, ok := rec["id"].(string); ok && strings.TrimSpace(got) == strings.TrimSpace(want) {
			return i
		}
	}
	return -1
}

func cloneRecord(rec domain.Record) domain.Record {
	out := make(domain.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func cloneRecords(records []domain.Record) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		out = append(out, cloneRecord(rec))
	}
	return out
}

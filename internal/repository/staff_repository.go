package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-presence/internal/domain"
	apperrors "github.com/spec-kit/staff-presence/pkg/util/errorutil"
)

// StaffRepository stores roster rows as loosely-typed records.
type StaffRepository interface {
	List(ctx context.Context) ([]domain.Record, error)
	Create(ctx context.Context, staff domain.Record) error
	Upsert(ctx context.Context, staff domain.Record) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

func (r *staffRepository) List(ctx context.Context) ([]domain.Record, error) {
	const query = `
        SELECT id, name, position, username, password_hash AS "passwordHash", role,
               current_status AS "currentStatus"
        FROM staff_members ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return collectRecords(rows)
}

func (r *staffRepository) Create(ctx context.Context, staff domain.Record) error {
	const query = `
        INSERT INTO staff_members (id, name, position, username, password_hash, role, current_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err := r.pool.Exec(ctx, query,
		staff["id"],
		staff["name"],
		staff["position"],
		staff["username"],
		staff["passwordHash"],
		staff["role"],
		staff["currentStatus"],
	)
	return err
}

func (r *staffRepository) Upsert(ctx context.Context, staff domain.Record) error {
	const query = `
        INSERT INTO staff_members (id, name, position, username, password_hash, role, current_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (id) DO UPDATE
        SET name=EXCLUDED.name, position=EXCLUDED.position, username=EXCLUDED.username,
            password_hash=COALESCE(NULLIF(EXCLUDED.password_hash, ''), staff_members.password_hash),
            role=EXCLUDED.role,
            current_status=EXCLUDED.current_status, updated_at=NOW()`

	_, err := r.pool.Exec(ctx, query,
		staff["id"],
		staff["name"],
		staff["position"],
		staff["username"],
		staff["passwordHash"],
		staff["role"],
		staff["currentStatus"],
	)
	return err
}

// UpdateStatus touches current_status only.
func (r *staffRepository) UpdateStatus(ctx context.Context, id, status string) error {
	const query = `UPDATE staff_members SET current_status=$2, updated_at=NOW() WHERE id=$1`

	cmd, err := r.pool.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update staff status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *staffRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM staff_members WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func collectRecords(rows pgx.Rows) ([]domain.Record, error) {
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, err
	}
	records := make([]domain.Record, 0, len(maps))
	for _, m := range maps {
		records = append(records, domain.Record(m))
	}
	return records, nil
}

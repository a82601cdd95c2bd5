package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-presence/internal/domain"
	apperrors "github.com/spec-kit/staff-presence/pkg/util/errorutil"
)

// MovementRepository stores movement rows. Movements are never updated.
type MovementRepository interface {
	List(ctx context.Context) ([]domain.Record, error)
	Insert(ctx context.Context, movement domain.Record) error
	Delete(ctx context.Context, id string) error
}

type movementRepository struct {
	pool *pgxpool.Pool
}

// NewMovementRepository builds repository.
func NewMovementRepository(pool *pgxpool.Pool) MovementRepository {
	return &movementRepository{pool: pool}
}

func (r *movementRepository) List(ctx context.Context) ([]domain.Record, error) {
	const query = `
        SELECT id, staff_id AS "staffId", staff_name AS "staffName",
               date_out AS "dateOut", date_return AS "dateReturn",
               time_out AS "timeOut", time_return AS "timeReturn",
               location, state, purpose, status_frequency AS "statusFrequency",
               created_at AS "createdAt"
        FROM movements ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	return collectRecords(rows)
}

func (r *movementRepository) Insert(ctx context.Context, movement domain.Record) error {
	const query = `
        INSERT INTO movements (id, staff_id, staff_name, date_out, date_return, time_out, time_return,
                               location, state, purpose, status_frequency, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

	_, err := r.pool.Exec(ctx, query,
		movement["id"],
		movement["staffId"],
		movement["staffName"],
		movement["dateOut"],
		movement["dateReturn"],
		movement["timeOut"],
		movement["timeReturn"],
		movement["location"],
		movement["state"],
		movement["purpose"],
		movement["statusFrequency"],
		movement["createdAt"],
	)
	return err
}

func (r *movementRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM movements WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

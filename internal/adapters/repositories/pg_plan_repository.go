package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"routing-service/internal/domain"
	"routing-service/internal/platform/obs"
	"routing-service/internal/ports"

	"github.com/google/uuid"
)

// Postgres-backed implementation of the PlanRepository port. Results are
// stored as JSONB next to the columns used for filtering.
type PGPlanRepository struct{ DB *sql.DB }

var _ ports.PlanRepository = (*PGPlanRepository)(nil)

func NewPGPlanRepository(db *sql.DB) *PGPlanRepository {
	return &PGPlanRepository{DB: db}
}

func (r *PGPlanRepository) SavePlan(ctx context.Context, rec domain.PlanRecord) (err error) {
	defer obs.Time(ctx, "plans.Save")(&err)

	if r.DB == nil {
		return errors.New("pg plan repository: DB is nil")
	}

	payload, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("save plan: marshal result: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
	INSERT INTO plans (id, created_at, strategy, status, result)
	VALUES ($1, $2, $3, $4, $5::jsonb);
	`, rec.ID, rec.CreatedAt, string(rec.Result.Strategy), string(rec.Result.Status), string(payload))
	if err != nil {
		return fmt.Errorf("save plan %s: %w", rec.ID, err)
	}
	return nil
}

func (r *PGPlanRepository) GetPlan(ctx context.Context, id uuid.UUID) (_ domain.PlanRecord, err error) {
	defer obs.Time(ctx, "plans.Get")(&err)

	if r.DB == nil {
		return domain.PlanRecord{}, errors.New("pg plan repository: DB is nil")
	}

	row := r.DB.QueryRowContext(ctx, `
	SELECT id, created_at, result
	FROM plans
	WHERE id = $1;
	`, id)

	rec, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PlanRecord{}, ports.ErrPlanNotFound
	}
	if err != nil {
		return domain.PlanRecord{}, fmt.Errorf("get plan %s: %w", id, err)
	}
	return rec, nil
}

func (r *PGPlanRepository) ListPlans(ctx context.Context, limit int) (_ []domain.PlanRecord, err error) {
	defer obs.Time(ctx, "plans.List")(&err)

	if r.DB == nil {
		return nil, errors.New("pg plan repository: DB is nil")
	}

	rows, err := r.DB.QueryContext(ctx, `
	SELECT id, created_at, result
	FROM plans
	ORDER BY created_at DESC
	LIMIT $1;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list plans: query plans table: %w", err)
	}
	defer rows.Close()

	plans := make([]domain.PlanRecord, 0, limit)
	for rows.Next() {
		rec, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("list plans: %w", err)
		}
		plans = append(plans, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plans: row iteration: %w", err)
	}

	return plans, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(s scanner) (domain.PlanRecord, error) {
	var rec domain.PlanRecord
	var payload []byte
	if err := s.Scan(&rec.ID, &rec.CreatedAt, &payload); err != nil {
		return domain.PlanRecord{}, err
	}
	if err := json.Unmarshal(payload, &rec.Result); err != nil {
		return domain.PlanRecord{}, fmt.Errorf("decode plan %s: %w", rec.ID, err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}

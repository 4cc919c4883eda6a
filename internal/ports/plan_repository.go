package ports

import (
	"context"
	"errors"

	"routing-service/internal/domain"

	"github.com/google/uuid"
)

// ErrPlanNotFound is returned when an archived plan does not exist.
var ErrPlanNotFound = errors.New("plan not found")

// Port: a boundary for archiving routing results.
type PlanRepository interface {
	SavePlan(ctx context.Context, rec domain.PlanRecord) error
	GetPlan(ctx context.Context, id uuid.UUID) (domain.PlanRecord, error)
	// Return the most recent plans, newest first.
	ListPlans(ctx context.Context, limit int) ([]domain.PlanRecord, error)
}

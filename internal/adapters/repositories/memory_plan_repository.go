package repositories

import (
	"context"
	"sort"
	"sync"

	"routing-service/internal/domain"
	"routing-service/internal/ports"

	"github.com/google/uuid"
)

// MemoryPlanRepository keeps archived plans in process memory, up to a
// fixed number of records; the oldest are evicted first.
type MemoryPlanRepository struct {
	mu    sync.RWMutex
	max   int
	plans map[uuid.UUID]domain.PlanRecord
	order []uuid.UUID
}

var _ ports.PlanRepository = (*MemoryPlanRepository)(nil)

func NewMemoryPlanRepository(size int) *MemoryPlanRepository {
	if size <= 0 {
		size = 1000
	}
	return &MemoryPlanRepository{max: size, plans: map[uuid.UUID]domain.PlanRecord{}}
}

func (r *MemoryPlanRepository) SavePlan(_ context.Context, rec domain.PlanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[rec.ID]; !ok {
		r.order = append(r.order, rec.ID)
	}
	r.plans[rec.ID] = rec

	for len(r.order) > r.max {
		delete(r.plans, r.order[0])
		r.order = r.order[1:]
	}
	return nil
}

func (r *MemoryPlanRepository) GetPlan(_ context.Context, id uuid.UUID) (domain.PlanRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.plans[id]
	if !ok {
		return domain.PlanRecord{}, ports.ErrPlanNotFound
	}
	return rec, nil
}

func (r *MemoryPlanRepository) ListPlans(_ context.Context, limit int) ([]domain.PlanRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.PlanRecord, 0, len(r.plans))
	for _, rec := range r.plans {
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() > out[j].ID.String()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

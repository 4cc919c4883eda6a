// Package search implements the constraint-based VRPTW solver behind the
// exact routing strategy.
package search

import (
	"context"
	"errors"
	"fmt"

	"routing-service/internal/domain"
	"routing-service/internal/platform/logger"
	"routing-service/internal/ports"
)

// InsertionSearch solves capacitated routing with time windows by insertion
// construction followed by deterministic local search. It keeps no state
// between calls and is safe for concurrent use.
type InsertionSearch struct{}

func NewInsertionSearch() *InsertionSearch { return &InsertionSearch{} }

var _ ports.ConstraintSolver = (*InsertionSearch)(nil)

func (s *InsertionSearch) Solve(ctx context.Context, p *domain.CanonicalProblem, cfg ports.SearchConfig) ([]domain.VehicleStops, error) {
	if cfg.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.TimeLimit)
		defer cancel()
	}

	m := &model{p: p, budget: cfg.RouteTimeBudget, wait: cfg.WaitingAllowance}
	log := logger.Component("search")

	if len(p.Visits) == 0 {
		return []domain.VehicleStops{}, nil
	}
	if loc, found := m.firstUnservable(); found {
		return nil, fmt.Errorf("%w: location %d fits no vehicle on its own", ports.ErrNoSolution, loc)
	}

	sol, ok, err := m.cheapestInsertion(ctx, p.Visits)
	if err == nil && !ok {
		log.Debug().Msg("cheapest insertion failed, retrying with regret insertion")
		sol, ok, err = m.regretInsertion(ctx, p.Visits)
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: search budget exhausted during construction", ports.ErrNoSolution)
		}
		return nil, fmt.Errorf("search: construct: %w", err)
	}
	if !ok {
		return nil, ports.ErrNoSolution
	}

	initial := sol.cost(m)
	moves := m.improve(ctx, sol, cfg.MaxIterations)
	log.Debug().
		Float64("initial_cost", initial).
		Float64("final_cost", sol.cost(m)).
		Int("moves", moves).
		Msg("search finished")

	return m.stops(sol), nil
}

// firstUnservable returns the first visit that no vehicle can serve even alone.
func (m *model) firstUnservable() (int, bool) {
	for _, loc := range m.p.Visits {
		fits := false
		for _, c := range m.p.VehicleCapacities {
			if m.p.Demands[loc] <= c {
				fits = true
				break
			}
		}
		if !fits || !m.feasible([]int{loc}) {
			return loc, true
		}
	}
	return 0, false
}

func (m *model) stops(s *solution) []domain.VehicleStops {
	out := make([]domain.VehicleStops, 0, len(s.routes))
	for v, route := range s.routes {
		if len(route) == 0 {
			continue
		}
		arrivals, _ := m.schedule(route)
		nodes := m.path(route)
		stops := make([]domain.Stop, len(nodes))
		for i, loc := range nodes {
			stops[i] = domain.Stop{LocationID: loc, ArrivalTime: arrivals[i]}
		}
		out = append(out, domain.VehicleStops{VehicleIndex: v, Stops: stops})
	}
	return out
}

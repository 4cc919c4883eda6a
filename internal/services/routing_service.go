package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"routing-service/internal/config"
	"routing-service/internal/domain"
	"routing-service/internal/platform/logger"
	"routing-service/internal/platform/metrics"
	"routing-service/internal/platform/obs"
	"routing-service/internal/ports"
)

// RoutingService formulates routing requests and dispatches them to the
// selected planner. It holds no per-request state and is safe for concurrent use.
type RoutingService struct {
	solver   ports.ConstraintSolver
	resolver *MatrixResolver
	routing  config.Routing
}

func NewRoutingService(solver ports.ConstraintSolver, routing config.Routing) *RoutingService {
	return &RoutingService{solver: solver, routing: routing}
}

// WithMatrixResolver lets Solve build the matrix of requests that omit it.
func (s *RoutingService) WithMatrixResolver(r *MatrixResolver) *RoutingService {
	s.resolver = r
	return s
}

// ParseStrategy maps a caller-supplied strategy name to a Strategy. The empty
// string selects the exact solver.
func ParseStrategy(s string) (domain.Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact", "ortools", "alns":
		return domain.StrategyExact, nil
	case "greedy":
		return domain.StrategyGreedy, nil
	default:
		return "", invalid("strategy", "unknown strategy %q (want exact or greedy)", s)
	}
}

// Solve plans routes for in using strategy.
//
// A missing distance matrix is built through the configured MatrixResolver;
// provider failures wrap ErrMatrixUnavailable. Invalid input is reported as a
// *ValidationError before any planner runs. An
// exact solve that finds no feasible assignment is not an error: it yields a
// result with status no_solution and no routes.
func (s *RoutingService) Solve(ctx context.Context, in domain.ProblemInput, strategy domain.Strategy) (result *domain.RoutingResult, err error) {
	defer obs.Time(ctx, "routing.Solve")(&err)
	defer recordSolve(strategy, time.Now(), &result, &err)

	if len(in.DistanceMatrix) == 0 && len(in.Locations) > 0 && s.resolver != nil {
		in.DistanceMatrix, err = s.resolver.Resolve(ctx, in.Locations)
		if err != nil {
			return nil, err
		}
	}

	problem, err := FormulateProblem(in, s.routing)
	if err != nil {
		return nil, err
	}

	switch strategy {
	case domain.StrategyExact:
		result, err = s.solveExact(ctx, problem)
	case domain.StrategyGreedy:
		result = s.solveGreedy(problem, in.Parcels)
	default:
		return nil, invalid("strategy", "unknown strategy %q", strategy)
	}
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Info().
		Str("strategy", string(strategy)).
		Str("status", string(result.Status)).
		Int("routes", len(result.Routes)).
		Int("unassigned", len(result.UnassignedParcels)).
		Msg("routing solved")

	return result, nil
}

// statusError labels solves that returned an error instead of a result.
const statusError = "error"

// recordSolve counts every solve outcome, including rejected input.
func recordSolve(strategy domain.Strategy, start time.Time, result **domain.RoutingResult, errp *error) {
	label := string(strategy)
	if strategy != domain.StrategyExact && strategy != domain.StrategyGreedy {
		label = "unknown"
	}

	status := statusError
	if *errp == nil && *result != nil {
		status = string((*result).Status)
	}

	metrics.SolveDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	metrics.Solves.WithLabelValues(label, status).Inc()
}

func (s *RoutingService) solveExact(ctx context.Context, p *domain.CanonicalProblem) (*domain.RoutingResult, error) {
	if s.solver == nil {
		return nil, errors.New("routing solve: no constraint solver configured")
	}

	raw, err := s.solver.Solve(ctx, p, ports.SearchConfig{
		RouteTimeBudget:  s.routing.RouteTimeBudget,
		WaitingAllowance: s.routing.WaitingAllowance,
		TimeLimit:        s.routing.SearchTimeLimit,
		MaxIterations:    s.routing.SearchMaxIterations,
	})
	if errors.Is(err, ports.ErrNoSolution) {
		return &domain.RoutingResult{
			Status:   domain.StatusNoSolution,
			Strategy: domain.StrategyExact,
			Routes:   []domain.Route{},
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("routing solve: exact: %w", err)
	}

	return &domain.RoutingResult{
		Status:   domain.StatusSuccess,
		Strategy: domain.StrategyExact,
		Routes:   buildRoutes(p, raw, MetricsOptions{CountLateness: true}),
	}, nil
}

func (s *RoutingService) solveGreedy(p *domain.CanonicalProblem, parcels []domain.Parcel) *domain.RoutingResult {
	plan := PlanGreedyRoutes(p, parcels, s.routing.GreedyStartTime)
	if n := len(plan.Unassigned); n > 0 {
		metrics.UnassignedParcels.Add(float64(n))
	}

	return &domain.RoutingResult{
		Status:            domain.StatusSuccess,
		Strategy:          domain.StrategyGreedy,
		Routes:            buildRoutes(p, plan.Routes, MetricsOptions{CountLateness: s.routing.GreedyReportsLateness}),
		UnassignedParcels: plan.Unassigned,
	}
}

func buildRoutes(p *domain.CanonicalProblem, raw []domain.VehicleStops, opts MetricsOptions) []domain.Route {
	routes := make([]domain.Route, 0, len(raw))
	for _, vs := range raw {
		if !visitsCustomer(p, vs.Stops) {
			continue
		}
		route := BuildRoute(p.VehicleIDs[vs.VehicleIndex], vs.Stops, p, opts)
		if vs.Load > 0 {
			route.Load = vs.Load
		}
		routes = append(routes, route)
	}
	return routes
}

func visitsCustomer(p *domain.CanonicalProblem, stops []domain.Stop) bool {
	for _, s := range stops {
		if s.LocationID != p.Depot {
			return true
		}
	}
	return false
}

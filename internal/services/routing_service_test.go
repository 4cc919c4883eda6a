package services

import (
	"context"
	"errors"
	"testing"

	"routing-service/internal/adapters/search"
	"routing-service/internal/config"
	"routing-service/internal/domain"
	"routing-service/internal/platform/metrics"
	"routing-service/internal/ports"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSolver struct {
	routes []domain.VehicleStops
	err    error
	calls  int
	cfg    ports.SearchConfig
}

func (f *fakeSolver) Solve(_ context.Context, _ *domain.CanonicalProblem, cfg ports.SearchConfig) ([]domain.VehicleStops, error) {
	f.calls++
	f.cfg = cfg
	return f.routes, f.err
}

func newExactService() *RoutingService {
	return NewRoutingService(search.NewInsertionSearch(), config.DefaultRouting())
}

func TestParseStrategy(t *testing.T) {
	tests := map[string]domain.Strategy{
		"":        domain.StrategyExact,
		"exact":   domain.StrategyExact,
		" Exact ": domain.StrategyExact,
		"ortools": domain.StrategyExact,
		"alns":    domain.StrategyExact,
		"greedy":  domain.StrategyGreedy,
		"GREEDY":  domain.StrategyGreedy,
	}
	for in, want := range tests {
		got, err := ParseStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseStrategy("simulated-annealing")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "strategy", verr.Field)
}

func TestSolve_GreedyScenarioA(t *testing.T) {
	res, err := newExactService().Solve(context.Background(), scenarioA(), domain.StrategyGreedy)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSuccess, res.Status)
	assert.Equal(t, domain.StrategyGreedy, res.Strategy)
	require.Len(t, res.Routes, 1)

	r := res.Routes[0]
	assert.Equal(t, 7, r.VehicleID)
	assert.Equal(t, 15.0, r.TotalDistance)
	assert.Equal(t, 2, r.ParcelsDelivered)
	assert.Equal(t, 0, r.LateDeliveries)
	assert.Equal(t, 15.0, r.TotalDeliveryTime)
	assert.Empty(t, res.UnassignedParcels)
}

func TestSolve_GreedyLatenessReporting(t *testing.T) {
	in := scenarioA()
	in.Parcels[1].TimeWindow = domain.TimeWindow{Earliest: 0, Latest: 10}

	res, err := newExactService().Solve(context.Background(), in, domain.StrategyGreedy)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Routes[0].LateDeliveries)

	routing := config.DefaultRouting()
	routing.GreedyReportsLateness = true
	res, err = NewRoutingService(nil, routing).Solve(context.Background(), in, domain.StrategyGreedy)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Routes[0].LateDeliveries)
}

func TestSolve_GreedyReportsUnassigned(t *testing.T) {
	in := scenarioA()
	in.Vehicles[0].Capacity = 5

	res, err := newExactService().Solve(context.Background(), in, domain.StrategyGreedy)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSuccess, res.Status)
	assert.Equal(t, []int{2}, res.UnassignedParcels)
	require.Len(t, res.Routes, 1)
	assert.Equal(t, 1, res.Routes[0].ParcelsDelivered)
}

func TestSolve_ExactScenarioA(t *testing.T) {
	in := scenarioA()

	res, err := newExactService().Solve(context.Background(), in, domain.StrategyExact)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusSuccess, res.Status)
	assert.Equal(t, domain.StrategyExact, res.Strategy)
	require.Len(t, res.Routes, 1)

	r := res.Routes[0]
	assert.Equal(t, 15.0, r.TotalDistance)
	assert.Equal(t, 2, r.ParcelsDelivered)
	assert.Equal(t, 0, r.LateDeliveries)
	assert.Equal(t, 8.0, r.Load)

	first, last := r.Stops[0], r.Stops[len(r.Stops)-1]
	assert.Equal(t, domain.DepotID, first.LocationID)
	assert.Equal(t, domain.DepotID, last.LocationID)
	assert.Equal(t, last.ArrivalTime-first.ArrivalTime, r.TotalDeliveryTime)
}

func TestSolve_ExactScenarioB(t *testing.T) {
	in := scenarioA()
	// Location 2 is at least 7 away from the depot.
	in.Parcels[1].TimeWindow = domain.TimeWindow{Earliest: 0, Latest: 6}

	res, err := newExactService().Solve(context.Background(), in, domain.StrategyExact)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusNoSolution, res.Status)
	assert.Empty(t, res.Routes)
}

func TestSolve_ScenarioC(t *testing.T) {
	in := scenarioA()
	in.Parcels = nil

	for _, strategy := range []domain.Strategy{domain.StrategyExact, domain.StrategyGreedy} {
		res, err := newExactService().Solve(context.Background(), in, strategy)
		require.NoError(t, err, strategy)
		assert.Equal(t, domain.StatusSuccess, res.Status, strategy)
		assert.Empty(t, res.Routes, strategy)
		assert.NotNil(t, res.Routes, strategy)
	}
}

func TestSolve_DepotAnchoring(t *testing.T) {
	in := scenarioA()
	in.Vehicles = append(in.Vehicles, domain.Vehicle{ID: 8, Capacity: 4, WorkingHours: domain.TimeWindow{Earliest: 0, Latest: 100}})
	in.Vehicles[0].Capacity = 4

	for _, strategy := range []domain.Strategy{domain.StrategyExact, domain.StrategyGreedy} {
		res, err := newExactService().Solve(context.Background(), in, strategy)
		require.NoError(t, err, strategy)
		require.Len(t, res.Routes, 2, strategy)

		for _, r := range res.Routes {
			assert.Equal(t, domain.DepotID, r.Stops[0].LocationID, strategy)
			assert.Equal(t, domain.DepotID, r.Stops[len(r.Stops)-1].LocationID, strategy)
			assert.LessOrEqual(t, r.Load, 4.0, strategy)
		}
	}
}

func TestSolve_ValidationFailsBeforeSolving(t *testing.T) {
	solver := &fakeSolver{}
	svc := NewRoutingService(solver, config.DefaultRouting())

	in := scenarioA()
	in.DistanceMatrix = in.DistanceMatrix[:1]

	res, err := svc.Solve(context.Background(), in, domain.StrategyExact)
	assert.Nil(t, res)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, solver.calls)
}

func TestSolve_PassesSearchConfig(t *testing.T) {
	solver := &fakeSolver{}
	routing := config.DefaultRouting()
	routing.WaitingAllowance = 12

	_, err := NewRoutingService(solver, routing).Solve(context.Background(), scenarioA(), domain.StrategyExact)
	require.NoError(t, err)

	assert.Equal(t, ports.SearchConfig{
		RouteTimeBudget:  routing.RouteTimeBudget,
		WaitingAllowance: 12,
		TimeLimit:        routing.SearchTimeLimit,
		MaxIterations:    routing.SearchMaxIterations,
	}, solver.cfg)
}

func TestSolve_OmitsDepotOnlyRoutes(t *testing.T) {
	solver := &fakeSolver{routes: []domain.VehicleStops{
		{VehicleIndex: 0, Stops: []domain.Stop{{LocationID: 0}, {LocationID: 0}}},
	}}

	res, err := NewRoutingService(solver, config.DefaultRouting()).Solve(context.Background(), scenarioA(), domain.StrategyExact)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, res.Status)
	assert.Empty(t, res.Routes)
}

func TestSolve_SolverFailure(t *testing.T) {
	boom := errors.New("boom")
	svc := NewRoutingService(&fakeSolver{err: boom}, config.DefaultRouting())

	_, err := svc.Solve(context.Background(), scenarioA(), domain.StrategyExact)
	assert.ErrorIs(t, err, boom)
}

func TestSolve_WrappedNoSolution(t *testing.T) {
	svc := NewRoutingService(&fakeSolver{err: errors.Join(ports.ErrNoSolution, context.DeadlineExceeded)}, config.DefaultRouting())

	res, err := svc.Solve(context.Background(), scenarioA(), domain.StrategyExact)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNoSolution, res.Status)
}

func TestSolve_CountsFailedSolves(t *testing.T) {
	failed := metrics.Solves.WithLabelValues("exact", "error")
	rejected := metrics.Solves.WithLabelValues("greedy", "error")
	solved := metrics.Solves.WithLabelValues("greedy", "success")
	failedBefore := testutil.ToFloat64(failed)
	rejectedBefore := testutil.ToFloat64(rejected)
	solvedBefore := testutil.ToFloat64(solved)

	svc := NewRoutingService(&fakeSolver{err: errors.New("boom")}, config.DefaultRouting())
	_, err := svc.Solve(context.Background(), scenarioA(), domain.StrategyExact)
	require.Error(t, err)

	bad := scenarioA()
	bad.Vehicles = nil
	_, err = svc.Solve(context.Background(), bad, domain.StrategyGreedy)
	require.Error(t, err)

	_, err = svc.Solve(context.Background(), scenarioA(), domain.StrategyGreedy)
	require.NoError(t, err)

	assert.Equal(t, failedBefore+1, testutil.ToFloat64(failed))
	assert.Equal(t, rejectedBefore+1, testutil.ToFloat64(rejected))
	assert.Equal(t, solvedBefore+1, testutil.ToFloat64(solved))
}

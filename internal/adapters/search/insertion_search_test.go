package search

import (
	"context"
	"testing"
	"time"

	"routing-service/internal/domain"
	"routing-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = ports.SearchConfig{
	RouteTimeBudget:  1000,
	WaitingAllowance: 30,
	TimeLimit:        5 * time.Second,
	MaxIterations:    1000,
}

// newProblem builds a canonical problem where every location but the depot
// is a visit with the given demand and an open window.
func newProblem(matrix domain.DistanceMatrix, demand float64, capacities ...float64) *domain.CanonicalProblem {
	n := len(matrix)
	p := &domain.CanonicalProblem{
		DistanceMatrix:    matrix,
		NumVehicles:       len(capacities),
		Depot:             domain.DepotID,
		Demands:           make([]float64, n),
		TimeWindows:       make([]domain.TimeWindow, n),
		VehicleCapacities: capacities,
		VehicleIDs:        make([]int, len(capacities)),
	}
	for i := range p.VehicleIDs {
		p.VehicleIDs[i] = i + 1
	}
	for i := range n {
		p.TimeWindows[i] = domain.TimeWindow{Earliest: 0, Latest: 1000}
		if i != domain.DepotID {
			p.Demands[i] = demand
			p.Visits = append(p.Visits, i)
		}
	}
	return p
}

func triangle() domain.DistanceMatrix {
	return domain.DistanceMatrix{
		{0, 5, 7},
		{5, 0, 3},
		{7, 3, 0},
	}
}

// grid places locations on a line and uses absolute distance as cost.
func grid(xs ...float64) domain.DistanceMatrix {
	m := make(domain.DistanceMatrix, len(xs))
	for i := range xs {
		m[i] = make([]float64, len(xs))
		for j := range xs {
			d := xs[i] - xs[j]
			if d < 0 {
				d = -d
			}
			m[i][j] = d
		}
	}
	return m
}

// requireValid checks every constraint a returned plan must satisfy.
func requireValid(t *testing.T, p *domain.CanonicalProblem, cfg ports.SearchConfig, routes []domain.VehicleStops) {
	t.Helper()
	const tol = 1e-6

	served := map[int]int{}
	for _, r := range routes {
		require.GreaterOrEqual(t, len(r.Stops), 3, "route must visit at least one location")
		require.Equal(t, p.Depot, r.Stops[0].LocationID)
		require.Equal(t, p.Depot, r.Stops[len(r.Stops)-1].LocationID)

		var load float64
		for k, s := range r.Stops {
			tw := p.TimeWindows[s.LocationID]
			assert.GreaterOrEqual(t, s.ArrivalTime, tw.Earliest-tol, "arrival before window at %d", s.LocationID)
			assert.LessOrEqual(t, s.ArrivalTime, tw.Latest+tol, "arrival after window at %d", s.LocationID)
			assert.GreaterOrEqual(t, s.ArrivalTime, -tol)
			assert.LessOrEqual(t, s.ArrivalTime, cfg.RouteTimeBudget+tol)

			if k > 0 {
				prev := r.Stops[k-1]
				waited := s.ArrivalTime - prev.ArrivalTime - p.Cost(prev.LocationID, s.LocationID)
				assert.GreaterOrEqual(t, waited, -tol, "time travel into %d", s.LocationID)
				assert.LessOrEqual(t, waited, cfg.WaitingAllowance+tol, "waited too long at %d", prev.LocationID)
			}
			if s.LocationID != p.Depot {
				served[s.LocationID]++
				load += p.Demands[s.LocationID]
			}
		}
		assert.LessOrEqual(t, load, p.VehicleCapacities[r.VehicleIndex]+tol)
	}

	require.Len(t, served, len(p.Visits))
	for _, loc := range p.Visits {
		assert.Equal(t, 1, served[loc], "location %d served %d times", loc, served[loc])
	}
}

func locations(r domain.VehicleStops) []int {
	out := make([]int, len(r.Stops))
	for i, s := range r.Stops {
		out[i] = s.LocationID
	}
	return out
}

func totalCost(p *domain.CanonicalProblem, routes []domain.VehicleStops) float64 {
	var c float64
	for _, r := range routes {
		for k := 1; k < len(r.Stops); k++ {
			c += p.Cost(r.Stops[k-1].LocationID, r.Stops[k].LocationID)
		}
	}
	return c
}

func TestSolve_NoVisits(t *testing.T) {
	p := newProblem(domain.DistanceMatrix{{0}}, 1, 10)

	routes, err := NewInsertionSearch().Solve(context.Background(), p, testCfg)
	require.NoError(t, err)
	assert.Empty(t, routes)
}

func TestSolve_SingleVehicle(t *testing.T) {
	p := newProblem(triangle(), 4, 10)

	routes, err := NewInsertionSearch().Solve(context.Background(), p, testCfg)
	require.NoError(t, err)
	require.Len(t, routes, 1)

	requireValid(t, p, testCfg, routes)
	assert.Equal(t, 0, routes[0].VehicleIndex)
	assert.InDelta(t, 15, totalCost(p, routes), 1e-9)
}

func TestSolve_FindsShortestTour(t *testing.T) {
	// Locations spread on a line; the only optimal tour sweeps out and back.
	p := newProblem(grid(0, 4, 1, 3, 2), 1, 10)

	routes, err := NewInsertionSearch().Solve(context.Background(), p, testCfg)
	require.NoError(t, err)
	require.Len(t, routes, 1)

	requireValid(t, p, testCfg, routes)
	assert.InDelta(t, 8, totalCost(p, routes), 1e-9)
}

func TestSolve_CapacitySplitsRoutes(t *testing.T) {
	p := newProblem(triangle(), 6, 10, 10)

	routes, err := NewInsertionSearch().Solve(context.Background(), p, testCfg)
	require.NoError(t, err)
	require.Len(t, routes, 2)

	requireValid(t, p, testCfg, routes)
	assert.InDelta(t, 24, totalCost(p, routes), 1e-9)
}

func TestSolve_DemandExceedsEveryVehicle(t *testing.T) {
	p := newProblem(triangle(), 11, 10, 10)

	_, err := NewInsertionSearch().Solve(context.Background(), p, testCfg)
	assert.ErrorIs(t, err, ports.ErrNoSolution)
}

func TestSolve_TotalDemandExceedsFleet(t *testing.T) {
	p := newProblem(grid(0, 1, 2, 3), 6, 10)

	_, err := NewInsertionSearch().Solve(context.Background(), p, testCfg)
	assert.ErrorIs(t, err, ports.ErrNoSolution)
}

func TestSolve_UnreachableWindow(t *testing.T) {
	p := newProblem(triangle(), 4, 10, 10)
	// Location 2 is 7 away from the depot but must be reached by time 5.
	p.TimeWindows[2] = domain.TimeWindow{Earliest: 0, Latest: 5}

	_, err := NewInsertionSearch().Solve(context.Background(), p, testCfg)
	assert.ErrorIs(t, err, ports.ErrNoSolution)
}

func TestSolve_WindowForcesOrder(t *testing.T) {
	p := newProblem(triangle(), 4, 10)
	// Visiting 1 first reaches 2 at time 8.
	p.TimeWindows[2] = domain.TimeWindow{Earliest: 0, Latest: 7}

	routes, err := NewInsertionSearch().Solve(context.Background(), p, testCfg)
	require.NoError(t, err)
	require.Len(t, routes, 1)

	requireValid(t, p, testCfg, routes)
	assert.Equal(t, []int{0, 2, 1, 0}, locations(routes[0]))
}

func TestSolve_WaitingAllowanceShiftsDeparture(t *testing.T) {
	p := newProblem(domain.DistanceMatrix{{0, 5}, {5, 0}}, 1, 10)
	p.TimeWindows[1] = domain.TimeWindow{Earliest: 50, Latest: 60}

	routes, err := NewInsertionSearch().Solve(context.Background(), p, testCfg)
	require.NoError(t, err)
	require.Len(t, routes, 1)

	requireValid(t, p, testCfg, routes)
	stops := routes[0].Stops
	assert.InDelta(t, 15, stops[0].ArrivalTime, 1e-9)
	assert.InDelta(t, 50, stops[1].ArrivalTime, 1e-9)
	assert.InDelta(t, 55, stops[2].ArrivalTime, 1e-9)
}

func TestSolve_WaitingAllowanceTooShort(t *testing.T) {
	p := newProblem(domain.DistanceMatrix{{0, 5}, {5, 0}}, 1, 10)
	p.TimeWindows[domain.DepotID] = domain.TimeWindow{Earliest: 0, Latest: 10}
	p.TimeWindows[1] = domain.TimeWindow{Earliest: 50, Latest: 60}

	_, err := NewInsertionSearch().Solve(context.Background(), p, testCfg)
	assert.ErrorIs(t, err, ports.ErrNoSolution)
}

func TestSolve_DepotReturnWindow(t *testing.T) {
	p := newProblem(domain.DistanceMatrix{{0, 6}, {6, 0}}, 1, 10)
	p.TimeWindows[domain.DepotID] = domain.TimeWindow{Earliest: 0, Latest: 10}

	_, err := NewInsertionSearch().Solve(context.Background(), p, testCfg)
	assert.ErrorIs(t, err, ports.ErrNoSolution)
}

func TestSolve_RouteTimeBudget(t *testing.T) {
	p := newProblem(domain.DistanceMatrix{{0, 600}, {600, 0}}, 1, 10)
	p.TimeWindows[domain.DepotID] = domain.TimeWindow{Earliest: 0, Latest: 2000}
	p.TimeWindows[1] = domain.TimeWindow{Earliest: 0, Latest: 2000}

	_, err := NewInsertionSearch().Solve(context.Background(), p, testCfg)
	assert.ErrorIs(t, err, ports.ErrNoSolution)
}

func TestSolve_MixedInstanceIsValidAndDeterministic(t *testing.T) {
	p := newProblem(grid(0, 2, 9, 4, 7, 1, 12, 5, 3), 3, 9, 9, 9)
	p.Demands[6] = 5
	p.TimeWindows[2] = domain.TimeWindow{Earliest: 20, Latest: 40}
	p.TimeWindows[6] = domain.TimeWindow{Earliest: 0, Latest: 15}
	p.TimeWindows[4] = domain.TimeWindow{Earliest: 10, Latest: 30}

	first, err := NewInsertionSearch().Solve(context.Background(), p, testCfg)
	require.NoError(t, err)
	requireValid(t, p, testCfg, first)

	second, err := NewInsertionSearch().Solve(context.Background(), p, testCfg)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSolve_ExpiredBudget(t *testing.T) {
	p := newProblem(triangle(), 4, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewInsertionSearch().Solve(ctx, p, testCfg)
	assert.ErrorIs(t, err, ports.ErrNoSolution)
}

func TestSchedule_EarliestFeasible(t *testing.T) {
	p := newProblem(triangle(), 1, 10)
	m := &model{p: p, budget: 1000, wait: 30}

	arrivals, ok := m.schedule([]int{1, 2})
	require.True(t, ok)
	assert.Equal(t, []float64{0, 5, 8, 15}, arrivals)

	p.TimeWindows[2] = domain.TimeWindow{Earliest: 100, Latest: 200}
	_, ok = m.schedule([]int{1, 2})
	assert.False(t, ok, "waiting 92 at location 1 exceeds the allowance")
}

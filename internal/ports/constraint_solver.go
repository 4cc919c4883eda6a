package ports

import (
	"context"
	"errors"
	"time"

	"routing-service/internal/domain"
)

// ErrNoSolution signals that a solver found no assignment satisfying every
// constraint, including when its search budget ran out before it found one.
var ErrNoSolution = errors.New("no feasible solution")

// SearchConfig bounds and parameterises a constraint search.
type SearchConfig struct {
	// RouteTimeBudget is the upper bound of every arrival time on a route.
	RouteTimeBudget float64
	// WaitingAllowance is the longest a vehicle may wait at a stop before leaving.
	WaitingAllowance float64
	TimeLimit        time.Duration
	MaxIterations    int
}

// ConstraintSolver is an exact or near-exact VRPTW search engine.
//
// Implementations must honour, for every returned route: arc cost equal to the
// matrix entry, cumulative demand within the vehicle capacity, each arrival
// inside the location's time window and inside [0, RouteTimeBudget], waiting of
// at most WaitingAllowance per stop, and depot departure/return inside the
// depot window. Every location in CanonicalProblem.Visits is served exactly
// once. Implementations must not keep search state between calls.
type ConstraintSolver interface {
	// Solve returns one stop sequence per vehicle that serves at least one
	// location, or ErrNoSolution.
	Solve(ctx context.Context, problem *domain.CanonicalProblem, cfg SearchConfig) ([]domain.VehicleStops, error)
}

package services

import (
	"slices"

	"routing-service/internal/domain"
)

// GreedyPlan is the raw output of PlanGreedyRoutes.
type GreedyPlan struct {
	Routes []domain.VehicleStops
	// Unassigned holds the IDs of parcels no vehicle had room for, in input order.
	Unassigned []int
}

// PlanGreedyRoutes assigns parcels with a first-fit capacity heuristic.
//
// Parcels are taken in input order and loaded onto the first vehicle, in input
// order, whose remaining capacity still fits the demand. Each vehicle then
// visits its stops by ascending location ID (not by distance) starting at
// startTime, and returns to the depot. Time windows are ignored and no
// distance optimisation is attempted. Vehicles without parcels are omitted.
func PlanGreedyRoutes(p *domain.CanonicalProblem, parcels []domain.Parcel, startTime float64) GreedyPlan {
	remaining := slices.Clone(p.VehicleCapacities)
	loads := make([][]domain.Parcel, len(remaining))

	plan := GreedyPlan{Routes: []domain.VehicleStops{}}

	for _, parcel := range parcels {
		assigned := false
		for vi := range remaining {
			if remaining[vi] >= parcel.Demand {
				remaining[vi] -= parcel.Demand
				loads[vi] = append(loads[vi], parcel)
				assigned = true
				break
			}
		}
		if !assigned {
			plan.Unassigned = append(plan.Unassigned, parcel.ID)
		}
	}

	for vi, load := range loads {
		if len(load) == 0 {
			continue
		}

		// Stable sort keeps input order between parcels sharing a location.
		slices.SortStableFunc(load, func(a, b domain.Parcel) int {
			return a.LocationID - b.LocationID
		})

		var carried float64
		path := make([]int, 0, len(load)+2)
		path = append(path, p.Depot)
		for _, parcel := range load {
			path = append(path, parcel.LocationID)
			carried += parcel.Demand
		}
		path = append(path, p.Depot)

		plan.Routes = append(plan.Routes, domain.VehicleStops{
			VehicleIndex: vi,
			Stops:        accumulateArrivals(p, startTime, path),
			Load:         carried,
		})
	}

	return plan
}

// accumulateArrivals folds travel costs along path into arrival times.
func accumulateArrivals(p *domain.CanonicalProblem, start float64, path []int) []domain.Stop {
	stops := make([]domain.Stop, 0, len(path))
	arrival := start
	for i, loc := range path {
		if i > 0 {
			arrival += p.Cost(path[i-1], loc)
		}
		stops = append(stops, domain.Stop{LocationID: loc, ArrivalTime: arrival})
	}
	return stops
}

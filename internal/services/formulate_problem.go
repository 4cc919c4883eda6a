package services

import (
	"fmt"
	"slices"

	"routing-service/internal/config"
	"routing-service/internal/domain"
)

// FormulateProblem turns a raw request into the canonical array-indexed
// problem shared by both planners.
//
// Demands and time windows are sized to the location list and defaulted
// (zero demand, defaults.DefaultTimeWindow) before each parcel overwrites the
// entry of its location; a later parcel at the same location wins. The depot
// window is taken from the first vehicle's working hours and applies to every
// vehicle.
func FormulateProblem(in domain.ProblemInput, defaults config.Routing) (*domain.CanonicalProblem, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	n := len(in.Locations)

	demands := make([]float64, n)
	windows := make([]domain.TimeWindow, n)
	for i := range windows {
		windows[i] = domain.TimeWindow{
			Earliest: defaults.DefaultTimeWindow[0],
			Latest:   defaults.DefaultTimeWindow[1],
		}
	}

	visits := make([]int, 0, len(in.Parcels))
	for _, p := range in.Parcels {
		demands[p.LocationID] = p.Demand
		windows[p.LocationID] = p.TimeWindow
		visits = append(visits, p.LocationID)
	}
	slices.Sort(visits)
	visits = slices.Compact(visits)

	windows[domain.DepotID] = in.Vehicles[0].WorkingHours

	capacities := make([]float64, len(in.Vehicles))
	ids := make([]int, len(in.Vehicles))
	for i, v := range in.Vehicles {
		capacities[i] = v.Capacity
		ids[i] = v.ID
	}

	matrix := make(domain.DistanceMatrix, n)
	for i, row := range in.DistanceMatrix {
		matrix[i] = slices.Clone(row)
	}

	return &domain.CanonicalProblem{
		DistanceMatrix:    matrix,
		NumVehicles:       len(in.Vehicles),
		Depot:             domain.DepotID,
		Demands:           demands,
		TimeWindows:       windows,
		VehicleCapacities: capacities,
		VehicleIDs:        ids,
		Visits:            visits,
	}, nil
}

func validateInput(in domain.ProblemInput) error {
	if len(in.Vehicles) == 0 {
		return invalid("vehicles", "at least one vehicle is required")
	}

	n := len(in.Locations)
	if n == 0 {
		return invalid("locations", "the depot (location 0) is required")
	}

	if !in.DistanceMatrix.IsSquare(n) {
		return invalid("distance_matrix", "must be a square %dx%d matrix matching the location list", n, n)
	}
	for i, row := range in.DistanceMatrix {
		for j, c := range row {
			if c < 0 {
				return invalid(fmt.Sprintf("distance_matrix[%d][%d]", i, j), "must be >= 0, got %g", c)
			}
		}
	}

	for i, v := range in.Vehicles {
		if v.Capacity < 0 {
			return invalid(fmt.Sprintf("vehicles[%d].capacity", i), "must be >= 0, got %g", v.Capacity)
		}
		if !v.WorkingHours.Valid() {
			return invalid(fmt.Sprintf("vehicles[%d].working_hours", i), "earliest %g is after latest %g", v.WorkingHours.Earliest, v.WorkingHours.Latest)
		}
	}

	for i, p := range in.Parcels {
		if p.LocationID < 0 || p.LocationID >= n {
			return invalid(fmt.Sprintf("parcels[%d].location_id", i), "%d is outside [0, %d)", p.LocationID, n)
		}
		if p.LocationID == domain.DepotID {
			return invalid(fmt.Sprintf("parcels[%d].location_id", i), "parcels cannot be delivered to the depot")
		}
		if p.Demand <= 0 {
			return invalid(fmt.Sprintf("parcels[%d].demand", i), "must be > 0, got %g", p.Demand)
		}
		if !p.TimeWindow.Valid() {
			return invalid(fmt.Sprintf("parcels[%d].time_window", i), "earliest %g is after latest %g", p.TimeWindow.Earliest, p.TimeWindow.Latest)
		}
	}

	return nil
}

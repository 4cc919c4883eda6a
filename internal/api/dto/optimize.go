package dto

import (
	"fmt"

	"routing-service/internal/domain"

	"github.com/google/uuid"
)

type CoordinatesRequest struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type LocationRequest struct {
	ID          int                 `json:"id"`
	Name        string              `json:"name"`
	Address     string              `json:"address,omitempty"`
	Coordinates *CoordinatesRequest `json:"coordinates,omitempty"`
}

type ParcelRequest struct {
	ID         int       `json:"id"`
	LocationID int       `json:"location_id"`
	Demand     float64   `json:"demand"`
	TimeWindow []float64 `json:"time_window"`
}

type VehicleRequest struct {
	ID           int       `json:"id"`
	Capacity     float64   `json:"capacity"`
	WorkingHours []float64 `json:"working_hours"`
}

// OptimizeRequest is the body of POST /optimize. DistanceMatrix may be
// omitted when every location carries coordinates or an address.
type OptimizeRequest struct {
	Locations      []LocationRequest `json:"locations"`
	Parcels        []ParcelRequest   `json:"parcels"`
	Vehicles       []VehicleRequest  `json:"vehicles"`
	DistanceMatrix [][]float64       `json:"distance_matrix,omitempty"`
	Strategy       string            `json:"strategy,omitempty"`
}

// ToInput converts the wire request into the domain input. It only checks
// the wire shape; semantic validation happens when the problem is formulated.
func (r OptimizeRequest) ToInput() (domain.ProblemInput, error) {
	in := domain.ProblemInput{
		Locations:      make([]domain.Location, 0, len(r.Locations)),
		Parcels:        make([]domain.Parcel, 0, len(r.Parcels)),
		Vehicles:       make([]domain.Vehicle, 0, len(r.Vehicles)),
		DistanceMatrix: r.DistanceMatrix,
	}

	for _, l := range r.Locations {
		loc := domain.Location{ID: l.ID, Name: l.Name, Address: l.Address}
		if l.Coordinates != nil {
			loc.Coordinates = &domain.Coordinates{Lon: l.Coordinates.Lon, Lat: l.Coordinates.Lat}
		}
		in.Locations = append(in.Locations, loc)
	}

	for i, p := range r.Parcels {
		tw, err := window(p.TimeWindow)
		if err != nil {
			return domain.ProblemInput{}, fmt.Errorf("parcels[%d].time_window: %w", i, err)
		}
		in.Parcels = append(in.Parcels, domain.Parcel{ID: p.ID, LocationID: p.LocationID, Demand: p.Demand, TimeWindow: tw})
	}

	for i, v := range r.Vehicles {
		wh, err := window(v.WorkingHours)
		if err != nil {
			return domain.ProblemInput{}, fmt.Errorf("vehicles[%d].working_hours: %w", i, err)
		}
		in.Vehicles = append(in.Vehicles, domain.Vehicle{ID: v.ID, Capacity: v.Capacity, WorkingHours: wh})
	}

	return in, nil
}

func window(pair []float64) (domain.TimeWindow, error) {
	if len(pair) != 2 {
		return domain.TimeWindow{}, fmt.Errorf("must be [earliest, latest], got %d values", len(pair))
	}
	return domain.TimeWindow{Earliest: pair[0], Latest: pair[1]}, nil
}

// OptimizeResponse is a routing result plus the ID it was archived under.
type OptimizeResponse struct {
	PlanID uuid.UUID `json:"plan_id"`
	domain.RoutingResult
}

type ListPlansResponse struct {
	Plans []domain.PlanRecord `json:"plans"`
}

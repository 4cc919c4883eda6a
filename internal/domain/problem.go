package domain

// ProblemInput is a raw routing request snapshot, as received from a caller.
type ProblemInput struct {
	Locations      []Location
	Parcels        []Parcel
	Vehicles       []Vehicle
	DistanceMatrix DistanceMatrix
}

// CanonicalProblem is the validated, array-indexed form of a routing request.
// It is built once per request and must not be mutated afterwards.
type CanonicalProblem struct {
	DistanceMatrix    DistanceMatrix
	NumVehicles       int
	Depot             int
	Demands           []float64
	TimeWindows       []TimeWindow
	VehicleCapacities []float64
	VehicleIDs        []int

	// Visits lists, ascending and without duplicates, every non-depot
	// location that at least one parcel must be delivered to.
	Visits []int
}

// NumLocations returns the number of nodes in the routing network.
func (p *CanonicalProblem) NumLocations() int { return len(p.DistanceMatrix) }

// Cost returns the travel cost from one location to another.
func (p *CanonicalProblem) Cost(from, to int) float64 { return p.DistanceMatrix[from][to] }

// DepotWindow returns the departure/return window shared by all vehicles.
func (p *CanonicalProblem) DepotWindow() TimeWindow { return p.TimeWindows[p.Depot] }

package domain

// Represents arriving at a location at a computed time.
type Stop struct {
	LocationID  int     `json:"location_id"`
	ArrivalTime float64 `json:"arrival_time"`
}

// VehicleStops is a raw planner output: an ordered stop sequence for one
// vehicle, starting and ending at the depot, before metrics are derived.
type VehicleStops struct {
	VehicleIndex int
	Stops        []Stop
	// Load is the demand carried, for planners that stop once per parcel.
	// Zero means one stop per location: load is then summed from the
	// problem's per-location demands.
	Load float64
}

// Represents the planned route for a single vehicle.
// Every metric is derived from Stops and the CanonicalProblem the route was
// planned against; none of them is ever set independently.
type Route struct {
	VehicleID         int     `json:"vehicle_id"`
	TotalDeliveryTime float64 `json:"total_delivery_time"`
	ParcelsDelivered  int     `json:"parcels_delivered"`
	LateDeliveries    int     `json:"late_deliveries"`
	TotalDistance     float64 `json:"total_distance"`
	Load              float64 `json:"load"`
	Stops             []Stop  `json:"stops"`
}

// Status is the outcome of a routing request.
type Status string

const (
	StatusSuccess    Status = "success"
	StatusNoSolution Status = "no_solution"
)

// Strategy selects which planner serves a routing request.
type Strategy string

const (
	StrategyExact  Strategy = "exact"
	StrategyGreedy Strategy = "greedy"
)

// RoutingResult is the uniform output of both planners.
type RoutingResult struct {
	Status            Status   `json:"status"`
	Strategy          Strategy `json:"strategy"`
	Routes            []Route  `json:"routes"`
	UnassignedParcels []int    `json:"unassigned_parcels,omitempty"`
}

package domain

// Delivery vehicle with a load capacity and the hours it may leave and
// return to the depot.
type Vehicle struct {
	ID           int
	Capacity     float64
	WorkingHours TimeWindow
}

package domain

// Represents a single delivery unit handled by the system.
// A Parcel is delivered at one location, occupies Demand units of vehicle
// capacity and should arrive inside its TimeWindow.
type Parcel struct {
	ID         int
	LocationID int
	Demand     float64
	TimeWindow TimeWindow
}

package domain

// TimeWindow bounds an arrival (parcels) or a departure/return (vehicles).
type TimeWindow struct {
	Earliest float64
	Latest   float64
}

// Contains reports whether t lies inside the window, bounds included.
func (w TimeWindow) Contains(t float64) bool {
	return t >= w.Earliest && t <= w.Latest
}

// Valid reports whether the window is non-empty.
func (w TimeWindow) Valid() bool { return w.Earliest <= w.Latest }

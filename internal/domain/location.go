package domain

// A Location is a node of the routing network.
// ID indexes the distance matrix; the depot is always ID 0.
// Address and Coordinates are only consulted when the caller did not supply
// a distance matrix and one has to be built from an external provider.
type Location struct {
	ID          int
	Name        string
	Address     string
	Coordinates *Coordinates
}

// DepotID is the fixed start and end location of every route.
const DepotID = 0

// DistanceMatrix holds the travel cost/time between locations.
// Entry [i][j] is the cost from i to j; it is not required to be symmetric.
type DistanceMatrix [][]float64

// IsSquare reports whether the matrix has exactly n rows of n entries.
func (m DistanceMatrix) IsSquare(n int) bool {
	if len(m) != n {
		return false
	}
	for _, row := range m {
		if len(row) != n {
			return false
		}
	}
	return true
}

package ports

import (
	"context"

	"routing-service/internal/domain"
)

// Contract for building a full travel-cost matrix between points.
type MatrixProvider interface {
	// Return an n x n matrix where entry [i][j] is the cost from points[i] to points[j].
	BuildMatrix(ctx context.Context, points []domain.Coordinates) (domain.DistanceMatrix, error)
}

// Contract for resolving free-form addresses to coordinates.
type Geocoder interface {
	// Results are keyed by the addresses as given.
	Geocode(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
}

// DistanceResult is one directed leg as reported by a routing engine.
type DistanceResult struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// DistanceCache persists legs between point keys produced by the caller.
type DistanceCache interface {
	GetMany(ctx context.Context, origin string, destinations []string) (map[string]DistanceResult, error)
	PutMany(ctx context.Context, origin string, results map[string]DistanceResult) error
}

// GeocodeCache persists address lookups.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}

package services

import (
	"context"
	"errors"
	"fmt"

	"routing-service/internal/domain"
	"routing-service/internal/platform/obs"
	"routing-service/internal/ports"
)

// ErrMatrixUnavailable marks a failure of the external matrix or geocoding
// provider, as opposed to a request that cannot be served at all.
var ErrMatrixUnavailable = errors.New("distance matrix unavailable")

// MatrixResolver builds the travel-cost matrix of a request that did not
// supply one, from location coordinates or, failing that, addresses.
type MatrixResolver struct {
	matrix   ports.MatrixProvider
	geocoder ports.Geocoder
}

// NewMatrixResolver returns a resolver. geocoder may be nil, in which case
// every location needs coordinates.
func NewMatrixResolver(matrix ports.MatrixProvider, geocoder ports.Geocoder) *MatrixResolver {
	return &MatrixResolver{matrix: matrix, geocoder: geocoder}
}

func (r *MatrixResolver) Resolve(ctx context.Context, locations []domain.Location) (_ domain.DistanceMatrix, err error) {
	defer obs.Time(ctx, "matrix.Resolve")(&err)

	points := make([]domain.Coordinates, len(locations))
	var addresses []string
	var pending []int

	for i, loc := range locations {
		switch {
		case loc.Coordinates != nil:
			if !loc.Coordinates.Valid() {
				return nil, invalid(fmt.Sprintf("locations[%d].coordinates", i), "lon %g, lat %g is not a valid position", loc.Coordinates.Lon, loc.Coordinates.Lat)
			}
			points[i] = *loc.Coordinates
		case loc.Address != "":
			addresses = append(addresses, loc.Address)
			pending = append(pending, i)
		default:
			return nil, invalid(fmt.Sprintf("locations[%d]", i), "needs coordinates or an address when distance_matrix is omitted")
		}
	}

	if len(pending) > 0 {
		if r.geocoder == nil {
			return nil, invalid(fmt.Sprintf("locations[%d].coordinates", pending[0]), "required: address lookup is not configured")
		}

		found, err := r.geocoder.Geocode(ctx, addresses)
		if err != nil {
			return nil, fmt.Errorf("resolve matrix: %w: %w", ErrMatrixUnavailable, err)
		}
		for k, i := range pending {
			pt, ok := found[addresses[k]]
			if !ok {
				return nil, fmt.Errorf("resolve matrix: %w: no coordinates for %q", ErrMatrixUnavailable, addresses[k])
			}
			points[i] = pt
		}
	}

	m, err := r.matrix.BuildMatrix(ctx, points)
	if err != nil {
		return nil, fmt.Errorf("resolve matrix: %w: %w", ErrMatrixUnavailable, err)
	}
	if !m.IsSquare(len(points)) {
		return nil, fmt.Errorf("resolve matrix: %w: provider returned %d rows for %d points", ErrMatrixUnavailable, len(m), len(points))
	}
	return m, nil
}

package services

import (
	"context"
	"errors"
	"testing"

	"routing-service/internal/adapters/distance"
	"routing-service/internal/config"
	"routing-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	known map[string]domain.Coordinates
	err   error
}

func (g *fakeGeocoder) Geocode(_ context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	if g.err != nil {
		return nil, g.err
	}
	out := map[string]domain.Coordinates{}
	for _, a := range addresses {
		if pt, ok := g.known[a]; ok {
			out[a] = pt
		}
	}
	return out, nil
}

var (
	hub  = domain.Coordinates{Lon: 0, Lat: 0}
	east = domain.Coordinates{Lon: 1, Lat: 0}
)

func hubEastProvider() *distance.MockMatrixProvider {
	return distance.NewMockMatrixProvider([]distance.MockPair{
		{From: hub, To: east, Cost: 5},
		{From: east, To: hub, Cost: 6},
	})
}

func TestMatrixResolver_Coordinates(t *testing.T) {
	r := NewMatrixResolver(hubEastProvider(), nil)

	m, err := r.Resolve(context.Background(), []domain.Location{
		{ID: 0, Coordinates: &hub},
		{ID: 1, Coordinates: &east},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DistanceMatrix{{0, 5}, {6, 0}}, m)
}

func TestMatrixResolver_Addresses(t *testing.T) {
	g := &fakeGeocoder{known: map[string]domain.Coordinates{"1 East St": east}}
	r := NewMatrixResolver(hubEastProvider(), g)

	m, err := r.Resolve(context.Background(), []domain.Location{
		{ID: 0, Coordinates: &hub},
		{ID: 1, Address: "1 East St"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DistanceMatrix{{0, 5}, {6, 0}}, m)
}

func TestMatrixResolver_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewMatrixResolver(hubEastProvider(), nil).Resolve(ctx, []domain.Location{{ID: 0, Coordinates: &hub}, {ID: 1}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "locations[1]", verr.Field)

	_, err = NewMatrixResolver(hubEastProvider(), nil).Resolve(ctx, []domain.Location{{ID: 0, Coordinates: &hub}, {ID: 1, Address: "x"}})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "locations[1].coordinates", verr.Field)

	boom := errors.New("geocoder down")
	_, err = NewMatrixResolver(hubEastProvider(), &fakeGeocoder{err: boom}).Resolve(ctx, []domain.Location{{ID: 0, Address: "x"}})
	assert.ErrorIs(t, err, ErrMatrixUnavailable)
	assert.ErrorIs(t, err, boom)

	_, err = NewMatrixResolver(hubEastProvider(), &fakeGeocoder{}).Resolve(ctx, []domain.Location{{ID: 0, Address: "x"}})
	assert.ErrorIs(t, err, ErrMatrixUnavailable)

	offGlobe := domain.Coordinates{Lon: 200, Lat: 0}
	_, err = NewMatrixResolver(hubEastProvider(), nil).Resolve(ctx, []domain.Location{{ID: 0, Coordinates: &hub}, {ID: 1, Coordinates: &offGlobe}})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "locations[1].coordinates", verr.Field)

	far := domain.Coordinates{Lon: 9, Lat: 9}
	_, err = NewMatrixResolver(hubEastProvider(), nil).Resolve(ctx, []domain.Location{{ID: 0, Coordinates: &hub}, {ID: 1, Coordinates: &far}})
	assert.ErrorIs(t, err, ErrMatrixUnavailable)
}

func TestSolve_BuildsMissingMatrix(t *testing.T) {
	provider := hubEastProvider()
	svc := newExactService().WithMatrixResolver(NewMatrixResolver(provider, nil))

	in := domain.ProblemInput{
		Locations: []domain.Location{{ID: 0, Coordinates: &hub}, {ID: 1, Coordinates: &east}},
		Parcels:   []domain.Parcel{{ID: 1, LocationID: 1, Demand: 1, TimeWindow: domain.TimeWindow{Earliest: 0, Latest: 100}}},
		Vehicles:  []domain.Vehicle{{ID: 1, Capacity: 5, WorkingHours: domain.TimeWindow{Earliest: 0, Latest: 100}}},
	}

	res, err := svc.Solve(context.Background(), in, domain.StrategyGreedy)
	require.NoError(t, err)
	require.Len(t, res.Routes, 1)
	assert.Equal(t, 11.0, res.Routes[0].TotalDistance)
	assert.Equal(t, 1, provider.Calls)

	// A supplied matrix is used as is.
	in.DistanceMatrix = domain.DistanceMatrix{{0, 1}, {1, 0}}
	res, err = svc.Solve(context.Background(), in, domain.StrategyGreedy)
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.Routes[0].TotalDistance)
	assert.Equal(t, 1, provider.Calls)
}

func TestSolve_MissingMatrixWithoutResolver(t *testing.T) {
	svc := NewRoutingService(nil, config.DefaultRouting())

	in := scenarioA()
	in.DistanceMatrix = nil

	_, err := svc.Solve(context.Background(), in, domain.StrategyGreedy)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "distance_matrix", verr.Field)
}

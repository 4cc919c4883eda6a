package services

import (
	"testing"

	"routing-service/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestBuildRoute(t *testing.T) {
	p := mustFormulate(t, scenarioA())
	p.TimeWindows[2] = domain.TimeWindow{Earliest: 0, Latest: 15}

	stops := []domain.Stop{
		{LocationID: 0, ArrivalTime: 8},
		{LocationID: 1, ArrivalTime: 13},
		{LocationID: 2, ArrivalTime: 16},
		{LocationID: 0, ArrivalTime: 23},
	}

	route := BuildRoute(3, stops, p, MetricsOptions{CountLateness: true})
	assert.Equal(t, domain.Route{
		VehicleID:         3,
		TotalDeliveryTime: 15,
		ParcelsDelivered:  2,
		LateDeliveries:    1,
		TotalDistance:     15,
		Load:              8,
		Stops:             stops,
	}, route)

	assert.Zero(t, BuildRoute(3, stops, p, MetricsOptions{}).LateDeliveries)
}

func TestBuildRoute_DistanceFollowsMatrix(t *testing.T) {
	p := mustFormulate(t, scenarioA())
	p.DistanceMatrix[1][2] = 11

	stops := []domain.Stop{{LocationID: 0}, {LocationID: 1}, {LocationID: 2}, {LocationID: 0}}
	assert.Equal(t, 5.0+11+7, BuildRoute(1, stops, p, MetricsOptions{}).TotalDistance)
}

func TestBuildRoute_Empty(t *testing.T) {
	p := mustFormulate(t, scenarioA())

	route := BuildRoute(1, nil, p, MetricsOptions{CountLateness: true})
	assert.Equal(t, domain.Route{VehicleID: 1}, route)
}

package distance

import (
	"context"
	"fmt"
	"math"

	"routing-service/internal/domain"
)

const earthRadiusMeters = 6371000.0

// HaversineProvider estimates costs from great-circle distance. It needs no
// network access and serves as the offline fallback when no ORS key is set.
type HaversineProvider struct {
	metric   string
	speedKph float64
}

// NewHaversineProvider returns a provider reporting metres, or minutes at
// speedKph for the duration metric.
func NewHaversineProvider(metric string, speedKph float64) (*HaversineProvider, error) {
	if metric == "" {
		metric = MetricDuration
	}
	if metric != MetricDuration && metric != MetricDistance {
		return nil, fmt.Errorf("haversine metric %q: want %s or %s", metric, MetricDuration, MetricDistance)
	}
	if speedKph <= 0 {
		return nil, fmt.Errorf("haversine speed must be > 0, got %g", speedKph)
	}
	return &HaversineProvider{metric: metric, speedKph: speedKph}, nil
}

func (h *HaversineProvider) BuildMatrix(_ context.Context, points []domain.Coordinates) (domain.DistanceMatrix, error) {
	m := make(domain.DistanceMatrix, len(points))
	for i, a := range points {
		m[i] = make([]float64, len(points))
		for j, b := range points {
			if i == j {
				continue
			}
			meters := haversine(a.Lat, a.Lon, b.Lat, b.Lon)
			if h.metric == MetricDistance {
				m[i][j] = meters
			} else {
				m[i][j] = meters / 1000 / h.speedKph * 60
			}
		}
	}
	return m, nil
}

func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	toRad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

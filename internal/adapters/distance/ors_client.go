package distance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"routing-service/internal/domain"
	"routing-service/internal/platform/logger"
	"routing-service/internal/platform/obs"
	"routing-service/internal/ports"

	"golang.org/x/time/rate"
)

const (
	MetricDuration = "duration"
	MetricDistance = "distance"
)

// ORSConfig configures an ORSClient. Zero values fall back to the public
// OpenRouteService endpoint, the driving-car profile, duration costs and one
// request per second.
type ORSConfig struct {
	APIKey     string
	BaseURL    string
	Profile    string
	Metric     string
	RatePerSec float64
	Timeout    time.Duration
	// Country restricts geocoding results when set (ISO alpha-2).
	Country string
}

// ORSClient builds travel-cost matrices and geocodes addresses with
// OpenRouteService.
//
// It coordinates:
//   - Persistent geocode caching
//   - Persistent leg caching between coordinate pairs
//   - Client-side rate limiting shared by every call
//   - External API calls with retry/backoff
//
// The client is safe for concurrent use.
type ORSClient struct {
	session       *http.Client
	apiKey        string
	baseURL       string
	profile       string
	metric        string
	country       string
	limiter       *rate.Limiter
	distanceCache ports.DistanceCache
	geocodeCache  ports.GeocodeCache
}

var (
	_ ports.MatrixProvider = (*ORSClient)(nil)
	_ ports.Geocoder       = (*ORSClient)(nil)
)

// NewORSClient returns a client. Either cache may be nil.
func NewORSClient(cfg ORSConfig, distanceCache ports.DistanceCache, geocodeCache ports.GeocodeCache) (*ORSClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openrouteservice.org"
	}
	if cfg.Profile == "" {
		cfg.Profile = "driving-car"
	}
	if cfg.Metric == "" {
		cfg.Metric = MetricDuration
	}
	if cfg.Metric != MetricDuration && cfg.Metric != MetricDistance {
		return nil, fmt.Errorf("ORS metric %q: want %s or %s", cfg.Metric, MetricDuration, MetricDistance)
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &ORSClient{
		session:       &http.Client{Timeout: cfg.Timeout},
		apiKey:        cfg.APIKey,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		profile:       cfg.Profile,
		metric:        cfg.Metric,
		country:       cfg.Country,
		limiter:       rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		distanceCache: distanceCache,
		geocodeCache:  geocodeCache,
	}, nil
}

// pointKey is the cache key of a coordinate, rounded to roughly 10cm.
func pointKey(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lon, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lat, 'f', 6, 64)
}

// BuildMatrix returns the n x n cost matrix between points, in minutes for
// the duration metric or metres for the distance metric. Legs are served
// from the cache when every pair is known; otherwise a single matrix request
// covers all points and its legs are written back.
func (o *ORSClient) BuildMatrix(ctx context.Context, points []domain.Coordinates) (_ domain.DistanceMatrix, err error) {
	defer obs.Time(ctx, "ors.BuildMatrix")(&err)

	n := len(points)
	keys := make([]string, n)
	for i, p := range points {
		keys[i] = pointKey(p)
	}

	legs, complete, err := o.cachedLegs(ctx, keys)
	if err != nil {
		return nil, err
	}

	if !complete {
		legs, err = o.fetchMatrix(ctx, points)
		if err != nil {
			return nil, fmt.Errorf("fetching matrix: %w", err)
		}
		o.storeLegs(ctx, keys, legs)
	}

	matrix := make(domain.DistanceMatrix, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		for j := range matrix[i] {
			if i == j {
				continue
			}
			matrix[i][j] = o.cost(legs[i][j])
		}
	}
	return matrix, nil
}

func (o *ORSClient) cost(r ports.DistanceResult) float64 {
	if o.metric == MetricDistance {
		return r.DistanceMeters
	}
	return r.DurationSeconds / 60
}

// cachedLegs loads every off-diagonal leg from the cache. complete is false
// as soon as one leg is missing.
func (o *ORSClient) cachedLegs(ctx context.Context, keys []string) ([][]ports.DistanceResult, bool, error) {
	if o.distanceCache == nil || len(keys) < 2 {
		return nil, len(keys) < 2, nil
	}

	legs := make([][]ports.DistanceResult, len(keys))
	for i, origin := range keys {
		hits, err := o.distanceCache.GetMany(ctx, origin, keys)
		if err != nil {
			return nil, false, fmt.Errorf("ORS get distance cache: %w", err)
		}

		legs[i] = make([]ports.DistanceResult, len(keys))
		for j, dest := range keys {
			if i == j || origin == dest {
				continue
			}
			r, ok := hits[dest]
			if !ok {
				return nil, false, nil
			}
			legs[i][j] = r
		}
	}
	return legs, true, nil
}

func (o *ORSClient) storeLegs(ctx context.Context, keys []string, legs [][]ports.DistanceResult) {
	if o.distanceCache == nil {
		return
	}

	for i, origin := range keys {
		row := make(map[string]ports.DistanceResult, len(keys))
		for j, dest := range keys {
			if origin != dest {
				row[dest] = legs[i][j]
			}
		}
		if err := o.distanceCache.PutMany(ctx, origin, row); err != nil {
			logger.WithContext(ctx).Warn().Err(err).Msg("distance cache write failed")
			return
		}
	}
}

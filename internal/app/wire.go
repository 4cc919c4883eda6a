// Package app assembles the routing service from configuration. It is shared
// by the HTTP server and the command-line tool.
package app

import (
	"database/sql"
	"fmt"

	"routing-service/internal/adapters/cache"
	"routing-service/internal/adapters/distance"
	"routing-service/internal/adapters/search"
	"routing-service/internal/config"
	"routing-service/internal/platform/logger"
	"routing-service/internal/ports"
	"routing-service/internal/services"
)

// NewRoutingService wires the exact solver and the matrix resolver. With an
// ORS key, matrices come from OpenRouteService with caches in db (or in
// memory when db is nil); without one, straight-line estimates are used and
// addresses cannot be resolved.
func NewRoutingService(cfg *config.Config, db *sql.DB) (*services.RoutingService, error) {
	svc := services.NewRoutingService(search.NewInsertionSearch(), cfg.Routing)

	resolver, err := newMatrixResolver(cfg, db)
	if err != nil {
		return nil, err
	}
	return svc.WithMatrixResolver(resolver), nil
}

func newMatrixResolver(cfg *config.Config, db *sql.DB) (*services.MatrixResolver, error) {
	log := logger.Component("app")

	if cfg.ORS.APIKey == "" {
		fallback, err := distance.NewHaversineProvider(cfg.ORS.Metric, cfg.ORS.FallbackSpeedKph)
		if err != nil {
			return nil, fmt.Errorf("matrix fallback: %w", err)
		}
		log.Info().Msg("ORS_API_KEY not set: using straight-line matrix estimates")
		return services.NewMatrixResolver(fallback, nil), nil
	}

	var dc ports.DistanceCache = cache.NewMemoryDistanceCache()
	var gc ports.GeocodeCache = cache.NewMemoryGeocodeCache()
	if db != nil {
		dc = cache.NewPGDistanceCache(db)
		gc = cache.NewPGGeocodeCache(db)
	}

	ors, err := distance.NewORSClient(distance.ORSConfig{
		APIKey:     cfg.ORS.APIKey,
		Metric:     cfg.ORS.Metric,
		RatePerSec: cfg.ORS.RatePerSec,
	}, dc, gc)
	if err != nil {
		return nil, fmt.Errorf("ors client: %w", err)
	}
	return services.NewMatrixResolver(ors, ors), nil
}

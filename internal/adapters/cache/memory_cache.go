package cache

import (
	"context"
	"sync"

	"routing-service/internal/domain"
	"routing-service/internal/ports"
)

// MemoryDistanceCache is a process-local DistanceCache used when no
// database is configured.
type MemoryDistanceCache struct {
	mu   sync.RWMutex
	legs map[string]map[string]ports.DistanceResult
}

func NewMemoryDistanceCache() *MemoryDistanceCache {
	return &MemoryDistanceCache{legs: map[string]map[string]ports.DistanceResult{}}
}

func (c *MemoryDistanceCache) GetMany(_ context.Context, origin string, destinations []string) (map[string]ports.DistanceResult, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]ports.DistanceResult, len(destinations))
	for _, d := range uniqueKeys(destinations) {
		if r, ok := c.legs[origin][d]; ok {
			out[d] = r
		}
	}
	return out, nil
}

func (c *MemoryDistanceCache) PutMany(_ context.Context, origin string, results map[string]ports.DistanceResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	row, ok := c.legs[origin]
	if !ok {
		row = make(map[string]ports.DistanceResult, len(results))
		c.legs[origin] = row
	}
	for d, r := range results {
		row[d] = r
	}
	return nil
}

// MemoryGeocodeCache is a process-local GeocodeCache.
type MemoryGeocodeCache struct {
	mu     sync.RWMutex
	points map[string]domain.Coordinates
}

func NewMemoryGeocodeCache() *MemoryGeocodeCache {
	return &MemoryGeocodeCache{points: map[string]domain.Coordinates{}}
}

func (c *MemoryGeocodeCache) GetMany(_ context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]domain.Coordinates, len(addresses))
	for _, a := range uniqueKeys(addresses) {
		if pt, ok := c.points[a]; ok {
			out[a] = pt
		}
	}
	return out, nil
}

func (c *MemoryGeocodeCache) PutMany(_ context.Context, results map[string]domain.Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for a, pt := range results {
		c.points[a] = pt
	}
	return nil
}

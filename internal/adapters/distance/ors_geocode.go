package distance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"routing-service/internal/domain"
	"routing-service/internal/platform/logger"
	"routing-service/internal/platform/obs"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Geocode resolves addresses through the geocode cache first and ORS for
// the rest. Results are keyed by the addresses as given.
func (o *ORSClient) Geocode(ctx context.Context, addresses []string) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norms := make([]string, 0, len(addresses))
	for _, a := range addresses {
		n := normalize(a)
		if n == "" {
			return nil, fmt.Errorf("geocode: empty address")
		}
		norms = append(norms, n)
	}

	known := map[string]domain.Coordinates{}
	if o.geocodeCache != nil {
		known, err = o.geocodeCache.GetMany(ctx, norms)
		if err != nil {
			return nil, fmt.Errorf("ORS get geocode cache: %w", err)
		}
	}

	var misses []string
	for _, n := range norms {
		if _, ok := known[n]; !ok {
			misses = append(misses, n)
		}
	}

	if len(misses) > 0 {
		fresh, err := o.geocodeMany(ctx, misses)
		if err != nil {
			return nil, fmt.Errorf("retrieving coordinates: %w", err)
		}
		if o.geocodeCache != nil {
			if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
				logger.WithContext(ctx).Warn().Err(err).Msg("geocode cache write failed")
			}
		}
		for k, v := range fresh {
			known[k] = v
		}
	}

	out := make(map[string]domain.Coordinates, len(addresses))
	for i, a := range addresses {
		out[a] = known[norms[i]]
	}
	return out, nil
}

// geocodeMany resolves normalized addresses one by one with /geocode/search.
func (o *ORSClient) geocodeMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	endpoint := o.baseURL + "/geocode/search"

	out := make(map[string]domain.Coordinates, len(addresses))
	for _, a := range addresses {
		if _, ok := out[a]; ok {
			continue
		}

		pt, err := o.geocodeOne(ctx, endpoint, a)
		if err != nil {
			return nil, err
		}
		out[a] = pt
	}
	return out, nil
}

func (o *ORSClient) geocodeOne(ctx context.Context, endpoint, address string) (domain.Coordinates, error) {
	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", address)
		q.Set("size", "1")
		if o.country != "" {
			q.Set("boundary.country", o.country)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", address)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", address)
	}

	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}

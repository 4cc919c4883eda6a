package distance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"routing-service/internal/domain"
	"routing-service/internal/ports"
)

type matrixRequest struct {
	Locations [][]float64 `json:"locations"`
	Metrics   []string    `json:"metrics"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// fetchMatrix requests every leg between points from the ORS matrix endpoint.
// A null entry means ORS found no route for that pair and fails the call.
func (o *ORSClient) fetchMatrix(ctx context.Context, points []domain.Coordinates) ([][]ports.DistanceResult, error) {
	n := len(points)
	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, o.profile)

	locations := make([][]float64, 0, n)
	for _, p := range points {
		locations = append(locations, p.LonLat())
	}

	payload, err := json.Marshal(matrixRequest{
		Locations: locations,
		Metrics:   []string{"distance", "duration"},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("matrix request failed: %w", err)
	}
	defer resp.Body.Close()

	var mr matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return nil, fmt.Errorf("decode matrix response: %w", err)
	}

	if len(mr.Distances) != n || len(mr.Durations) != n {
		return nil, fmt.Errorf(
			"expected %d rows; got distances=%d durations=%d",
			n, len(mr.Distances), len(mr.Durations),
		)
	}

	legs := make([][]ports.DistanceResult, n)
	for i := range n {
		if len(mr.Distances[i]) != n || len(mr.Durations[i]) != n {
			return nil, fmt.Errorf("row %d: expected %d columns", i, n)
		}

		legs[i] = make([]ports.DistanceResult, n)
		for j := range n {
			if i == j {
				continue
			}
			meters, seconds := mr.Distances[i][j], mr.Durations[i][j]
			if meters == nil || seconds == nil {
				return nil, fmt.Errorf("no route from point %d to point %d", i, j)
			}
			legs[i][j] = ports.DistanceResult{DistanceMeters: *meters, DurationSeconds: *seconds}
		}
	}

	return legs, nil
}

package distance

import (
	"context"
	"fmt"

	"routing-service/internal/domain"
)

// MockPair is one directed leg served by MockMatrixProvider.
type MockPair struct {
	From, To domain.Coordinates
	Cost     float64
}

// MockMatrixProvider serves a fixed set of legs. Unknown pairs are errors.
type MockMatrixProvider struct {
	m     map[[2]domain.Coordinates]float64
	Calls int
}

func NewMockMatrixProvider(pairs []MockPair) *MockMatrixProvider {
	m := make(map[[2]domain.Coordinates]float64, len(pairs))
	for _, p := range pairs {
		m[[2]domain.Coordinates{p.From, p.To}] = p.Cost
	}
	return &MockMatrixProvider{m: m}
}

func (p *MockMatrixProvider) BuildMatrix(_ context.Context, points []domain.Coordinates) (domain.DistanceMatrix, error) {
	p.Calls++

	out := make(domain.DistanceMatrix, len(points))
	for i, from := range points {
		out[i] = make([]float64, len(points))
		for j, to := range points {
			if i == j {
				continue
			}
			c, ok := p.m[[2]domain.Coordinates{from, to}]
			if !ok {
				return nil, fmt.Errorf("missing pair %v -> %v", from, to)
			}
			out[i][j] = c
		}
	}
	return out, nil
}

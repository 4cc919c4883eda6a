package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"routing-service/internal/domain"
	"routing-service/internal/platform/db"
	"routing-service/internal/ports"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real Postgres when TEST_DATABASE_URL is set.
func TestPGPlanRepository(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	conn, err := db.Open(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, InitSchema(ctx, conn))
	repo := NewPGPlanRepository(conn)

	rec := domain.NewPlanRecord(domain.RoutingResult{
		Status:   domain.StatusSuccess,
		Strategy: domain.StrategyGreedy,
		Routes: []domain.Route{{
			VehicleID:        1,
			ParcelsDelivered: 1,
			TotalDistance:    10,
			Stops:            []domain.Stop{{LocationID: 0, ArrivalTime: 8}, {LocationID: 1, ArrivalTime: 13}, {LocationID: 0, ArrivalTime: 18}},
		}},
		UnassignedParcels: []int{4},
	}, time.Now().Truncate(time.Microsecond))
	require.NoError(t, repo.SavePlan(ctx, rec))

	got, err := repo.GetPlan(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.True(t, rec.CreatedAt.Equal(got.CreatedAt))
	assert.Equal(t, rec.Result, got.Result)

	_, err = repo.GetPlan(ctx, uuid.New())
	assert.ErrorIs(t, err, ports.ErrPlanNotFound)

	list, err := repo.ListPlans(ctx, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, list)
}

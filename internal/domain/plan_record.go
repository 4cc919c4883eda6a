package domain

import (
	"time"

	"github.com/google/uuid"
)

// PlanRecord is an archived routing result.
// Records are written after a request has been solved and are never read
// back by the planners.
type PlanRecord struct {
	ID        uuid.UUID     `json:"id"`
	CreatedAt time.Time     `json:"created_at"`
	Result    RoutingResult `json:"result"`
}

// NewPlanRecord stamps a fresh result with an ID and creation time.
func NewPlanRecord(result RoutingResult, now time.Time) PlanRecord {
	return PlanRecord{
		ID:        uuid.New(),
		CreatedAt: now.UTC(),
		Result:    result,
	}
}

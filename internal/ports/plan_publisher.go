package ports

import (
	"context"

	"routing-service/internal/domain"
)

// PlanPublisher announces freshly solved plans to downstream consumers such
// as route renderers.
type PlanPublisher interface {
	Publish(ctx context.Context, rec domain.PlanRecord) error
}

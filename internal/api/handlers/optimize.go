package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"routing-service/internal/api/dto"
	"routing-service/internal/domain"
	"routing-service/internal/platform/logger"
	"routing-service/internal/ports"
	"routing-service/internal/services"
)

// OptimizeHandler serves routing requests and archives every result.
type OptimizeHandler struct {
	Service   *services.RoutingService
	Plans     ports.PlanRepository
	Publisher ports.PlanPublisher
	// Now defaults to time.Now.
	Now func() time.Time
}

// Optimize solves a routing request with the strategy named by the
// "strategy" query parameter, falling back to the body field and then to
// the exact solver. An infeasible request is a 200 with status no_solution.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.OptimizeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	name := req.Strategy
	if q := r.URL.Query(); q.Has("strategy") {
		name = q.Get("strategy")
	}
	strategy, err := services.ParseStrategy(name)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	in, err := req.ToInput()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	log := logger.WithContext(ctx)

	result, err := h.Service.Solve(ctx, in, strategy)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, r, http.StatusBadRequest, verr.Error())
		case errors.Is(err, services.ErrMatrixUnavailable):
			log.Error().Err(err).Msg("matrix provider failed")
			writeError(w, r, http.StatusBadGateway, services.ErrMatrixUnavailable.Error())
		default:
			log.Error().Err(err).Msg("optimize failed")
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	rec := domain.NewPlanRecord(*result, now())
	h.archive(ctx, rec)

	writeJSON(w, r, http.StatusOK, dto.OptimizeResponse{PlanID: rec.ID, RoutingResult: rec.Result})
}

// archive stores and announces rec. Failures are logged only; the caller
// already has its result.
func (h *OptimizeHandler) archive(ctx context.Context, rec domain.PlanRecord) {
	log := logger.WithContext(ctx)

	if h.Plans != nil {
		if err := h.Plans.SavePlan(ctx, rec); err != nil {
			log.Warn().Err(err).Str("plan_id", rec.ID.String()).Msg("archive plan failed")
		}
	}
	if h.Publisher != nil {
		if err := h.Publisher.Publish(ctx, rec); err != nil {
			log.Warn().Err(err).Str("plan_id", rec.ID.String()).Msg("publish plan failed")
		}
	}
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"routing-service/internal/api/dto"
	"routing-service/internal/platform/logger"
	"routing-service/internal/ports"

	"github.com/google/uuid"
)

const (
	defaultPlanLimit = 20
	maxPlanLimit     = 100
)

// PlanHandler exposes read-only access to archived routing results.
type PlanHandler struct {
	Repo ports.PlanRepository
}

func (h *PlanHandler) List(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	limit := defaultPlanLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPlanLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	plans, err := h.Repo.ListPlans(r.Context(), limit)
	if err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Msg("list plans failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ListPlansResponse{Plans: plans})
}

func (h *PlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid plan id")
		return
	}

	rec, err := h.Repo.GetPlan(r.Context(), id)
	if errors.Is(err, ports.ErrPlanNotFound) {
		writeError(w, r, http.StatusNotFound, "plan not found")
		return
	}
	if err != nil {
		logger.WithContext(r.Context()).Error().Err(err).Msg("get plan failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, rec)
}

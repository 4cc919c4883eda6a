package handlers

import (
	"context"
	"net/http"
	"time"
)

// Check probes one backing dependency (database, broker).
type Check func(ctx context.Context) error

// HealthHandler reports liveness plus the state of each registered check.
// With no checks it is a plain liveness probe.
type HealthHandler struct {
	Checks map[string]Check
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	res := healthResponse{Status: "ok"}
	status := http.StatusOK

	if len(h.Checks) > 0 {
		res.Checks = make(map[string]string, len(h.Checks))
	}
	for name, check := range h.Checks {
		if err := check(ctx); err != nil {
			res.Checks[name] = err.Error()
			res.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		res.Checks[name] = "ok"
	}

	writeJSON(w, r, status, res)
}

package api

import (
	"net/http"

	"routing-service/internal/api/handlers"
	"routing-service/internal/platform/metrics"
	"routing-service/internal/ports"
	"routing-service/internal/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Service   *services.RoutingService
	Plans     ports.PlanRepository
	Publisher ports.PlanPublisher
	// Checks are reported by /health, keyed by dependency name.
	Checks map[string]handlers.Check
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers stay unaware of concrete adapters.
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	optimize := &handlers.OptimizeHandler{
		Service:   deps.Service,
		Plans:     deps.Plans,
		Publisher: deps.Publisher,
	}
	plans := &handlers.PlanHandler{Repo: deps.Plans}
	health := &handlers.HealthHandler{Checks: deps.Checks}

	mux.HandleFunc("/health", health.Health)
	mux.HandleFunc("/optimize", optimize.Optimize)
	mux.HandleFunc("/plans", plans.List)
	mux.HandleFunc("/plans/{id}", plans.Get)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return observe(mux)
}

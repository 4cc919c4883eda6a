// Package metrics holds the Prometheus collectors exported by the service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path"},
	)

	// Solves counts routing requests by strategy and outcome status.
	Solves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "routing_solves_total", Help: "Routing requests by strategy and status."},
		[]string{"strategy", "status"},
	)
	// SolveDuration tracks how long each strategy takes.
	SolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "routing_solve_duration_seconds", Help: "Routing solve duration in seconds.", Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 2, 5, 10, 30}},
		[]string{"strategy"},
	)
	// UnassignedParcels counts parcels the greedy planner could not place.
	UnassignedParcels = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "routing_unassigned_parcels_total", Help: "Parcels left unassigned by the greedy planner."},
	)
	// OperationDuration is observed by obs.Time for every timed operation.
	OperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "operation_duration_seconds", Help: "Duration of internal operations in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"op", "outcome"},
	)
)

var regOnce sync.Once

// Register adds all collectors to Registry. Safe to call more than once.
func Register() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(Solves)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(UnassignedParcels)
		Registry.MustRegister(OperationDuration)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

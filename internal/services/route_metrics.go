package services

import "routing-service/internal/domain"

// MetricsOptions tunes how BuildRoute derives metrics.
type MetricsOptions struct {
	// CountLateness enables the late-delivery count. The greedy planner
	// ignores time windows and reports zero late deliveries by default.
	CountLateness bool
}

// BuildRoute derives the summary metrics of a raw stop sequence, which must
// already include the leading and trailing depot stops. The formulas are the
// same for every planner so that strategies can be compared.
func BuildRoute(vehicleID int, stops []domain.Stop, p *domain.CanonicalProblem, opts MetricsOptions) domain.Route {
	route := domain.Route{
		VehicleID: vehicleID,
		Stops:     stops,
	}
	if len(stops) == 0 {
		return route
	}

	route.TotalDeliveryTime = stops[len(stops)-1].ArrivalTime - stops[0].ArrivalTime

	for i, s := range stops {
		if i > 0 {
			route.TotalDistance += p.Cost(stops[i-1].LocationID, s.LocationID)
		}
		if s.LocationID == p.Depot {
			continue
		}

		route.ParcelsDelivered++
		route.Load += p.Demands[s.LocationID]
		if opts.CountLateness && s.ArrivalTime > p.TimeWindows[s.LocationID].Latest {
			route.LateDeliveries++
		}
	}

	return route
}

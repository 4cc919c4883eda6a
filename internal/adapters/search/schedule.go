package search

import (
	"math"

	"routing-service/internal/domain"
)

// model is the per-call working view of a problem and its search bounds.
type model struct {
	p      *domain.CanonicalProblem
	budget float64
	wait   float64
}

// window returns the feasible arrival interval at loc, clamped to the route budget.
func (m *model) window(loc int) (float64, float64) {
	tw := m.p.TimeWindows[loc]
	return math.Max(tw.Earliest, 0), math.Min(tw.Latest, m.budget)
}

// path expands a customer sequence into the full depot-anchored node path.
func (m *model) path(route []int) []int {
	out := make([]int, 0, len(route)+2)
	out = append(out, m.p.Depot)
	out = append(out, route...)
	return append(out, m.p.Depot)
}

// feasible reports whether route can be scheduled within every time bound.
func (m *model) feasible(route []int) bool {
	_, ok := m.schedule(route)
	return ok
}

// schedule returns the earliest feasible arrival time at every node of the
// depot-anchored path of route.
//
// Arrival at the next node is the departure from the current one plus the
// arc cost, and a vehicle may wait at most m.wait before departing. The
// reachable arrival times at each node therefore form an interval, which is
// propagated forward, tightened backward, and then walked forward once more
// taking the earliest time that still reaches the end of the path.
func (m *model) schedule(route []int) ([]float64, bool) {
	nodes := m.path(route)
	lo := make([]float64, len(nodes))
	hi := make([]float64, len(nodes))

	lo[0], hi[0] = m.window(nodes[0])
	if lo[0] > hi[0] {
		return nil, false
	}
	for k := 1; k < len(nodes); k++ {
		t := m.p.Cost(nodes[k-1], nodes[k])
		wlo, whi := m.window(nodes[k])
		lo[k] = math.Max(wlo, lo[k-1]+t)
		hi[k] = math.Min(whi, hi[k-1]+t+m.wait)
		if lo[k] > hi[k] {
			return nil, false
		}
	}

	for k := len(nodes) - 2; k >= 0; k-- {
		t := m.p.Cost(nodes[k], nodes[k+1])
		hi[k] = math.Min(hi[k], hi[k+1]-t)
		lo[k] = math.Max(lo[k], lo[k+1]-t-m.wait)
	}

	arrivals := make([]float64, len(nodes))
	arrivals[0] = lo[0]
	for k := 1; k < len(nodes); k++ {
		arrivals[k] = math.Max(lo[k], arrivals[k-1]+m.p.Cost(nodes[k-1], nodes[k]))
	}
	return arrivals, true
}

// routeCost is the total arc cost of the depot-anchored path of route.
func (m *model) routeCost(route []int) float64 {
	if len(route) == 0 {
		return 0
	}
	c := m.p.Cost(m.p.Depot, route[0]) + m.p.Cost(route[len(route)-1], m.p.Depot)
	for i := 1; i < len(route); i++ {
		c += m.p.Cost(route[i-1], route[i])
	}
	return c
}

func (m *model) load(route []int) float64 {
	var l float64
	for _, loc := range route {
		l += m.p.Demands[loc]
	}
	return l
}

// insertCost is the cost increase of placing loc before position pos of route.
func (m *model) insertCost(route []int, loc, pos int) float64 {
	prev, next := m.p.Depot, m.p.Depot
	if pos > 0 {
		prev = route[pos-1]
	}
	if pos < len(route) {
		next = route[pos]
	}
	return m.p.Cost(prev, loc) + m.p.Cost(loc, next) - m.p.Cost(prev, next)
}

func insertAt(route []int, loc, pos int) []int {
	out := make([]int, 0, len(route)+1)
	out = append(out, route[:pos]...)
	out = append(out, loc)
	return append(out, route[pos:]...)
}

func removeAt(route []int, pos int) []int {
	out := make([]int, 0, len(route)-1)
	out = append(out, route[:pos]...)
	return append(out, route[pos+1:]...)
}

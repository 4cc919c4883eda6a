package search

import (
	"context"
	"math"
	"slices"
)

// solution is a customer sequence per vehicle, indexed like the problem's vehicles.
type solution struct {
	routes [][]int
	loads  []float64
}

func newSolution(vehicles int) *solution {
	return &solution{
		routes: make([][]int, vehicles),
		loads:  make([]float64, vehicles),
	}
}

func (s *solution) cost(m *model) float64 {
	var c float64
	for _, r := range s.routes {
		c += m.routeCost(r)
	}
	return c
}

// insertion is a candidate placement of one location.
type insertion struct {
	loc, vehicle, pos int
	delta             float64
}

// bestInsertions returns, for loc, the cheapest feasible insertion into each
// vehicle's route. Vehicles with no feasible position are skipped.
func (m *model) bestInsertions(s *solution, loc int) []insertion {
	var out []insertion
	for v, route := range s.routes {
		if s.loads[v]+m.p.Demands[loc] > m.p.VehicleCapacities[v] {
			continue
		}
		best := insertion{loc: loc, vehicle: v, pos: -1, delta: math.Inf(1)}
		for pos := 0; pos <= len(route); pos++ {
			d := m.insertCost(route, loc, pos)
			if d >= best.delta {
				continue
			}
			if !m.feasible(insertAt(route, loc, pos)) {
				continue
			}
			best.pos, best.delta = pos, d
		}
		if best.pos >= 0 {
			out = append(out, best)
		}
	}
	return out
}

func (s *solution) apply(m *model, ins insertion) {
	s.routes[ins.vehicle] = insertAt(s.routes[ins.vehicle], ins.loc, ins.pos)
	s.loads[ins.vehicle] += m.p.Demands[ins.loc]
}

// cheapestInsertion builds a solution by repeatedly committing the globally
// cheapest feasible insertion. Ties go to the lower location, then the lower
// vehicle index, then the earlier position. It returns false when some
// location cannot be placed.
func (m *model) cheapestInsertion(ctx context.Context, visits []int) (*solution, bool, error) {
	s := newSolution(m.p.NumVehicles)
	pending := slices.Clone(visits)

	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		chosen, found := -1, insertion{delta: math.Inf(1)}
		for i, loc := range pending {
			for _, ins := range m.bestInsertions(s, loc) {
				if ins.delta < found.delta {
					chosen, found = i, ins
				}
			}
		}
		if chosen < 0 {
			return nil, false, nil
		}

		s.apply(m, found)
		pending = removeAt(pending, chosen)
	}
	return s, true, nil
}

// regretInsertion builds a solution by committing first the location whose
// best and second-best vehicle placements differ the most, so locations with
// few options are placed before the cheap ones crowd them out.
func (m *model) regretInsertion(ctx context.Context, visits []int) (*solution, bool, error) {
	s := newSolution(m.p.NumVehicles)
	pending := slices.Clone(visits)

	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		chosen := -1
		var pick insertion
		bestRegret := math.Inf(-1)
		for i, loc := range pending {
			opts := m.bestInsertions(s, loc)
			if len(opts) == 0 {
				return nil, false, nil
			}
			slices.SortStableFunc(opts, func(a, b insertion) int {
				switch {
				case a.delta < b.delta:
					return -1
				case a.delta > b.delta:
					return 1
				}
				return 0
			})

			regret := math.Inf(1)
			if len(opts) > 1 {
				regret = opts[1].delta - opts[0].delta
			}
			if regret > bestRegret || (regret == bestRegret && opts[0].delta < pick.delta) {
				chosen, pick, bestRegret = i, opts[0], regret
			}
		}

		s.apply(m, pick)
		pending = removeAt(pending, chosen)
	}
	return s, true, nil
}

package search

import (
	"context"
	"slices"
)

const eps = 1e-9

// improve applies first-improvement local search until no move lowers the
// total cost, maxIter moves were applied, or ctx expires. Every accepted move
// keeps the solution feasible, so s is always a valid answer.
func (m *model) improve(ctx context.Context, s *solution, maxIter int) int {
	iter := 0
	for maxIter <= 0 || iter < maxIter {
		if ctx.Err() != nil {
			break
		}
		if !m.relocate(s) && !m.twoOpt(s) && !m.exchange(s) {
			break
		}
		iter++
	}
	return iter
}

// relocate moves one location to another position, in the same or another route.
func (m *model) relocate(s *solution) bool {
	for a, from := range s.routes {
		for i, loc := range from {
			shrunk := removeAt(from, i)
			saved := m.routeCost(from) - m.routeCost(shrunk)

			for b := range s.routes {
				target := s.routes[b]
				if a == b {
					target = shrunk
				} else if s.loads[b]+m.p.Demands[loc] > m.p.VehicleCapacities[b] {
					continue
				}

				for pos := 0; pos <= len(target); pos++ {
					if a == b && pos == i {
						continue
					}
					grown := insertAt(target, loc, pos)
					var delta float64
					if a == b {
						delta = m.routeCost(grown) - m.routeCost(from)
					} else {
						delta = m.insertCost(target, loc, pos) - saved
					}
					if delta > -eps {
						continue
					}
					if a == b {
						if !m.feasible(grown) {
							continue
						}
						s.routes[a] = grown
						return true
					}
					if !m.feasible(grown) || !m.feasible(shrunk) {
						continue
					}
					s.routes[a], s.routes[b] = shrunk, grown
					s.loads[a] -= m.p.Demands[loc]
					s.loads[b] += m.p.Demands[loc]
					return true
				}
			}
		}
	}
	return false
}

// twoOpt reverses a segment of a single route.
func (m *model) twoOpt(s *solution) bool {
	for v, route := range s.routes {
		base := m.routeCost(route)
		for i := 0; i < len(route)-1; i++ {
			for k := i + 1; k < len(route); k++ {
				cand := slices.Clone(route)
				slices.Reverse(cand[i : k+1])
				if m.routeCost(cand)-base > -eps || !m.feasible(cand) {
					continue
				}
				s.routes[v] = cand
				return true
			}
		}
	}
	return false
}

// exchange swaps two locations served by different vehicles.
func (m *model) exchange(s *solution) bool {
	for a := range s.routes {
		for b := a + 1; b < len(s.routes); b++ {
			ra, rb := s.routes[a], s.routes[b]
			base := m.routeCost(ra) + m.routeCost(rb)

			for i, x := range ra {
				for j, y := range rb {
					diff := m.p.Demands[y] - m.p.Demands[x]
					if s.loads[a]+diff > m.p.VehicleCapacities[a] || s.loads[b]-diff > m.p.VehicleCapacities[b] {
						continue
					}
					na, nb := slices.Clone(ra), slices.Clone(rb)
					na[i], nb[j] = y, x
					if m.routeCost(na)+m.routeCost(nb)-base > -eps {
						continue
					}
					if !m.feasible(na) || !m.feasible(nb) {
						continue
					}
					s.routes[a], s.routes[b] = na, nb
					s.loads[a] += diff
					s.loads[b] -= diff
					return true
				}
			}
		}
	}
	return false
}

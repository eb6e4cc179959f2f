// Package solver holds a single-depot capacitated VRPTW solver used to
// route one appointment cluster at a time. The contract is deliberately
// narrow (matrix, demands, windows, capacities in; routes out) so the
// implementation can be swapped for a constraint-programming library
// without touching the callers.
package solver

import (
	"errors"
	"math"
	"time"
)

// ErrInfeasible is returned when no assignment satisfies the capacity and
// time-window constraints for the given vehicle slots.
var ErrInfeasible = errors.New("solver: no feasible route assignment")

// Node is one appointment in the cluster being solved.
type Node struct {
	Demand   int // passengers boarded at this stop
	Earliest int // seconds since midnight, window open
	Latest   int // seconds since midnight, window close
}

// Problem is a single-depot VRPTW instance. Travel is an (n+1)x(n+1)
// seconds matrix where index 0 is the depot and node i maps to index i+1.
type Problem struct {
	Travel       [][]int
	Nodes        []Node
	Capacities   []int // one entry per vehicle slot, in priority order
	WaitSlackSec int   // max waiting permitted at a single stop (default 1h)
	HorizonSec   int   // whole-day cap on cumulative route time (default 24h)
}

// Route assigns an ordered node sequence to one vehicle slot.
type Route struct {
	Vehicle int
	Stops   []int // node indices, visit order
}

const (
	defaultWaitSlackSec = 60 * 60
	defaultHorizonSec   = 24 * 60 * 60
)

// Solve builds routes minimizing total travel seconds. It seeds with
// cheapest feasible insertion (tightest windows first) and improves with
// relocate, 2-opt and cross-exchange passes until the wall-clock budget
// runs out or a full sweep yields no improvement. Deterministic for a
// fixed input.
func Solve(p Problem, budget time.Duration) ([]Route, error) {
	if len(p.Capacities) == 0 {
		return nil, ErrInfeasible
	}
	if p.WaitSlackSec <= 0 {
		p.WaitSlackSec = defaultWaitSlackSec
	}
	if p.HorizonSec <= 0 {
		p.HorizonSec = defaultHorizonSec
	}

	routes := make([][]int, len(p.Capacities))
	unplaced := seedInsert(&p, routes)
	if len(unplaced) > 0 {
		return nil, ErrInfeasible
	}

	deadline := time.Now().Add(budget)
	improved := true
	for improved && time.Now().Before(deadline) {
		improved = false
		if relocateImprove(&p, routes, deadline) {
			improved = true
		}
		if twoOptImprove(&p, routes, deadline) {
			improved = true
		}
		if crossExchangeImprove(&p, routes, deadline) {
			improved = true
		}
	}

	out := make([]Route, 0, len(routes))
	for vi, stops := range routes {
		if len(stops) == 0 {
			continue
		}
		out = append(out, Route{Vehicle: vi, Stops: stops})
	}
	return out, nil
}

// seedInsert places every node at its cheapest feasible position across all
// vehicle slots, processing tight time windows first. Returns the node
// indices that could not be placed anywhere.
func seedInsert(p *Problem, routes [][]int) []int {
	order := make([]int, len(p.Nodes))
	for i := range order {
		order[i] = i
	}
	// tightest window close first, index as tie-break for determinism
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			a, b := order[i], order[j]
			if p.Nodes[b].Latest < p.Nodes[a].Latest ||
				(p.Nodes[b].Latest == p.Nodes[a].Latest && b < a) {
				order[i], order[j] = order[j], order[i]
			}
		}
	}

	var unplaced []int
	for _, node := range order {
		vi, pos, ok := cheapestInsertion(p, routes, node)
		if !ok {
			unplaced = append(unplaced, node)
			continue
		}
		routes[vi] = insertAt(routes[vi], node, pos)
	}
	return unplaced
}

// cheapestInsertion scans every slot and position for the feasible
// insertion with the smallest travel-cost delta.
func cheapestInsertion(p *Problem, routes [][]int, node int) (vehicle, position int, ok bool) {
	bestDelta := math.MaxInt
	for vi := range routes {
		for pos := 0; pos <= len(routes[vi]); pos++ {
			cand := insertAt(append([]int(nil), routes[vi]...), node, pos)
			if !feasible(p, cand, p.Capacities[vi]) {
				continue
			}
			delta := routeCost(p, cand) - routeCost(p, routes[vi])
			if delta < bestDelta {
				bestDelta = delta
				vehicle, position, ok = vi, pos, true
			}
		}
	}
	return vehicle, position, ok
}

// feasible simulates the route with a free depot departure time: the
// vehicle leaves just early enough to hit the first window without
// waiting, then propagates arrival times forward. Waiting at later stops
// is allowed up to WaitSlackSec; arriving after a window close, exceeding
// capacity, or overrunning the horizon is infeasible.
func feasible(p *Problem, stops []int, capacity int) bool {
	if len(stops) == 0 {
		return true
	}

	load := 0
	for _, s := range stops {
		load += p.Nodes[s].Demand
	}
	if load > capacity {
		return false
	}

	first := stops[0]
	arrival := p.Travel[0][first+1]
	if arrival < p.Nodes[first].Earliest {
		arrival = p.Nodes[first].Earliest
	}
	if arrival > p.Nodes[first].Latest {
		return false
	}

	prev := first
	for _, s := range stops[1:] {
		arrival += p.Travel[prev+1][s+1]
		if arrival < p.Nodes[s].Earliest {
			if p.Nodes[s].Earliest-arrival > p.WaitSlackSec {
				return false
			}
			arrival = p.Nodes[s].Earliest
		}
		if arrival > p.Nodes[s].Latest {
			return false
		}
		prev = s
	}

	return arrival+p.Travel[prev+1][0] <= p.HorizonSec
}

// routeCost is the total travel seconds including the depot legs on both
// ends, mirroring an arc-cost objective over a closed route.
func routeCost(p *Problem, stops []int) int {
	if len(stops) == 0 {
		return 0
	}
	cost := p.Travel[0][stops[0]+1]
	for i := 1; i < len(stops); i++ {
		cost += p.Travel[stops[i-1]+1][stops[i]+1]
	}
	cost += p.Travel[stops[len(stops)-1]+1][0]
	return cost
}

func totalCost(p *Problem, routes [][]int) int {
	total := 0
	for _, r := range routes {
		total += routeCost(p, r)
	}
	return total
}

// relocateImprove moves single nodes to their best alternative position,
// within or across routes (or-opt with segment length 1). First-improvement
// strategy: apply the first cost-reducing feasible move and restart.
func relocateImprove(p *Problem, routes [][]int, deadline time.Time) bool {
	improvedAny := false
	improved := true
	for improved {
		improved = false
	scan:
		for vi := range routes {
			for i := 0; i < len(routes[vi]); i++ {
				if time.Now().After(deadline) {
					return improvedAny
				}
				node := routes[vi][i]
				without := removeAt(append([]int(nil), routes[vi]...), i)

				for wi := range routes {
					src := routes[wi]
					if wi == vi {
						src = without
					}
					for pos := 0; pos <= len(src); pos++ {
						if wi == vi && pos == i {
							continue
						}
						cand := insertAt(append([]int(nil), src...), node, pos)
						if !feasible(p, cand, p.Capacities[wi]) {
							continue
						}
						var delta int
						if wi == vi {
							delta = routeCost(p, cand) - routeCost(p, routes[vi])
						} else {
							delta = routeCost(p, cand) - routeCost(p, routes[wi]) +
								routeCost(p, without) - routeCost(p, routes[vi])
						}
						if delta < 0 {
							if wi == vi {
								routes[vi] = cand
							} else {
								routes[vi] = without
								routes[wi] = cand
							}
							improved = true
							improvedAny = true
							break scan
						}
					}
				}
			}
		}
	}
	return improvedAny
}

// twoOptImprove reverses intra-route segments when the reversal stays
// feasible and shortens the route.
func twoOptImprove(p *Problem, routes [][]int, deadline time.Time) bool {
	improvedAny := false
	for vi := range routes {
		stops := routes[vi]
		n := len(stops)
		improved := true
		for improved {
			improved = false
			for i := 0; i < n-1; i++ {
				for k := i + 1; k < n; k++ {
					if time.Now().After(deadline) {
						routes[vi] = stops
						return improvedAny
					}
					cand := append([]int(nil), stops...)
					for a, b := i, k; a < b; a, b = a+1, b-1 {
						cand[a], cand[b] = cand[b], cand[a]
					}
					if !feasible(p, cand, p.Capacities[vi]) {
						continue
					}
					if routeCost(p, cand) < routeCost(p, stops) {
						stops = cand
						improved = true
						improvedAny = true
					}
				}
			}
		}
		routes[vi] = stops
	}
	return improvedAny
}

// crossExchangeImprove swaps single nodes between route pairs when both
// sides stay feasible and the combined cost drops.
func crossExchangeImprove(p *Problem, routes [][]int, deadline time.Time) bool {
	improvedAny := false
	improved := true
	for improved {
		improved = false
		for a := 0; a < len(routes); a++ {
			for b := a + 1; b < len(routes); b++ {
				for i := 0; i < len(routes[a]); i++ {
					for j := 0; j < len(routes[b]); j++ {
						if time.Now().After(deadline) {
							return improvedAny
						}
						ca := append([]int(nil), routes[a]...)
						cb := append([]int(nil), routes[b]...)
						ca[i], cb[j] = cb[j], ca[i]
						if !feasible(p, ca, p.Capacities[a]) || !feasible(p, cb, p.Capacities[b]) {
							continue
						}
						before := routeCost(p, routes[a]) + routeCost(p, routes[b])
						after := routeCost(p, ca) + routeCost(p, cb)
						if after < before {
							routes[a] = ca
							routes[b] = cb
							improved = true
							improvedAny = true
						}
					}
				}
			}
		}
	}
	return improvedAny
}

func insertAt(stops []int, node, pos int) []int {
	stops = append(stops, 0)
	copy(stops[pos+1:], stops[pos:])
	stops[pos] = node
	return stops
}

func removeAt(stops []int, i int) []int {
	return append(stops[:i], stops[i+1:]...)
}

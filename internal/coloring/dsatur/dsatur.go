// Package dsatur implements the DSATUR constructive coloring heuristic
// plus the alternate static/dynamic vertex orderings the CLI exposes
// alongside it.
package dsatur

import (
	"sort"

	"golang.org/x/xerrors"

	"github.com/graphcoloring/graphcolor/internal/coloring"
	"github.com/graphcoloring/graphcolor/internal/graph"
)

// Ordering selects the vertex order the greedy coloring pass walks.
type Ordering int

const (
	// OrderingDefault colors vertices in increasing id order.
	OrderingDefault Ordering = iota
	// OrderingLargestFirst colors vertices in decreasing static degree order.
	OrderingLargestFirst
	// OrderingIncidenceDegree grows the order by repeatedly picking the
	// uncolored vertex with the most neighbors already placed.
	OrderingIncidenceDegree
	// OrderingSmallestLast peels the vertex of minimum remaining degree and
	// places it last, repeating on the residual graph.
	OrderingSmallestLast
	// OrderingDynamicLargestFirst repeatedly picks the uncolored vertex with
	// the largest remaining (not yet removed) degree.
	OrderingDynamicLargestFirst
)

// ParseOrdering resolves the --ordering CLI flag value to an Ordering.
func ParseOrdering(name string) (Ordering, error) {
	switch name {
	case "", "default":
		return OrderingDefault, nil
	case "largestfirst":
		return OrderingLargestFirst, nil
	case "incidencedegree":
		return OrderingIncidenceDegree, nil
	case "smallestlast":
		return OrderingSmallestLast, nil
	case "dynamiclargestfirst":
		return OrderingDynamicLargestFirst, nil
	default:
		return 0, xerrors.Errorf("unknown ordering %q", name)
	}
}

// Greedy colors inst in the vertex order ordering produces, returning a
// feasible solution using at most MaxDegree()+1 colors. When reverse is
// true the order is walked back to front.
func Greedy(inst *graph.Instance, ordering Ordering, reverse bool) *coloring.Solution {
	order := staticOrder(inst, ordering)
	if reverse {
		reverseInts(order)
	}
	return colorInOrder(inst, order)
}

// Run implements the classic saturation-degree (DSATUR) algorithm: a
// priority queue keyed by a composite saturation/degree priority, seeded
// with a forced first pick on a maximum-degree vertex.
func Run(inst *graph.Instance) *coloring.Solution {
	n := inst.NumberOfVertices()
	sol := coloring.NewSolution(inst)
	if n == 0 {
		return sol
	}

	maxDegree := inst.MaxDegree()
	h := newIndexedHeap(n)

	seed := 0
	for v := 1; v < n; v++ {
		if inst.Degree(v) > inst.Degree(seed) {
			seed = v
		}
	}

	for v := 0; v < n; v++ {
		if v == seed {
			h.push(v, -1)
		} else {
			h.push(v, key(inst, v, 0, maxDegree))
		}
	}

	saturation := make([]int, n)
	var neighborColors []map[int]bool

	for !h.empty() {
		v := h.pop()
		c := smallestFreeColor(inst, sol, v)
		sol.Set(v, c)

		for _, nb := range inst.Neighbors(v) {
			w := nb.Other
			if sol.Contains(w) {
				continue
			}
			if neighborColors == nil {
				neighborColors = make([]map[int]bool, n)
			}
			if neighborColors[w] == nil {
				neighborColors[w] = make(map[int]bool)
			}
			if !neighborColors[w][c] {
				neighborColors[w][c] = true
				saturation[w]++
			}
			h.updateKey(w, key(inst, w, saturation[w], maxDegree))
		}
	}
	return sol
}

// key implements key(v) = -saturation(v) - degree(v)/(max_degree+1).
func key(inst *graph.Instance, v, saturation, maxDegree int) float64 {
	return -float64(saturation) - float64(inst.Degree(v))/float64(maxDegree+1)
}

func smallestFreeColor(inst *graph.Instance, sol *coloring.Solution, v int) int {
	used := make(map[int]bool, inst.Degree(v))
	for _, nb := range inst.Neighbors(v) {
		if sol.Contains(nb.Other) {
			used[sol.Color(nb.Other)] = true
		}
	}
	for c := 0; ; c++ {
		if !used[c] {
			return c
		}
	}
}

func colorInOrder(inst *graph.Instance, order []int) *coloring.Solution {
	sol := coloring.NewSolution(inst)
	for _, v := range order {
		sol.Set(v, smallestFreeColor(inst, sol, v))
	}
	return sol
}

func staticOrder(inst *graph.Instance, ordering Ordering) []int {
	n := inst.NumberOfVertices()

	switch ordering {
	case OrderingLargestFirst:
		order := identityOrder(n)
		sort.SliceStable(order, func(i, j int) bool {
			return inst.Degree(order[i]) > inst.Degree(order[j])
		})
		return order
	case OrderingIncidenceDegree:
		return incidenceDegreeOrder(inst)
	case OrderingSmallestLast:
		return smallestLastOrder(inst)
	case OrderingDynamicLargestFirst:
		return dynamicLargestFirstOrder(inst)
	default:
		return identityOrder(n)
	}
}

func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// incidenceDegreeOrder repeatedly appends the uncolored vertex with the most
// neighbors already in the order, ties broken by static degree.
func incidenceDegreeOrder(inst *graph.Instance) []int {
	n := inst.NumberOfVertices()
	placed := make([]bool, n)
	incidence := make([]int, n)
	order := make([]int, 0, n)

	for len(order) < n {
		best := -1
		for v := 0; v < n; v++ {
			if placed[v] {
				continue
			}
			if best == -1 || incidence[v] > incidence[best] ||
				(incidence[v] == incidence[best] && inst.Degree(v) > inst.Degree(best)) {
				best = v
			}
		}
		placed[best] = true
		order = append(order, best)
		for _, nb := range inst.Neighbors(best) {
			if !placed[nb.Other] {
				incidence[nb.Other]++
			}
		}
	}
	return order
}

// smallestLastOrder peels the vertex of minimum remaining degree, placing it
// last, and repeats on the residual graph — the classic degeneracy ordering.
func smallestLastOrder(inst *graph.Instance) []int {
	n := inst.NumberOfVertices()
	removed := make([]bool, n)
	remainingDegree := make([]int, n)
	for v := 0; v < n; v++ {
		remainingDegree[v] = inst.Degree(v)
	}

	order := make([]int, n)
	for i := n - 1; i >= 0; i-- {
		pick := -1
		for v := 0; v < n; v++ {
			if removed[v] {
				continue
			}
			if pick == -1 || remainingDegree[v] < remainingDegree[pick] {
				pick = v
			}
		}
		removed[pick] = true
		order[i] = pick
		for _, nb := range inst.Neighbors(pick) {
			if !removed[nb.Other] {
				remainingDegree[nb.Other]--
			}
		}
	}
	return order
}

// dynamicLargestFirstOrder repeatedly picks the uncolored vertex with the
// largest degree in the residual graph.
func dynamicLargestFirstOrder(inst *graph.Instance) []int {
	n := inst.NumberOfVertices()
	removed := make([]bool, n)
	remainingDegree := make([]int, n)
	for v := 0; v < n; v++ {
		remainingDegree[v] = inst.Degree(v)
	}

	order := make([]int, 0, n)
	for len(order) < n {
		best := -1
		for v := 0; v < n; v++ {
			if removed[v] {
				continue
			}
			if best == -1 || remainingDegree[v] > remainingDegree[best] {
				best = v
			}
		}
		removed[best] = true
		order = append(order, best)
		for _, nb := range inst.Neighbors(best) {
			if !removed[nb.Other] {
				remainingDegree[nb.Other]--
			}
		}
	}
	return order
}

func reverseInts(xs []int) {
	for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
		xs[i], xs[j] = xs[j], xs[i]
	}
}

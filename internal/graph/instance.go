// Package graph implements the undirected simple graph representation used
// throughout the solver: a compressed, pointer-free adjacency structure built
// once at load time and never mutated while a solver runs.
package graph

import (
	"sort"

	"golang.org/x/xerrors"
)

// ErrVertexOutOfRange is returned whenever a vertex id outside [0, n) is
// passed to an Instance method.
var ErrVertexOutOfRange = xerrors.New("vertex index out of range")

// Neighbor is one entry of a vertex's adjacency list: the edge connecting it
// to Other, and the id of Other itself.
type Neighbor struct {
	Edge  int
	Other int
}

type edge struct {
	u, v int
}

// Instance holds an undirected simple graph with vertices numbered [0, n)
// and edges numbered [0, m). Self-loops are silently dropped at
// construction time; duplicate edges may be present unless
// RemoveDuplicateEdges is called.
type Instance struct {
	name      string
	neighbors [][]Neighbor
	edges     []edge
	maxDegree int
}

// NewInstance returns an empty instance with numVertices pre-allocated
// vertices and no edges.
func NewInstance(numVertices int) *Instance {
	g := &Instance{}
	for i := 0; i < numVertices; i++ {
		g.AddVertex()
	}
	return g
}

// SetName records a human-readable name for the instance (typically the
// source file path), mirroring the name tracked by instance readers.
func (g *Instance) SetName(name string) { g.name = name }

// Name returns the instance's name, or the empty string if unset.
func (g *Instance) Name() string { return g.name }

// AddVertex appends a new, edgeless vertex and returns its id.
func (g *Instance) AddVertex() int {
	g.neighbors = append(g.neighbors, nil)
	return len(g.neighbors) - 1
}

// AddEdge adds an undirected edge between u and v, returning its id.
// Self-loops (u == v) are silently ignored: edgeID is -1 and err is nil.
// Both endpoints must already be valid vertex ids, otherwise
// ErrVertexOutOfRange is returned.
func (g *Instance) AddEdge(u, v int) (edgeID int, err error) {
	if err := g.checkVertexIndex(u); err != nil {
		return -1, err
	}
	if err := g.checkVertexIndex(v); err != nil {
		return -1, err
	}
	if u == v {
		return -1, nil
	}

	id := len(g.edges)
	g.edges = append(g.edges, edge{u: u, v: v})

	g.neighbors[u] = append(g.neighbors[u], Neighbor{Edge: id, Other: v})
	if len(g.neighbors[u]) > g.maxDegree {
		g.maxDegree = len(g.neighbors[u])
	}
	g.neighbors[v] = append(g.neighbors[v], Neighbor{Edge: id, Other: u})
	if len(g.neighbors[v]) > g.maxDegree {
		g.maxDegree = len(g.neighbors[v])
	}

	return id, nil
}

// NumberOfVertices returns n.
func (g *Instance) NumberOfVertices() int { return len(g.neighbors) }

// NumberOfEdges returns m.
func (g *Instance) NumberOfEdges() int { return len(g.edges) }

// Neighbors returns v's adjacency list in insertion order.
func (g *Instance) Neighbors(v int) []Neighbor { return g.neighbors[v] }

// Degree returns the number of edges incident to v.
func (g *Instance) Degree(v int) int { return len(g.neighbors[v]) }

// MaxDegree returns the maximum degree over all vertices.
func (g *Instance) MaxDegree() int { return g.maxDegree }

// Endpoints returns the two endpoints of edge e.
func (g *Instance) Endpoints(e int) (u, v int) {
	ed := g.edges[e]
	return ed.u, ed.v
}

// CheckVertexIndex returns ErrVertexOutOfRange if v is not in [0, n).
func (g *Instance) CheckVertexIndex(v int) error { return g.checkVertexIndex(v) }

func (g *Instance) checkVertexIndex(v int) error {
	if v < 0 || v >= len(g.neighbors) {
		return xerrors.Errorf("vertex %d not in [0, %d): %w", v, len(g.neighbors), ErrVertexOutOfRange)
	}
	return nil
}

// ClearEdges removes every edge while keeping all vertices.
func (g *Instance) ClearEdges() {
	g.edges = nil
	g.maxDegree = 0
	for v := range g.neighbors {
		g.neighbors[v] = nil
	}
}

// RemoveDuplicateEdges rebuilds the edge set so that each unordered pair
// (u, v) appears at most once. Edge ids are renumbered as a result.
func (g *Instance) RemoveDuplicateEdges() {
	n := g.NumberOfVertices()
	dedup := make([][]int, n)
	for v := 0; v < n; v++ {
		for _, nb := range g.neighbors[v] {
			if nb.Other > v {
				dedup[v] = append(dedup[v], nb.Other)
			}
		}
		sort.Ints(dedup[v])
		dedup[v] = uniqueSorted(dedup[v])
	}

	g.ClearEdges()
	for u := 0; u < n; u++ {
		for _, v := range dedup[u] {
			g.AddEdge(u, v)
		}
	}
}

func uniqueSorted(xs []int) []int {
	if len(xs) == 0 {
		return xs
	}
	out := xs[:1]
	for _, x := range xs[1:] {
		if x != out[len(out)-1] {
			out = append(out, x)
		}
	}
	return out
}

// ComputeCore returns the vertices that can be colored trivially once the
// rest of the graph has been colored with k colors: it repeatedly peels any
// vertex whose remaining degree is below k, returning the peel order.
// Re-inserting the returned vertices in reverse order, each greedily
// assigned any color not used by its already-colored neighbors, always
// succeeds for a valid k-coloring of the residual graph, provided the graph
// has no duplicate edges.
func (g *Instance) ComputeCore(k int) []int {
	n := g.NumberOfVertices()
	remainingDegree := make([]int, n)
	queue := make([]int, 0, n)
	for v := 0; v < n; v++ {
		remainingDegree[v] = g.Degree(v)
		if remainingDegree[v] < k {
			queue = append(queue, v)
		}
	}

	removed := make([]bool, n)
	var order []int
	for len(queue) > 0 {
		v := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if removed[v] {
			continue
		}
		removed[v] = true
		order = append(order, v)

		for _, nb := range g.neighbors[v] {
			if removed[nb.Other] || remainingDegree[nb.Other] < k {
				continue
			}
			remainingDegree[nb.Other]--
			if remainingDegree[nb.Other] < k {
				queue = append(queue, nb.Other)
			}
		}
	}
	return order
}

package coloring

import "github.com/graphcoloring/graphcolor/internal/graph"

// Solution is a mutable vertex-coloring of an Instance together with its
// conflict set and per-edge penalties, maintained incrementally as colors
// are (re)assigned.
//
// Invariants (checked by the test suite, not at runtime, for performance):
//   - edge e is in conflicts iff both of its endpoints are colored and
//     share a color.
//   - totalPenalty equals the sum of penalty[e] over e in conflicts.
type Solution struct {
	instance *graph.Instance
	colors   *ColorMap

	// conflicts is a swap-delete list of conflicting edge ids, with
	// conflictPos tracking each edge's index within it (-1 when absent).
	// A list rather than a map so that drawing the i-th conflicting edge
	// is O(1) and iteration order is deterministic for a fixed seed.
	conflicts    []int
	conflictPos  []int
	penalty      []uint16
	totalPenalty uint64
}

// NewSolution returns an empty solution (no vertex colored) over inst, with
// every edge's penalty initialized to 1.
func NewSolution(inst *graph.Instance) *Solution {
	m := inst.NumberOfEdges()
	penalty := make([]uint16, m)
	conflictPos := make([]int, m)
	for i := range penalty {
		penalty[i] = 1
		conflictPos[i] = -1
	}
	return &Solution{
		instance:    inst,
		colors:      NewColorMap(inst.NumberOfVertices()),
		conflictPos: conflictPos,
		penalty:     penalty,
	}
}

// Clone returns a deep copy of s. Copying is O(n+m), cheap enough to run
// every time a worker publishes a new best solution.
func (s *Solution) Clone() *Solution {
	out := &Solution{
		instance:     s.instance,
		conflicts:    append([]int(nil), s.conflicts...),
		conflictPos:  append([]int(nil), s.conflictPos...),
		penalty:      append([]uint16(nil), s.penalty...),
		totalPenalty: s.totalPenalty,
	}
	out.colors = s.colors.clone()
	return out
}

func (m *ColorMap) clone() *ColorMap {
	out := &ColorMap{
		colorOf:      append([]int(nil), m.colorOf...),
		posInClass:   append([]int(nil), m.posInClass...),
		posInActive:  append([]int(nil), m.posInActive...),
		activeColors: append([]int(nil), m.activeColors...),
	}
	out.members = make([][]int, len(m.members))
	for c, vs := range m.members {
		out.members[c] = append([]int(nil), vs...)
	}
	return out
}

// Instance returns the graph this solution colors.
func (s *Solution) Instance() *graph.Instance { return s.instance }

// Contains reports whether v has been assigned a color.
func (s *Solution) Contains(v int) bool { return s.colors.Contains(v) }

// Color returns v's color, or Unassigned if v has none.
func (s *Solution) Color(v int) int { return s.colors.Color(v) }

// NumberOfColors delegates to the underlying color map.
func (s *Solution) NumberOfColors() int { return s.colors.NumberOfColors() }

// Colors returns the set of in-use color ids.
func (s *Solution) Colors() []int { return s.colors.Colors() }

// NumberOfVertices returns the size of color class c.
func (s *Solution) NumberOfVertices(c int) int { return s.colors.NumberOfVertices(c) }

// Members returns the vertices assigned to color c.
func (s *Solution) Members(c int) []int { return s.colors.Members(c) }

// NumberOfConflicts returns the number of edges whose endpoints currently
// share a color.
func (s *Solution) NumberOfConflicts() int { return len(s.conflicts) }

// Conflicts returns the conflicting edge ids. The slice is owned by s and
// must not be mutated; its order is deterministic for a fixed move sequence.
func (s *Solution) Conflicts() []int { return s.conflicts }

// ConflictEdge returns the i-th conflicting edge, 0 <= i < NumberOfConflicts().
func (s *Solution) ConflictEdge(i int) int { return s.conflicts[i] }

// InConflict reports whether edge e is currently conflicting.
func (s *Solution) InConflict(e int) bool { return s.conflictPos[e] >= 0 }

func (s *Solution) addConflict(e int) {
	if s.conflictPos[e] >= 0 {
		return
	}
	s.conflicts = append(s.conflicts, e)
	s.conflictPos[e] = len(s.conflicts) - 1
	s.totalPenalty += uint64(s.penalty[e])
}

func (s *Solution) removeConflict(e int) {
	pos := s.conflictPos[e]
	if pos < 0 {
		return
	}
	last := len(s.conflicts) - 1
	moved := s.conflicts[last]
	s.conflicts[pos] = moved
	s.conflictPos[moved] = pos
	s.conflicts = s.conflicts[:last]
	s.conflictPos[e] = -1
	s.totalPenalty -= uint64(s.penalty[e])
}

// Penalty returns the current weight of edge e.
func (s *Solution) Penalty(e int) uint16 { return s.penalty[e] }

// TotalPenalty returns the sum of penalty[e] over e in conflicts.
func (s *Solution) TotalPenalty() uint64 { return s.totalPenalty }

// Feasible reports whether every vertex has a color and no conflicts remain.
func (s *Solution) Feasible() bool {
	return s.NumberOfColoredVertices() == s.instance.NumberOfVertices() && len(s.conflicts) == 0
}

// NumberOfColoredVertices counts vertices that currently have a color.
func (s *Solution) NumberOfColoredVertices() int {
	total := 0
	for _, c := range s.colors.Colors() {
		total += s.colors.NumberOfVertices(c)
	}
	return total
}

// Set assigns color c to vertex v, incrementally updating the conflict set
// and total penalty so that both stay consistent with the new assignment.
func (s *Solution) Set(v, c int) {
	oldColor, wasColored := s.colors.ColorAndContains(v)

	for _, nb := range s.instance.Neighbors(v) {
		wColor, wColored := s.colors.ColorAndContains(nb.Other)
		if wasColored && wColored && wColor == oldColor {
			s.removeConflict(nb.Edge)
		}
		if wColored && wColor == c {
			s.addConflict(nb.Edge)
		}
	}

	s.colors.Set(v, c)
}

// Unset removes v's color assignment, clearing any conflicts it was part of.
// It is used to shrink a solution back to its active k-core.
func (s *Solution) Unset(v int) {
	oldColor, wasColored := s.colors.ColorAndContains(v)
	if !wasColored {
		return
	}

	for _, nb := range s.instance.Neighbors(v) {
		wColor, wColored := s.colors.ColorAndContains(nb.Other)
		if wColored && wColor == oldColor {
			s.removeConflict(nb.Edge)
		}
	}

	s.colors.Remove(v)
}

// IncrementPenalty adds delta to edge e's weight, saturating at the maximum
// representable uint16 rather than overflowing. If e is currently in
// conflict, totalPenalty is adjusted by the same (possibly clamped) amount
// so it always equals the sum of penalty[e] over conflicting edges.
func (s *Solution) IncrementPenalty(e int, delta uint16) {
	before := s.penalty[e]
	after := before + delta
	if uint32(before)+uint32(delta) > 0xFFFF {
		after = 0xFFFF
	}
	s.penalty[e] = after

	if s.conflictPos[e] >= 0 {
		s.totalPenalty += uint64(after - before)
	}
}

// SetPenalty overwrites edge e's weight directly, adjusting totalPenalty if
// e is currently in conflict.
func (s *Solution) SetPenalty(e int, p uint16) {
	before := s.penalty[e]
	s.penalty[e] = p
	if s.conflictPos[e] >= 0 {
		s.totalPenalty = s.totalPenalty - uint64(before) + uint64(p)
	}
}

// HalvePenalties replaces every edge weight w with ceil(w/2), clamped to a
// minimum of 1, preserving their relative order while avoiding overflow.
// Callers run this whenever an individual penalty would otherwise exceed a
// safe half-range threshold, keeping the 16-bit counters from overflowing.
func (s *Solution) HalvePenalties() {
	for e, p := range s.penalty {
		halved := p/2 + p%2
		if halved < 1 {
			halved = 1
		}
		if s.conflictPos[e] >= 0 {
			s.totalPenalty = s.totalPenalty - uint64(p) + uint64(halved)
		}
		s.penalty[e] = halved
	}
}

package coloring_test

import (
	gc "gopkg.in/check.v1"

	"github.com/graphcoloring/graphcolor/internal/coloring"
	"github.com/graphcoloring/graphcolor/internal/graph"
)

var _ = gc.Suite(new(SolutionTestSuite))

type SolutionTestSuite struct{}

// triangle returns K3 (V={0,1,2}, all pairs adjacent).
func triangle() *graph.Instance {
	g := graph.NewInstance(3)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(0, 2)
	return g
}

func (s *SolutionTestSuite) TestFeasibleColoringHasNoConflicts(c *gc.C) {
	g := triangle()
	sol := coloring.NewSolution(g)
	sol.Set(0, 0)
	sol.Set(1, 1)
	sol.Set(2, 2)
	c.Assert(sol.Feasible(), gc.Equals, true)
	c.Assert(sol.NumberOfConflicts(), gc.Equals, 0)
	c.Assert(sol.NumberOfColors(), gc.Equals, 3)
}

func (s *SolutionTestSuite) TestSameColorCreatesConflict(c *gc.C) {
	g := triangle()
	sol := coloring.NewSolution(g)
	sol.Set(0, 0)
	sol.Set(1, 0)
	c.Assert(sol.NumberOfConflicts(), gc.Equals, 1)
	c.Assert(sol.TotalPenalty(), gc.Equals, uint64(1))
}

func (s *SolutionTestSuite) TestRecoloringResolvesConflict(c *gc.C) {
	g := triangle()
	sol := coloring.NewSolution(g)
	sol.Set(0, 0)
	sol.Set(1, 0)
	c.Assert(sol.NumberOfConflicts(), gc.Equals, 1)

	sol.Set(1, 1)
	c.Assert(sol.NumberOfConflicts(), gc.Equals, 0)
	c.Assert(sol.TotalPenalty(), gc.Equals, uint64(0))
}

func (s *SolutionTestSuite) TestIncrementPenaltyTracksConflictingEdges(c *gc.C) {
	g := triangle()
	sol := coloring.NewSolution(g)
	sol.Set(0, 0)
	sol.Set(1, 0) // conflict on edge (0,1)

	conflictEdge := sol.ConflictEdge(0)
	sol.IncrementPenalty(conflictEdge, 4)
	c.Assert(sol.Penalty(conflictEdge), gc.Equals, uint16(5))
	c.Assert(sol.TotalPenalty(), gc.Equals, uint64(5))
}

func (s *SolutionTestSuite) TestHalvePenaltiesPreservesOrderAndMinimum(c *gc.C) {
	g := triangle()
	sol := coloring.NewSolution(g)
	sol.SetPenalty(0, 10)
	sol.SetPenalty(1, 1)
	sol.SetPenalty(2, 3)

	sol.HalvePenalties()
	c.Assert(sol.Penalty(0), gc.Equals, uint16(5))
	c.Assert(sol.Penalty(1), gc.Equals, uint16(1))
	c.Assert(sol.Penalty(2), gc.Equals, uint16(2))
	// Relative order preserved: penalty(0) >= penalty(2) >= penalty(1).
	c.Assert(sol.Penalty(0) >= sol.Penalty(2), gc.Equals, true)
	c.Assert(sol.Penalty(2) >= sol.Penalty(1), gc.Equals, true)
}

func (s *SolutionTestSuite) TestHalvePenaltiesAtSaturation(c *gc.C) {
	g := triangle()
	sol := coloring.NewSolution(g)
	sol.SetPenalty(0, 0xFFFF)
	sol.SetPenalty(1, 0xFFFE)

	sol.HalvePenalties()
	c.Assert(sol.Penalty(0), gc.Equals, uint16(0x8000))
	c.Assert(sol.Penalty(1), gc.Equals, uint16(0x7FFF))
	c.Assert(sol.Penalty(0) > sol.Penalty(1), gc.Equals, true)
}

func (s *SolutionTestSuite) TestCloneIsIndependent(c *gc.C) {
	g := triangle()
	sol := coloring.NewSolution(g)
	sol.Set(0, 0)
	sol.Set(1, 1)

	clone := sol.Clone()
	clone.Set(2, 0) // conflict with vertex 0 in the clone only

	c.Assert(sol.NumberOfConflicts(), gc.Equals, 0)
	c.Assert(clone.NumberOfConflicts(), gc.Equals, 1)
}

func (s *SolutionTestSuite) TestConflictListStaysConsistentAcrossRecolorings(c *gc.C) {
	g := triangle()
	sol := coloring.NewSolution(g)
	sol.Set(0, 0)
	sol.Set(1, 0)
	sol.Set(2, 0) // all three edges conflicting
	c.Assert(sol.NumberOfConflicts(), gc.Equals, 3)
	for i := 0; i < 3; i++ {
		c.Assert(sol.InConflict(sol.ConflictEdge(i)), gc.Equals, true)
	}

	sol.Set(2, 1) // edges (1,2) and (0,2) resolved, (0,1) remains
	c.Assert(sol.NumberOfConflicts(), gc.Equals, 1)
	c.Assert(sol.InConflict(sol.ConflictEdge(0)), gc.Equals, true)
	c.Assert(sol.TotalPenalty(), gc.Equals, uint64(1))
}

func (s *SolutionTestSuite) TestUnsetRemovesConflictsInvolvingVertex(c *gc.C) {
	g := triangle()
	sol := coloring.NewSolution(g)
	sol.Set(0, 0)
	sol.Set(1, 0)
	c.Assert(sol.NumberOfConflicts(), gc.Equals, 1)

	sol.Unset(1)
	c.Assert(sol.NumberOfConflicts(), gc.Equals, 0)
	c.Assert(sol.Contains(1), gc.Equals, false)
}

package dsatur_test

import (
	"testing"

	gc "gopkg.in/check.v1"

	"github.com/graphcoloring/graphcolor/internal/coloring/dsatur"
	"github.com/graphcoloring/graphcolor/internal/graph"
)

func Test(t *testing.T) { gc.TestingT(t) }

var _ = gc.Suite(new(DSATURTestSuite))

type DSATURTestSuite struct{}

// Path P3 is 2-chromatic.
func (s *DSATURTestSuite) TestPathP3(c *gc.C) {
	g := graph.NewInstance(3)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	sol := dsatur.Run(g)
	c.Assert(sol.Feasible(), gc.Equals, true)
	c.Assert(sol.NumberOfColors(), gc.Equals, 2)
}

// Triangle K3 needs all three colors.
func (s *DSATURTestSuite) TestTriangle(c *gc.C) {
	g := graph.NewInstance(3)
	g.AddEdge(0, 1)
	g.AddEdge(1, 2)
	g.AddEdge(0, 2)
	sol := dsatur.Run(g)
	c.Assert(sol.Feasible(), gc.Equals, true)
	c.Assert(sol.NumberOfColors(), gc.Equals, 3)
}

// K4 minus one edge: optimum 3, DSATUR finds it.
func (s *DSATURTestSuite) TestK4MinusEdge(c *gc.C) {
	g := graph.NewInstance(4)
	for _, e := range [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}} {
		g.AddEdge(e[0], e[1])
	}
	sol := dsatur.Run(g)
	c.Assert(sol.Feasible(), gc.Equals, true)
	c.Assert(sol.NumberOfColors(), gc.Equals, 3)
}

// Star K_{1,5}: optimum 2, DSATUR finds it.
func (s *DSATURTestSuite) TestStar(c *gc.C) {
	g := graph.NewInstance(6)
	for leaf := 1; leaf <= 5; leaf++ {
		g.AddEdge(0, leaf)
	}
	sol := dsatur.Run(g)
	c.Assert(sol.Feasible(), gc.Equals, true)
	c.Assert(sol.NumberOfColors(), gc.Equals, 2)
}

// The five-cycle is 3-chromatic.
func (s *DSATURTestSuite) TestFiveCycle(c *gc.C) {
	g := graph.NewInstance(5)
	for v := 0; v < 5; v++ {
		g.AddEdge(v, (v+1)%5)
	}
	sol := dsatur.Run(g)
	c.Assert(sol.Feasible(), gc.Equals, true)
	c.Assert(sol.NumberOfColors(), gc.Equals, 3)
}

// DSATUR never exceeds max_degree+1 colors, checked on a denser graph.
func (s *DSATURTestSuite) TestNeverExceedsMaxDegreePlusOne(c *gc.C) {
	g := graph.NewInstance(8)
	edges := [][2]int{
		{0, 1}, {0, 2}, {0, 3}, {0, 4},
		{1, 2}, {1, 5}, {2, 6}, {3, 4},
		{3, 7}, {4, 5}, {5, 6}, {6, 7},
	}
	for _, e := range edges {
		g.AddEdge(e[0], e[1])
	}
	sol := dsatur.Run(g)
	c.Assert(sol.Feasible(), gc.Equals, true)
	c.Assert(sol.NumberOfColors() <= g.MaxDegree()+1, gc.Equals, true)
}

func (s *DSATURTestSuite) TestAlternateOrderingsStayFeasible(c *gc.C) {
	g := graph.NewInstance(5)
	for v := 0; v < 5; v++ {
		g.AddEdge(v, (v+1)%5)
	}
	for _, ord := range []dsatur.Ordering{
		dsatur.OrderingLargestFirst,
		dsatur.OrderingIncidenceDegree,
		dsatur.OrderingSmallestLast,
		dsatur.OrderingDynamicLargestFirst,
	} {
		sol := dsatur.Greedy(g, ord, false)
		c.Assert(sol.Feasible(), gc.Equals, true)
	}
}

func (s *DSATURTestSuite) TestParseOrderingRejectsUnknown(c *gc.C) {
	_, err := dsatur.ParseOrdering("bogus")
	c.Assert(err, gc.NotNil)
}

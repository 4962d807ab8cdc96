package output_test

import (
	"sync"
	"testing"

	gc "gopkg.in/check.v1"

	"github.com/graphcoloring/graphcolor/internal/coloring"
	"github.com/graphcoloring/graphcolor/internal/graph"
	"github.com/graphcoloring/graphcolor/internal/output"
)

func Test(t *testing.T) { gc.TestingT(t) }

var _ = gc.Suite(new(OutputTestSuite))

type OutputTestSuite struct{}

func feasibleSolution(numColors int) *coloring.Solution {
	g := graph.NewInstance(numColors)
	sol := coloring.NewSolution(g)
	for v := 0; v < numColors; v++ {
		sol.Set(v, v)
	}
	return sol
}

func (s *OutputTestSuite) TestUpdateSolutionAcceptsStrictImprovement(c *gc.C) {
	out := output.New(nil)
	c.Assert(out.UpdateSolution(feasibleSolution(3), "first"), gc.Equals, true)
	c.Assert(out.Best().NumberOfColors(), gc.Equals, 3)

	c.Assert(out.UpdateSolution(feasibleSolution(3), "same"), gc.Equals, false)
	c.Assert(out.UpdateSolution(feasibleSolution(2), "better"), gc.Equals, true)
	c.Assert(out.Best().NumberOfColors(), gc.Equals, 2)

	c.Assert(out.UpdateSolution(feasibleSolution(4), "worse"), gc.Equals, false)
	c.Assert(out.Best().NumberOfColors(), gc.Equals, 2)
}

func (s *OutputTestSuite) TestUpdateSolutionRejectsInfeasible(c *gc.C) {
	out := output.New(nil)
	g := graph.NewInstance(2)
	sol := coloring.NewSolution(g) // no vertex colored -> infeasible
	c.Assert(out.UpdateSolution(sol, "infeasible"), gc.Equals, false)
}

func (s *OutputTestSuite) TestUpdateLowerBoundMonotone(c *gc.C) {
	out := output.New(nil)
	c.Assert(out.UpdateLowerBound(2, "lb"), gc.Equals, true)
	c.Assert(out.UpdateLowerBound(2, "same"), gc.Equals, false)
	c.Assert(out.UpdateLowerBound(1, "lower"), gc.Equals, false)
	c.Assert(out.UpdateLowerBound(3, "higher"), gc.Equals, true)
	c.Assert(out.LowerBound(), gc.Equals, 3)
}

func (s *OutputTestSuite) TestCallbacksInvokedOnAcceptedUpdates(c *gc.C) {
	out := output.New(nil)
	var mu sync.Mutex
	var solutionCalls, boundCalls int
	out.SetOnSolution(func(output.Event) {
		mu.Lock()
		solutionCalls++
		mu.Unlock()
	})
	out.SetOnBound(func(output.Event) {
		mu.Lock()
		boundCalls++
		mu.Unlock()
	})

	out.UpdateSolution(feasibleSolution(3), "a")
	out.UpdateSolution(feasibleSolution(3), "b") // rejected, no callback
	out.UpdateLowerBound(1, "c")

	mu.Lock()
	defer mu.Unlock()
	c.Assert(solutionCalls, gc.Equals, 1)
	c.Assert(boundCalls, gc.Equals, 1)
}

func (s *OutputTestSuite) TestConcurrentUpdatesStayMonotone(c *gc.C) {
	out := output.New(nil)
	var wg sync.WaitGroup
	for colors := 10; colors >= 1; colors-- {
		colors := colors
		wg.Add(1)
		go func() {
			defer wg.Done()
			out.UpdateSolution(feasibleSolution(colors), "race")
		}()
	}
	wg.Wait()
	c.Assert(out.Best().NumberOfColors(), gc.Equals, 1)
}

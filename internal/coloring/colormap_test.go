package coloring_test

import (
	gc "gopkg.in/check.v1"

	"github.com/graphcoloring/graphcolor/internal/coloring"
)

var _ = gc.Suite(new(ColorMapTestSuite))

type ColorMapTestSuite struct{}

func (s *ColorMapTestSuite) TestSetAndContains(c *gc.C) {
	m := coloring.NewColorMap(3)
	c.Assert(m.Contains(0), gc.Equals, false)
	m.Set(0, 2)
	c.Assert(m.Contains(0), gc.Equals, true)
	c.Assert(m.Color(0), gc.Equals, 2)
	c.Assert(m.NumberOfColors(), gc.Equals, 1)
	c.Assert(m.NumberOfVertices(2), gc.Equals, 1)
}

func (s *ColorMapTestSuite) TestReassignUpdatesClassSizes(c *gc.C) {
	m := coloring.NewColorMap(3)
	m.Set(0, 1)
	m.Set(1, 1)
	c.Assert(m.NumberOfVertices(1), gc.Equals, 2)

	m.Set(0, 2)
	c.Assert(m.NumberOfVertices(1), gc.Equals, 1)
	c.Assert(m.NumberOfVertices(2), gc.Equals, 1)
	c.Assert(m.NumberOfColors(), gc.Equals, 2)
}

func (s *ColorMapTestSuite) TestEmptyClassesDropOutOfColors(c *gc.C) {
	m := coloring.NewColorMap(2)
	m.Set(0, 0)
	m.Set(1, 1)
	c.Assert(m.NumberOfColors(), gc.Equals, 2)

	m.Remove(0)
	c.Assert(m.NumberOfColors(), gc.Equals, 1)
	for _, col := range m.Colors() {
		c.Assert(col, gc.Equals, 1)
	}
}

func (s *ColorMapTestSuite) TestRemoveIsNoOpWhenUncolored(c *gc.C) {
	m := coloring.NewColorMap(1)
	m.Remove(0) // must not panic
	c.Assert(m.Contains(0), gc.Equals, false)
}

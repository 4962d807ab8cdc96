package format_test

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/graphcoloring/graphcolor/internal/format"
	"github.com/graphcoloring/graphcolor/internal/graph"
)

func edgeSet(inst *graph.Instance) [][2]int {
	out := make([][2]int, 0, inst.NumberOfEdges())
	for e := 0; e < inst.NumberOfEdges(); e++ {
		u, v := inst.Endpoints(e)
		if u > v {
			u, v = v, u
		}
		out = append(out, [2]int{u, v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

func buildTriangle() *graph.Instance {
	inst := graph.NewInstance(3)
	inst.AddEdge(0, 1)
	inst.AddEdge(1, 2)
	inst.AddEdge(0, 2)
	return inst
}

func TestDIMACSRoundTrip(t *testing.T) {
	inst := buildTriangle()
	var buf bytes.Buffer
	require.NoError(t, format.WriteDIMACS(&buf, inst))

	got, err := format.ReadDIMACS(&buf)
	require.NoError(t, err)
	require.Equal(t, inst.NumberOfVertices(), got.NumberOfVertices())
	require.Equal(t, edgeSet(inst), edgeSet(got))
}

func TestMatrixMarketRoundTrip(t *testing.T) {
	inst := buildTriangle()
	var buf bytes.Buffer
	require.NoError(t, format.WriteMatrixMarket(&buf, inst))

	got, err := format.ReadMatrixMarket(&buf)
	require.NoError(t, err)
	require.Equal(t, inst.NumberOfVertices(), got.NumberOfVertices())
	require.Equal(t, edgeSet(inst), edgeSet(got))
}

func TestSNAPRoundTrip(t *testing.T) {
	inst := buildTriangle()
	var buf bytes.Buffer
	require.NoError(t, format.WriteSNAP(&buf, inst))

	got, err := format.ReadSNAP(&buf)
	require.NoError(t, err)
	require.Equal(t, inst.NumberOfVertices(), got.NumberOfVertices())
	require.Equal(t, edgeSet(inst), edgeSet(got))
}

func TestDIMACS2010RoundTrip(t *testing.T) {
	inst := buildTriangle()
	var buf bytes.Buffer
	require.NoError(t, format.WriteDIMACS2010(&buf, inst))

	got, err := format.ReadDIMACS2010(&buf)
	require.NoError(t, err)
	require.Equal(t, inst.NumberOfVertices(), got.NumberOfVertices())
	require.Equal(t, edgeSet(inst), edgeSet(got))
}

func TestDIMACSCommentsAndSelfLoops(t *testing.T) {
	input := "c this is a comment\np edge 3 2\ne 1 2\ne 2 2\ne 2 3\n"
	inst, err := format.ReadDIMACS(bytes.NewBufferString(input))
	require.NoError(t, err)
	require.Equal(t, 3, inst.NumberOfVertices())
	require.Equal(t, 2, inst.NumberOfEdges())
}

func TestDIMACSMissingHeader(t *testing.T) {
	_, err := format.ReadDIMACS(bytes.NewBufferString("e 1 2\n"))
	require.Error(t, err)
}

func TestSNAPGrowsVertexSet(t *testing.T) {
	inst, err := format.ReadSNAP(bytes.NewBufferString("# banner\n0 4\n1 4\n"))
	require.NoError(t, err)
	require.Equal(t, 5, inst.NumberOfVertices())
	require.Equal(t, 2, inst.NumberOfEdges())
}

func TestParseName(t *testing.T) {
	for _, name := range []string{"dimacs", "matrixmarket", "snap", "dimacs2010"} {
		got, err := format.ParseName(name)
		require.NoError(t, err)
		require.Equal(t, format.Name(name), got)
	}
	_, err := format.ParseName("bogus")
	require.Error(t, err)
}

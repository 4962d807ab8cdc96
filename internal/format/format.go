// Package format implements the read-only instance file formats the solver
// accepts: DIMACS edge lists, MatrixMarket, SNAP, and DIMACS-2010 adjacency
// lists. Each reader returns a fully constructed *graph.Instance; each
// writer is the inverse, used by the round-trip tests.
package format

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/xerrors"

	"github.com/graphcoloring/graphcolor/internal/graph"
)

// ErrMalformedLine is wrapped into every parse error that names the
// offending line number and content.
var ErrMalformedLine = xerrors.New("malformed input line")

// Name identifies one of the supported instance file formats, as named by
// the --format CLI flag.
type Name string

const (
	DIMACS       Name = "dimacs"
	MatrixMarket Name = "matrixmarket"
	SNAP         Name = "snap"
	DIMACS2010   Name = "dimacs2010"
)

// ParseName resolves the --format CLI flag value to a Name.
func ParseName(s string) (Name, error) {
	switch Name(s) {
	case DIMACS, MatrixMarket, SNAP, DIMACS2010:
		return Name(s), nil
	default:
		return "", xerrors.Errorf("unknown instance format %q", s)
	}
}

// Read dispatches to the reader for name.
func Read(r io.Reader, name Name) (*graph.Instance, error) {
	switch name {
	case DIMACS:
		return ReadDIMACS(r)
	case MatrixMarket:
		return ReadMatrixMarket(r)
	case SNAP:
		return ReadSNAP(r)
	case DIMACS2010:
		return ReadDIMACS2010(r)
	default:
		return nil, xerrors.Errorf("unknown instance format %q", name)
	}
}

// Write dispatches to the writer for name.
func Write(w io.Writer, inst *graph.Instance, name Name) error {
	switch name {
	case DIMACS:
		return WriteDIMACS(w, inst)
	case MatrixMarket:
		return WriteMatrixMarket(w, inst)
	case SNAP:
		return WriteSNAP(w, inst)
	case DIMACS2010:
		return WriteDIMACS2010(w, inst)
	default:
		return xerrors.Errorf("unknown instance format %q", name)
	}
}

func malformed(lineNo int, line string) error {
	return xerrors.Errorf("line %d %q: %w", lineNo, line, ErrMalformedLine)
}

// ReadDIMACS parses the classic DIMACS edge-list format:
//
//	c comment
//	p edge n m
//	e u v    (1-indexed)
func ReadDIMACS(r io.Reader) (*graph.Instance, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var inst *graph.Instance
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "p":
			if len(fields) != 4 || fields[1] != "edge" {
				return nil, malformed(lineNo, line)
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, malformed(lineNo, line)
			}
			inst = graph.NewInstance(n)
		case "e":
			if inst == nil || len(fields) != 3 {
				return nil, malformed(lineNo, line)
			}
			u, err1 := strconv.Atoi(fields[1])
			v, err2 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil {
				return nil, malformed(lineNo, line)
			}
			if _, err := inst.AddEdge(u-1, v-1); err != nil {
				return nil, xerrors.Errorf("line %d: %w", lineNo, err)
			}
		default:
			return nil, malformed(lineNo, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, xerrors.Errorf("reading DIMACS input: %w", err)
	}
	if inst == nil {
		return nil, xerrors.Errorf("missing 'p edge n m' header: %w", ErrMalformedLine)
	}
	return inst, nil
}

// WriteDIMACS writes inst in the classic DIMACS edge-list format.
func WriteDIMACS(w io.Writer, inst *graph.Instance) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "p edge %d %d\n", inst.NumberOfVertices(), inst.NumberOfEdges()); err != nil {
		return err
	}
	for e := 0; e < inst.NumberOfEdges(); e++ {
		u, v := inst.Endpoints(e)
		if _, err := fmt.Fprintf(bw, "e %d %d\n", u+1, v+1); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadMatrixMarket parses a MatrixMarket-like adjacency format: "%" banner
// lines are skipped, the first non-comment line is "n n m" (square matrix
// of order n with m nonzeros), and each subsequent line is "u v" (1-indexed).
func ReadMatrixMarket(r io.Reader) (*graph.Instance, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var inst *graph.Instance
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		fields := strings.Fields(line)
		if inst == nil {
			if len(fields) != 3 {
				return nil, malformed(lineNo, line)
			}
			n, err1 := strconv.Atoi(fields[0])
			n2, err2 := strconv.Atoi(fields[1])
			if err1 != nil || err2 != nil || n != n2 {
				return nil, malformed(lineNo, line)
			}
			inst = graph.NewInstance(n)
			continue
		}
		if len(fields) != 2 {
			return nil, malformed(lineNo, line)
		}
		u, err1 := strconv.Atoi(fields[0])
		v, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			return nil, malformed(lineNo, line)
		}
		if _, err := inst.AddEdge(u-1, v-1); err != nil {
			return nil, xerrors.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, xerrors.Errorf("reading MatrixMarket input: %w", err)
	}
	if inst == nil {
		return nil, xerrors.Errorf("missing size header: %w", ErrMalformedLine)
	}
	return inst, nil
}

// WriteMatrixMarket writes inst in the format ReadMatrixMarket accepts.
func WriteMatrixMarket(w io.Writer, inst *graph.Instance) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%%%%MatrixMarket matrix coordinate pattern symmetric\n"); err != nil {
		return err
	}
	n := inst.NumberOfVertices()
	if _, err := fmt.Fprintf(bw, "%d %d %d\n", n, n, inst.NumberOfEdges()); err != nil {
		return err
	}
	for e := 0; e < inst.NumberOfEdges(); e++ {
		u, v := inst.Endpoints(e)
		if _, err := fmt.Fprintf(bw, "%d %d\n", u+1, v+1); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadSNAP parses the SNAP edge-list format: "#" banner lines are skipped,
// and each subsequent line is "u v" (0-indexed); the vertex set grows
// dynamically to fit the largest id seen.
func ReadSNAP(r io.Reader) (*graph.Instance, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	type rawEdge struct{ u, v int }
	var edges []rawEdge
	maxV := -1

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, malformed(lineNo, line)
		}
		u, err1 := strconv.Atoi(fields[0])
		v, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil || u < 0 || v < 0 {
			return nil, malformed(lineNo, line)
		}
		edges = append(edges, rawEdge{u, v})
		if u > maxV {
			maxV = u
		}
		if v > maxV {
			maxV = v
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, xerrors.Errorf("reading SNAP input: %w", err)
	}

	inst := graph.NewInstance(maxV + 1)
	for _, e := range edges {
		if _, err := inst.AddEdge(e.u, e.v); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// WriteSNAP writes inst in the format ReadSNAP accepts.
func WriteSNAP(w io.Writer, inst *graph.Instance) error {
	bw := bufio.NewWriter(w)
	for e := 0; e < inst.NumberOfEdges(); e++ {
		u, v := inst.Endpoints(e)
		if _, err := fmt.Fprintf(bw, "%d %d\n", u, v); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadDIMACS2010 parses the DIMACS-2010 challenge adjacency-list format:
// "%" banner lines are skipped, the first line is "n m" (possibly with
// extra tokens), and each subsequent line i (1-indexed) lists the 1-indexed
// neighbors of vertex i-1; only edges to higher-id vertices are added, to
// avoid double-adding each undirected edge.
func ReadDIMACS2010(r io.Reader) (*graph.Instance, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var inst *graph.Instance
	lineNo := 0
	vertex := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "%") {
			continue
		}
		if inst == nil {
			if line == "" {
				continue
			}
			fields := strings.Fields(line)
			if len(fields) < 1 {
				return nil, malformed(lineNo, line)
			}
			n, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, malformed(lineNo, line)
			}
			inst = graph.NewInstance(n)
			continue
		}

		if vertex >= inst.NumberOfVertices() {
			return nil, malformed(lineNo, line)
		}
		u := vertex
		vertex++
		if line == "" {
			continue
		}
		for _, tok := range strings.Fields(line) {
			v, err := strconv.Atoi(tok)
			if err != nil {
				return nil, malformed(lineNo, line)
			}
			v--
			if v > u {
				if _, err := inst.AddEdge(u, v); err != nil {
					return nil, xerrors.Errorf("line %d: %w", lineNo, err)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, xerrors.Errorf("reading DIMACS-2010 input: %w", err)
	}
	if inst == nil {
		return nil, xerrors.Errorf("missing size header: %w", ErrMalformedLine)
	}
	return inst, nil
}

// WriteDIMACS2010 writes inst in the format ReadDIMACS2010 accepts.
func WriteDIMACS2010(w io.Writer, inst *graph.Instance) error {
	bw := bufio.NewWriter(w)
	n := inst.NumberOfVertices()
	if _, err := fmt.Fprintf(bw, "%d %d\n", n, inst.NumberOfEdges()); err != nil {
		return err
	}
	adj := make([][]int, n)
	for e := 0; e < inst.NumberOfEdges(); e++ {
		u, v := inst.Endpoints(e)
		adj[u] = append(adj[u], v+1)
		adj[v] = append(adj[v], u+1)
	}
	for v := 0; v < n; v++ {
		parts := make([]string, len(adj[v]))
		for i, x := range adj[v] {
			parts[i] = strconv.Itoa(x)
		}
		if _, err := fmt.Fprintln(bw, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Package certificate reads and writes solution (coloring) certificate
// files: one color id per vertex, in vertex-id order. The legacy layout
// prefixes the file with a line giving the color count; Read tolerates
// both that layout and the bare one.
package certificate

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

// ErrMalformed marks a certificate file that could not be parsed.
var ErrMalformed = xerrors.New("malformed certificate file")

// Read parses a certificate file into one color id per vertex, in
// vertex-id order. numVertices is the vertex count of the instance the
// certificate belongs to: a file with exactly one extra leading value is
// treated as the legacy layout, whose first line records the color count,
// and that line is skipped.
func Read(r io.Reader, numVertices int) ([]int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, xerrors.Errorf("reading certificate: %w", err)
	}
	if len(lines) == 0 {
		return nil, xerrors.Errorf("empty certificate file: %w", ErrMalformed)
	}

	body := lines
	switch {
	case len(lines) == numVertices:
		// Bare layout.
	case len(lines) == numVertices+1:
		// Legacy layout: the first line is the color count.
		if _, err := strconv.Atoi(lines[0]); err != nil {
			return nil, xerrors.Errorf("legacy header %q is not an integer: %w", lines[0], ErrMalformed)
		}
		body = lines[1:]
	default:
		return nil, xerrors.Errorf("certificate has %d values, instance has %d vertices: %w", len(lines), numVertices, ErrMalformed)
	}

	colors := make([]int, len(body))
	for i, line := range body {
		c, err := strconv.Atoi(line)
		if err != nil {
			return nil, xerrors.Errorf("line %d %q: %w", i+1, line, ErrMalformed)
		}
		colors[i] = c
	}
	return colors, nil
}

// Write emits the bare layout: one color id per line, in vertex-id order.
func Write(w io.Writer, colors []int) error {
	bw := bufio.NewWriter(w)
	for _, c := range colors {
		if _, err := fmt.Fprintln(bw, c); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteLegacy emits the legacy layout: a first line giving the color
// count, followed by the bare layout.
func WriteLegacy(w io.Writer, colors []int, numberOfColors int) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, numberOfColors); err != nil {
		return err
	}
	for _, c := range colors {
		if _, err := fmt.Fprintln(bw, c); err != nil {
			return err
		}
	}
	return bw.Flush()
}

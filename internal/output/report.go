package output

import "github.com/graphcoloring/graphcolor/internal/graph"

// EventJSON is the wire shape of an Event in the JSON result file: a
// value, the elapsed time it was accepted at, and a human-readable
// annotation.
type EventJSON struct {
	Value  int     `json:"Value"`
	Time   float64 `json:"Time"`
	String string  `json:"String"`
}

// Report is the JSON result document written by --output: the best known
// coloring's shape plus the full update history.
type Report struct {
	NumberOfColors    int         `json:"NumberOfColors"`
	NumberOfVertices  int         `json:"NumberOfVertices"`
	NumberOfConflicts int         `json:"NumberOfConflicts"`
	Feasible          bool        `json:"Feasible"`
	Bound             int         `json:"Bound"`
	Time              float64     `json:"Time"`
	RunID             string      `json:"RunId"`
	SolutionEvents    []EventJSON `json:"SolutionEvents"`
	BoundEvents       []EventJSON `json:"BoundEvents"`
}

// BuildReport snapshots o into a Report suitable for JSON serialization.
// inst supplies the naive max-degree+1 bound used when no feasible solution
// has been found yet.
func (o *Output) BuildReport(inst *graph.Instance) Report {
	best := o.Best()
	naiveBound := inst.MaxDegree() + 1

	solutionEvents, boundEvents := o.Events()

	r := Report{
		NumberOfVertices: inst.NumberOfVertices(),
		Bound:            o.LowerBound(),
		Time:             o.Elapsed().Seconds(),
		RunID:            o.RunID().String(),
		SolutionEvents:   toJSONEvents(solutionEvents),
		BoundEvents:      toJSONEvents(boundEvents),
	}
	if best != nil {
		r.NumberOfColors = best.NumberOfColors()
		r.NumberOfConflicts = best.NumberOfConflicts()
		r.Feasible = best.Feasible()
	} else {
		r.NumberOfColors = naiveBound
		r.NumberOfConflicts = -1
		r.Feasible = false
	}
	return r
}

func toJSONEvents(events []Event) []EventJSON {
	out := make([]EventJSON, len(events))
	for i, e := range events {
		out[i] = EventJSON{Value: e.Value, Time: e.Time.Seconds(), String: e.String}
	}
	return out
}

// Package output implements the shared best-solution and lower-bound
// tracker that every search worker publishes through. It is the only state
// shared across workers: a small mutex-guarded record plus callbacks, with
// a single update call site per bound.
package output

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/graphcoloring/graphcolor/internal/coloring"
)

// Event records one accepted update to the best solution or lower bound.
type Event struct {
	Value  int
	Time   time.Duration
	String string
}

// Output holds the best known upper bound (a feasible Solution), the best
// known lower bound, and the full update history. All mutation is
// serialized by mu; workers never observe each other's intermediate states.
type Output struct {
	mu sync.Mutex

	runID uuid.UUID
	start time.Time
	log   *logrus.Entry

	best       *coloring.Solution
	lowerBound int

	solutionEvents []Event
	boundEvents    []Event

	onSolution func(Event)
	onBound    func(Event)
}

// New returns an Output whose clock starts now and that logs accepted
// updates through log (may be nil to disable logging).
func New(log *logrus.Entry) *Output {
	return &Output{
		runID: uuid.New(),
		start: time.Now(),
		log:   log,
	}
}

// RunID returns the unique identifier assigned to this run, surfaced in the
// JSON result.
func (o *Output) RunID() uuid.UUID { return o.runID }

// SetOnSolution registers a callback invoked, under the lock, each time a
// new best solution is accepted.
func (o *Output) SetOnSolution(f func(Event)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onSolution = f
}

// SetOnBound registers a callback invoked, under the lock, each time the
// lower bound increases.
func (o *Output) SetOnBound(f func(Event)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onBound = f
}

// UpdateSolution replaces the current best solution if candidate is
// feasible and strictly improves on it (fewer colors). Returns whether the
// update was accepted. A clone of candidate is stored so the caller's
// worker-local solution remains free to keep mutating.
func (o *Output) UpdateSolution(candidate *coloring.Solution, message string) bool {
	if !candidate.Feasible() {
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.best != nil && candidate.NumberOfColors() >= o.best.NumberOfColors() {
		return false
	}

	o.best = candidate.Clone()
	ev := Event{
		Value:  o.best.NumberOfColors(),
		Time:   time.Since(o.start),
		String: message,
	}
	o.solutionEvents = append(o.solutionEvents, ev)

	if o.log != nil {
		o.log.WithFields(logrus.Fields{
			"time":  ev.Time.Seconds(),
			"upper": ev.Value,
			"lower": o.lowerBound,
			"gap":   o.gapLocked(ev.Value),
		}).Info(message)
	}
	if o.onSolution != nil {
		o.onSolution(ev)
	}
	return true
}

// UpdateLowerBound replaces the lower bound if v is a strict improvement.
// Returns whether the update was accepted.
func (o *Output) UpdateLowerBound(v int, message string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if v <= o.lowerBound {
		return false
	}

	o.lowerBound = v
	ev := Event{
		Value:  v,
		Time:   time.Since(o.start),
		String: message,
	}
	o.boundEvents = append(o.boundEvents, ev)

	if o.log != nil {
		fields := logrus.Fields{
			"time":  ev.Time.Seconds(),
			"lower": v,
		}
		if o.best != nil {
			fields["upper"] = o.best.NumberOfColors()
			fields["gap"] = o.gapLocked(o.best.NumberOfColors())
		}
		o.log.WithFields(fields).Info(message)
	}
	if o.onBound != nil {
		o.onBound(ev)
	}
	return true
}

// Best returns the current best solution, or nil if none has been found
// yet. The returned solution must not be mutated by the caller.
func (o *Output) Best() *coloring.Solution {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.best
}

// LowerBound returns the current lower bound (0 if none has been proven).
func (o *Output) LowerBound() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lowerBound
}

// UpperBound returns the color count of the current best solution, or the
// naive max-degree+1 bound if no feasible solution has been found yet.
func (o *Output) UpperBound(maxDegreePlusOne int) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.best == nil {
		return maxDegreePlusOne
	}
	return o.best.NumberOfColors()
}

// Gap returns (upper-lower)/upper, or 0 when upper is 0.
func (o *Output) Gap(maxDegreePlusOne int) float64 {
	upper := o.UpperBound(maxDegreePlusOne)
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.gapLocked(upper)
}

func (o *Output) gapLocked(upper int) float64 {
	if upper == 0 {
		return 0
	}
	return float64(upper-o.lowerBound) / float64(upper)
}

// Events returns copies of the accepted solution and bound update rows, in
// acceptance order.
func (o *Output) Events() (solutionEvents, boundEvents []Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]Event(nil), o.solutionEvents...), append([]Event(nil), o.boundEvents...)
}

// Elapsed returns the time since the Output was created.
func (o *Output) Elapsed() time.Duration { return time.Since(o.start) }

package rowweighting

import (
	"fmt"
	"math/rand"

	"golang.org/x/xerrors"

	"github.com/graphcoloring/graphcolor/internal/coloring"
	"github.com/graphcoloring/graphcolor/internal/coloring/dsatur"
	"github.com/graphcoloring/graphcolor/internal/graph"
	"github.com/graphcoloring/graphcolor/internal/output"
)

// ErrInvariantViolation marks the worker's internal errors that should never
// happen for a consistent instance and solution, and that force the whole
// Engine to stop rather than let a worker spin on a broken state.
var ErrInvariantViolation = xerrors.New("rowweighting: invariant violation")

// penaltyHalvingThreshold is the "safe half-range" ceiling: once
// any tracked weight crosses it, every weight in its accumulator is halved
// before continuing, so the 16-bit counters never actually overflow.
const penaltyHalvingThreshold = uint16(0x7FFF)

// worker runs one independent merge/repair search over inst. Nothing here is
// shared with other workers except through the Output passed to run.
type worker struct {
	id     int
	inst   *graph.Instance
	params Params
	rng    *rand.Rand

	sol *coloring.Solution
	k   int

	// activeColors tracks the color ids the current target-k search may
	// use. Unlike sol.Colors() it survives a core reduction uncoloring
	// every vertex of a class (or the whole graph), so reinsertion can
	// still draw from the full k-color palette.
	activeColors []int

	// vertexWeight is only populated for VariantRowWeighting2; it tracks a
	// persistent per-vertex penalty instead of per-edge.
	vertexWeight []uint16

	removed []int

	iter          int64
	noImprovement int64
	improvements  int64
}

func newWorker(id int, inst *graph.Instance, params Params, seed int64) *worker {
	var sol *coloring.Solution
	if params.InitialSolution != nil {
		sol = params.InitialSolution.Clone()
	} else {
		sol = dsatur.Run(inst)
	}

	w := &worker{
		id:           id,
		inst:         inst,
		params:       params,
		rng:          rand.New(rand.NewSource(seed)),
		sol:          sol,
		k:            sol.NumberOfColors(),
		activeColors: append([]int(nil), sol.Colors()...),
	}
	if params.Variant == VariantRowWeighting2 {
		w.vertexWeight = make([]uint16, inst.NumberOfVertices())
		for i := range w.vertexWeight {
			w.vertexWeight[i] = 1
		}
	}
	return w
}

// run drives the worker's merge/repair loop until one of the
// stopping conditions fires, timer signals the run is over, or a fatal
// invariant violation is hit.
func (w *worker) run(timer *Timer, out *output.Output) error {
	out.UpdateSolution(w.sol, fmt.Sprintf("worker %d initial solution (%d colors)", w.id, w.k))

	for !timer.NeedsToEnd() {
		if w.params.MaxIterations > 0 && w.iter >= w.params.MaxIterations {
			return nil
		}
		if w.params.MaxIterationsWithoutImprovement > 0 && w.noImprovement >= w.params.MaxIterationsWithoutImprovement {
			return nil
		}
		if w.params.MaxImprovements > 0 && w.improvements >= w.params.MaxImprovements {
			return nil
		}
		if w.params.Goal > 0 && w.k <= w.params.Goal {
			return nil
		}

		if err := w.mergePhase(timer, out); err != nil {
			return err
		}
		if timer.NeedsToEnd() {
			return nil
		}
		// The merge phase exits conflict-free only when it ran out of
		// classes to merge (a single-color solution); there is nothing
		// left to repair then. Likewise, conflicts on a single-color
		// palette admit no repair move: the graph needs more colors than
		// the current target, and the best found so far stands.
		if w.sol.NumberOfConflicts() == 0 || len(w.activeColors) < 2 {
			return nil
		}
		if err := w.repairStep(); err != nil {
			return err
		}

		w.iter++
		w.noImprovement++
	}
	return nil
}

// mergePhase runs while the solution is feasible: it reinserts any vertices
// shrunk out by a previous k-core reduction, publishes an improvement if the
// color count dropped, then merges two color classes to force a new
// conflict so the repair phase has something to fix.
func (w *worker) mergePhase(timer *Timer, out *output.Output) error {
	for w.sol.NumberOfConflicts() == 0 {
		if err := w.reinsertRemoved(); err != nil {
			return err
		}

		if best := out.Best(); best == nil || w.sol.NumberOfColors() < best.NumberOfColors() {
			out.UpdateSolution(w.sol, fmt.Sprintf("worker %d it %d noimp %d", w.id, w.iter, w.noImprovement))
			w.improvements++
		}

		if w.sol.NumberOfColors() < 2 {
			return nil
		}

		c1, c2, err := w.bestMergePair()
		if err != nil {
			return err
		}
		w.mergeClasses(c1, c2)
		w.k--

		if w.params.EnableCoreReduction {
			w.removed = w.inst.ComputeCore(w.k)
			for _, v := range w.removed {
				w.sol.Unset(v)
			}
		}

		w.noImprovement = 0
		if timer.NeedsToEnd() {
			return nil
		}
	}
	return nil
}

// reinsertRemoved greedily re-colors every vertex shrunk out by the last
// k-core reduction, in reverse removal order, so that each is placed back
// once all of its still-present neighbors are colored.
func (w *worker) reinsertRemoved() error {
	for i := len(w.removed) - 1; i >= 0; i-- {
		v := w.removed[i]
		c, err := w.freeColorFor(v)
		if err != nil {
			return err
		}
		w.sol.Set(v, c)
	}
	w.removed = nil
	return nil
}

// freeColorFor returns an active color unused by v's colored neighbors.
// The k-core construction guarantees one exists at reinsertion time, so a
// miss is a programming error, not a search failure.
func (w *worker) freeColorFor(v int) (int, error) {
	used := make(map[int]bool, w.inst.Degree(v))
	for _, nb := range w.inst.Neighbors(v) {
		if w.sol.Contains(nb.Other) {
			used[w.sol.Color(nb.Other)] = true
		}
	}
	for _, c := range w.activeColors {
		if !used[c] {
			return c, nil
		}
	}
	return 0, xerrors.Errorf("no color free for vertex %d during core reinsertion: %w", v, ErrInvariantViolation)
}

// bestMergePair finds the pair of color classes with the smallest total
// weight on the edges running between them, ties broken by the classes'
// position in the current color iteration order.
func (w *worker) bestMergePair() (c1, c2 int, err error) {
	colors := w.sol.Colors()
	if len(colors) < 2 {
		return 0, 0, xerrors.Errorf("fewer than two color classes to merge: %w", ErrInvariantViolation)
	}

	pos := make(map[int]int, len(colors))
	for i, c := range colors {
		pos[c] = i
	}

	n := len(colors)
	total := make([][]uint64, n)
	for i := range total {
		total[i] = make([]uint64, n)
	}

	for e := 0; e < w.inst.NumberOfEdges(); e++ {
		u, v := w.inst.Endpoints(e)
		if !w.sol.Contains(u) || !w.sol.Contains(v) {
			continue
		}
		cu, cv := w.sol.Color(u), w.sol.Color(v)
		if cu == cv {
			continue
		}
		pu, pv := pos[cu], pos[cv]
		weight := w.classPairWeight(e, u, v)
		total[pu][pv] = saturatingAddU64(total[pu][pv], weight)
		total[pv][pu] = total[pu][pv]
	}

	bestI, bestJ := -1, -1
	var best uint64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if bestI == -1 || total[i][j] < best {
				bestI, bestJ, best = i, j, total[i][j]
			}
		}
	}
	return colors[bestI], colors[bestJ], nil
}

// classPairWeight returns the weight edge (u, v) contributes to a merge
// decision, read from whichever accumulator the configured variant keeps.
func (w *worker) classPairWeight(e, u, v int) uint64 {
	if w.params.Variant == VariantRowWeighting2 {
		return uint64(w.vertexWeight[u]) + uint64(w.vertexWeight[v])
	}
	return uint64(w.sol.Penalty(e))
}

// mergeClasses folds every vertex of c2 into c1 and retires c2 from the
// active palette.
func (w *worker) mergeClasses(c1, c2 int) {
	members := append([]int(nil), w.sol.Members(c2)...)
	for _, v := range members {
		w.sol.Set(v, c1)
	}
	for i, c := range w.activeColors {
		if c == c2 {
			w.activeColors = append(w.activeColors[:i], w.activeColors[i+1:]...)
			break
		}
	}
}

// repairStep picks a random conflicting edge and recolors whichever endpoint,
// to whichever legal-looking color, minimizes the induced penalty, then
// grows the penalty accumulator on every edge still in conflict.
func (w *worker) repairStep() error {
	numConflicts := w.sol.NumberOfConflicts()
	if numConflicts == 0 {
		return xerrors.Errorf("repair invoked with no conflicting edge: %w", ErrInvariantViolation)
	}

	edge := w.pickConflictingEdge(numConflicts)
	u, v := w.inst.Endpoints(edge)

	bestV, bestC, bestScore, found := -1, -1, uint64(0), false
	for _, vtx := range [2]int{u, v} {
		current := w.sol.Color(vtx)
		for _, c := range w.activeColors {
			if c == current {
				continue
			}
			score := w.scoreMove(vtx, c)
			if !found || score < bestScore {
				found = true
				bestV, bestC, bestScore = vtx, c, score
			}
		}
	}
	if !found {
		return xerrors.Errorf("no candidate recoloring found: %w", ErrInvariantViolation)
	}
	w.sol.Set(bestV, bestC)

	w.growPenalties()
	return nil
}

func (w *worker) pickConflictingEdge(numConflicts int) int {
	return w.sol.ConflictEdge(w.rng.Intn(numConflicts))
}

// scoreMove estimates the penalty vtx would still incur by taking color c,
// summed over neighbors already holding that color.
func (w *worker) scoreMove(vtx, c int) uint64 {
	var score uint64
	for _, nb := range w.inst.Neighbors(vtx) {
		if !w.sol.Contains(nb.Other) || w.sol.Color(nb.Other) != c {
			continue
		}
		if w.params.Variant == VariantRowWeighting2 {
			score += uint64(w.vertexWeight[nb.Other])
		} else {
			score += uint64(w.sol.Penalty(nb.Edge))
		}
	}
	return score
}

// growPenalties increments the configured accumulator for every edge still
// in conflict after the repair move, halving the whole accumulator if any
// entry crosses the safe threshold.
func (w *worker) growPenalties() {
	if w.params.Variant == VariantRowWeighting2 {
		w.growVertexWeights()
		return
	}

	var max uint16
	for _, e := range w.sol.Conflicts() {
		w.sol.IncrementPenalty(e, 1)
		if p := w.sol.Penalty(e); p > max {
			max = p
		}
	}
	if max > penaltyHalvingThreshold {
		w.sol.HalvePenalties()
	}
}

func (w *worker) growVertexWeights() {
	var max uint16
	for _, e := range w.sol.Conflicts() {
		u, v := w.inst.Endpoints(e)
		w.vertexWeight[u] = saturatingIncU16(w.vertexWeight[u])
		w.vertexWeight[v] = saturatingIncU16(w.vertexWeight[v])
		if w.vertexWeight[u] > max {
			max = w.vertexWeight[u]
		}
		if w.vertexWeight[v] > max {
			max = w.vertexWeight[v]
		}
	}
	if max > penaltyHalvingThreshold {
		for i, p := range w.vertexWeight {
			halved := p/2 + p%2
			if halved < 1 {
				halved = 1
			}
			w.vertexWeight[i] = halved
		}
	}
}

func saturatingIncU16(v uint16) uint16 {
	if v == 0xFFFF {
		return v
	}
	return v + 1
}

func saturatingAddU64(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return ^uint64(0)
	}
	return sum
}

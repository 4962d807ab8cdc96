package rowweighting

import (
	"math/rand"

	"golang.org/x/xerrors"

	"github.com/graphcoloring/graphcolor/internal/coloring"
)

// Variant selects which accumulator the row-weighting core's penalty
// increment targets: RowWeighting grows a persistent per-edge
// weight; RowWeighting2 grows a persistent per-vertex weight instead, used
// when scoring candidate repairs.
type Variant int

const (
	// VariantRowWeighting is local-search-row-weighting: per-edge weights.
	VariantRowWeighting Variant = iota
	// VariantRowWeighting2 is local-search-row-weighting-2: per-vertex
	// ("per-conflict") weights.
	VariantRowWeighting2
)

// ParseVariant resolves the --algorithm CLI value to a Variant.
func ParseVariant(name string) (Variant, error) {
	switch name {
	case "local-search-row-weighting":
		return VariantRowWeighting, nil
	case "local-search-row-weighting-2":
		return VariantRowWeighting2, nil
	default:
		return 0, xerrors.Errorf("unknown row-weighting variant %q", name)
	}
}

// Params configures a row-weighting Engine run.
type Params struct {
	// NumWorkers is the number of independent search workers to run. If
	// not specified, a default value of 1 will be used instead.
	NumWorkers int

	// Variant selects the scoring/penalty accumulator (see Variant).
	Variant Variant

	// MaxIterations caps the number of repair iterations per worker.
	// Zero or negative means unlimited.
	MaxIterations int64

	// MaxIterationsWithoutImprovement stops a worker once this many
	// iterations have passed without a new best solution. Zero or
	// negative means unlimited.
	MaxIterationsWithoutImprovement int64

	// MaxImprovements stops a worker once it has published this many new
	// best solutions. Zero or negative means unlimited.
	MaxImprovements int64

	// Goal stops a worker once its active color count reaches this
	// value. Zero means no goal.
	Goal int

	// EnableCoreReduction toggles the k-core shrink/reinsert step.
	EnableCoreReduction bool

	// Seed is the master seed from which per-worker sub-seeds are
	// derived deterministically.
	Seed int64

	// InitialSolution, if set, seeds every worker's starting point
	// instead of each worker computing its own DSATUR solution.
	InitialSolution *coloring.Solution
}

// validate fills in defaults. Every worker clones InitialSolution rather
// than sharing the pointer, so concurrent workers never race on it.
func (p *Params) validate() error {
	if p.NumWorkers <= 0 {
		p.NumWorkers = 1
	}
	return nil
}

// deriveSeeds returns NumWorkers independent 64-bit seeds derived
// deterministically from master, so a run is fully reproducible for a fixed
// (seed, thread-count) pair.
func deriveSeeds(master int64, n int) []int64 {
	rng := rand.New(rand.NewSource(master))
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}
	return seeds
}

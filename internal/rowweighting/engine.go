// Package rowweighting implements the row-weighting local search core: a
// pool of independent workers, each iterating a merge/repair loop over its
// own private Solution, publishing improvements through a shared
// output.Output. Workers never synchronize with each other directly, only
// through that shared, mutex-guarded tracker.
package rowweighting

import (
	"context"
	"sync"

	"github.com/graphcoloring/graphcolor/internal/graph"
	"github.com/graphcoloring/graphcolor/internal/output"
)

// Timer is the single shared stopping signal every worker polls at the top
// of its loop: cooperative, cheap to check, and backed by
// whatever deadline or cancellation the caller attached to ctx.
type Timer struct {
	ctx context.Context
}

// NeedsToEnd reports whether ctx has been canceled or its deadline passed.
func (t *Timer) NeedsToEnd() bool {
	select {
	case <-t.ctx.Done():
		return true
	default:
		return false
	}
}

// Engine owns the parameters for a row-weighting run over a fixed instance.
type Engine struct {
	inst   *graph.Instance
	params Params
}

// NewEngine returns an Engine ready to run params.NumWorkers workers over
// inst.
func NewEngine(inst *graph.Instance, params Params) *Engine {
	return &Engine{inst: inst, params: params}
}

// Run launches every worker and blocks until they all stop: either ctx is
// done, every worker's own stopping condition fires, or one worker reports a
// fatal invariant violation, in which case Run cancels the rest and returns
// that error once they have all joined.
func (e *Engine) Run(ctx context.Context, out *output.Output) error {
	params := e.params
	if err := params.validate(); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	timer := &Timer{ctx: runCtx}

	seeds := deriveSeeds(params.Seed, params.NumWorkers)

	var wg sync.WaitGroup
	errs := make(chan error, params.NumWorkers)

	for i := 0; i < params.NumWorkers; i++ {
		w := newWorker(i, e.inst, params, seeds[i])
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.run(timer, out); err != nil {
				cancel()
				errs <- err
			}
		}()
	}

	wg.Wait()
	close(errs)
	return <-errs
}

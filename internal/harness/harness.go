// Package harness runs a corpus of test units against a subject program.
//
// Every unit goes through the same fixed sequence of stages, chosen once per
// run: an optional compile step, a plain or memory-checked run, and one or
// two comparisons. The first failing stage ends the unit. Units are fanned
// out over a bounded worker pool; each worker writes only its own outcome
// slot, so results need no locking and come back in corpus order.
package harness

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"rtest/internal/corpus"
	"rtest/internal/result"
	"rtest/internal/trace"
)

// Run loads the corpus named by cfg and executes every unit. Configuration
// errors abort the run; per-unit problems are recorded in the outcomes.
// The outcomes are sorted by unit path.
func Run(ctx context.Context, cfg Config) ([]result.Outcome, error) {
	resolved, err := cfg.resolve()
	if err != nil {
		return nil, err
	}

	emit(cfg.Progress, Event{Stage: StageLoad, Status: StatusWorking})
	units, err := corpus.Load(resolved.CorpusDir, resolved.Mode())
	if err != nil {
		emit(cfg.Progress, Event{Stage: StageLoad, Status: StatusFailed, Err: err})
		return nil, err
	}
	emit(cfg.Progress, Event{Stage: StageLoad, Status: StatusPassed})

	return Execute(ctx, resolved, units)
}

// Execute runs the given units, which must already be sorted.
func Execute(ctx context.Context, cfg Config, units []corpus.Unit) ([]result.Outcome, error) {
	resolved, err := cfg.resolve()
	if err != nil {
		return nil, err
	}
	strat := selectStrategy(resolved)

	ctx, span := trace.StartSpan(ctx, trace.ScopeRun, "run")
	span.WithExtra("strategy", strat.name).
		WithExtra("units", fmt.Sprint(len(units)))

	outcomes := make([]result.Outcome, len(units))
	for i, unit := range units {
		outcomes[i] = result.Pending(unit, i)
		emit(resolved.Progress, Event{Unit: unit.Path, Index: i, Status: StatusQueued})
	}
	if len(units) == 0 {
		span.End("empty corpus")
		return outcomes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(resolved.Jobs, len(units)))

	for i, unit := range units {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				outcomes[i].Fail(result.ToolInvocationFailure{
					Tool:    toolHarness,
					Message: "run cancelled",
				})
				return nil
			default:
			}
			// indices are unique per goroutine; no mutex needed
			outcomes[i] = execute(gctx, &resolved, strat, unit, i)
			return nil
		})
	}
	_ = g.Wait()

	summary := result.Summarize(outcomes)
	span.End(fmt.Sprintf("%d/%d passed", summary.Passed, summary.Total))

	if err := ctx.Err(); err != nil {
		return outcomes, fmt.Errorf("run interrupted: %w", err)
	}
	return outcomes, nil
}

package executor

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/weiihann/sqlbench/scenario"
)

// RunAll executes every registered scenario sequentially, in registry
// order, against the executor's connection. Failed scenarios are recorded
// and the batch continues; only a lost connection or a cancelled context
// stops the run, in which case the results collected so far are returned
// alongside the error.
func (e *Executor) RunAll(
	ctx context.Context,
	reg *scenario.Registry,
) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, reg.Len())

	for sc := range reg.All() {
		result, err := e.Run(ctx, sc)
		if err != nil {
			return results, err
		}

		results = append(results, result)
	}

	return results, nil
}

// ConnFactory acquires an isolated connection for one scenario and returns
// it together with its release function.
type ConnFactory func(ctx context.Context) (Conn, func() error, error)

// RunParallel executes scenarios concurrently across isolated connections,
// at most workers at a time. This drops the sequential ordering guarantee
// of RunAll, so it is only safe for self-contained scenarios. Results are
// returned in input order regardless of completion order.
func RunParallel(
	ctx context.Context,
	scenarios []scenario.Scenario,
	factory ConnFactory,
	workers int,
	opts Options,
) ([]ComparisonResult, error) {
	if workers < 1 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make([]ComparisonResult, len(scenarios))

	for i, sc := range scenarios {
		g.Go(func() error {
			conn, release, err := factory(ctx)
			if err != nil {
				return fmt.Errorf("acquire connection for %s: %w", sc.ID, err)
			}
			defer release()

			result, err := New(conn, opts).Run(ctx, sc)
			if err != nil {
				return err
			}

			results[i] = result

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// SPDX-License-Identifier: MIT

package variational

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"
)

const methodSolveBatch = "SolveBatch"

// SolveBatch runs LogConditional on every problem with at most maxGoroutines
// in flight (maxGoroutines ≤ 0 means one per problem). results[i] belongs to
// problems[i]. The first failure cancels the problems still running and is
// returned; no partial results are returned with it.
func SolveBatch(ctx context.Context, problems []Problem, maxGoroutines int, opts ...Option) ([]*Result, error) {
	if maxGoroutines <= 0 {
		maxGoroutines = max(len(problems), 1)
	}
	results := make([]*Result, len(problems))
	p := pool.New().WithMaxGoroutines(maxGoroutines).WithContext(ctx).WithCancelOnError().WithFirstError()
	for i := range problems {
		p.Go(func(ctx context.Context) error {
			res, err := LogConditional(ctx, problems[i], opts...)
			if err != nil {
				return fmt.Errorf("problem %d: %w", i, err)
			}
			results[i] = res

			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", methodSolveBatch, err)
	}

	return results, nil
}

package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// RunBatch runs every item with at most concurrency items in flight and
// returns results in input order. A failing item never stops the others.
func (m *Machine) RunBatch(ctx context.Context, items []Item, concurrency int) []Result {
	if concurrency < 1 {
		concurrency = 1
	}
	results := make([]Result, len(items))

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, item := range items {
		g.Go(func() error {
			results[i] = m.Run(ctx, item)
			return nil
		})
	}
	_ = g.Wait() // failures are captured per result

	return results
}

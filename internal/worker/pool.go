// Package worker provides the generic pool used for per-file extraction and
// concurrent locale saves.
package worker

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Outcome pairs one input with its processing result or error.
type Outcome[T any, R any] struct {
	Input  T
	Result R
	Err    error
}

// ProcessFunc processes a single input.
type ProcessFunc[T any, R any] func(ctx context.Context, input T) (R, error)

// Pool runs inputs through a fixed number of workers. Results come back in
// input order regardless of completion order, so callers can fold them
// sequentially afterwards.
type Pool[T any, R any] struct {
	workers int
	process ProcessFunc[T, R]
}

func NewPool[T any, R any](workers int, fn ProcessFunc[T, R]) *Pool[T, R] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T, R]{workers: workers, process: fn}
}

// Execute processes every input, honoring context cancellation. Individual
// failures are captured per outcome and never abort the batch.
func (p *Pool[T, R]) Execute(ctx context.Context, inputs []T) []Outcome[T, R] {
	outcomes := make([]Outcome[T, R], len(inputs))
	indexCh := make(chan int, len(inputs))

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case idx, ok := <-indexCh:
					if !ok {
						return
					}
					result, err := p.process(ctx, inputs[idx])
					outcomes[idx] = Outcome[T, R]{Input: inputs[idx], Result: result, Err: err}
					if err != nil {
						log.Warn().Err(err).Int("index", idx).Msg("Work item failed")
					}
				}
			}
		}()
	}

	for i := range inputs {
		select {
		case <-ctx.Done():
		case indexCh <- i:
			continue
		}
		break
	}
	close(indexCh)

	wg.Wait()
	return outcomes
}

// Batch splits items into slices of at most batchSize.
func Batch[T any](items []T, batchSize int) [][]T {
	if batchSize <= 0 {
		batchSize = 1
	}
	var batches [][]T
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		batches = append(batches, items[i:end])
	}
	return batches
}

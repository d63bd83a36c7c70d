package tasks

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Failure records a single item that could not be fetched during a fan-out.
type Failure struct {
	Key string // Remote identifier of the failed item
	Err error
}

// Batch holds the outcome of a concurrent fan-out over a set of remote IDs.
type Batch[T any] struct {
	Successes []T
	Failures  []Failure
}

// Complete reports whether every item in the batch succeeded.
func (b *Batch[T]) Complete() bool {
	return len(b.Failures) == 0
}

type outcome[T any] struct {
	value T
	key   string
	err   error
}

// fanOut runs fetch over keys with a bounded worker pool. Each worker waits on
// the shared limiter before issuing a request. Failures are collected rather
// than aborting the batch, so callers can decide whether the result set is
// complete enough to act on.
func fanOut[T any](
	ctx context.Context,
	keys []string,
	workers int,
	limiter *rate.Limiter,
	fetch func(ctx context.Context, key string) (T, error),
) *Batch[T] {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(keys) && len(keys) > 0 {
		workers = len(keys)
	}

	jobs := make(chan string, len(keys))
	results := make(chan outcome[T], len(keys))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for key := range jobs {
				if err := limiter.Wait(ctx); err != nil {
					results <- outcome[T]{key: key, err: err}
					continue
				}
				value, err := fetch(ctx, key)
				results <- outcome[T]{value: value, key: key, err: err}
			}
		}()
	}

	for _, key := range keys {
		jobs <- key
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	batch := &Batch[T]{
		Successes: make([]T, 0, len(keys)),
		Failures:  nil,
	}
	for res := range results {
		if res.err != nil {
			batch.Failures = append(batch.Failures, Failure{Key: res.key, Err: res.err})
			continue
		}
		batch.Successes = append(batch.Successes, res.value)
	}
	return batch
}

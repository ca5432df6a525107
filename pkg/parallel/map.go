package parallel

import (
	"errors"
	"fmt"
)

// Map applies fn to every key on a pool of the given size and collects the
// results. fn must be safe to call concurrently. Small inputs run inline.
// If any call panics Map returns no results and an error wrapping
// ErrTaskPanicked.
func Map[K comparable, V any](workers int, keys []K, fn func(K) V) (map[K]V, error) {
	if len(keys) < 2 || workers == 1 {
		return mapInline(keys, fn)
	}

	pool, err := NewWorkerPool(min(workers, len(keys)))
	if err != nil {
		return nil, err
	}

	values := make([]V, len(keys))
	for i, k := range keys {
		if !pool.Submit(func() { values[i] = fn(k) }) {
			return nil, errors.Join(fmt.Errorf("%w: submitted %d of %d keys", ErrPoolClosed, i, len(keys)), pool.Close())
		}
	}
	if err := pool.Close(); err != nil {
		return nil, err
	}

	out := make(map[K]V, len(keys))
	for i, k := range keys {
		out[k] = values[i]
	}
	return out, nil
}

func mapInline[K comparable, V any](keys []K, fn func(K) V) (out map[K]V, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", ErrTaskPanicked, r)
		}
	}()
	out = make(map[K]V, len(keys))
	for _, k := range keys {
		out[k] = fn(k)
	}
	return out, nil
}

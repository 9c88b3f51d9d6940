// Package enrich fans secondary lookups out over a list with a bound on
// concurrency, substituting a fallback for every item whose lookup fails.
package enrich

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultLimit is used when Map is given a non-positive limit.
const DefaultLimit = 4

// Result pairs a value with whether it came from the fallback. Err is the
// lookup error that caused the fallback.
type Result[T any] struct {
	Value     T
	Defaulted bool
	Err       error
}

// Map calls fetch for every item, at most limit at a time, and returns
// results in input order. A failed fetch never fails the batch: the item
// gets fallback(item, err) instead. Map returns once every fetch settled.
func Map[In, Out any](
	ctx context.Context,
	items []In,
	limit int,
	fetch func(context.Context, In) (Out, error),
	fallback func(In, error) Out,
) []Result[Out] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	results := make([]Result[Out], len(items))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			v, err := fetch(ctx, item)
			if err != nil {
				results[i] = Result[Out]{Value: fallback(item, err), Defaulted: true, Err: err}
				return nil
			}
			results[i] = Result[Out]{Value: v}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Values drops the bookkeeping and returns the values alone.
func Values[T any](rs []Result[T]) []T {
	out := make([]T, len(rs))
	for i, r := range rs {
		out[i] = r.Value
	}
	return out
}

// Defaulted counts the results that came from the fallback.
func Defaulted[T any](rs []Result[T]) int {
	n := 0
	for _, r := range rs {
		if r.Defaulted {
			n++
		}
	}
	return n
}

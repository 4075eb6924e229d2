package svix

import (
	"context"
	"iter"
)

// ListResponse is one page of a cursor-paginated listing. Iterator is the
// opaque cursor for the next page; Done reports whether this was the last
// one.
type ListResponse[T any] struct {
	Data     []T    `json:"data"`
	Iterator string `json:"iterator"`
	Done     bool   `json:"done"`
}

// PageFunc fetches one page of results for the given cursor. An empty
// cursor requests the first page.
type PageFunc[T any] func(ctx context.Context, iterator string) (ListResponse[T], error)

// Iterate flattens a cursor-paginated listing into a lazy element sequence.
// The next page is only fetched once the current one is drained, so a
// consumer that stops early never pays for the remaining pages. A fetch
// error is yielded once and terminates the sequence.
func Iterate[T any](ctx context.Context, page PageFunc[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var iterator string
		for {
			resp, err := page(ctx, iterator)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range resp.Data {
				if !yield(item, nil) {
					return
				}
			}
			if resp.Done {
				return
			}
			iterator = resp.Iterator
		}
	}
}

// Collect drains a sequence produced by Iterate into a slice, stopping at
// the first error.
func Collect[T any](seq iter.Seq2[T, error]) ([]T, error) {
	var out []T
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

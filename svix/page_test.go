package svix_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/swhkit/webhooks/svix"
)

// pagedInts serves the numbers [0, total) in pages of pageSize, counting
// how many pages were fetched.
func pagedInts(total, pageSize int, fetched *int) svix.PageFunc[int] {
	return func(_ context.Context, iterator string) (svix.ListResponse[int], error) {
		*fetched++
		start := 0
		if iterator != "" {
			start, _ = strconv.Atoi(iterator)
		}
		end := min(start+pageSize, total)
		data := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			data = append(data, i)
		}
		return svix.ListResponse[int]{
			Data:     data,
			Iterator: strconv.Itoa(end),
			Done:     end == total,
		}, nil
	}
}

func TestIterateDrainsAllPages(t *testing.T) {
	var fetched int
	got, err := svix.Collect(svix.Iterate(context.Background(), pagedInts(10, 3, &fetched)))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 10 {
		t.Fatalf("expected 10 items, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("item %d = %d", i, v)
		}
	}
	if fetched != 4 {
		t.Fatalf("expected 4 page fetches, got %d", fetched)
	}
}

func TestIterateEarlyStopSkipsRemainingPages(t *testing.T) {
	var fetched int
	var got []int
	for v, err := range svix.Iterate(context.Background(), pagedInts(100, 10, &fetched)) {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, v)
		if len(got) == 5 {
			break
		}
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	if fetched != 1 {
		t.Fatalf("early stop should fetch a single page, fetched %d", fetched)
	}
}

func TestIterateEmpty(t *testing.T) {
	var fetched int
	got, err := svix.Collect(svix.Iterate(context.Background(), pagedInts(0, 10, &fetched)))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no items, got %d", len(got))
	}
	if fetched != 1 {
		t.Fatalf("expected a single page fetch, got %d", fetched)
	}
}

func TestIterateStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	page := func(_ context.Context, iterator string) (svix.ListResponse[int], error) {
		calls++
		if iterator != "" {
			return svix.ListResponse[int]{}, boom
		}
		return svix.ListResponse[int]{Data: []int{1, 2}, Iterator: "next"}, nil
	}

	_, err := svix.Collect(svix.Iterate(context.Background(), page))
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 page calls, got %d", calls)
	}
}

func TestCodeIs(t *testing.T) {
	err := error(&svix.Error{Code: svix.CodeNotFound, Detail: "no such endpoint"})
	if !svix.CodeIs(err, svix.CodeNotFound) {
		t.Fatal("expected CodeIs to match")
	}
	if svix.CodeIs(err, svix.CodeConflict) {
		t.Fatal("CodeIs matched the wrong code")
	}
	if svix.CodeIs(errors.New("plain"), svix.CodeNotFound) {
		t.Fatal("CodeIs matched a non-svix error")
	}
}

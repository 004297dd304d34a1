package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestFetchCachesResult(t *testing.T) {
	s := NewStore()
	key := NewKey("users")
	var calls int

	fn := func(ctx context.Context) ([]string, error) {
		calls++
		return []string{"ana"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Fetch(context.Background(), s, key, fn)
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if len(got) != 1 || got[0] != "ana" {
			t.Errorf("got = %v", got)
		}
	}
	if calls != 1 {
		t.Errorf("fetch fn called %d times, want 1", calls)
	}
}

func TestFetchRefetchesAfterInvalidate(t *testing.T) {
	s := NewStore()
	key := NewKey("tasks")
	var calls int

	fn := func(ctx context.Context) (string, error) {
		calls++
		return "v", nil
	}

	Fetch(context.Background(), s, key, fn)
	s.Invalidate("tasks")
	Fetch(context.Background(), s, key, fn)

	if calls != 2 {
		t.Errorf("fetch fn called %d times, want 2", calls)
	}
}

func TestFetchCoalescesConcurrentCalls(t *testing.T) {
	s := NewStore()
	key := NewKey("tasks")

	var calls int32
	release := make(chan struct{})
	fn := func(ctx context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 42, nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := Fetch(context.Background(), s, key, fn)
			if err != nil {
				t.Errorf("Fetch: %v", err)
			}
			results[i] = v
		}(i)
	}

	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("fetch fn called %d times, want 1 (coalesced)", n)
	}
	for _, v := range results {
		if v != 42 {
			t.Errorf("result = %d, want 42", v)
		}
	}
}

func TestFetchFailureMarksStale(t *testing.T) {
	s := NewStore()
	key := NewKey("users")
	boom := errors.New("boom")

	_, err := Fetch(context.Background(), s, key, func(ctx context.Context) (string, error) {
		return "", boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if !s.Stale(key) {
		t.Error("failed entry should be stale")
	}

	// A later fetch retries and recovers.
	v, err := Fetch(context.Background(), s, key, func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil || v != "ok" {
		t.Errorf("retry = (%q, %v), want (ok, nil)", v, err)
	}
}

func TestFetchKeepsStaleDataDuringRefetch(t *testing.T) {
	s := NewStore()
	key := NewKey("tasks")

	Fetch(context.Background(), s, key, func(ctx context.Context) (string, error) {
		return "old", nil
	})
	s.Invalidate("tasks")

	var observed any
	Fetch(context.Background(), s, key, func(ctx context.Context) (string, error) {
		observed, _, _ = s.Lookup(key)
		return "new", nil
	})

	if observed != "old" {
		t.Errorf("data during refetch = %v, want old value readable", observed)
	}
	if data, _, _ := s.Lookup(key); data != "new" {
		t.Errorf("data after refetch = %v, want new", data)
	}
}

func TestFetchIfDisabled(t *testing.T) {
	s := NewStore()
	called := false

	_, err := FetchIf(context.Background(), s, false, NewKey("user", 0),
		func(ctx context.Context) (string, error) {
			called = true
			return "", nil
		})

	if !errors.Is(err, ErrDisabled) {
		t.Errorf("err = %v, want ErrDisabled", err)
	}
	if called {
		t.Error("disabled query must not run its fetch fn")
	}
}

package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestFetchCachesValue(t *testing.T) {
	c := NewCache()
	calls := 0
	fn := func(context.Context) (interface{}, error) {
		calls++
		return "value", nil
	}
	for i := 0; i < 3; i++ {
		got, err := c.Fetch(context.Background(), BenefitsKey(), fn)
		if err != nil {
			t.Fatalf("Fetch returned error: %v", err)
		}
		if got != "value" {
			t.Fatalf("wrong value: %v", got)
		}
	}
	if calls != 1 {
		t.Fatalf("expected 1 backend call, got %d", calls)
	}
}

func TestFetchCollapsesConcurrentCalls(t *testing.T) {
	c := NewCache()
	var calls int32
	started := make(chan struct{})
	release := make(chan struct{})
	fn := func(context.Context) (interface{}, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		return 42, nil
	}

	var wg sync.WaitGroup
	results := make([]interface{}, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Fetch(context.Background(), CasesKey(), fn)
			if err != nil {
				t.Errorf("Fetch returned error: %v", err)
			}
			results[i] = v
		}(i)
	}
	// Wait for the backend call to start, then let it finish.
	<-started
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected 1 backend call, got %d", got)
	}
	for i, v := range results {
		if v != 42 {
			t.Fatalf("caller %d got %v", i, v)
		}
	}
}

func TestInvalidateForcesRefetchButKeepsPeek(t *testing.T) {
	c := NewCache()
	calls := 0
	fn := func(context.Context) (interface{}, error) {
		calls++
		return calls, nil
	}
	key := CaseKey(7)
	if _, err := c.Fetch(context.Background(), key, fn); err != nil {
		t.Fatal(err)
	}
	c.Invalidate(key)

	// A stale value still serves Peek for an instant first paint.
	if v, ok := c.Peek(key); !ok || v != 1 {
		t.Fatalf("stale value should still Peek: %v %v", v, ok)
	}

	v, err := c.Fetch(context.Background(), key, fn)
	if err != nil {
		t.Fatal(err)
	}
	if v != 2 || calls != 2 {
		t.Fatalf("invalidation should force a refetch: v=%v calls=%d", v, calls)
	}
}

func TestFailedRefetchKeepsStaleValue(t *testing.T) {
	c := NewCache()
	key := CaseProgressKey(3)
	ok := func(context.Context) (interface{}, error) { return "good", nil }
	bad := func(context.Context) (interface{}, error) { return nil, errors.New("backend down") }

	if _, err := c.Fetch(context.Background(), key, ok); err != nil {
		t.Fatal(err)
	}
	c.Invalidate(key)
	if _, err := c.Fetch(context.Background(), key, bad); err == nil {
		t.Fatalf("expected the refetch error to surface")
	}
	if v, found := c.Peek(key); !found || v != "good" {
		t.Fatalf("stale value should survive a failed refetch: %v %v", v, found)
	}
}

func TestClearDropsEverything(t *testing.T) {
	c := NewCache()
	fn := func(context.Context) (interface{}, error) { return "x", nil }
	if _, err := c.Fetch(context.Background(), BenefitsKey(), fn); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Fetch(context.Background(), CaseKey(1), fn); err != nil {
		t.Fatal(err)
	}
	c.Clear()
	if _, ok := c.Peek(BenefitsKey()); ok {
		t.Fatalf("Clear should drop catalog entries")
	}
	if _, ok := c.Peek(CaseKey(1)); ok {
		t.Fatalf("Clear should drop case entries")
	}
}

func TestClearDiscardsInFlightResult(t *testing.T) {
	c := NewCache()
	started := make(chan struct{})
	release := make(chan struct{})
	fetched := make(chan struct{})
	go func() {
		defer close(fetched)
		c.Fetch(context.Background(), CasesKey(), func(context.Context) (interface{}, error) {
			close(started)
			<-release
			return "previous session", nil
		})
	}()
	<-started
	// Teardown lands while the fetch is still running.
	c.Clear()
	close(release)
	<-fetched

	if v, ok := c.Peek(CasesKey()); ok {
		t.Fatalf("cache repopulated after Clear: Peek = %v", v)
	}
	calls := 0
	got, err := c.Fetch(context.Background(), CasesKey(), func(context.Context) (interface{}, error) {
		calls++
		return "current session", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 || got != "current session" {
		t.Fatalf("fetch after Clear must hit the backend: calls=%d got=%v", calls, got)
	}
}

func TestInvalidateDiscardsInFlightResult(t *testing.T) {
	c := NewCache()
	key := CaseDocumentsKey(9)
	started := make(chan struct{})
	release := make(chan struct{})
	fetched := make(chan struct{})
	go func() {
		defer close(fetched)
		c.Fetch(context.Background(), key, func(context.Context) (interface{}, error) {
			close(started)
			<-release
			return "before mutation", nil
		})
	}()
	<-started
	c.Invalidate(key)

	// The post-mutation refetch must not join the pre-mutation call.
	calls := 0
	got, err := c.Fetch(context.Background(), key, func(context.Context) (interface{}, error) {
		calls++
		return "after mutation", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 || got != "after mutation" {
		t.Fatalf("refetch served a pre-mutation result: calls=%d got=%v", calls, got)
	}

	close(release)
	<-fetched
	if v, ok := c.Peek(key); !ok || v != "after mutation" {
		t.Fatalf("late pre-mutation result overwrote the refetch: %v %v", v, ok)
	}
}

func TestTypedFetchAndPeek(t *testing.T) {
	c := NewCache()
	key := CasesKey()
	got, err := Fetch(context.Background(), c, key, func(context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("typed fetch lost data: %v", got)
	}
	peeked, ok := Peek[[]string](c, key)
	if !ok || len(peeked) != 2 {
		t.Fatalf("typed peek failed: %v %v", peeked, ok)
	}
	if _, ok := Peek[int](c, key); ok {
		t.Fatalf("type mismatch must report a miss")
	}
}

func TestDocumentMutationInvalidation(t *testing.T) {
	c := NewCache()
	fn := func(context.Context) (interface{}, error) { return "v", nil }
	keys := []Key{
		CaseDocumentsKey(5), CaseProgressKey(5), CaseHistoryKey(5), CaseKey(5),
		CaseArtifactsKey(5), CasesKey(),
	}
	for _, k := range keys {
		if _, err := c.Fetch(context.Background(), k, fn); err != nil {
			t.Fatal(err)
		}
	}
	InvalidateDocumentMutation(c, 5)

	calls := 0
	refetch := func(context.Context) (interface{}, error) {
		calls++
		return "v2", nil
	}
	for _, k := range keys[:4] {
		if _, err := c.Fetch(context.Background(), k, refetch); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 4 {
		t.Fatalf("documents, progress, history and case must all go stale; refetched %d", calls)
	}
	// Artifacts and the case list are untouched by a document write.
	if _, err := c.Fetch(context.Background(), CaseArtifactsKey(5), refetch); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Fetch(context.Background(), CasesKey(), refetch); err != nil {
		t.Fatal(err)
	}
	if calls != 4 {
		t.Fatalf("unrelated keys were invalidated; calls=%d", calls)
	}
}

func TestKeyString(t *testing.T) {
	if s := BenefitsKey().String(); s != "benefits" {
		t.Fatalf("unexpected key string: %s", s)
	}
	if s := CaseDocumentsKey(12).String(); s != "case-documents:12" {
		t.Fatalf("unexpected key string: %s", s)
	}
}

package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestReplayCacheDoRunsOnce(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryReplayCache()

	var calls int32
	fn := func() ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte(`{"ok":true}`), nil
	}

	first, replayed, err := cache.Do(ctx, "k", fn)
	if err != nil || replayed {
		t.Fatalf("first call: replayed=%v err=%v", replayed, err)
	}
	second, replayed, err := cache.Do(ctx, "k", fn)
	if err != nil || !replayed {
		t.Fatalf("second call: replayed=%v err=%v", replayed, err)
	}
	if string(first) != string(second) {
		t.Fatalf("replay must be byte-identical: %q vs %q", first, second)
	}
	if calls != 1 {
		t.Fatalf("fn ran %d times, want 1", calls)
	}
}

func TestReplayCacheConcurrentSameKey(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryReplayCache()

	var calls int32
	const n = 16
	var wg sync.WaitGroup
	bodies := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body, _, err := cache.Do(ctx, "same", func() ([]byte, error) {
				atomic.AddInt32(&calls, 1)
				return []byte("payload"), nil
			})
			if err != nil {
				t.Errorf("Do: %v", err)
				return
			}
			bodies[i] = string(body)
		}(i)
	}
	wg.Wait()

	if calls != 1 {
		t.Fatalf("fn ran %d times under race, want exactly 1", calls)
	}
	for i, b := range bodies {
		if b != "payload" {
			t.Fatalf("caller %d saw %q", i, b)
		}
	}
}

func TestReplayCacheErrorNotCached(t *testing.T) {
	ctx := context.Background()
	cache := NewMemoryReplayCache()

	boom := errors.New("store down")
	if _, _, err := cache.Do(ctx, "k", func() ([]byte, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	// The key must be released so a retry can execute.
	body, replayed, err := cache.Do(ctx, "k", func() ([]byte, error) { return []byte("ok"), nil })
	if err != nil || replayed || string(body) != "ok" {
		t.Fatalf("retry after failure: body=%q replayed=%v err=%v", body, replayed, err)
	}
}

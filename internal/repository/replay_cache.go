package repository

import (
	"context"
	"sync"
)

// ReplayCache gives side-effecting operations exactly-once semantics
// per client-supplied idempotency key. Do runs fn for the first caller
// of a key and stores the serialized response; concurrent callers with
// the same key block until the first fill completes and later callers
// get the stored bytes back verbatim. The reserve-then-fill shape is
// deliberate: a plain check-then-write cache would let two racing
// requests with the same key both execute the operation.
//
// fn errors are treated as infrastructure failures: nothing is cached
// and the key is released so a retry can execute again.
type ReplayCache interface {
	Do(ctx context.Context, key string, fn func() ([]byte, error)) (body []byte, replayed bool, err error)
}

type replayEntry struct {
	done chan struct{}
	body []byte
	err  error
}

// MemoryReplayCache is the default process-scoped ReplayCache. Entries
// live for the process lifetime, matching the in-memory scope of the
// rest of the core.
type MemoryReplayCache struct {
	mu      sync.Mutex
	entries map[string]*replayEntry
}

// NewMemoryReplayCache returns an empty in-memory replay cache.
func NewMemoryReplayCache() *MemoryReplayCache {
	return &MemoryReplayCache{entries: make(map[string]*replayEntry)}
}

// Do implements ReplayCache.
func (c *MemoryReplayCache) Do(ctx context.Context, key string, fn func() ([]byte, error)) ([]byte, bool, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		select {
		case <-e.done:
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
		return e.body, true, e.err
	}
	e := &replayEntry{done: make(chan struct{})}
	c.entries[key] = e
	c.mu.Unlock()

	e.body, e.err = fn()
	if e.err != nil {
		// Release the key so a retry is not poisoned by a transient failure.
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
	}
	close(e.done)
	return e.body, false, e.err
}

// internal/query/cache.go
//
// A keyed read-through cache for resource queries. Views render the last
// known value via Peek while a Fetch runs in a bubbletea command; mutations
// call the Invalidate* helpers so the next Fetch goes back to the backend.
// Concurrent fetches of one key collapse onto a single in-flight call.

package query

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Key identifies one cached query: a resource kind plus its parameters.
type Key struct {
	Kind  string
	Param string
}

// NewKey builds a cache key from a kind and optional parameters.
func NewKey(kind string, params ...interface{}) Key {
	if len(params) == 0 {
		return Key{Kind: kind}
	}
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, fmt.Sprint(p))
	}
	return Key{Kind: kind, Param: strings.Join(parts, "/")}
}

func (k Key) String() string {
	if k.Param == "" {
		return k.Kind
	}
	return k.Kind + ":" + k.Param
}

type entry struct {
	value     interface{}
	fetchedAt time.Time
	stale     bool
}

type call struct {
	done chan struct{}
	// detached is set under the cache mutex when the key is cleared or
	// invalidated mid-flight. The result still reaches waiters but must
	// not be stored.
	detached bool
	value    interface{}
	err      error
}

// Cache is safe for concurrent use by view commands.
type Cache struct {
	mu       sync.Mutex
	entries  map[Key]*entry
	inflight map[Key]*call
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries:  map[Key]*entry{},
		inflight: map[Key]*call{},
	}
}

// Fetch returns the cached value for key when it is fresh; otherwise it runs
// fn, stores the result, and returns it. If another fetch of the same key is
// already running, the call waits for that result instead of duplicating the
// request. A failed re-fetch leaves any stale value in place.
func (c *Cache) Fetch(ctx context.Context, key Key, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && !e.stale {
		c.mu.Unlock()
		return e.value, nil
	}
	if cl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-cl.done:
			return cl.value, cl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	value, err := fn(ctx)
	cl.value, cl.err = value, err

	c.mu.Lock()
	if c.inflight[key] == cl {
		delete(c.inflight, key)
	}
	if err == nil && !cl.detached {
		c.entries[key] = &entry{value: value, fetchedAt: time.Now()}
	}
	c.mu.Unlock()
	close(cl.done)
	return value, err
}

// Peek returns the last stored value, fresh or stale, without fetching.
func (c *Cache) Peek(key Key) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Invalidate marks keys stale. The stored values keep serving Peek until a
// re-fetch replaces them. An in-flight fetch of an invalidated key is cut
// loose so a pre-mutation result cannot satisfy the post-mutation re-fetch.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		if e, ok := c.entries[key]; ok {
			e.stale = true
		}
		c.detachLocked(key)
	}
}

// InvalidateKind marks every entry of one resource kind stale.
func (c *Cache) InvalidateKind(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if key.Kind == kind {
			e.stale = true
		}
	}
	for key := range c.inflight {
		if key.Kind == kind {
			c.detachLocked(key)
		}
	}
}

// Clear drops everything, in-flight fetches included. Called on logout and
// on an authorization failure; a result from the torn-down session that
// lands afterwards is discarded.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.inflight {
		c.detachLocked(key)
	}
	c.entries = map[Key]*entry{}
}

func (c *Cache) detachLocked(key Key) {
	if cl, ok := c.inflight[key]; ok {
		cl.detached = true
		delete(c.inflight, key)
	}
}

// Fetch is the typed wrapper over Cache.Fetch.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(context.Context) (T, error)) (T, error) {
	value, err := c.Fetch(ctx, key, func(ctx context.Context) (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("query: %s holds %T", key, value)
	}
	return typed, nil
}

// Peek is the typed wrapper over Cache.Peek.
func Peek[T any](c *Cache, key Key) (T, bool) {
	value, ok := c.Peek(key)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, false
	}
	return typed, true
}

package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	v   any
	exp time.Time
}

type call struct {
	done chan struct{}
	v    any
	err  error
}

// TTLCache memoizes composite fetch results in process memory. Entries are
// whole-value replaced on refresh and live until overwritten; a process
// restart clears everything. An in-flight registry keyed like the cache
// collapses concurrent misses into one upstream computation.
type TTLCache struct {
	mu       sync.Mutex
	m        map[string]entry
	inflight map[string]*call
	now      func() time.Time
}

func NewTTLCache() *TTLCache {
	return &TTLCache{
		m:        make(map[string]entry),
		inflight: make(map[string]*call),
		now:      time.Now,
	}
}

// Get returns the cached value for key if it is still valid.
func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok {
		return nil, false
	}
	if !e.exp.IsZero() && c.now().After(e.exp) {
		delete(c.m, key)
		return nil, false
	}
	return e.v, true
}

// Set stores v under key for ttl. A non-positive ttl stores without expiry.
func (c *TTLCache) Set(key string, v any, ttl time.Duration) {
	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.m[key] = entry{v: v, exp: exp}
	c.mu.Unlock()
}

// Expiry returns the expiry time recorded for key, for TTL inspection.
func (c *TTLCache) Expiry(key string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[key]
	if !ok {
		return time.Time{}, false
	}
	return e.exp, true
}

// GetOrCompute returns the cached value for key, or runs fn once and caches
// the result. Degraded results (per isDegraded) are stored with degradedTTL
// so the next request retries sooner. Errors are not cached. Concurrent
// misses for the same key share one fn invocation.
func GetOrCompute[T any](
	ctx context.Context,
	c *TTLCache,
	key string,
	normalTTL, degradedTTL time.Duration,
	isDegraded func(T) bool,
	fn func(ctx context.Context) (T, error),
) (T, bool, error) {
	var zero T

	c.mu.Lock()
	if e, ok := c.m[key]; ok && (e.exp.IsZero() || !c.now().After(e.exp)) {
		c.mu.Unlock()
		v, ok := e.v.(T)
		if ok {
			return v, true, nil
		}
		// type mismatch under a reused key; fall through to recompute
		c.mu.Lock()
	}

	if cl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-cl.done:
		case <-ctx.Done():
			return zero, false, ctx.Err()
		}
		if cl.err != nil {
			return zero, false, cl.err
		}
		if v, ok := cl.v.(T); ok {
			return v, false, nil
		}
		return zero, false, nil
	}

	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	v, err := fn(ctx)
	cl.v, cl.err = v, err

	c.mu.Lock()
	delete(c.inflight, key)
	if err == nil {
		ttl := normalTTL
		if isDegraded != nil && isDegraded(v) {
			ttl = degradedTTL
		}
		var exp time.Time
		if ttl > 0 {
			exp = c.now().Add(ttl)
		}
		c.m[key] = entry{v: v, exp: exp}
	}
	c.mu.Unlock()
	close(cl.done)

	if err != nil {
		return zero, false, err
	}
	return v, false, nil
}

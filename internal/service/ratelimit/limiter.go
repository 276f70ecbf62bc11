package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	last       time.Time
}

// Limiter is a per-key token bucket. Callers with a generous provider budget
// (~60 calls/min) check Allow before each fetch and convert exhaustion into a
// rate-limited outcome instead of hitting the provider.
type Limiter struct {
	mu  sync.Mutex
	m   map[string]*bucket
	now func() time.Time
}

func New() *Limiter {
	return &Limiter{m: make(map[string]*bucket), now: time.Now}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string, capacity, refillPerSec float64) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: capacity, capacity: capacity, refillRate: refillPerSec, last: now}
		l.m[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * b.refillRate
		if b.tokens > b.capacity {
			b.tokens = b.capacity
		}
		b.last = now
	}

	if b.tokens >= 1 {
		b.tokens -= 1
		return true
	}
	return false
}

// Pacer serializes calls to a tight-limit provider by enforcing a fixed
// minimum interval between consecutive calls per key. The interval is a
// correctness requirement: exceeding the provider's budget yields a
// rate-limit sentinel instead of data.
type Pacer struct {
	mu   sync.Mutex
	next map[string]time.Time
	now  func() time.Time
	wait func(context.Context, time.Duration) error
}

func NewPacer() *Pacer {
	return &Pacer{
		next: make(map[string]time.Time),
		now:  time.Now,
		wait: sleepCtx,
	}
}

// Wait blocks until at least minInterval has passed since the previous call
// for key, then claims the slot. Returns early if ctx is cancelled.
func (p *Pacer) Wait(ctx context.Context, key string, minInterval time.Duration) error {
	p.mu.Lock()
	now := p.now()
	at := p.next[key]
	if at.Before(now) {
		at = now
	}
	p.next[key] = at.Add(minInterval)
	p.mu.Unlock()

	if d := at.Sub(now); d > 0 {
		return p.wait(ctx, d)
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

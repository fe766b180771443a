package views

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// LoadFunc computes the value of a view.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// entry is one computed value of a view.
type entry[T any] struct {
	value T
	built time.Time
}

// Cached is a read view with a TTL. Concurrent misses share one load.
type Cached[T any] struct {
	name string
	ttl  time.Duration
	load LoadFunc[T]

	mu    sync.RWMutex
	cur   *entry[T]
	stale bool
	gen   uint64
	sf    singleflight.Group
}

// NewCached creates a view. A zero ttl disables caching.
func NewCached[T any](name string, ttl time.Duration, load LoadFunc[T]) *Cached[T] {
	return &Cached[T]{name: name, ttl: ttl, load: load}
}

// Name returns the view name.
func (c *Cached[T]) Name() string {
	return c.name
}

func (c *Cached[T]) fresh() (*entry[T], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.cur == nil || c.stale || c.ttl == 0 {
		return nil, false
	}
	if time.Since(c.cur.built) > c.ttl {
		return nil, false
	}
	return c.cur, true
}

// Get returns the cached value, loading it when missing, expired or stale.
func (c *Cached[T]) Get(ctx context.Context) (T, error) {
	// Fast path: cached and fresh
	if e, ok := c.fresh(); ok {
		return e.value, nil
	}

	// Slow path: load once for all concurrent callers
	v, err, _ := c.sf.Do(c.name, func() (any, error) {
		if e, ok := c.fresh(); ok {
			return e, nil
		}
		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		value, err := c.load(ctx)
		if err != nil {
			return nil, err
		}
		e := &entry[T]{value: value, built: time.Now()}

		// An Invalidate during the load means value may predate the write.
		c.mu.Lock()
		if c.gen == gen {
			c.cur = e
			c.stale = false
		}
		c.mu.Unlock()
		return e, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(*entry[T]).value, nil
}

// Invalidate marks the current value stale. The next Get reloads it.
func (c *Cached[T]) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.gen++
	c.mu.Unlock()
	c.sf.Forget(c.name)
}

// Stale reports whether the view is waiting for a reload.
func (c *Cached[T]) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stale
}

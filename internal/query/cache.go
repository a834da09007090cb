package query

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultStaleTime is how long a fetched entry is served without refetching
const DefaultStaleTime = 30 * time.Second

// Key builds a cache key from its parts, e.g. Key("products", 2, "", 0)
func Key(parts ...interface{}) string {
	s := make([]string, len(parts))
	for i, p := range parts {
		s[i] = fmt.Sprint(p)
	}
	return strings.Join(s, ":")
}

type entry struct {
	value     interface{}
	fetchedAt time.Time
	seq       uint64
	stale     bool
}

// Cache holds query results by key. Concurrent fetches of one key share a
// single backend call until the key is invalidated or the cache is reset;
// a fetch started after that never joins an earlier call.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]*entry
	seqs      map[string]uint64 // bumped by Invalidate, part of the flight key
	epoch     uint64            // bumped by Reset, part of the flight key
	staleTime time.Duration
	group     singleflight.Group
	now       func() time.Time
}

// NewCache creates a cache. A non-positive staleTime uses DefaultStaleTime.
func NewCache(staleTime time.Duration) *Cache {
	if staleTime <= 0 {
		staleTime = DefaultStaleTime
	}
	return &Cache{
		entries:   make(map[string]*entry),
		seqs:      make(map[string]uint64),
		staleTime: staleTime,
		now:       time.Now,
	}
}

// Fetch returns the fresh cached value of key, or calls fn and caches
// its result. Errors are never cached. The shared call does not inherit
// the cancellation of the caller that started it; each caller stops
// waiting when its own ctx is done.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := c.fresh(key); ok {
		return v.(T), nil
	}

	seq, epoch := c.flight(key)
	callCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flightKey(key, seq, epoch), func() (interface{}, error) {
		val, err := fn(callCtx)
		c.end(key, seq, epoch, val, err)
		return val, err
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Peek returns the cached value of key even when stale
func Peek[T any](c *Cache, key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, false
	}
	v, ok := e.value.(T)
	return v, ok
}

// Invalidate marks every key equal to or under one of prefixes stale.
// A fetch in flight for such a key stores its result as stale and is not
// joined by later fetches.
func (c *Cache) Invalidate(prefixes ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		if matchAny(key, prefixes) {
			e.stale = true
		}
	}
	for key := range c.seqs {
		if matchAny(key, prefixes) {
			c.seqs[key]++
		}
	}
}

// Reset drops every entry. Fetches in flight are discarded and never
// joined again.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry)
	c.seqs = make(map[string]uint64)
	c.epoch++
}

// IsStale reports whether key is missing, invalidated or past its stale time
func (c *Cache) IsStale(key string) bool {
	_, ok := c.fresh(key)
	return !ok
}

func (c *Cache) fresh(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.stale || c.now().Sub(e.fetchedAt) >= c.staleTime {
		return nil, false
	}
	return e.value, true
}

// flight returns the sequence and epoch a fetch of key starting now runs under
func (c *Cache) flight(key string) (uint64, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	seq, ok := c.seqs[key]
	if !ok {
		c.seqs[key] = 0
	}
	return seq, c.epoch
}

func (c *Cache) end(key string, seq, epoch uint64, val interface{}, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil || epoch != c.epoch {
		return
	}
	// a result overtaken by a later fetch is dropped
	if e, ok := c.entries[key]; ok && e.seq > seq {
		return
	}
	c.entries[key] = &entry{
		value:     val,
		fetchedAt: c.now(),
		seq:       seq,
		stale:     c.seqs[key] != seq,
	}
}

func flightKey(key string, seq, epoch uint64) string {
	return fmt.Sprintf("%s#%d.%d", key, epoch, seq)
}

func matchAny(key string, prefixes []string) bool {
	for _, p := range prefixes {
		if key == p || strings.HasPrefix(key, p+":") {
			return true
		}
	}
	return false
}

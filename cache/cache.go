package cache

import (
	"sync"

	"github.com/IvanBrykalov/lrucache/internal/util"
	"github.com/sirupsen/logrus"
)

// maxPrealloc caps the arena allocated up front; larger caches grow on demand.
const maxPrealloc = 1 << 16

// Cache is a fixed-capacity LRU cache from int keys to values of type V.
// All methods are safe for concurrent use by multiple goroutines.
//
// The key index maps each key to a slot in an arena-backed recency list
// (head=LRU, tail=MRU). A single mutex guards both structures, so every
// operation is linearizable.
type Cache[V any] struct {
	// ---- guarded by mu ----
	mu    sync.Mutex
	index map[int]int // key -> slot in seq
	seq   recency[V]

	capacity int
	opt      Options[V]
	log      *logrus.Entry

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedAtomicUint64
	misses util.PaddedAtomicUint64
	evicts util.PaddedAtomicUint64
}

// New constructs a cache holding at most capacity entries with default Options.
// It returns ErrInvalidConfiguration if capacity < 1.
func New[V any](capacity int) (*Cache[V], error) {
	return NewWithOptions(Options[V]{Capacity: capacity})
}

// NewWithOptions constructs a cache from opt.
// Defaults:
//   - nil Metrics -> NoopMetrics
//   - nil Logger  -> logrus.StandardLogger()
func NewWithOptions[V any](opt Options[V]) (*Cache[V], error) {
	opt, err := opt.withDefaults()
	if err != nil {
		return nil, err
	}
	return newCache(opt, opt.Logger.WithField("capacity", opt.Capacity)), nil
}

// newCache builds a cache from validated options. log carries the fields
// attached to every line this instance emits.
func newCache[V any](opt Options[V], log *logrus.Entry) *Cache[V] {
	c := &Cache[V]{
		index:    make(map[int]int, min(opt.Capacity, maxPrealloc)),
		capacity: opt.Capacity,
		opt:      opt,
		log:      log,
	}
	c.seq.init(min(opt.Capacity, maxPrealloc))

	if opt.Logger.IsLevelEnabled(logrus.DebugLevel) {
		c.log.Debug("lru cache created")
	}
	return c
}

// Get returns the value for key and a presence flag.
// On hit, the entry is promoted to most recently used.
func (c *Cache[V]) Get(key int) (V, bool) {
	v, ok := c.get(key)
	if ok {
		c.hits.Add(1)
		c.opt.Metrics.Hit()
	} else {
		c.misses.Add(1)
		c.opt.Metrics.Miss()
	}
	return v, ok
}

// Add inserts or replaces key→v and promotes it to most recently used.
// If a new key overflows capacity, the least recently used entry is evicted
// and its key is returned with ok == true. Replacing a resident key never
// evicts.
func (c *Cache[V]) Add(key int, v V) (evicted int, ok bool) {
	evKey, evVal, ok := c.add(key, v)
	if ok {
		c.evicts.Add(1)
		c.opt.Metrics.Evict()
		if c.opt.Logger.IsLevelEnabled(logrus.DebugLevel) {
			c.log.WithField("key", evKey).Debug("evicted least recently used entry")
		}
		if cb := c.opt.OnEvict; cb != nil {
			cb(evKey, evVal)
		}
	}
	return evKey, ok
}

// Peek returns the value for key without changing its recency.
func (c *Cache[V]) Peek(key int) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.index[key]; ok {
		return c.seq.slots[i].val, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is resident without changing its recency.
func (c *Cache[V]) Contains(key int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.index[key]
	return ok
}

// Len returns the number of resident entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq.len()
}

// Cap returns the configured capacity.
func (c *Cache[V]) Cap() int { return c.capacity }

// Keys returns a snapshot of resident keys from least to most recently used,
// i.e. in the order they would be evicted.
func (c *Cache[V]) Keys() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq.keys(make([]int, 0, c.seq.len()))
}

// Stats returns a snapshot of hit/miss/eviction counters and occupancy.
func (c *Cache[V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evicts.Load(),
		Len:       c.Len(),
		Capacity:  c.capacity,
	}
}

// -------------------- internals --------------------

func (c *Cache[V]) get(key int) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.seq.moveToBack(i)
	return c.seq.slots[i].val, true
}

// add performs the structural update under the lock and reports the evicted
// entry, if any. Size is reported before unlocking so the gauge sees lengths
// in the order the updates happened; the remaining callbacks run in the caller.
func (c *Cache[V]) add(key int, v V) (evKey int, evVal V, evicted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.index[key]; ok {
		c.seq.slots[i].val = v
		c.seq.moveToBack(i)
		c.opt.Metrics.Size(c.seq.len())
		return 0, evVal, false
	}

	// Full: reclaim the LRU slot before linking the newcomer, so the arena
	// never holds more than capacity entries.
	if c.seq.len() >= c.capacity {
		evKey, evVal = c.seq.remove(c.seq.front())
		delete(c.index, evKey)
		evicted = true
	}
	c.index[key] = c.seq.pushBack(key, v)
	c.opt.Metrics.Size(c.seq.len())
	return evKey, evVal, evicted
}

package cache

import (
	"sync"

	"github.com/IvanBrykalov/lrucache/internal/util"
	"github.com/sirupsen/logrus"
)

// Sharded partitions keys across independent Cache instances, each with its
// own lock, to reduce contention. Eviction is strict LRU within a shard only:
// the evicted key is the least recently used key of the shard the new key
// hashes to, not necessarily of the whole cache.
type Sharded[V any] struct {
	shards   []*Cache[V]
	capacity int
}

// NewSharded constructs a partitioned cache whose total capacity is exactly
// opt.Capacity. It returns ErrInvalidConfiguration if opt.Capacity < 1.
//
// Shard count: opt.Shards <= 0 selects util.ReasonableShardCount(); other
// values are rounded up to a power of two. The count is then halved until it
// does not exceed Capacity, so every shard holds at least one entry.
func NewSharded[V any](opt Options[V]) (*Sharded[V], error) {
	opt, err := opt.withDefaults()
	if err != nil {
		return nil, err
	}

	sh := opt.Shards
	if sh <= 0 {
		sh = util.ReasonableShardCount()
	} else {
		sh = int(util.NextPow2(uint64(sh)))
	}
	for sh > 1 && sh > opt.Capacity {
		sh >>= 1
	}

	agg := &shardedSize{parent: opt.Metrics}
	s := &Sharded[V]{
		shards:   make([]*Cache[V], sh),
		capacity: opt.Capacity,
	}
	base, extra := opt.Capacity/sh, opt.Capacity%sh
	for i := range s.shards {
		so := opt
		so.Capacity = base
		if i < extra {
			so.Capacity++
		}
		so.Metrics = &shardMetrics{agg: agg}
		s.shards[i] = newCache(so, opt.Logger.WithFields(logrus.Fields{
			"capacity": so.Capacity,
			"shard":    i,
		}))
	}

	if opt.Logger.IsLevelEnabled(logrus.DebugLevel) {
		opt.Logger.WithFields(logrus.Fields{
			"capacity": opt.Capacity,
			"shards":   sh,
		}).Debug("sharded lru cache created")
	}
	return s, nil
}

// Get returns the value for key, promoting it within its shard.
func (s *Sharded[V]) Get(key int) (V, bool) { return s.shard(key).Get(key) }

// Add inserts or replaces key→v; see Cache.Add. The evicted key, if any,
// belongs to the same shard as key.
func (s *Sharded[V]) Add(key int, v V) (int, bool) { return s.shard(key).Add(key, v) }

// Peek returns the value for key without changing its recency.
func (s *Sharded[V]) Peek(key int) (V, bool) { return s.shard(key).Peek(key) }

// Contains reports whether key is resident.
func (s *Sharded[V]) Contains(key int) bool { return s.shard(key).Contains(key) }

// Len returns the total number of resident entries across all shards.
// Shards are visited one at a time, so the sum is not an atomic snapshot.
func (s *Sharded[V]) Len() int {
	total := 0
	for _, c := range s.shards {
		total += c.Len()
	}
	return total
}

// Cap returns the total configured capacity.
func (s *Sharded[V]) Cap() int { return s.capacity }

// Shards returns the number of partitions.
func (s *Sharded[V]) Shards() int { return len(s.shards) }

// Stats sums per-shard stats.
func (s *Sharded[V]) Stats() Stats {
	var st Stats
	for _, c := range s.shards {
		cs := c.Stats()
		st.Hits += cs.Hits
		st.Misses += cs.Misses
		st.Evictions += cs.Evictions
		st.Len += cs.Len
	}
	st.Capacity = s.capacity
	return st
}

// shard picks a shard by hashing the key and masking with len-1.
// len(s.shards) is guaranteed to be a power of two.
func (s *Sharded[V]) shard(key int) *Cache[V] {
	return s.shards[util.ShardIndex(util.HashKey(key), len(s.shards))]
}

// -------------------- metrics fan-in --------------------

// shardedSize turns per-shard Size reports into a cache-wide total.
// mu orders parent.Size calls so the last report carries the latest total.
type shardedSize struct {
	mu     sync.Mutex
	parent Metrics
	total  int
}

// shardMetrics forwards to the parent Metrics, translating Size into deltas
// against the last value this shard reported. Size arrives under the shard
// lock, so last needs no synchronization of its own.
type shardMetrics struct {
	agg  *shardedSize
	last int
}

func (m *shardMetrics) Hit()   { m.agg.parent.Hit() }
func (m *shardMetrics) Miss()  { m.agg.parent.Miss() }
func (m *shardMetrics) Evict() { m.agg.parent.Evict() }
func (m *shardMetrics) Size(n int) {
	delta := n - m.last
	m.last = n

	m.agg.mu.Lock()
	defer m.agg.mu.Unlock()
	m.agg.total += delta
	m.agg.parent.Size(m.agg.total)
}

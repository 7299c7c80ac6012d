// Package cache provides a fixed-capacity, concurrency-safe LRU cache from
// int keys to values of any type.
//
// Design
//
//   - Storage: a map[int]int key index points into an arena of slots. The
//     slots form a doubly linked recency list addressed by integer indices
//     (head=LRU, tail=MRU). Evicted slots go on a free list and are reused,
//     so the arena never holds more than Capacity entries.
//
//   - Concurrency: one mutex per Cache guards the index and the list
//     together. Get mutates recency, so it takes the same lock as Add.
//     Every operation is linearizable.
//
//   - Eviction: Add of a new key into a full cache removes the head of the
//     recency list (the global least recently used entry) and returns its
//     key. Replacing a resident key never evicts.
//
//   - Callbacks: Options.OnEvict, the Hit/Miss/Evict metrics hooks, and debug
//     logging run after the lock is released, so they may call back into the
//     cache. Metrics.Size runs under the lock to keep gauge updates ordered.
//
//   - Sharding: NewSharded splits Capacity across independent Cache
//     instances selected by key hash. LRU order is then per shard.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     By default NoopMetrics is used; see package metrics/prom.
//
// Basic usage
//
//	c, err := cache.New[string](1024)
//	if err != nil {
//	    return err // ErrInvalidConfiguration
//	}
//	if evicted, ok := c.Add(1, "a"); ok {
//	    _ = evicted // key pushed out to make room
//	}
//	if v, ok := c.Get(1); ok {
//	    _ = v
//	}
//
// With options
//
//	c, err := cache.NewWithOptions(cache.Options[[]byte]{
//	    Capacity: 10_000,
//	    Metrics:  prom.New(nil, "app", "lru", nil),
//	    OnEvict:  func(k int, v []byte) { pool.Put(v) },
//	})
//
// Instances are plain values: share one by passing the *Cache (or the Store
// interface) to whoever needs it. There is no process-wide registry.
package cache

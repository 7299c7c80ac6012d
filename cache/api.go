package cache

// Store is the surface shared by Cache and Sharded.
// All methods are safe for concurrent use by multiple goroutines.
//
// Get and Add run in O(1) amortized time: a map lookup plus a constant
// number of index fixes in the recency arena, under one lock.
type Store[V any] interface {
	// Get returns the value for key and marks it most recently used.
	// A miss returns the zero value and false and changes nothing.
	Get(key int) (V, bool)

	// Add inserts or replaces key→v and marks it most recently used.
	// When inserting a new key into a full cache, the least recently used
	// entry is evicted and its key is returned with ok == true.
	Add(key int, v V) (evicted int, ok bool)

	// Peek returns the value for key without touching recency.
	Peek(key int) (V, bool)

	// Contains reports whether key is resident without touching recency.
	Contains(key int) bool

	// Len returns the number of resident entries.
	Len() int

	// Cap returns the configured capacity.
	Cap() int

	// Stats returns a snapshot of counters and occupancy.
	Stats() Stats
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
	Capacity  int
}

var (
	_ Store[int] = (*Cache[int])(nil)
	_ Store[int] = (*Sharded[int])(nil)
)

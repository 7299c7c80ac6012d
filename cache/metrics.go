package cache

// Metrics receives cache observability signals.
//
// Hit, Miss and Evict are counter increments and are called after the cache
// lock is released. Size reports the resident entry count and is called with
// the lock held, so successive calls arrive in the order the cache changed.
// Implementations must not call back into the cache from Size.
type Metrics interface {
	Hit()
	Miss()
	Evict()
	Size(entries int)
}

// NoopMetrics discards every signal. It is the default when Options.Metrics
// is nil.
type NoopMetrics struct{}

var _ Metrics = NoopMetrics{}

func (NoopMetrics) Hit()     {}
func (NoopMetrics) Miss()    {}
func (NoopMetrics) Evict()   {}
func (NoopMetrics) Size(int) {}

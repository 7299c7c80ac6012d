package cache

import "github.com/sirupsen/logrus"

// Options configures the cache behavior. Zero values are safe;
// defaults are applied in NewWithOptions() / NewSharded():
//   - nil Metrics  => NoopMetrics
//   - nil Logger   => logrus.StandardLogger()
//   - Shards <= 0  => auto (NewSharded only)
type Options[V any] struct {
	// Capacity is the maximum number of resident entries. Must be >= 1.
	Capacity int

	// Shards is the partition count used by NewSharded. It is rounded up to
	// a power of two and never exceeds Capacity. Ignored by NewWithOptions.
	Shards int

	// OnEvict is called for every capacity eviction, outside the cache lock.
	// It may call back into the cache.
	OnEvict func(key int, v V)

	// Observability
	Metrics Metrics
	Logger  *logrus.Logger
}

// withDefaults validates opt and fills in defaults.
func (opt Options[V]) withDefaults() (Options[V], error) {
	if opt.Capacity < 1 {
		return opt, invalidCapacity(opt.Capacity)
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Logger == nil {
		opt.Logger = logrus.StandardLogger()
	}
	return opt, nil
}

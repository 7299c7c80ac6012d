package prom

import (
	"testing"

	"github.com/IvanBrykalov/lrucache/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestAdapter_TracksCacheTraffic(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg, "lru", "test", prometheus.Labels{"app": "unit"})

	c, err := cache.NewWithOptions(cache.Options[string]{Capacity: 2, Metrics: m})
	require.NoError(t, err)

	c.Add(1, "a")
	c.Add(2, "b")
	c.Get(1)      // hit
	c.Get(42)     // miss
	c.Add(3, "c") // evicts 2

	require.Equal(t, 1.0, testutil.ToFloat64(m.hits))
	require.Equal(t, 1.0, testutil.ToFloat64(m.misses))
	require.Equal(t, 1.0, testutil.ToFloat64(m.evicts))
	require.Equal(t, 2.0, testutil.ToFloat64(m.entries))

	n, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestAdapter_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	New(reg, "lru", "dup", nil)
	require.Panics(t, func() { New(reg, "lru", "dup", nil) })
}

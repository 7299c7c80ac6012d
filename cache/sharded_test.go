package cache

import (
	"testing"

	"github.com/IvanBrykalov/lrucache/internal/util"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestSharded_ShardCountAndCapacitySplit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		capacity, shards int
		wantShards       int
	}{
		{capacity: 100, shards: 4, wantShards: 4},
		// rounded up to a power of two
		{capacity: 100, shards: 5, wantShards: 8},
		// halved until it fits capacity
		{capacity: 3, shards: 16, wantShards: 2},
		{capacity: 1, shards: 64, wantShards: 1},
		// uneven split
		{capacity: 1001, shards: 16, wantShards: 16},
	}
	for _, tc := range cases {
		s, err := NewSharded(Options[int]{Capacity: tc.capacity, Shards: tc.shards})
		require.NoError(t, err)
		require.Equal(t, tc.wantShards, s.Shards())
		require.Equal(t, tc.capacity, s.Cap())

		total := 0
		for _, c := range s.shards {
			require.GreaterOrEqual(t, c.Cap(), 1)
			total += c.Cap()
		}
		require.Equal(t, tc.capacity, total, "per-shard capacities must sum to Capacity")
	}
}

func TestSharded_AutoShards(t *testing.T) {
	t.Parallel()

	s, err := NewSharded(Options[string]{Capacity: 1 << 20})
	require.NoError(t, err)
	require.Equal(t, util.ReasonableShardCount(), s.Shards())
}

func TestSharded_BasicAddGet(t *testing.T) {
	t.Parallel()

	s, err := NewSharded(Options[string]{Capacity: 64, Shards: 4})
	require.NoError(t, err)

	_, ok := s.Add(1, "X")
	require.False(t, ok)
	v, ok := s.Get(1)
	require.True(t, ok)
	require.Equal(t, "X", v)

	_, ok = s.Get(2)
	require.False(t, ok)

	s.Add(1, "Y")
	v, ok = s.Peek(1)
	require.True(t, ok)
	require.Equal(t, "Y", v)
	require.True(t, s.Contains(1))
	require.Equal(t, 1, s.Len())
}

// Eviction is LRU within the shard a key hashes to.
func TestSharded_EvictsWithinShard(t *testing.T) {
	t.Parallel()

	s, err := NewSharded(Options[int]{Capacity: 8, Shards: 4, Logger: quietLogger()})
	require.NoError(t, err)

	// Collect keys that land in shard 0 (capacity 2).
	var same []int
	for k := 0; len(same) < 3; k++ {
		if util.ShardIndex(util.HashKey(k), s.Shards()) == 0 {
			same = append(same, k)
		}
	}

	s.Add(same[0], 0)
	s.Add(same[1], 1)
	s.Get(same[0]) // promote

	key, ok := s.Add(same[2], 2)
	require.True(t, ok)
	require.Equal(t, same[1], key)
	require.True(t, s.Contains(same[0]))
}

func TestSharded_ConcurrentCapacityAndMetrics(t *testing.T) {
	t.Parallel()

	m := &countingMetrics{}
	s, err := NewSharded(Options[int]{Capacity: 256, Shards: 8, Metrics: m})
	require.NoError(t, err)

	var g errgroup.Group
	for w := 0; w < 8; w++ {
		w := w
		g.Go(func() error {
			for i := 0; i < 1000; i++ {
				k := w*1000 + i
				s.Add(k, k)
				s.Get(k)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.Equal(t, 256, s.Len())
	for _, c := range s.shards {
		checkInvariants(t, c)
	}

	st := s.Stats()
	require.Equal(t, 256, st.Capacity)
	require.Equal(t, 256, st.Len)
	require.EqualValues(t, 8000-256, st.Evictions)
	require.EqualValues(t, st.Evictions, m.evicts.Load())
	require.EqualValues(t, st.Hits, m.hits.Load())
	require.EqualValues(t, 256, m.size.Load(), "aggregate Size must equal resident total once writers stop")
}

// Size reports from different shards reach the parent in order, so the
// aggregate gauge ends at the resident total.
func TestSharded_SizeReportsStayOrdered(t *testing.T) {
	t.Parallel()

	m := newGatedMetrics()
	s, err := NewSharded(Options[int]{Capacity: 8, Shards: 2, Metrics: m, Logger: quietLogger()})
	require.NoError(t, err)

	a, b := -1, -1
	for k := 0; a < 0 || b < 0; k++ {
		switch util.ShardIndex(util.HashKey(k), s.Shards()) {
		case 0:
			if a < 0 {
				a = k
			}
		case 1:
			if b < 0 {
				b = k
			}
		}
	}

	var g errgroup.Group
	g.Go(func() error { s.Add(a, a); return nil })
	<-m.entered

	g.Go(func() error { s.Add(b, b); return nil })
	close(m.release)
	require.NoError(t, g.Wait())

	require.Equal(t, 2, s.Len())
	require.EqualValues(t, s.Len(), m.size.Load())
}

func TestSharded_CreationLogsCarryShard(t *testing.T) {
	t.Parallel()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	s, err := NewSharded(Options[int]{Capacity: 10, Shards: 4, Logger: logger})
	require.NoError(t, err)

	var perShard int
	for _, e := range hook.AllEntries() {
		if e.Message != "lru cache created" {
			continue
		}
		perShard++
		require.Contains(t, e.Data, "shard")
		require.Contains(t, e.Data, "capacity")
	}
	require.Equal(t, s.Shards(), perShard)
	require.Equal(t, "sharded lru cache created", hook.LastEntry().Message)
}

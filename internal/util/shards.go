package util

import "runtime"

// maxShards bounds the automatic shard count.
const maxShards = 256

// ReasonableShardCount picks a default partition count for a sharded cache:
// nextPow2(2*GOMAXPROCS), clamped to [1..maxShards].
func ReasonableShardCount() int {
	p := runtime.GOMAXPROCS(0)
	if p < 1 {
		p = 1
	}
	return int(min(NextPow2(uint64(2*p)), maxShards))
}

// ShardIndex maps a 64-bit hash to a shard index.
// Power-of-two shard counts take the mask path; other counts fall back to
// modulo, so the result is always in [0, shards).
func ShardIndex(hash uint64, shards int) int {
	if shards <= 1 {
		return 0
	}
	if IsPowerOfTwo(uint64(shards)) {
		return int(hash & uint64(shards-1))
	}
	return int(hash % uint64(shards))
}

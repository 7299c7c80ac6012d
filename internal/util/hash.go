// Package util contains internal helpers (hashing, sharding, padding).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// HashKey hashes an int key with xxhash64 over its 8 little-endian bytes.
// Sequential keys spread evenly, so the low bits are safe to mask for
// shard selection.
func HashKey(k int) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(k))
	return xxhash.Sum64(b[:])
}

package util

import (
	"sync/atomic"
	"unsafe"
)

// CacheLineSize is a reasonable default for most modern CPUs.
// std has runtime/internal/sys.CacheLineSize but it's unexported.
const CacheLineSize = 64

// CacheLinePad separates hot fields into distinct cache lines to reduce
// false sharing. Place it between a lock-guarded block and atomic counters.
type CacheLinePad struct{ _ [CacheLineSize]byte }

// PaddedAtomicUint64 is an atomic uint64 padded to exactly one cache line,
// so counters bumped from many goroutines do not contend on one line.
type PaddedAtomicUint64 struct {
	atomic.Uint64
	_ [CacheLineSize - 8]byte // 8 = size of uint64
}

// Compile-time size check (must be exactly one cache line).
var _ [CacheLineSize - int(unsafe.Sizeof(PaddedAtomicUint64{}))]byte

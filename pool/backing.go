// File: pool/backing.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Backing-store selection: a pure function of capacity and platform
// capability. Anonymous OS mapping is preferred for large pools (the cost of
// the mapping syscall amortizes over many requests); small pools use the Go
// heap, where allocation is effectively free and mapping would waste a full
// page.

package pool

// mapThreshold is the default mmap-vs-heap crossover point.
const mapThreshold = 32 * 1024

// mmapAnonymous and munmapAnonymous are provided per-platform in
// backing_unix.go, backing_windows.go, and backing_other.go.

// acquireBacking chooses the backing store for a capacity already rounded to
// Alignment. forceHeap bypasses the mapping attempt regardless of size (used
// by tests to exercise both backing stores deterministically). A Go heap
// allocation (make) cannot itself report failure short of a runtime panic on
// true exhaustion — acquireBacking therefore only returns ok=false when
// capacity is non-zero and somehow neither path produced a buffer, which in
// practice is unreachable but kept so the three-outcome creation-failure
// contract still has somewhere to report through.
func acquireBacking(capacity, threshold int, forceHeap bool) (buf []byte, mapped bool, ok bool) {
	if capacity == 0 {
		return []byte{}, false, true
	}
	if !forceHeap && threshold > 0 && capacity > threshold {
		if b, mok := mmapAnonymous(capacity); mok {
			return b, true, true
		}
	}
	buf = make([]byte, capacity)
	return buf, false, true
}

// releaseBacking releases buf via the path recorded by mapped.
func releaseBacking(buf []byte, mapped bool) {
	if mapped {
		munmapAnonymous(buf)
	}
	// Heap-backed buffers are released by the garbage collector once the
	// pool no longer references them.
}

// File: pool/align.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Alignment policy: pure arithmetic, no allocator state.

package pool

import "unsafe"

// Alignment is the platform alignment quantum: twice the natural pointer
// width (16 bytes on a typical 64-bit target).
const Alignment = 2 * unsafe.Sizeof(uintptr(0))

// round rounds n up to the next multiple of Alignment. round(0) is 0. If
// rounding would overflow the size domain, round returns 0 while n != 0,
// signalling failure to the caller.
func round(n int) int {
	if n <= 0 {
		return 0
	}
	a := int(Alignment)
	sum := n + (a - 1)
	if sum < n {
		return 0 // overflow
	}
	return sum - sum%a
}

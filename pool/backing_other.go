//go:build !unix && !windows

// File: pool/backing_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platforms with no known anonymous-mapping facility always fall back to
// the heap path in acquireBacking.

package pool

func mmapAnonymous(size int) ([]byte, bool) { return nil, false }

func munmapAnonymous(buf []byte) {}

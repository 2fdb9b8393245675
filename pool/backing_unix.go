//go:build unix

// File: pool/backing_unix.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Anonymous read/write private mapping on unix-family platforms.

package pool

import "golang.org/x/sys/unix"

func mmapAnonymous(size int) ([]byte, bool) {
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, false
	}
	return buf, true
}

func munmapAnonymous(buf []byte) {
	if len(buf) == 0 {
		return
	}
	_ = unix.Munmap(buf)
}

//go:build windows

// File: pool/backing_windows.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Anonymous mapping on Windows via VirtualAlloc/VirtualFree.

package pool

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func mmapAnonymous(size int) ([]byte, bool) {
	addr, err := windows.VirtualAlloc(0, uintptr(size), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil || addr == 0 {
		return nil, false
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(addr)), size), true
}

func munmapAnonymous(buf []byte) {
	if len(buf) == 0 {
		return
	}
	_ = windows.VirtualFree(uintptr(unsafe.Pointer(&buf[0])), 0, windows.MEM_RELEASE)
}

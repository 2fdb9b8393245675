// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines the public contract of the bidirectional bump-allocated scratch
// pool: a borrowed byte-range type and the interface consumer code depends
// on instead of a concrete pool implementation.

package api

// Block is a byte range aliasing into a ScratchPool's buffer. Its lifetime
// is bounded by the pool's current epoch: it is only valid until the next
// Reset or Destroy call on the pool that produced it, unless that call was
// explicitly asked to preserve it.
type Block []byte

// ScratchPool is the minimal public contract of the bidirectional
// bump-allocated scratch pool. Consumer code (HTTP handlers, authentication
// helpers, response builders) depends only on this interface, never on a
// concrete pool implementation.
type ScratchPool interface {
	// Allocate claims asize = round(size) bytes from the free region
	// [head, tail). fromEnd selects the tail end (persistent) over the
	// head end (growable scratch). Returns ok=false without mutating the
	// pool on failure.
	Allocate(size int, fromEnd bool) (blk Block, ok bool)

	// Reallocate grows or shrinks a head-end block in place when it is the
	// most recently allocated one, or relocates it otherwise. old must
	// have been produced by a prior head-end Allocate or Reallocate on
	// this pool.
	Reallocate(old Block, oldSize, newSize int) (blk Block, ok bool)

	// FreeBytes returns the number of bytes currently available between
	// the head and tail cursors.
	FreeBytes() int

	// Reset discards every head-end and tail-end allocation, optionally
	// relocating keep to the start of the buffer and preserving its first
	// copyBytes bytes. Returns the (possibly relocated) keep block.
	Reset(keep Block, copyBytes, newSize int) Block

	// Destroy releases the pool's backing store. The pool must not be used
	// afterwards.
	Destroy()
}

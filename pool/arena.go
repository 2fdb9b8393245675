// File: pool/arena.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Arena operations: Create, Allocate, Reallocate, FreeBytes, Reset, Destroy.
// All operations report failure by returning a sentinel "no block" result;
// none of them abort or unwind, and on failure the pool is left exactly as
// it was before the call. The pool never logs and never partially mutates
// state on failure.

package pool

import (
	"unsafe"

	"github.com/reqscratch/bumppool/api"
)

type state int

const (
	stateUninitialized state = iota
	stateActive
	stateDestroyed
)

// Pool is a fixed-capacity, single-threaded region allocator serving a
// growable head-end scratch stream and an append-only tail-end persistent
// stream from opposite ends of one contiguous buffer.
type Pool struct {
	buf      []byte
	capacity int
	head     int
	tail     int
	mapped   bool
	state    state
	diag     *opLog
}

var _ api.ScratchPool = (*Pool)(nil)

// Config customizes pool creation.
type Config struct {
	// Capacity is the requested maximum pool size; rounded up to Alignment.
	Capacity int
	// MapThreshold overrides the mmap-vs-heap crossover point. Zero means
	// the package default of 32 KiB.
	MapThreshold int
	// ForceHeap bypasses the mapping attempt regardless of size; used by
	// tests to exercise both backing stores deterministically on every
	// platform.
	ForceHeap bool
	// DiagCapacity bounds the number of recent operations retained for
	// Stats(). Zero disables the diagnostics ring entirely.
	DiagCapacity int
}

// DefaultConfig returns sensible defaults for a connection scratch pool.
func DefaultConfig() *Config {
	return &Config{
		Capacity:     64 * 1024,
		MapThreshold: mapThreshold,
		DiagCapacity: 32,
	}
}

// Create allocates a new pool with a requested maximum capacity (rounded up
// to Alignment). Returns ok=false if the capacity could not be satisfied.
func Create(cfg *Config) (*Pool, bool) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	capacity := round(cfg.Capacity)
	if capacity == 0 && cfg.Capacity != 0 {
		return nil, false
	}
	threshold := cfg.MapThreshold
	if threshold == 0 {
		threshold = mapThreshold
	}
	buf, mapped, ok := acquireBacking(capacity, threshold, cfg.ForceHeap)
	if !ok {
		return nil, false
	}
	p := &Pool{
		buf:      buf,
		capacity: capacity,
		head:     0,
		tail:     capacity,
		mapped:   mapped,
		state:    stateActive,
	}
	if cfg.DiagCapacity > 0 {
		p.diag = newOpLog(cfg.DiagCapacity)
	}
	return p, true
}

func (p *Pool) assertInvariants() {
	if p.head < 0 || p.head > p.tail || p.tail > p.capacity {
		panic("pool: invariant violated: want 0 <= head <= tail <= capacity")
	}
}

// offsetOf returns b's byte offset within the pool's buffer. b must alias
// into p.buf (including the empty-but-non-nil slice produced by a
// zero-size allocation).
func (p *Pool) offsetOf(b api.Block) int {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(p.buf)))
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData([]byte(b))))
	return int(ptr - base)
}

// Allocate claims round(size) bytes from the free region [head, tail).
// fromEnd selects the tail end (persistent) over the head end (scratch).
func (p *Pool) Allocate(size int, fromEnd bool) (api.Block, bool) {
	p.assertInvariants()

	asize := round(size)
	if asize == 0 && size != 0 {
		p.record("allocate", false)
		return nil, false
	}
	free := p.tail - p.head
	if asize > free {
		p.record("allocate", false)
		return nil, false
	}

	var blk api.Block
	if fromEnd {
		p.tail -= asize
		blk = api.Block(p.buf[p.tail : p.tail+size])
	} else {
		blk = api.Block(p.buf[p.head : p.head+size])
		p.head += asize
	}
	p.record("allocate", true)
	return blk, true
}

// Reallocate grows or shrinks a head-end block. old must have been produced
// by a prior head-end Allocate or Reallocate on this pool, with its current
// logical length given as oldSize. The fast path grows/shrinks in place
// when old is the most recently allocated head-end block; otherwise the
// slow path relocates it, leaking old's space until the next Reset or
// Destroy.
func (p *Pool) Reallocate(old api.Block, oldSize, newSize int) (api.Block, bool) {
	p.assertInvariants()

	a := int(Alignment)
	if newSize+2*a < newSize {
		p.record("reallocate", false)
		return nil, false // new_size too close to the size domain's limit.
	}

	if oldSize != 0 {
		oldOffset := p.offsetOf(old)
		if p.head == round(oldOffset+oldSize) {
			// old is the last head-end block: grow/shrink in place.
			newHead := round(oldOffset + newSize)
			if newHead > p.tail {
				p.record("reallocate", false)
				return nil, false
			}
			p.head = newHead
			if oldSize > newSize {
				clear(p.buf[oldOffset+newSize : oldOffset+oldSize])
			}
			p.record("reallocate", true)
			return api.Block(p.buf[oldOffset : oldOffset+newSize]), true
		}
	}

	// Slow path: allocate a fresh head-end block and relocate.
	asize := round(newSize)
	if asize == 0 && newSize != 0 {
		p.record("reallocate", false)
		return nil, false
	}
	if asize > p.tail-p.head {
		p.record("reallocate", false)
		return nil, false
	}
	newOffset := p.head
	p.head += asize
	if oldSize != 0 {
		copy(p.buf[newOffset:newOffset+oldSize], old[:oldSize])
		clear(old[:oldSize])
	}
	p.record("reallocate", true)
	return api.Block(p.buf[newOffset : newOffset+newSize]), true
}

// FreeBytes returns the number of bytes currently available between the
// head and tail cursors. Never exceeds capacity.
func (p *Pool) FreeBytes() int {
	p.assertInvariants()
	return p.tail - p.head
}

// Reset discards every head-end and tail-end allocation, optionally
// relocating keep to the start of the buffer and preserving its first
// copyBytes bytes. keep must be nil with copyBytes == 0, or alias into the
// pool's buffer with copyBytes bytes available from it. Returns the
// (possibly relocated) keep block, or nil when keep was nil.
func (p *Pool) Reset(keep api.Block, copyBytes, newSize int) api.Block {
	p.assertInvariants()

	if keep != nil {
		copy(p.buf[0:copyBytes], keep[:copyBytes])
	}
	p.tail = p.capacity
	if p.capacity > copyBytes {
		clear(p.buf[copyBytes:p.capacity])
	}

	var result api.Block
	if keep != nil {
		p.head = round(newSize)
		result = api.Block(p.buf[0:newSize])
	} else {
		p.head = 0
	}
	p.record("reset", true)
	return result
}

// Destroy releases the pool's backing store through the path recorded at
// creation and invalidates the handle. A nil pool, or a pool that has
// already been destroyed, is a silent no-op.
func (p *Pool) Destroy() {
	if p == nil || p.state == stateDestroyed {
		return
	}
	p.assertInvariants()
	releaseBacking(p.buf, p.mapped)
	p.buf = nil
	p.state = stateDestroyed
}

func (p *Pool) record(op string, ok bool) {
	if p.diag == nil {
		return
	}
	p.diag.push(opRecord{Op: op, OK: ok, Head: p.head, Tail: p.tail})
}

// Stats returns the pool's current cursors, capacity, and — if diagnostics
// were enabled at creation — its recent operation history.
func (p *Pool) Stats() map[string]any {
	stats := map[string]any{
		"capacity": p.capacity,
		"head":     p.head,
		"tail":     p.tail,
		"free":     p.tail - p.head,
		"mapped":   p.mapped,
	}
	if p.diag != nil {
		stats["recent_ops"] = p.diag.records()
	}
	return stats
}

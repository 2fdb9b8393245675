// Package pool
// Author: momentics <momentics@gmail.com>
//
// Bidirectional bump-allocated memory pool: a fixed-capacity, single-threaded
// region allocator that serves two disjoint allocation streams from opposite
// ends of one contiguous buffer. The head end grows upward and supports
// in-place grow/shrink of the most recently allocated block; the tail end
// grows downward and is append-only, for allocations that are never
// reallocated and stay in place until the next Reset, which discards them
// together with the head end.
//
// A Pool is not reentrant: at most one logical actor may call its methods at
// a time. There is no general free and no per-block metadata — Reset is the
// only way to reclaim space, and it either discards everything or discards
// everything except one block it relocates to offset zero.
//
// See align.go for the alignment policy, backing.go (+ backing_unix.go /
// backing_windows.go) for the mmap-vs-heap backing store decision, arena.go
// for the allocator operations, and diag.go for the operation-history ring
// used by Stats.
package pool

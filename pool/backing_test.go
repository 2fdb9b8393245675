package pool

import "testing"

func TestAcquireBackingHeapForSmall(t *testing.T) {
	buf, mapped, ok := acquireBacking(4096, mapThreshold, false)
	if !ok {
		t.Fatal("acquireBacking failed for small capacity")
	}
	if mapped {
		t.Error("small capacity should use the heap, not mmap")
	}
	if len(buf) != 4096 {
		t.Errorf("len(buf) = %d, want 4096", len(buf))
	}
}

func TestAcquireBackingForceHeapBypassesMapping(t *testing.T) {
	buf, mapped, ok := acquireBacking(1<<20, mapThreshold, true)
	if !ok {
		t.Fatal("acquireBacking failed")
	}
	if mapped {
		t.Error("ForceHeap should bypass mapping regardless of size")
	}
	if len(buf) != 1<<20 {
		t.Errorf("len(buf) = %d, want %d", len(buf), 1<<20)
	}
}

func TestAcquireBackingZeroCapacity(t *testing.T) {
	buf, mapped, ok := acquireBacking(0, mapThreshold, false)
	if !ok || mapped || len(buf) != 0 {
		t.Errorf("acquireBacking(0, ...) = (%v, %v, %v), want (empty, false, true)", buf, mapped, ok)
	}
}

func TestReleaseBackingHeapIsNoop(t *testing.T) {
	buf := make([]byte, 16)
	releaseBacking(buf, false) // must not panic
}

package heap

import "testing"

func TestMallocGivesSameOffsetAcrossArenas(t *testing.T) {
	a := NewAllocator(3, 1<<20)
	defer a.Destroy()

	addr, err := a.Malloc(100)
	if err != nil {
		t.Fatalf("malloc: %v", err)
	}
	for pe := int32(0); pe < 3; pe++ {
		arena := a.Arena(pe)
		if int(addr)+128 > len(arena) {
			t.Fatalf("offset %d out of range for arena of len %d", addr, len(arena))
		}
	}
}

func TestFreeRecyclesSameClass(t *testing.T) {
	a := NewAllocator(1, 1<<16)
	defer a.Destroy()

	first, err := a.Malloc(50)
	if err != nil {
		t.Fatalf("malloc: %v", err)
	}
	a.Free(first, 50)

	second, err := a.Malloc(50)
	if err != nil {
		t.Fatalf("malloc: %v", err)
	}
	if first != second {
		t.Fatalf("expected freed offset to be recycled: first=%d second=%d", first, second)
	}
}

func TestMallocRejectsOversizeRequest(t *testing.T) {
	a := NewAllocator(1, 1<<16)
	defer a.Destroy()
	if _, err := a.Malloc(10 << 20); err == nil {
		t.Fatalf("expected error for oversized allocation")
	}
}

func TestCallocMultipliesSize(t *testing.T) {
	a := NewAllocator(1, 1<<16)
	defer a.Destroy()
	addr, err := a.Calloc(4, 16)
	if err != nil {
		t.Fatalf("calloc: %v", err)
	}
	if int(addr) < 0 {
		t.Fatalf("bad addr")
	}
}

package loopback

import (
	"testing"

	"github.com/momentics/gshmem/global"
	"github.com/momentics/gshmem/heap"
)

func TestTeamLifecycle(t *testing.T) {
	info := global.New(0, 4, 0, 1<<16)
	alloc := heap.NewAllocator(4, 1<<16)
	defer alloc.Destroy()

	p := New(info, alloc)
	id, err := p.TeamPredefinedSet("world")
	if err != nil {
		t.Fatalf("team predefined set: %v", err)
	}
	if err := p.TeamSync(id); err != nil {
		t.Fatalf("team sync: %v", err)
	}

	child, err := p.TeamSplitStrided(id, 0, 2, 2)
	if err != nil {
		t.Fatalf("split strided: %v", err)
	}
	if err := p.TeamDestroy(child); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if err := p.TeamSync(child); err == nil {
		t.Fatalf("sync should fail on destroyed team")
	}
}

func TestMallocDelegatesToAllocator(t *testing.T) {
	info := global.New(0, 2, 0, 1<<16)
	alloc := heap.NewAllocator(2, 1<<16)
	defer alloc.Destroy()

	p := New(info, alloc)
	addr, err := p.Malloc(64)
	if err != nil {
		t.Fatalf("malloc: %v", err)
	}
	if int(addr) < 0 {
		t.Fatalf("bad addr")
	}
}

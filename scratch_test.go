package ecs

import "testing"

func TestScratchArrayReusesBufferAfterReset(t *testing.T) {
	s := NewScratchAllocator(1024)

	a := ScratchArray[int64](s, 4)
	if len(a) != 4 {
		t.Fatalf("len = %d, want 4", len(a))
	}
	used := s.Used()
	if used == 0 {
		t.Fatal("allocation should consume arena space")
	}

	s.Reset()
	if s.Used() != 0 {
		t.Fatalf("Used after Reset = %d, want 0", s.Used())
	}

	b := ScratchArray[int64](s, 4)
	if &a[0] != &b[0] {
		t.Fatal("an allocation after Reset should reuse the arena from the start")
	}
}

func TestScratchArrayIsZeroed(t *testing.T) {
	s := NewScratchAllocator(256)
	a := ScratchArray[uint32](s, 8)
	for i := range a {
		a[i] = 0xDEADBEEF
	}
	s.Reset()
	b := ScratchArray[uint32](s, 8)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("slot %d = %#x, want 0 (scratch arrays are zeroed)", i, v)
		}
	}
}

func TestScratchOverflowSpillsWithoutCorruption(t *testing.T) {
	s := NewScratchAllocator(64)
	small := ScratchArray[byte](s, 32)
	big := ScratchArray[byte](s, 4096) // doesn't fit the arena
	if len(big) != 4096 {
		t.Fatalf("len = %d, want 4096", len(big))
	}
	small[0] = 1
	big[0] = 2
	if small[0] != 1 || big[0] != 2 {
		t.Fatal("spilled allocation aliased the arena buffer")
	}
}

// Update resets the World's scratch arena between systems, so each
// system sees an empty arena regardless of what ran before it.
func TestUpdateResetsScratchBetweenSystems(t *testing.T) {
	w := NewWorld(WorldOptions{ScratchSize: 1024})

	var observed []int
	Register(w, &scratchSystem{observed: &observed})
	Register(w, &scratchSystem{observed: &observed})

	w.Update(0.016)
	w.Update(0.016)

	for i, used := range observed {
		if used != 0 {
			t.Fatalf("system run %d started with %d bytes already used, want 0", i, used)
		}
	}
	if w.Scratch().Used() != 0 {
		t.Fatalf("scratch should be reset by the end of Update, has %d bytes", w.Scratch().Used())
	}
}

type scratchSystem struct {
	BaseSystem
	observed *[]int
}

func (s *scratchSystem) OnUpdate(state *SystemState) {
	*s.observed = append(*s.observed, state.Temp.Used())
	ScratchArray[int64](state.Temp, 16)
}

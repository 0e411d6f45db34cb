package ecs

import "testing"

type emPos struct{ X, Y float32 }
type emVel struct{ X, Y float32 }

func TestCreateArchetypeInterns(t *testing.T) {
	w := NewWorld(WorldOptions{})
	idPos := RegisterComponent[emPos](w)
	idVel := RegisterComponent[emVel](w)

	a1 := w.CreateArchetype(idPos, idVel)
	a2 := w.CreateArchetype(idVel, idPos) // order shouldn't matter
	if a1 != a2 {
		t.Fatal("expected archetypes with the same component set (different arg order) to intern to the same instance")
	}
}

func TestCreateEntitiesAssignsDistinctHandles(t *testing.T) {
	w := NewWorld(WorldOptions{})
	idPos := RegisterComponent[emPos](w)
	a := w.CreateArchetype(idPos)

	entities := w.CreateEntities(a, 5)
	if len(entities) != 5 {
		t.Fatalf("got %d entities, want 5", len(entities))
	}
	seen := map[int32]bool{}
	for _, e := range entities {
		if seen[e.Index] {
			t.Fatalf("duplicate entity index %d", e.Index)
		}
		seen[e.Index] = true
		if !w.IsValid(e) {
			t.Fatalf("entity %v should be valid immediately after creation", e)
		}
	}
}

// TestDestroyPreservesVersionAcrossRecycle pins the entity versioning
// semantics: version is never reset to zero on destroy, and only
// increments when the freed index is handed out again.
func TestDestroyPreservesVersionAcrossRecycle(t *testing.T) {
	w := NewWorld(WorldOptions{})
	idPos := RegisterComponent[emPos](w)
	a := w.CreateArchetype(idPos)

	e1 := w.CreateEntity(a)
	if e1.Version != 1 {
		t.Fatalf("first version = %d, want 1", e1.Version)
	}

	w.DestroyEntityImmediate(e1)
	if w.IsValid(e1) {
		t.Fatal("destroyed entity should no longer be valid")
	}

	e2 := w.CreateEntity(a)
	if e2.Index != e1.Index {
		t.Fatalf("expected the freed index to be recycled immediately, got a fresh index %d vs %d", e2.Index, e1.Index)
	}
	if e2.Version != e1.Version+1 {
		t.Fatalf("recycled version = %d, want %d", e2.Version, e1.Version+1)
	}
	if !w.IsValid(e2) {
		t.Fatal("recycled handle should be valid")
	}
	if w.IsValid(e1) {
		t.Fatal("stale handle must not become valid again after recycling")
	}
}

func TestDeferredDestroyRequiresProcessRemovals(t *testing.T) {
	w := NewWorld(WorldOptions{})
	idPos := RegisterComponent[emPos](w)
	a := w.CreateArchetype(idPos)
	e := w.CreateEntity(a)

	w.DestroyEntity(e)
	if !w.IsValid(e) {
		t.Fatal("entity should remain valid until ProcessRemovals runs")
	}
	w.ProcessRemovals()
	if w.IsValid(e) {
		t.Fatal("entity should be invalid after ProcessRemovals")
	}
}

func TestCreateEntitiesSpansMultipleChunks(t *testing.T) {
	w := NewWorld(WorldOptions{})
	idPos := RegisterComponent[emPos](w)
	a := w.CreateArchetype(idPos)

	n := int(a.entityCapacityPerChunk)*2 + 3
	entities := w.CreateEntities(a, n)
	if len(entities) != n {
		t.Fatalf("got %d entities, want %d", len(entities), n)
	}
	if a.ChunkCount() < 3 {
		t.Fatalf("expected at least 3 chunks for %d entities, got %d", n, a.ChunkCount())
	}
	for _, e := range entities {
		if !w.IsValid(e) {
			t.Fatalf("entity %v invalid", e)
		}
	}
}

// TestSingleChunkPlacement pins the free-list discipline: filling an
// archetype's chunk exactly consumes one chunk and empties the free
// list; the next entity allocates a second chunk and puts it on.
func TestSingleChunkPlacement(t *testing.T) {
	w := NewWorld(WorldOptions{})
	idPos := RegisterComponent[emPos](w)
	a := w.CreateArchetype(idPos)

	n := int(a.entityCapacityPerChunk)
	w.CreateEntities(a, n)

	if a.ChunkCount() != 1 {
		t.Fatalf("chunk count = %d, want 1", a.ChunkCount())
	}
	if a.chunksWithEmptySlots.Len() != 0 {
		t.Fatalf("free list should be empty once the chunk fills, has %d", a.chunksWithEmptySlots.Len())
	}
	if a.Size() != int32(n) {
		t.Fatalf("Size = %d, want %d", a.Size(), n)
	}

	w.CreateEntities(a, 1)
	if a.ChunkCount() != 2 {
		t.Fatalf("chunk count after overflow = %d, want 2", a.ChunkCount())
	}
	if a.chunksWithEmptySlots.Len() != 1 {
		t.Fatalf("the overflow chunk should be on the free list, has %d", a.chunksWithEmptySlots.Len())
	}
	second := a.chunksWithEmptySlots.At(0)
	if second.EntityCount() != 1 || second.EntityCapacity() != a.entityCapacityPerChunk {
		t.Fatalf("overflow chunk len/cap = %d/%d, want 1/%d",
			second.EntityCount(), second.EntityCapacity(), a.entityCapacityPerChunk)
	}
}

// Destroying out of a full chunk must put it back on the free list, and
// the next create must reuse that hole before allocating a new chunk.
func TestDestroyReturnsFullChunkToFreeList(t *testing.T) {
	w := NewWorld(WorldOptions{})
	idPos := RegisterComponent[emPos](w)
	a := w.CreateArchetype(idPos)

	entities := w.CreateEntities(a, int(a.entityCapacityPerChunk))
	if a.chunksWithEmptySlots.Len() != 0 {
		t.Fatal("free list should be empty for a full chunk")
	}

	w.DestroyEntityImmediate(entities[3])
	if a.chunksWithEmptySlots.Len() != 1 {
		t.Fatalf("free list should regain the chunk after a destroy, has %d", a.chunksWithEmptySlots.Len())
	}

	w.CreateEntities(a, 1)
	if a.ChunkCount() != 1 {
		t.Fatalf("create after destroy should reuse the hole, not allocate a chunk; chunk count = %d", a.ChunkCount())
	}
	if a.chunksWithEmptySlots.Len() != 0 {
		t.Fatal("free list should empty again once the hole is refilled")
	}
}

// Creating past the reverse map's initial capacity must double it while
// keeping every previously issued handle intact.
func TestReverseMapGrowthPreservesHandles(t *testing.T) {
	w := NewWorld(WorldOptions{InitialEntityCapacity: 8})
	idPos := RegisterComponent[emPos](w)
	a := w.CreateArchetype(idPos)

	entities := w.CreateEntities(a, 20)
	if w.EntityCapacity() < 20 {
		t.Fatalf("capacity = %d, want at least 20", w.EntityCapacity())
	}
	for _, e := range entities {
		if !w.IsValid(e) {
			t.Fatalf("entity %v invalidated by a reverse-map regrow", e)
		}
	}
}

func TestDestroySwapRemoveFixesUpMovedEntity(t *testing.T) {
	w := NewWorld(WorldOptions{})
	idPos := RegisterComponent[emPos](w)
	a := w.CreateArchetype(idPos)
	entities := w.CreateEntities(a, 3)

	w.DestroyEntityImmediate(entities[0])

	if w.IsValid(entities[0]) {
		t.Fatal("destroyed entity should be invalid")
	}
	if !w.IsValid(entities[1]) || !w.IsValid(entities[2]) {
		t.Fatal("surviving entities should remain valid after a swap-remove")
	}
	for _, e := range []Entity{entities[1], entities[2]} {
		if w.Archetype(e) != a {
			t.Fatalf("entity %v lost its archetype after a swap-remove", e)
		}
	}
}

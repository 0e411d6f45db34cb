package ecs

// WorldOptions configures a World at creation time. The zero value is
// a usable default.
type WorldOptions struct {
	// InitialEntityCapacity sizes the entity manager's reverse-map
	// tables up front, to avoid early regrows for worlds that know
	// roughly how many entities they'll hold.
	InitialEntityCapacity int
	// MetaBlockSize overrides the block size backing archetype/query
	// metadata allocations; 0 uses the default.
	MetaBlockSize int
	// ScratchSize overrides the size of the per-frame scratch arena; 0
	// uses the default.
	ScratchSize int
}

// World owns one TypeRegistry, one EntityManager, the chunk
// allocator every archetype in it draws from, and every system and
// query registered against it. Worlds never share state; running two
// Worlds in the same process is the normal way to keep, say, a game
// simulation and its replay/test harness from interfering with each
// other's component IDs.
type World struct {
	registry TypeRegistry

	chunkAllocator ChunkAllocator
	metaAllocator  *BlockAllocator

	entities *EntityManager

	queries    []*EntityQuery
	queryIndex HashIndex[int32]

	systemRegistry []registeredSystem
	systemVersion  uint32
	frame          uint64
	resources      resourceSet
	pendingRemoval []Entity
	scratch        *ScratchAllocator
}

// NewWorld creates a ready-to-use World.
func NewWorld(opts WorldOptions) *World {
	w := &World{
		registry:      newTypeRegistry(),
		metaAllocator: NewBlockAllocator(opts.MetaBlockSize),
		scratch:       NewScratchAllocator(opts.ScratchSize),
	}
	w.entities = newEntityManager(w, opts.InitialEntityCapacity)
	return w
}

// Scratch returns w's per-frame scratch arena. Update resets it
// between systems; see ScratchAllocator for the lifetime rules.
func (w *World) Scratch() *ScratchAllocator {
	return w.scratch
}

// CreateArchetype interns the archetype for the given component
// types, creating it (and linking it to every existing query) if it
// doesn't already exist.
func (w *World) CreateArchetype(ids ...ComponentTypeID) *Archetype {
	return w.entities.CreateArchetype(ids...)
}

// CreateEntities creates count entities in archetype a.
func (w *World) CreateEntities(a *Archetype, count int) []Entity {
	return w.entities.CreateEntities(a, count)
}

// CreateEntity is shorthand for CreateEntities(a, 1)[0].
func (w *World) CreateEntity(a *Archetype) Entity {
	return w.entities.CreateEntities(a, 1)[0]
}

// DefaultArchetype returns the archetype carrying only the built-in
// Entity component, eagerly interned when the World was created. Pass
// it to CreateEntity/CreateEntities for the no-component-arguments
// case spec.md names as a bare `CreateEntity()`, which Go's lack of
// overloading means this package spells as
// `w.CreateEntity(w.DefaultArchetype())` instead.
func (w *World) DefaultArchetype() *Archetype {
	return w.entities.archetypeMap.archetypes[0]
}

// IsValid reports whether e still refers to a live entity.
func (w *World) IsValid(e Entity) bool {
	return w.entities.IsValid(e)
}

// DestroyEntity marks e for removal at the next ProcessRemovals call,
// matching the teacher's deferred-removal discipline: removal mutates
// archetype storage, which must not happen while a job is iterating
// it mid-Update.
func (w *World) DestroyEntity(e Entity) {
	if !w.entities.IsValid(e) {
		return
	}
	w.pendingRemoval = append(w.pendingRemoval, e)
}

// DestroyEntityImmediate destroys e right away, bypassing the
// deferred-removal queue. Only safe to call outside of a running job.
func (w *World) DestroyEntityImmediate(e Entity) {
	w.entities.DestroyEntities([]Entity{e})
}

// ProcessRemovals flushes every entity queued by DestroyEntity.
func (w *World) ProcessRemovals() {
	if len(w.pendingRemoval) == 0 {
		return
	}
	w.entities.DestroyEntities(w.pendingRemoval)
	w.pendingRemoval = w.pendingRemoval[:0]
}

// Archetype returns e's current archetype, or nil if e is stale.
func (w *World) Archetype(e Entity) *Archetype {
	if !w.entities.IsValid(e) {
		return nil
	}
	return w.entities.archetypeByEntity[e.Index]
}

// Archetypes returns every archetype currently interned in w, in
// creation order.
func (w *World) Archetypes() []*Archetype {
	return w.entities.archetypeMap.archetypes
}

// EntityCapacity reports the current size of the entity reverse-map
// tables.
func (w *World) EntityCapacity() int {
	return int(w.entities.capacity)
}

// EntitiesRecycled reports how many entity indices are currently on
// the free list, available for reuse by the next CreateEntities call.
func (w *World) EntitiesRecycled() int {
	n := 0
	for i := w.entities.freeListHead; i != -1; i = w.entities.slotByEntity[i] {
		n++
	}
	return n
}

// EntitiesUsed reports how many entities are currently alive.
func (w *World) EntitiesUsed() int {
	return int(w.entities.nextIndex) - w.EntitiesRecycled()
}

// ComponentTypeInfo exposes w's registered component types, indexed
// by ComponentTypeID.
func (w *World) ComponentTypeInfo() []TypeInfo {
	return w.registry.infos
}

// Destroy tears w down: every system with a pending OnDestroy hook
// runs it (in registration order), then queries, archetypes, the
// entity manager, and the chunk allocator are released, in that
// order — the reverse of construction, matching spec.md §4.10. Go's
// garbage collector reclaims the underlying memory; this just runs
// the observable teardown callbacks and drops w's references so nothing
// keeps chunks or archetypes alive past this call.
func (w *World) Destroy() {
	w.DestroySystems()
	w.queries = nil
	w.queryIndex = HashIndex[int32]{}
	w.entities = nil
	w.chunkAllocator = ChunkAllocator{}
	w.scratch = nil
	w.metaAllocator = nil
	w.registry = TypeRegistry{}
}

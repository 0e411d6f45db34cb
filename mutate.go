package ecs

// addTargetArchetype returns the archetype reached by adding id to a,
// creating and caching the transition the first time it's taken —
// the same transition-graph idea the original's archetype-node
// toAdd/toRemove maps capture, generalized here beyond a single
// fixed-size bitmask.
func addTargetArchetype(w *World, a *Archetype, id ComponentTypeID) *Archetype {
	if a.addTransition == nil {
		a.addTransition = make(map[ComponentTypeID]*Archetype)
	}
	if target, ok := a.addTransition[id]; ok {
		return target
	}
	ids := append(append([]ComponentTypeID(nil), a.types...), id)
	target := w.CreateArchetype(ids...)
	a.addTransition[id] = target
	return target
}

func removeTargetArchetype(w *World, a *Archetype, id ComponentTypeID) *Archetype {
	if a.removeTransition == nil {
		a.removeTransition = make(map[ComponentTypeID]*Archetype)
	}
	if target, ok := a.removeTransition[id]; ok {
		return target
	}
	ids := make([]ComponentTypeID, 0, len(a.types))
	for _, t := range a.types {
		if t != id {
			ids = append(ids, t)
		}
	}
	target := w.CreateArchetype(ids...)
	a.removeTransition[id] = target
	return target
}

// componentPointer returns a pointer to e's column-T value in place,
// or nil if e is stale or its archetype doesn't carry T.
func componentPointer[T any](w *World, e Entity) *T {
	if !w.entities.IsValid(e) {
		return nil
	}
	idx := e.Index
	a := w.entities.archetypeByEntity[idx]
	id, ok := TryComponentTypeIDOf[T](w)
	if !ok {
		return nil
	}
	col := a.columnIndex(id)
	if col < 0 {
		return nil
	}
	chunk := w.entities.chunkByEntity[idx]
	slot := w.entities.slotByEntity[idx]
	full := columnSlice[T](chunk, a, col, a.entityCapacityPerChunk)
	return &full[slot]
}

// GetComponent returns a pointer to e's T value for in-place read or
// write, or nil if e doesn't currently carry T.
func GetComponent[T any](w *World, e Entity) *T {
	return componentPointer[T](w, e)
}

// HasComponent reports whether e currently carries T.
func HasComponent[T any](w *World, e Entity) bool {
	if !w.entities.IsValid(e) {
		return false
	}
	id, ok := TryComponentTypeIDOf[T](w)
	if !ok {
		return false
	}
	a := w.entities.archetypeByEntity[e.Index]
	return a.columnIndex(id) >= 0
}

// AddComponent moves e into the archetype that also carries T,
// leaving T zero-valued, and returns a pointer to it. A no-op
// (returning the existing pointer) if e already carries T.
func AddComponent[T any](w *World, e Entity) *T {
	if !w.entities.IsValid(e) {
		return nil
	}
	id := RegisterComponent[T](w)
	idx := e.Index
	a := w.entities.archetypeByEntity[idx]
	if a.columnIndex(id) >= 0 {
		return componentPointer[T](w, e)
	}
	target := addTargetArchetype(w, a, id)
	w.entities.moveEntity(idx, target)
	return componentPointer[T](w, e)
}

// RemoveComponent moves e into the archetype without T. A no-op if e
// doesn't currently carry T.
func RemoveComponent[T any](w *World, e Entity) {
	if !w.entities.IsValid(e) {
		return
	}
	id, ok := TryComponentTypeIDOf[T](w)
	if !ok {
		return
	}
	idx := e.Index
	a := w.entities.archetypeByEntity[idx]
	if a.columnIndex(id) < 0 {
		return
	}
	target := removeTargetArchetype(w, a, id)
	w.entities.moveEntity(idx, target)
}

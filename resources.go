package ecs

import "reflect"

// resourceSet holds singleton, type-keyed values attached to a World
// — things like a delta-time clock or a shared asset table that
// systems need but that don't belong in any archetype. One instance
// per type; storage reuses freed slots the same way entity indices
// do.
type resourceSet struct {
	items   []any
	types   map[reflect.Type]int
	freeIDs []int
}

func (r *resourceSet) add(res any) int {
	if res == nil {
		panic("ecs: cannot add a nil resource")
	}
	t := reflect.TypeOf(res)
	if r.types == nil {
		r.types = make(map[reflect.Type]int)
	}
	if _, ok := r.types[t]; ok {
		panic("ecs: resource of this type already exists")
	}
	var id int
	if n := len(r.freeIDs); n > 0 {
		id = r.freeIDs[n-1]
		r.freeIDs = r.freeIDs[:n-1]
		r.items[id] = res
	} else {
		r.items = append(r.items, res)
		id = len(r.items) - 1
	}
	r.types[t] = id
	return id
}

func (r *resourceSet) has(id int) bool {
	return id >= 0 && id < len(r.items) && r.items[id] != nil
}

func (r *resourceSet) remove(id int) {
	if !r.has(id) {
		return
	}
	t := reflect.TypeOf(r.items[id])
	delete(r.types, t)
	r.items[id] = nil
	r.freeIDs = append(r.freeIDs, id)
}

// SetResource installs v as the World's singleton of type T, panicking
// if one is already installed.
func SetResource[T any](w *World, v *T) {
	w.resources.add(v)
}

// GetResource returns the World's singleton of type T and true, or
// nil and false if none is installed.
func GetResource[T any](w *World) (*T, bool) {
	t := reflect.TypeOf((*T)(nil))
	id, ok := w.resources.types[t]
	if !ok {
		return nil, false
	}
	return w.resources.items[id].(*T), true
}

// RemoveResource uninstalls the World's singleton of type T, if any.
func RemoveResource[T any](w *World) {
	t := reflect.TypeOf((*T)(nil))
	if id, ok := w.resources.types[t]; ok {
		w.resources.remove(id)
	}
}

package ecs

import (
	"reflect"
	"unsafe"
)

// TypeInfo describes one registered component type.
type TypeInfo struct {
	ID    ComponentTypeID
	Type  reflect.Type
	Size  uint16
	Align uint16
}

// TypeRegistry assigns stable, World-scoped IDs to component types in
// registration order. It is owned by a single World rather than kept
// as a package-level global, so that two Worlds in the same process
// never have their component IDs collide or interfere with each
// other's registration order.
type TypeRegistry struct {
	infos    []TypeInfo
	typeToID map[reflect.Type]ComponentTypeID
}

func newTypeRegistry() TypeRegistry {
	var e Entity
	et := reflect.TypeOf(e)
	tr := TypeRegistry{
		infos:    make([]TypeInfo, 0, 16),
		typeToID: make(map[reflect.Type]ComponentTypeID, 16),
	}
	tr.infos = append(tr.infos, TypeInfo{
		ID:    entityTypeID,
		Type:  et,
		Size:  uint16(unsafe.Sizeof(e)),
		Align: uint16(unsafe.Alignof(e)),
	})
	tr.typeToID[et] = entityTypeID
	return tr
}

// register returns t's ComponentTypeID, assigning a new one in
// registration order if t hasn't been seen before.
func (tr *TypeRegistry) register(t reflect.Type) ComponentTypeID {
	if id, ok := tr.typeToID[t]; ok {
		return id
	}
	if len(tr.infos) >= MaxComponentTypes {
		panic("ecs: too many component types")
	}
	id := ComponentTypeID(len(tr.infos))
	tr.infos = append(tr.infos, TypeInfo{
		ID:    id,
		Type:  t,
		Size:  uint16(t.Size()),
		Align: uint16(t.Align()),
	})
	tr.typeToID[t] = id
	return id
}

func (tr *TypeRegistry) info(id ComponentTypeID) TypeInfo {
	return tr.infos[id]
}

// RegisterComponent registers T with w, returning its ComponentTypeID.
// Safe to call more than once for the same type.
func RegisterComponent[T any](w *World) ComponentTypeID {
	return w.registry.register(reflect.TypeOf((*T)(nil)).Elem())
}

// ComponentTypeIDOf returns T's ComponentTypeID, panicking if T has
// never been registered with w.
func ComponentTypeIDOf[T any](w *World) ComponentTypeID {
	id, ok := w.registry.typeToID[reflect.TypeOf((*T)(nil)).Elem()]
	if !ok {
		panic("ecs: component type not registered")
	}
	return id
}

// TryComponentTypeIDOf returns T's ComponentTypeID and true, or false
// if T has never been registered with w.
func TryComponentTypeIDOf[T any](w *World) (ComponentTypeID, bool) {
	id, ok := w.registry.typeToID[reflect.TypeOf((*T)(nil)).Elem()]
	return id, ok
}

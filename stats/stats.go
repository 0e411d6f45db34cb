// Package stats reports point-in-time statistics about a World:
// entity pool occupancy, registered component types, and per-archetype
// chunk occupancy, for diagnostics and profiling rather than for any
// behavior the storage engine itself depends on.
package stats

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/leidegre/goecs"
)

// WorldStats reports statistics for a World.
type WorldStats struct {
	Entities       EntityStats
	ComponentCount int
	ComponentTypes []reflect.Type
	Archetypes     []ArchetypeStats
}

// EntityStats reports occupancy of a World's entity pool.
type EntityStats struct {
	Used     int
	Capacity int
	Recycled int
}

// ArchetypeStats reports occupancy of one archetype.
type ArchetypeStats struct {
	Size           int32
	Capacity       int32
	ChunkCount     int32
	Components     int
	ComponentIDs   []ecs.ComponentTypeID
	ComponentTypes []reflect.Type
}

// Collect snapshots w's current statistics.
func Collect(w *ecs.World) WorldStats {
	infos := w.ComponentTypeInfo()
	types := make([]reflect.Type, len(infos))
	for i, info := range infos {
		types[i] = info.Type
	}

	archetypes := w.Archetypes()
	archStats := make([]ArchetypeStats, len(archetypes))
	for i, a := range archetypes {
		ids := a.Types()
		archTypes := make([]reflect.Type, len(ids))
		for j, id := range ids {
			archTypes[j] = infos[id].Type
		}
		archStats[i] = ArchetypeStats{
			Size:           a.Size(),
			Capacity:       a.Capacity(),
			ChunkCount:     a.ChunkCount(),
			Components:     len(ids),
			ComponentIDs:   ids,
			ComponentTypes: archTypes,
		}
	}

	return WorldStats{
		Entities: EntityStats{
			Used:     w.EntitiesUsed(),
			Capacity: w.EntityCapacity(),
			Recycled: w.EntitiesRecycled(),
		},
		ComponentCount: len(infos),
		ComponentTypes: types,
		Archetypes:     archStats,
	}
}

func (s WorldStats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "World -- Components: %d, Archetypes: %d\n", s.ComponentCount, len(s.Archetypes))
	names := make([]string, len(s.ComponentTypes))
	for i, t := range s.ComponentTypes {
		names[i] = t.Name()
	}
	fmt.Fprintf(&b, "  Components: %s\n", strings.Join(names, ", "))
	fmt.Fprint(&b, s.Entities.String())
	for _, a := range s.Archetypes {
		fmt.Fprint(&b, a.String())
	}
	return b.String()
}

func (s EntityStats) String() string {
	return fmt.Sprintf("Entities -- Used: %d, Recycled: %d, Capacity: %d\n", s.Used, s.Recycled, s.Capacity)
}

func (s ArchetypeStats) String() string {
	names := make([]string, len(s.ComponentTypes))
	for i, t := range s.ComponentTypes {
		names[i] = t.Name()
	}
	return fmt.Sprintf(
		"Archetype -- Components: %d, Entities: %d, Capacity: %d, Chunks: %d\n  Components: %s\n",
		s.Components, s.Size, s.Capacity, s.ChunkCount, strings.Join(names, ", "),
	)
}

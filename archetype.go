package ecs

import (
	"sort"
	"unsafe"
)

// archetypeChunkData is the per-archetype table of chunks: one
// growable buffer holding the chunk-pointer array, a change-version
// row per component, and an entity-count array, each addressed by
// chunk slot. The original implementation's buffer-size computation
// summed the chunk-pointer array's size twice; this one does not.
type archetypeChunkData struct {
	buf            []byte
	len            int32
	cap            int32
	componentCount int32
}

func chunkPtrArrayBytes(cap int32) uintptr {
	return uintptr(cap) * unsafe.Sizeof((*Chunk)(nil))
}

func versionRowBytes(cap int32) uintptr {
	return uintptr(cap) * 4
}

func entityCountArrayBytes(cap int32) uintptr {
	return uintptr(cap) * 4
}

// bufferLayout returns the byte offset of each of the three arrays
// within a buffer sized for componentCount components and cap chunk
// slots, plus the total buffer size.
func bufferLayout(componentCount, cap int32) (chunkPtrsOff, versionsOff, countsOff, total uintptr) {
	chunkPtrsOff = 0
	versionsOff = chunkPtrsOff + chunkPtrArrayBytes(cap)
	countsOff = versionsOff + uintptr(componentCount)*versionRowBytes(cap)
	total = countsOff + entityCountArrayBytes(cap)
	return
}

// Len reports how many chunks this archetype currently has.
func (d *archetypeChunkData) Len() int32 { return d.len }

// ChunkPtrArray returns the live chunk-pointer array.
func (d *archetypeChunkData) ChunkPtrArray() []*Chunk {
	if d.cap == 0 {
		return nil
	}
	return unsafe.Slice((**Chunk)(unsafe.Pointer(&d.buf[0])), d.cap)[:d.len]
}

// ChangeVersionArray returns the change-version row for component
// index componentIndex (an index into the archetype's sorted type
// list, not a ComponentTypeID).
func (d *archetypeChunkData) ChangeVersionArray(componentIndex int32) []uint32 {
	_, versionsOff, _, _ := bufferLayout(d.componentCount, d.cap)
	off := versionsOff + uintptr(componentIndex)*versionRowBytes(d.cap)
	return unsafe.Slice((*uint32)(unsafe.Pointer(&d.buf[off])), d.cap)[:d.len]
}

// EntityCountArray returns the live entity-count array.
func (d *archetypeChunkData) EntityCountArray() []int32 {
	_, _, countsOff, _ := bufferLayout(d.componentCount, d.cap)
	return unsafe.Slice((*int32)(unsafe.Pointer(&d.buf[countsOff])), d.cap)[:d.len]
}

// Add appends chunk to the table, stamping changeVersion into every
// component's row for its slot, and returns its chunk-slot index.
func (d *archetypeChunkData) Add(chunk *Chunk, changeVersion uint32) int32 {
	if d.len >= d.cap {
		newCap := d.cap * 2
		if newCap == 0 {
			newCap = 1
		}
		d.resize(newCap)
	}
	idx := d.len
	chunkPtrs := unsafe.Slice((**Chunk)(unsafe.Pointer(&d.buf[0])), d.cap)
	chunkPtrs[idx] = chunk
	_, versionsOff, countsOff, _ := bufferLayout(d.componentCount, d.cap)
	for ci := int32(0); ci < d.componentCount; ci++ {
		row := unsafe.Slice((*uint32)(unsafe.Pointer(&d.buf[versionsOff+uintptr(ci)*versionRowBytes(d.cap)])), d.cap)
		row[idx] = changeVersion
	}
	counts := unsafe.Slice((*int32)(unsafe.Pointer(&d.buf[countsOff])), d.cap)
	counts[idx] = 0
	d.len++
	chunk.header.listIndex = idx
	return idx
}

// RemoveAtSwapBack removes chunk slot index by swapping the last slot
// into its place and updating the moved chunk's listIndex.
func (d *archetypeChunkData) RemoveAtSwapBack(index int32) {
	last := d.len - 1
	if index != last {
		chunkPtrs := unsafe.Slice((**Chunk)(unsafe.Pointer(&d.buf[0])), d.cap)
		chunkPtrs[index] = chunkPtrs[last]
		chunkPtrs[index].header.listIndex = index
		_, versionsOff, countsOff, _ := bufferLayout(d.componentCount, d.cap)
		for ci := int32(0); ci < d.componentCount; ci++ {
			row := unsafe.Slice((*uint32)(unsafe.Pointer(&d.buf[versionsOff+uintptr(ci)*versionRowBytes(d.cap)])), d.cap)
			row[index] = row[last]
		}
		counts := unsafe.Slice((*int32)(unsafe.Pointer(&d.buf[countsOff])), d.cap)
		counts[index] = counts[last]
	}
	d.len--
}

func (d *archetypeChunkData) resize(newCap int32) {
	_, newVersionsOff, newCountsOff, total := bufferLayout(d.componentCount, newCap)
	newBuf := make([]byte, total)
	if d.cap > 0 {
		_, oldVersionsOff, oldCountsOff, _ := bufferLayout(d.componentCount, d.cap)

		oldChunkPtrs := unsafe.Slice((**Chunk)(unsafe.Pointer(&d.buf[0])), d.cap)
		newChunkPtrs := unsafe.Slice((**Chunk)(unsafe.Pointer(&newBuf[0])), newCap)
		copy(newChunkPtrs, oldChunkPtrs[:d.len])

		for ci := int32(0); ci < d.componentCount; ci++ {
			oldRow := unsafe.Slice((*uint32)(unsafe.Pointer(&d.buf[oldVersionsOff+uintptr(ci)*versionRowBytes(d.cap)])), d.cap)
			newRow := unsafe.Slice((*uint32)(unsafe.Pointer(&newBuf[newVersionsOff+uintptr(ci)*versionRowBytes(newCap)])), newCap)
			copy(newRow, oldRow[:d.len])
		}

		oldCounts := unsafe.Slice((*int32)(unsafe.Pointer(&d.buf[oldCountsOff])), d.cap)
		newCounts := unsafe.Slice((*int32)(unsafe.Pointer(&newBuf[newCountsOff])), newCap)
		copy(newCounts, oldCounts[:d.len])
	}
	d.buf = newBuf
	d.cap = newCap
}

// Archetype is the storage for every entity that has exactly one
// fixed set of component types. Its identity is its canonical,
// sorted, deduplicated component-id list (Entity's id always first).
type Archetype struct {
	index                  int32
	types                  []ComponentTypeID
	sizes                  []uint16
	offsets                []uint32
	entityCapacityPerChunk int32
	entityCount            int32
	chunkData              archetypeChunkData
	chunksWithEmptySlots   List[*Chunk]
	matchingQueries        []*EntityQuery

	addTransition    map[ComponentTypeID]*Archetype
	removeTransition map[ComponentTypeID]*Archetype
}

// Types returns the archetype's canonical, sorted component-id list.
func (a *Archetype) Types() []ComponentTypeID { return a.types }

// Size reports how many entities currently live in this archetype,
// across every one of its chunks.
func (a *Archetype) Size() int32 { return a.entityCount }

// removeFromFreeList takes c off a's chunks-with-empty-slots list,
// fixing up the freeListIndex of whichever chunk got swapped into its
// place.
func (a *Archetype) removeFromFreeList(c *Chunk) {
	idx := int(c.header.freeListIndex)
	if a.chunksWithEmptySlots.RemoveAtSwapBack(idx) {
		a.chunksWithEmptySlots.At(idx).header.freeListIndex = int32(idx)
	}
}

// addToFreeList puts c back on a's chunks-with-empty-slots list.
func (a *Archetype) addToFreeList(c *Chunk) {
	c.header.freeListIndex = int32(a.chunksWithEmptySlots.Add(c))
}

// Capacity reports the total entity slots available across every
// chunk this archetype currently owns.
func (a *Archetype) Capacity() int32 {
	return a.chunkData.Len() * a.entityCapacityPerChunk
}

// ChunkCount reports how many chunks this archetype currently owns.
func (a *Archetype) ChunkCount() int32 {
	return a.chunkData.Len()
}

// columnIndex returns the index of id within a.types, or -1.
func (a *Archetype) columnIndex(id ComponentTypeID) int {
	// types is sorted and short (<= MaxComponentTypes); linear scan
	// matches the merge-join style the rest of this package uses.
	for i, t := range a.types {
		if t == id {
			return i
		}
	}
	return -1
}

// canonicalIDs sorts and deduplicates ids, always including Entity's
// reserved id at position 0.
func canonicalIDs(ids []ComponentTypeID) []ComponentTypeID {
	out := make([]ComponentTypeID, 0, len(ids)+1)
	out = append(out, entityTypeID)
	out = append(out, ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	dedup := out[:1]
	for _, id := range out[1:] {
		if dedup[len(dedup)-1] != id {
			dedup = append(dedup, id)
		}
	}
	return dedup
}

func idsEqual(a, b []ComponentTypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func hashIDs(ids []ComponentTypeID) uint32 {
	if len(ids) == 0 {
		return hashBytes(nil)
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&ids[0])), len(ids)*int(unsafe.Sizeof(ids[0])))
	return hashBytes(b)
}

// chunkColumnAlign is the alignment every column's byte span is rounded
// up to within a chunk buffer, matching spec.md's 64-byte cache-line
// layout (offset[0]=0, offset[i+1] = align_up(offset[i] + size[i]*cap, 64)).
const chunkColumnAlign = 64

func alignUp32(n uint32, align uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}

// layoutSize returns the total chunk-buffer bytes consumed by laying
// out componentCount columns of the given per-entity sizes at the
// given per-chunk entity capacity, each column's span rounded up to
// chunkColumnAlign.
func layoutSize(sizes []uint16, cap int32) uint32 {
	var total uint32
	for _, size := range sizes {
		total += alignUp32(uint32(size)*uint32(cap), chunkColumnAlign)
	}
	return total
}

func buildArchetype(world *World, index int32, ids []ComponentTypeID) *Archetype {
	a := &Archetype{index: index}
	a.types = AllocArray[ComponentTypeID](world.metaAllocator, len(ids))
	copy(a.types, ids)
	a.sizes = AllocArray[uint16](world.metaAllocator, len(ids))
	a.offsets = AllocArray[uint32](world.metaAllocator, len(ids))

	var sizeSum uint32
	for i, id := range ids {
		info := world.registry.info(id)
		a.sizes[i] = info.Size
		sizeSum += uint32(info.Size)
	}
	if sizeSum == 0 {
		sizeSum = 1
	}

	// Start from the naive per-entity-row estimate, then shrink until
	// the 64-byte-aligned per-column layout actually fits, per spec.md
	// §4.5 step 4.
	cap := int32(ChunkBufferSize) / int32(sizeSum)
	if cap < 1 {
		cap = 1
	}
	for cap > 1 && layoutSize(a.sizes, cap) > ChunkBufferSize {
		cap--
	}
	if layoutSize(a.sizes, cap) > ChunkBufferSize {
		panic("ecs: archetype layout does not fit in one chunk")
	}
	maxCap := ChunkBufferSize / int32(unsafe.Sizeof(Entity{}))
	if cap > maxCap {
		cap = maxCap
	}
	a.entityCapacityPerChunk = cap

	var off uint32
	for i, size := range a.sizes {
		a.offsets[i] = off
		off += alignUp32(uint32(size)*uint32(cap), chunkColumnAlign)
	}

	a.chunkData.componentCount = int32(len(ids))
	a.chunksWithEmptySlots = NewList[*Chunk](0)
	return a
}

// archetypeListMap interns archetypes by the XXH32 hash of their
// canonical component-id list, using a HashIndex as a caller-managed
// multimap over the real archetype list (a HashIndex never resolves
// collisions itself).
type archetypeListMap struct {
	index      HashIndex[int32]
	archetypes []*Archetype
}

func (m *archetypeListMap) tryGet(hash uint32, ids []ComponentTypeID) (*Archetype, bool) {
	scan := m.index.Scan(hash)
	for scan.Next() {
		a := m.archetypes[scan.Value()]
		if idsEqual(a.types, ids) {
			return a, true
		}
	}
	return nil, false
}

func (m *archetypeListMap) add(hash uint32, a *Archetype) {
	m.archetypes = append(m.archetypes, a)
	m.index.Add(hash, int32(len(m.archetypes)-1))
}
